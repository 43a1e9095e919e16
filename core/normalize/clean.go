package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Provider pages and snippets echo metadata into the verse text itself:
// translation banners above the passage, copyright footers, a bare
// "3:16" line repeating the reference, parenthesized verse counters.
// lineExclusions is the ordered list of line-level patterns the cleaning
// pass drops. Order matters only for readability; each line is tested
// against all of them.
var lineExclusions = []*regexp.Regexp{
	// Translation-name banners ("Biblia Warszawska", "Przekład dosłowny", ...).
	regexp.MustCompile(`(?i)^\s*(?:biblia|przek[łl]ad|s[łl]owo nowego|nowe przymierze|uwsp[óo][łl]cze[śs]niona)[\p{L}\s.,()-]*$`),
	// Copyright and licensing lines.
	regexp.MustCompile(`(?i)^.*(?:copyright|©|\(c\)\s|all rights reserved|wszelkie prawa).*$`),
	// Bare chapter:verse echoes, comma separator included.
	regexp.MustCompile(`^\s*\d{1,3}\s*[:,]\s*\d{1,3}(?:\s*[-–]\s*\d{1,3})?\s*$`),
	// Bare parenthesized numbers.
	regexp.MustCompile(`^\s*\(\d+\)\s*$`),
}

// CleanLines drops boilerplate lines from extracted passage text.
func CleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
next:
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		for _, re := range lineExclusions {
			if re.MatchString(l) {
				continue next
			}
		}
		out = append(out, l)
	}
	return out
}

// CleanText applies CleanLines to a newline-separated block.
func CleanText(text string) string {
	return strings.Join(CleanLines(strings.Split(text, "\n")), "\n")
}

// StripVerseEcho removes a leading "<n>. " or "<n>) " echo of the given
// verse number. Used when the reference already carries the number, so
// the text would otherwise display it twice.
func StripVerseEcho(text string, verse int) string {
	if verse <= 0 {
		return text
	}
	n := strconv.Itoa(verse)
	for _, sep := range []string{". ", ") "} {
		if rest, ok := strings.CutPrefix(text, n+sep); ok {
			return strings.TrimSpace(rest)
		}
	}
	return text
}
