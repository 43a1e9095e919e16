// Package highlight locates query substrings inside verse text and wraps
// the matches in emphasis markers. For scripts that layer optional
// combining marks on base characters (Hebrew vowel points), matching
// ignores the marks while the emphasized output keeps them.
package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// marker is the emphasis delimiter inserted around matches.
const marker = "**"

// stripped is a projection of a string with all combining marks removed,
// plus an index map from each projected rune position back to the rune
// position in the original string.
type stripped struct {
	runes []rune
	// origin[i] is the index in the original rune slice of stripped rune i.
	origin []int
	// total is the rune length of the original string.
	total int
}

// strip decomposes the string (NFD) and drops every combining mark,
// recording where each surviving rune came from in the original string.
// Each original rune decomposes to a base plus zero or more marks, so
// every surviving base maps to the original rune that produced it.
func strip(s string) stripped {
	orig := []rune(s)
	st := stripped{total: len(orig)}
	for i, r := range orig {
		for _, d := range norm.NFD.String(string(r)) {
			if unicode.Is(unicode.Mn, d) {
				continue
			}
			st.runes = append(st.runes, d)
			st.origin = append(st.origin, i)
		}
	}
	return st
}

// runeIndex finds the first occurrence of needle in hay at or after from.
func runeIndex(hay, needle []rune, from int) int {
	for i := from; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Mark emphasizes every occurrence of needle in haystack, ignoring
// combining marks on both sides. Matches are found left to right and do
// not overlap. When needle is empty or absent, haystack is returned
// unchanged.
func Mark(haystack, needle string) string {
	hs := strip(haystack)
	ns := strip(needle)
	if len(ns.runes) == 0 || len(hs.runes) == 0 {
		return haystack
	}

	type span struct{ start, end int } // original rune coordinates, [start, end)
	var spans []span

	from := 0
	for {
		idx := runeIndex(hs.runes, ns.runes, from)
		if idx < 0 {
			break
		}
		end := idx + len(ns.runes)

		// Translate through the index map to original coordinates. The
		// match end extends to the start of the next stripped rune (or
		// the end of the string) so trailing marks stay inside the span.
		oStart := hs.origin[idx]
		oEnd := hs.total
		if end < len(hs.origin) {
			oEnd = hs.origin[end]
		}
		spans = append(spans, span{oStart, oEnd})
		from = end
	}
	if len(spans) == 0 {
		return haystack
	}

	orig := []rune(haystack)
	var sb strings.Builder
	prev := 0
	for _, sp := range spans {
		sb.WriteString(string(orig[prev:sp.start]))
		sb.WriteString(marker)
		sb.WriteString(string(orig[sp.start:sp.end]))
		sb.WriteString(marker)
		prev = sp.end
	}
	sb.WriteString(string(orig[prev:]))
	return sb.String()
}

// MarkWords emphasizes each whitespace-delimited word of phrase in
// haystack, case-insensitively. Words are applied longest first so that
// emphasizing a short word cannot pre-empt a longer word containing it.
// A word that fails to compile as a pattern is skipped rather than
// aborting the whole call.
func MarkWords(haystack, phrase string) string {
	if haystack == "" || strings.TrimSpace(phrase) == "" {
		return haystack
	}

	words := strings.Fields(phrase)
	sort.SliceStable(words, func(i, j int) bool {
		return len(words[i]) > len(words[j])
	})

	for _, w := range words {
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(w))
		if err != nil {
			continue
		}
		haystack = re.ReplaceAllString(haystack, marker+"$0"+marker)
	}
	return haystack
}
