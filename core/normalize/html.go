// Package normalize turns raw provider payloads (HTML pages, irregular
// JSON shapes) into uniform hit records of clean citation-addressed text.
// Provider markup and field names are versioned-at-runtime: every
// extraction here is an ordered chain of fallbacks, and an unexpected
// shape degrades to the next path instead of failing.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Hit is the normalized unit of output: a display reference and clean text.
type Hit struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	blankLines   = regexp.MustCompile(`\n[ \t]*\n+`)
	digitsRe     = regexp.MustCompile(`\d+`)
)

// PassageLines extracts verse lines from a provider passage page.
// Structural pass first: every verse-text container becomes one line,
// prefixed with "<n>. " from its verse-number marker when the text does
// not already carry it. Pages without the known markup fall back to a
// global strip, which never returns markup but may keep stray
// boilerplate (the cleaning pass deals with that).
func PassageLines(src string) []string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil
	}

	blocks := findAll(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Div && hasClass(n, "verse-text")
	})
	if len(blocks) == 0 {
		return splitLines(collapse(textContent(doc)))
	}

	var lines []string
	for _, b := range blocks {
		txt := collapse(textContent(b))
		txt = strings.TrimSpace(strings.ReplaceAll(txt, "\n", " "))
		if txt == "" {
			continue
		}
		if num := verseNumber(b); num != "" {
			prefix := num + ". "
			if !strings.HasPrefix(txt, prefix) {
				txt = prefix + txt
			}
		}
		lines = append(lines, txt)
	}
	if len(lines) == 0 {
		return splitLines(collapse(textContent(doc)))
	}
	return lines
}

// PassageText is PassageLines joined into one newline-separated block.
func PassageText(src string) string {
	return strings.Join(PassageLines(src), "\n")
}

// StripTags reduces an HTML fragment to its text: style/script content
// dropped, <br> converted to newlines, entities decoded, repeated blank
// lines and runs of horizontal whitespace collapsed.
func StripTags(src string) string {
	if !strings.ContainsAny(src, "<&") {
		return strings.TrimSpace(collapse(src))
	}
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return strings.TrimSpace(src)
	}
	return collapse(textContent(doc))
}

// verseNumber finds the verse-number marker inside a verse block and
// returns its first run of digits.
func verseNumber(block *html.Node) string {
	spans := findAll(block, func(n *html.Node) bool {
		return n.DataAtom == atom.Span && hasClass(n, "verse-number")
	})
	for _, s := range spans {
		if m := digitsRe.FindString(textContent(s)); m != "" {
			return m
		}
	}
	return ""
}

// textContent walks the subtree collecting text nodes. Style and script
// subtrees are skipped; <br> and block-level boundaries become newlines.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Style, atom.Script, atom.Head:
				return
			case atom.Br:
				sb.WriteByte('\n')
				return
			case atom.P, atom.Div, atom.Li, atom.Tr, atom.Section, atom.Article,
				atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				sb.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collapse squeezes horizontal whitespace runs and repeated blank lines.
func collapse(s string) string {
	s = horizontalWS.ReplaceAllString(s, " ")
	s = blankLines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
			// Verse containers are not nested; no need to descend further.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, f := range strings.Fields(a.Val) {
			if f == class {
				return true
			}
		}
	}
	return false
}
