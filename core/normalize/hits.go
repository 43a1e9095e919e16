package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Script selects the alphabet a valid hit text must contain at least one
// letter of. Snippets that fail the check are usually markup residue or
// numeric noise, not verse text.
type Script int

const (
	// Latin covers the Polish translations (Latin letters with diacritics).
	Latin Script = iota
	// Hebrew covers original-language search hits.
	Hebrew
)

// minTextLen is the minimum length (in runes) for a hit text to count as
// valid verse text.
const minTextLen = 3

func (s Script) containsLetter(text string) bool {
	for _, r := range text {
		switch s {
		case Hebrew:
			if unicode.Is(unicode.Hebrew, r) {
				return true
			}
		default:
			if unicode.IsLetter(r) {
				return true
			}
		}
	}
	return false
}

// ValidText reports whether text passes the minimum-validity check for
// the script: long enough and carrying at least one letter of it.
func ValidText(text string, script Script) bool {
	t := strings.TrimSpace(text)
	return len([]rune(t)) >= minTextLen && script.containsLetter(t)
}

// Meta is the pagination bookkeeping attached to a search response.
// When the provider does not report totals, the range is estimated from
// the request parameters and the emitted hit count, keeping
// RangeEnd-RangeStart+1 == len(hits).
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	RangeStart int `json:"range_start"`
	RangeEnd   int `json:"range_end"`
}

// Field-name synonym tables. The provider has renamed every one of these
// across revisions; lookups walk the list in order and take the first
// present, non-empty value.
var (
	listKeys      = []string{"results", "hits", "data", "items"}
	refKeys       = []string{"ref", "reference", "miejsce", "title"}
	bookKeys      = []string{"book", "ksiega", "nazwa_ksiegi"}
	bookShortKeys = []string{"book_short", "skrot", "abbreviation", "abbr", "short", "short_name"}
	bookNameKeys  = []string{"abbreviation", "abbr", "short", "short_name", "skrot", "name", "nazwa"}
	chapterKeys   = []string{"chapter", "rozdzial"}
	verseKeys     = []string{"verse", "werset", "verses", "wersety", "range"}
	textKeys      = []string{"text", "snippet", "content", "fragment", "tekst", "tresc"}
	totalKeys     = []string{"total", "count", "total_results", "razem", "wszystkich"}

	firstIntRe = regexp.MustCompile(`\d+`)
)

// refFieldKeys is every key recognized as reference metadata; the
// longest-string text fallback must not pick one of these up.
var refFieldKeys = func() map[string]bool {
	m := make(map[string]bool)
	for _, ks := range [][]string{refKeys, bookKeys, bookShortKeys, chapterKeys, verseKeys} {
		for _, k := range ks {
			m[k] = true
		}
	}
	return m
}()

// SearchHits extracts uniform hit records from a decoded search payload
// of any of the shapes the provider has been seen returning. A hit is
// emitted only when both a well-formed reference and valid text could be
// recovered; partial records are dropped silently, since a malformed
// hit is worse than a missing one.
func SearchHits(payload any, script Script) []Hit {
	var hits []Hit
	for _, rec := range hitList(payload) {
		h, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		ref := hitReference(h)
		text := hitText(h, script)
		if ref == "" || text == "" {
			continue
		}
		hits = append(hits, Hit{Reference: ref, Text: text})
	}
	return hits
}

// SearchMeta reads pagination totals from the payload when present and
// estimates the displayed range otherwise.
func SearchMeta(payload any, page, limit, emitted int) Meta {
	m := Meta{Page: page, Limit: limit}
	if top, ok := payload.(map[string]any); ok {
		for _, k := range totalKeys {
			if n, ok := intField(top, k); ok {
				m.Total = n
				break
			}
		}
	}
	m.RangeStart = (page-1)*limit + 1
	m.RangeEnd = m.RangeStart + emitted - 1
	if m.Total == 0 {
		m.Total = m.RangeEnd
	}
	return m
}

// hitList finds the list of hit records: the payload itself, or the
// first known list-valued key.
func hitList(payload any) []any {
	switch t := payload.(type) {
	case []any:
		return t
	case map[string]any:
		for _, k := range listKeys {
			if l, ok := t[k].([]any); ok {
				return l
			}
		}
	}
	return nil
}

// hitReference recovers the display reference "<BOOK> <ch>:<verse>".
// A ready-made reference field wins; otherwise the reference is composed
// from book + chapter + verse parts, all of which must be present.
func hitReference(h map[string]any) string {
	for _, k := range refKeys {
		if s := stringField(h, k); s != "" {
			return fixVerseSeparator(s)
		}
	}

	book := bookAbbrev(h)
	chapter := scalarField(h, chapterKeys)
	verse := verseField(h)
	if book == "" || chapter == "" || verse == "" {
		return ""
	}
	return fmt.Sprintf("%s %s:%s", strings.ToUpper(book), chapter, verse)
}

// bookAbbrev digs the book display name out of either a flat field or a
// nested book object.
func bookAbbrev(h map[string]any) string {
	for _, k := range bookShortKeys {
		if s := stringField(h, k); s != "" {
			return s
		}
	}
	for _, k := range bookKeys {
		switch v := h[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]any:
			for _, nk := range bookNameKeys {
				if s := stringField(v, nk); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// verseField normalizes the verse part: comma separators become colons
// ("3,4" -> "3:4"), and bracket/brace-looking values are reduced to
// their first embedded integer.
func verseField(h map[string]any) string {
	raw := scalarField(h, verseKeys)
	if raw == "" {
		return ""
	}
	if strings.ContainsAny(raw, "[]{}()") {
		return firstIntRe.FindString(raw)
	}
	return strings.ReplaceAll(raw, ",", ":")
}

// fixVerseSeparator turns "J 3,16" into "J 3:16" for ready-made
// references that use the comma convention.
func fixVerseSeparator(ref string) string {
	if strings.Contains(ref, ",") && !strings.Contains(ref, ":") {
		return strings.ReplaceAll(ref, ",", ":")
	}
	return ref
}

// textExtractors is the ordered chain of typed attempts at recovering
// verse text from a field value. First success wins.
var textExtractors = []func(any) (string, bool){
	extractPlainString,
	extractRecordList,
	extractSingleRecord,
	extractStringified,
}

// hitText recovers the hit's body text. Each known text key is tried
// through the extractor chain; the result must pass the validity check,
// else the longest unrecognized string field is used on the theory that
// an unknown-but-long string field is probably the body.
func hitText(h map[string]any, script Script) string {
	for _, k := range textKeys {
		v, ok := h[k]
		if !ok || v == nil {
			continue
		}
		for _, extract := range textExtractors {
			s, ok := extract(v)
			if !ok {
				continue
			}
			s = strings.TrimSpace(StripTags(s))
			if ValidText(s, script) {
				return s
			}
		}
	}
	return longestStringField(h, script)
}

func extractPlainString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(s)
	// Strings that look like serialized structures belong to
	// extractStringified further down the chain.
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return "", false
	}
	return trimmed, trimmed != ""
}

// extractRecordList joins the text of a {verse, text} record list, as
// returned for multi-verse ranges.
func extractRecordList(v any) (string, bool) {
	list, ok := v.([]any)
	if !ok {
		return "", false
	}
	var parts []string
	for _, e := range list {
		switch rec := e.(type) {
		case map[string]any:
			if s := stringField(rec, "text"); s != "" {
				parts = append(parts, s)
			}
		case string:
			if s := strings.TrimSpace(rec); s != "" {
				parts = append(parts, s)
			}
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}

func extractSingleRecord(v any) (string, bool) {
	rec, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	if s := stringField(rec, "text"); s != "" {
		return s, true
	}
	return "", false
}

// extractStringified handles text values that are themselves serialized
// list/dict structures.
func extractStringified(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return nestedText(s)
}

// longestStringField returns the longest string value that is not a
// known reference field and passes the validity check.
func longestStringField(h map[string]any, script Script) string {
	var best string
	for k, v := range h {
		if refFieldKeys[k] {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(StripTags(s))
		if len(s) > len(best) && ValidText(s, script) {
			best = s
		}
	}
	return best
}

func stringField(h map[string]any, key string) string {
	if s, ok := h[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// scalarField stringifies the first present key: strings trimmed,
// numbers rendered without a fraction.
func scalarField(h map[string]any, keys []string) string {
	for _, k := range keys {
		switch v := h[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.Itoa(int(v))
		}
	}
	return ""
}

func intField(h map[string]any, key string) (int, bool) {
	switch v := h[key].(type) {
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}
