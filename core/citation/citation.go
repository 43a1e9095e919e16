// Package citation parses human-typed scripture references into canonical
// (book, chapter, verse-range) citations, resolving book abbreviations and
// localized aliases to provider slugs.
package citation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/biblianet/werset/core/errors"
)

// Citation is a canonical scripture address.
type Citation struct {
	// Book is the canonical lowercase book identifier (e.g., "jan", "rdz", "1kor").
	Book string `json:"book"`

	// Chapter is the chapter number (1-indexed).
	Chapter int `json:"chapter"`

	// VerseStart is the first verse of the range (1-indexed).
	VerseStart int `json:"verse_start"`

	// VerseEnd is the last verse for ranges (0 for single-verse citations).
	VerseEnd int `json:"verse_end,omitempty"`
}

// refGrammar is the participle grammar for user-typed references.
// Examples: "J 3:16", "Rdz 1:1", "Obj 21:3-5", "1 Kor 13:4", "2Tm 1:7"
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Ordinal   *string    `@Int?`
	BookWords []string   `@Word+`
	Chapter   int        `@Int`
	Verses    versePart  `":" @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Start int  `@Int`
	End   *int `( "-" @Int )?`
}

// refLexer defines the lexer for user-typed references.
// Word covers Polish letters so that "Łk" and "Kpł" lex as single tokens.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[\p{L}][\p{L}.]*`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// refParser is the participle parser for user-typed references.
var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Resolver maps book surface forms to canonical slugs and expands each
// slug into its provider variants. The built-in tables cover the Polish
// abbreviations the upstream provider understands; both tables can be
// extended at runtime via Merge.
type Resolver struct {
	aliases  map[string]string
	variants map[string][]string
}

// NewResolver returns a Resolver loaded with the built-in alias and
// slug-variant tables.
func NewResolver() *Resolver {
	r := &Resolver{
		aliases:  make(map[string]string, len(primaryBookSlug)+len(extraAliases)),
		variants: make(map[string][]string, len(slugVariants)),
	}
	for k, v := range primaryBookSlug {
		r.aliases[strings.ToLower(k)] = v
	}
	for k, v := range extraAliases {
		r.aliases[k] = v
	}
	for k, v := range slugVariants {
		r.variants[k] = append([]string(nil), v...)
	}
	return r
}

// Merge overlays additional aliases and slug variants onto the built-in
// tables. Alias keys are lower-cased; variant lists replace existing ones
// wholesale so a config overlay can reorder candidates.
func (r *Resolver) Merge(aliases map[string]string, variants map[string][]string) {
	for k, v := range aliases {
		r.aliases[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(v)
	}
	for k, v := range variants {
		r.variants[strings.ToLower(k)] = append([]string(nil), v...)
	}
}

// Resolve parses a reference like "J 3:16" or "Obj 21:3-5" into a Citation.
// Book lookup is case-insensitive; an unknown book token is passed through
// lower-cased as the slug, so not-yet-aliased spellings still reach the
// provider (and surface as not-found there if bogus).
func (r *Resolver) Resolve(raw string) (Citation, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Citation{}, errors.NewParse(raw, "empty reference")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return Citation{}, &errors.ParseError{
			Input:   raw,
			Message: "expected <book> <chapter>:<verse>[-<verse>]",
			Err:     err,
		}
	}

	if parsed.Chapter < 1 {
		return Citation{}, errors.NewParse(raw, "chapter must be positive")
	}
	if parsed.Verses.Start < 1 {
		return Citation{}, errors.NewParse(raw, "verse must be positive")
	}

	c := Citation{
		Book:       r.lookupBook(parsed.Ordinal, parsed.BookWords),
		Chapter:    parsed.Chapter,
		VerseStart: parsed.Verses.Start,
	}
	if parsed.Verses.End != nil {
		c.VerseEnd = *parsed.Verses.End
		if c.VerseEnd < c.VerseStart {
			return Citation{}, errors.NewParse(raw, "verse range end before start")
		}
	}
	return c, nil
}

// lookupBook resolves the book token against the alias table. Ordinal
// books are tried both spaced ("1 kor") and compact ("1kor") since the
// alias table carries both historic spellings.
func (r *Resolver) lookupBook(ordinal *string, words []string) string {
	joined := strings.ToLower(strings.Join(words, " "))
	keys := []string{joined}
	if ordinal != nil {
		keys = []string{
			*ordinal + " " + joined,
			*ordinal + joined,
		}
	}
	for _, k := range keys {
		if slug, ok := r.aliases[k]; ok {
			return slug
		}
	}
	// Fallback: the token itself, compacted, as the slug.
	if ordinal != nil {
		return *ordinal + strings.ReplaceAll(joined, " ", "")
	}
	return strings.ReplaceAll(joined, " ", "")
}

// SlugVariants returns the ordered candidate slugs for a resolved book:
// the canonical slug first, then historically-seen alternates. The
// upstream provider has used inconsistent slugs for the same book over
// time, so a 404 on the canonical slug is not proof of absence.
func (r *Resolver) SlugVariants(book string) []string {
	if v, ok := r.variants[book]; ok {
		return append([]string(nil), v...)
	}
	return []string{book}
}

// VerseSpec returns the verse part of the citation as the provider
// expects it in URLs: "16" or "3-5".
func (c Citation) VerseSpec() string {
	if c.VerseEnd > 0 {
		return strconv.Itoa(c.VerseStart) + "-" + strconv.Itoa(c.VerseEnd)
	}
	return strconv.Itoa(c.VerseStart)
}

// String formats the citation canonically: "<book> <chapter>:<verse[-verse]>".
// The output round-trips through Resolve.
func (c Citation) String() string {
	return fmt.Sprintf("%s %d:%s", c.Book, c.Chapter, c.VerseSpec())
}
