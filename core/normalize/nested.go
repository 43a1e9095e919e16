package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// The provider has been seen returning hit text as a STRING containing a
// serialized list of verse records, python-style quoting included:
//
//	"[{'verse': 1, 'text': 'Foo'}, {'verse': 2, 'text': 'Bar'}]"
//
// nestedText recovers the verse texts from such strings. A small
// recursive-descent parser handles the bounded grammar (lists, dicts,
// single/double-quoted strings, numbers, bare words); if structural
// parsing fails, a regex sweep of "text": "..." occurrences is the last
// resort. No dynamic evaluation of the untrusted input ever happens.
func nestedText(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
		return "", false
	}

	p := &literalParser{src: trimmed}
	v, err := p.parseValue()
	if err == nil && p.atEnd() {
		if texts := collectTexts(v); len(texts) > 0 {
			return strings.Join(texts, " "), true
		}
	}
	return regexTexts(trimmed)
}

var textFieldRe = regexp.MustCompile(`["']text["']\s*:\s*("(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*')`)

// regexTexts extracts every quoted value following a "text": key.
func regexTexts(s string) (string, bool) {
	matches := textFieldRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return "", false
	}
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		if t := unquoteLiteral(m[1]); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return "", false
	}
	return strings.Join(texts, " "), true
}

// collectTexts gathers, in order, every string stored under a "text" key
// anywhere in the parsed structure.
func collectTexts(v any) []string {
	var out []string
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			out = append(out, collectTexts(e)...)
		}
	case map[string]any:
		if s, ok := t["text"].(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// literalParser is a recursive-descent parser for python/JSON-style
// literals: lists, dicts, quoted strings, numbers, and the constants
// true/false/null (and their python spellings).
type literalParser struct {
	src string
	pos int
}

type literalError struct{ msg string }

func (e *literalError) Error() string { return "literal parse: " + e.msg }

func (p *literalParser) parseValue() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, &literalError{"unexpected end of input"}
	}
	switch c := p.src[p.pos]; {
	case c == '[':
		return p.parseList()
	case c == '{':
		return p.parseDict()
	case c == '\'' || c == '"':
		return p.parseString()
	default:
		return p.parseScalar()
	}
}

func (p *literalParser) parseList() (any, error) {
	p.pos++ // consume '['
	var out []any
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return out, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return out, nil
		default:
			return nil, &literalError{"expected ',' or ']' in list"}
		}
	}
}

func (p *literalParser) parseDict() (any, error) {
	p.pos++ // consume '{'
	out := make(map[string]any)
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return out, nil
	}
	for {
		p.skipSpace()
		if c := p.peek(); c != '\'' && c != '"' {
			return nil, &literalError{"expected quoted dict key"}
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, &literalError{"expected ':' after dict key"}
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out[key] = v
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return out, nil
		default:
			return nil, &literalError{"expected ',' or '}' in dict"}
		}
	}
}

func (p *literalParser) parseString() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", &literalError{"dangling escape"}
			}
			next := p.src[p.pos+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(next)
			}
			p.pos += 2
		case quote:
			p.pos++
			return sb.String(), nil
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			sb.WriteRune(r)
			p.pos += size
		}
	}
	return "", &literalError{"unterminated string"}
}

// parseScalar consumes numbers and bare constants. The values are never
// used for anything but structure, so they are kept as raw strings.
func (p *literalParser) parseScalar() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == ']' || c == '}' || c == ':' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return nil, &literalError{"unexpected character"}
	}
	return p.src[start:p.pos], nil
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) atEnd() bool {
	p.skipSpace()
	return p.pos >= len(p.src)
}

// unquoteLiteral strips the surrounding quotes from a regex-captured
// literal and resolves simple escapes.
func unquoteLiteral(s string) string {
	if len(s) < 2 {
		return s
	}
	body := s[1 : len(s)-1]
	body = strings.ReplaceAll(body, `\'`, `'`)
	body = strings.ReplaceAll(body, `\"`, `"`)
	body = strings.ReplaceAll(body, `\\`, `\`)
	return strings.TrimSpace(body)
}
