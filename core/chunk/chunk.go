// Package chunk packs ordered result lines into size-bounded display blocks.
package chunk

import "strings"

// Chunk is one bounded block of display text. Title and Footer are
// filled in by the caller; Build only guarantees the Body bound.
type Chunk struct {
	Title  string `json:"title,omitempty"`
	Body   string `json:"body"`
	Footer string `json:"footer,omitempty"`
}

// separator joins lines inside a chunk body as paragraphs.
const separator = "\n\n"

// Build greedily packs lines into chunks whose bodies stay within limit
// characters. Lines are never split: a single line longer than limit is
// emitted alone, exceeding the nominal bound, since truncating it would
// corrupt the verse text. Concatenating all chunks' lines reproduces the
// input in order.
func Build(lines []string, limit int) []Chunk {
	var chunks []Chunk
	var buf []string
	size := 0

	flush := func() {
		if len(buf) > 0 {
			chunks = append(chunks, Chunk{Body: strings.Join(buf, separator)})
			buf = nil
			size = 0
		}
	}

	for _, line := range lines {
		added := len(line)
		if len(buf) > 0 {
			added += len(separator)
		}
		if len(buf) > 0 && size+added > limit {
			flush()
			added = len(line)
		}
		buf = append(buf, line)
		size += added
	}
	flush()
	return chunks
}
