package citation

import (
	"errors"
	"testing"

	werrors "github.com/biblianet/werset/core/errors"
)

func TestResolve(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name  string
		input string
		want  Citation
	}{
		{
			name:  "simple reference",
			input: "J 3:16",
			want:  Citation{Book: "jan", Chapter: 3, VerseStart: 16},
		},
		{
			name:  "lowercase book",
			input: "j 3:16",
			want:  Citation{Book: "jan", Chapter: 3, VerseStart: 16},
		},
		{
			name:  "verse range",
			input: "Obj 21:3-5",
			want:  Citation{Book: "obj", Chapter: 21, VerseStart: 3, VerseEnd: 5},
		},
		{
			name:  "old testament",
			input: "Rdz 1:1",
			want:  Citation{Book: "rdz", Chapter: 1, VerseStart: 1},
		},
		{
			name:  "polish diacritics in abbreviation",
			input: "Łk 15:11",
			want:  Citation{Book: "luk", Chapter: 15, VerseStart: 11},
		},
		{
			name:  "ordinal book compact",
			input: "1Kor 13:4",
			want:  Citation{Book: "1kor", Chapter: 13, VerseStart: 4},
		},
		{
			name:  "ordinal book spaced",
			input: "1 Kor 13:4-7",
			want:  Citation{Book: "1kor", Chapter: 13, VerseStart: 4, VerseEnd: 7},
		},
		{
			name:  "roman ordinal alias",
			input: "II Kor 5:17",
			want:  Citation{Book: "2kor", Chapter: 5, VerseStart: 17},
		},
		{
			name:  "full book name alias",
			input: "apokalipsa 1:8",
			want:  Citation{Book: "obj", Chapter: 1, VerseStart: 8},
		},
		{
			name:  "surrounding whitespace",
			input: "  Ps 23:1  ",
			want:  Citation{Book: "ps", Chapter: 23, VerseStart: 1},
		},
		{
			name:  "unknown book passes through as slug",
			input: "Zzz 1:2",
			want:  Citation{Book: "zzz", Chapter: 1, VerseStart: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.input)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"missing colon", "J 3 16"},
		{"missing verse", "J 3:"},
		{"missing book", "3:16"},
		{"non-numeric chapter", "J x:16"},
		{"range end before start", "J 3:16-2"},
		{"zero verse", "J 3:0"},
		{"trailing garbage", "J 3:16 extra 99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.input)
			if err == nil {
				t.Fatalf("Resolve(%q) succeeded, want error", tt.input)
			}
			if !errors.Is(err, werrors.ErrParse) {
				t.Errorf("Resolve(%q) error %v does not unwrap to ErrParse", tt.input, err)
			}
		})
	}
}

func TestResolveRoundTrip(t *testing.T) {
	r := NewResolver()

	citations := []Citation{
		{Book: "jan", Chapter: 3, VerseStart: 16},
		{Book: "rdz", Chapter: 1, VerseStart: 1},
		{Book: "obj", Chapter: 21, VerseStart: 3, VerseEnd: 5},
		{Book: "1kor", Chapter: 13, VerseStart: 4, VerseEnd: 7},
		{Book: "ps", Chapter: 119, VerseStart: 105},
	}

	for _, c := range citations {
		got, err := r.Resolve(c.String())
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", c.String(), err)
			continue
		}
		if got != c {
			t.Errorf("round trip of %q: got %+v, want %+v", c.String(), got, c)
		}
	}
}

func TestAllAliasesResolve(t *testing.T) {
	r := NewResolver()

	for alias, slug := range r.aliases {
		c, err := r.Resolve(alias + " 1:1")
		if err != nil {
			t.Errorf("alias %q failed to resolve: %v", alias, err)
			continue
		}
		if c.Book != slug {
			t.Errorf("alias %q resolved to %q, want %q", alias, c.Book, slug)
		}
	}
}

func TestSlugVariants(t *testing.T) {
	r := NewResolver()

	got := r.SlugVariants("jan")
	want := []string{"jan", "ewjan", "joan"}
	if len(got) != len(want) {
		t.Fatalf("SlugVariants(jan) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SlugVariants(jan)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Books without a variant table entry fall back to themselves.
	got = r.SlugVariants("rdz")
	if len(got) != 1 || got[0] != "rdz" {
		t.Errorf("SlugVariants(rdz) = %v, want [rdz]", got)
	}
}

func TestMerge(t *testing.T) {
	r := NewResolver()
	r.Merge(
		map[string]string{"Genesis": "rdz", "objawienie": "obj"},
		map[string][]string{"rdz": {"rdz", "gen"}},
	)

	c, err := r.Resolve("genesis 1:1")
	if err != nil {
		t.Fatalf("merged alias failed: %v", err)
	}
	if c.Book != "rdz" {
		t.Errorf("Book = %q, want rdz", c.Book)
	}

	v := r.SlugVariants("rdz")
	if len(v) != 2 || v[1] != "gen" {
		t.Errorf("merged variants = %v, want [rdz gen]", v)
	}
}

func TestVerseSpec(t *testing.T) {
	if got := (Citation{VerseStart: 16}).VerseSpec(); got != "16" {
		t.Errorf("VerseSpec = %q, want 16", got)
	}
	if got := (Citation{VerseStart: 3, VerseEnd: 5}).VerseSpec(); got != "3-5" {
		t.Errorf("VerseSpec = %q, want 3-5", got)
	}
}
