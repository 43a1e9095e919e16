package highlight

import (
	"strings"
	"testing"
)

func TestMarkNoOpCases(t *testing.T) {
	if got := Mark("Tak bowiem Bóg", ""); got != "Tak bowiem Bóg" {
		t.Errorf("empty needle changed haystack: %q", got)
	}
	if got := Mark("Tak bowiem Bóg", "nieobecny"); got != "Tak bowiem Bóg" {
		t.Errorf("absent needle changed haystack: %q", got)
	}
	if got := Mark("", "cokolwiek"); got != "" {
		t.Errorf("empty haystack changed: %q", got)
	}
}

func TestMarkExact(t *testing.T) {
	got := Mark("Tak bowiem Bóg umiłował świat", "bowiem")
	want := "Tak **bowiem** Bóg umiłował świat"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMarkIgnoresDiacriticsInHaystack(t *testing.T) {
	// ś and ó decompose to base + combining acute; a mark-free needle
	// must still hit the mark-bearing text, and the emphasized substring
	// must keep its marks.
	got := Mark("na świat przyszedł", "swiat")
	want := "na **świat** przyszedł"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = Mark("Bóg jest miłością", "Bog")
	want = "**Bóg** jest miłością"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMarkIgnoresDiacriticsInNeedle(t *testing.T) {
	got := Mark("na swiat przyszedl", "świat")
	want := "na **swiat** przyszedl"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMarkHebrewVowelPoints(t *testing.T) {
	hay := "וַיֹּאמֶר אֱלֹהִים יְהִי אוֹר"
	got := Mark(hay, "אור")

	if got == hay {
		t.Fatal("pointed text not matched by mark-free needle")
	}
	if !strings.Contains(got, "**") {
		t.Fatalf("no emphasis inserted: %q", got)
	}

	// The emphasized substring, stripped of marks, must equal the needle.
	first := strings.Index(got, "**")
	second := strings.Index(got[first+2:], "**")
	if second < 0 {
		t.Fatalf("unbalanced markers: %q", got)
	}
	emphasized := got[first+2 : first+2+second]
	if s := string(strip(emphasized).runes); s != "אור" {
		t.Errorf("emphasized substring strips to %q, want אור", s)
	}

	// Removing the markers must reproduce the original text.
	if strings.ReplaceAll(got, "**", "") != hay {
		t.Errorf("markers corrupted the text: %q", got)
	}
}

func TestMarkMultipleNonOverlapping(t *testing.T) {
	got := Mark("aba aba aba", "aba")
	want := "**aba** **aba** **aba**"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Overlapping occurrences: each next match starts at or after the
	// previous match's end.
	got = Mark("aaaa", "aa")
	want = "**aa****aa**"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMarkPreservesOriginalText(t *testing.T) {
	hay := "בְּרֵאשִׁית בָּרָא אֱלֹהִים"
	got := Mark(hay, "ברא")
	if strings.ReplaceAll(got, "**", "") != hay {
		t.Errorf("original text not preserved: %q", got)
	}
	if !strings.Contains(got, "**") {
		t.Error("no match found in pointed text")
	}
}

func TestMarkWords(t *testing.T) {
	got := MarkWords("Tak bowiem Bóg umiłował świat", "tak świat")
	want := "**Tak** bowiem Bóg umiłował **świat**"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMarkWordsAllWordsMarked(t *testing.T) {
	got := MarkWords("On umiłował nas", "on umiłował")
	want := "**On** **umiłował** nas"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMarkWordsCaseInsensitive(t *testing.T) {
	got := MarkWords("TAK bowiem tak", "tak")
	want := "**TAK** bowiem **tak**"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMarkWordsNoOp(t *testing.T) {
	if got := MarkWords("tekst", ""); got != "tekst" {
		t.Errorf("empty phrase changed haystack: %q", got)
	}
	if got := MarkWords("", "coś"); got != "" {
		t.Errorf("empty haystack changed: %q", got)
	}
}
