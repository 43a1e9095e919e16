package biblia

import (
	"sort"
	"strings"
)

// translationCodes maps user-facing translation codes to the provider's
// codes. Mostly identity, except aliases like nb -> ubg.
var translationCodes = map[string]string{
	"bw":  "bw",  // Biblia Warszawska
	"bg":  "bg",  // Biblia Gdańska
	"ubg": "ubg", // Uwspółcześniona Biblia Gdańska
	"bt":  "bt",  // Biblia Tysiąclecia
	"bp":  "bp",  // Biblia Poznańska
	"bz":  "bz",  // Biblia Zaremby
	"np":  "np",  // Nowe Przymierze (Ewangeliczna)
	"pd":  "pd",  // Przekład Dosłowny
	"npw": "npw", // Nowy Przekład Warszawski
	"eib": "eib", // Ewangeliczna Instytutu Biblijnego
	"snp": "snp", // Słowo Nowego Przymierza
	"tor": "tor", // Biblia Toruńska
	"wb":  "wb",  // Biblia Warszawsko-Brytyjska
	"nb":  "ubg", // alias: Nowa Biblia Gdańska = UBG
}

// TranslationCode resolves a user-facing translation code to the
// provider code. ok is false for unsupported codes.
func TranslationCode(code string) (string, bool) {
	c, ok := translationCodes[strings.ToLower(strings.TrimSpace(code))]
	return c, ok
}

// Translations returns the supported translation codes, sorted.
func Translations() []string {
	out := make([]string, 0, len(translationCodes))
	for k := range translationCodes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MergeTranslations overlays extra translation codes from configuration.
func MergeTranslations(extra map[string]string) {
	for k, v := range extra {
		translationCodes[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
}
