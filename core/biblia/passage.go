package biblia

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/biblianet/werset/core/errors"
	"github.com/biblianet/werset/core/fetch"
	"github.com/biblianet/werset/core/normalize"
	"github.com/biblianet/werset/internal/logging"
)

// LookupPassage fetches the clean text of a cited passage in the given
// translation. Slug variants for the book are attempted in order; the
// first variant that yields non-empty normalized text wins.
func (e *Engine) LookupPassage(ctx context.Context, translation, ref string) (*Passage, error) {
	code, ok := TranslationCode(translation)
	if !ok {
		return nil, errors.NewUnknownTranslation(translation)
	}

	cit, err := e.resolver.Resolve(ref)
	if err != nil {
		return nil, err
	}

	key := Fingerprint("werset", translation, cit.Book, strconv.Itoa(cit.Chapter), cit.VerseSpec())
	if v, ok := e.cache.Get(key); ok {
		if p, ok := v.(*Passage); ok {
			logging.CacheEvent("hit", "werset")
			return p, nil
		}
	}

	var last fetch.Result
	for _, slug := range e.resolver.SlugVariants(cit.Book) {
		url := fmt.Sprintf("%s/werset/%s/%s/%d/%s", e.cfg.BaseURL, code, slug, cit.Chapter, cit.VerseSpec())
		res := e.client.Text(ctx, url)
		logging.ProviderFetch("werset", url, res.StatusCode, res.Class.String())
		last = res
		if res.Class != fetch.Success || strings.TrimSpace(res.Body) == "" {
			continue
		}

		lines := normalize.CleanLines(normalize.PassageLines(res.Body))
		if len(lines) == 0 {
			continue
		}

		p := &Passage{
			Citation:    cit,
			Translation: strings.ToLower(strings.TrimSpace(translation)),
			Text:        strings.Join(lines, "\n"),
			SourceURL:   url,
		}
		e.cache.Set(key, p)
		return p, nil
	}

	return nil, fetchFailure(last)
}

// fetchFailure distinguishes "provider reachable but nothing there" from
// a transport-level failure. A 404 (or a clean response that normalized
// to nothing) is NoResults; everything else is a transport error carrying
// the last status observed.
func fetchFailure(last fetch.Result) error {
	if last.Class == fetch.Success || last.StatusCode == http.StatusNotFound {
		return errors.NewNoResults(last.StatusCode, bodySample(last.Body))
	}
	return errors.NewTransport("", last.StatusCode)
}
