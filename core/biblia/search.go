package biblia

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/biblianet/werset/core/errors"
	"github.com/biblianet/werset/core/fetch"
	"github.com/biblianet/werset/core/highlight"
	"github.com/biblianet/werset/core/normalize"
	"github.com/biblianet/werset/internal/logging"
	"github.com/biblianet/werset/internal/pool"
)

// Search result sizes are clamped to what the provider tolerates.
const (
	minLimit     = 1
	maxLimit     = 10
	defaultLimit = 5
)

func clampLimit(limit int) int {
	if limit == 0 {
		return defaultLimit
	}
	return max(minLimit, min(maxLimit, limit))
}

// SearchPhrase searches a translation for a phrase via the provider's
// JSON search API. The phrase is percent-encoded as a PATH SEGMENT while
// pagination travels in the query string; the /search endpoint is tried
// first, then the legacy /szukaj spelling. Matched words in each snippet
// are emphasized.
func (e *Engine) SearchPhrase(ctx context.Context, translation, phrase string, page, limit int) (*SearchResult, error) {
	code, ok := TranslationCode(translation)
	if !ok {
		return nil, errors.NewUnknownTranslation(translation)
	}
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, errors.NewParse(phrase, "empty search phrase")
	}
	if page < 1 {
		page = 1
	}
	limit = clampLimit(limit)

	key := Fingerprint("searchapi", translation, phrase, strconv.Itoa(page), strconv.Itoa(limit))
	if v, ok := e.cache.Get(key); ok {
		if r, ok := v.(*SearchResult); ok {
			logging.CacheEvent("hit", "searchapi")
			return r, nil
		}
	}

	pageURL := fmt.Sprintf("%s/szukaj.php?st=%s&tl=%s&p=%d",
		e.cfg.Origin, url.QueryEscape(phrase), code, page)
	candidates := []string{
		fmt.Sprintf("%s/search/%s/%s?page=%d&limit=%d", e.cfg.BaseURL, code, url.PathEscape(phrase), page, limit),
		fmt.Sprintf("%s/szukaj/%s/%s?page=%d&limit=%d", e.cfg.BaseURL, code, url.PathEscape(phrase), page, limit),
	}

	var last fetch.Result
	for _, u := range candidates {
		res, payload := e.client.JSON(ctx, u)
		logging.ProviderFetch("searchapi", u, res.StatusCode, res.Class.String())
		last = res
		if res.Class != fetch.Success || payload == nil {
			continue
		}

		hits := normalize.SearchHits(payload, normalize.Latin)
		if len(hits) == 0 {
			continue
		}
		if len(hits) > limit {
			hits = hits[:limit]
		}
		for i := range hits {
			text := normalize.CleanText(hits[i].Text)
			text = normalize.StripVerseEcho(text, verseFromRef(hits[i].Reference))
			hits[i].Text = highlight.MarkWords(text, phrase)
		}

		r := &SearchResult{
			Hits:    hits,
			Meta:    normalize.SearchMeta(payload, page, limit, len(hits)),
			PageURL: pageURL,
		}
		e.cache.Set(key, r)
		return r, nil
	}

	return nil, fetchFailure(last)
}

// SearchOriginal searches the original-language (Hebrew) interlinear
// text. page == 0 requests ALL pages: the first response's total decides
// the page count, and the remaining pages are fetched concurrently in
// bounded batches. Matches are emphasized diacritic-insensitively, so a
// mark-free query still hits pointed text.
func (e *Engine) SearchOriginal(ctx context.Context, query string, page, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewParse(query, "empty search query")
	}
	if page < 0 {
		page = 0
	}
	limit = clampLimit(limit)

	pageKey := "all"
	if page > 0 {
		pageKey = strconv.Itoa(page)
	}
	key := Fingerprint("interlinia", query, pageKey, strconv.Itoa(limit))
	if v, ok := e.cache.Get(key); ok {
		if r, ok := v.(*SearchResult); ok {
			logging.CacheEvent("hit", "interlinia")
			return r, nil
		}
	}

	if page > 0 {
		hits, meta, last := e.fetchOriginalPage(ctx, query, page, limit)
		if len(hits) == 0 {
			return nil, fetchFailure(last)
		}
		markOriginal(hits, query)
		r := &SearchResult{Hits: hits, Meta: meta}
		e.cache.Set(key, r)
		return r, nil
	}

	// All pages: page 1 first, to learn the total.
	first, meta, last := e.fetchOriginalPage(ctx, query, 1, limit)
	if len(first) == 0 {
		return nil, fetchFailure(last)
	}

	totalPages := (meta.Total + limit - 1) / limit
	totalPages = min(totalPages, e.cfg.MaxPages)

	all := first
	if totalPages > 1 {
		var pages []int
		for p := 2; p <= totalPages; p++ {
			pages = append(pages, p)
		}

		type pageHits struct {
			page int
			hits []normalize.Hit
		}
		fetched := pool.Map(e.cfg.PageWorkers, pages, func(p int) pageHits {
			hits, _, _ := e.fetchOriginalPage(ctx, query, p, limit)
			return pageHits{page: p, hits: hits}
		})
		sort.Slice(fetched, func(i, j int) bool { return fetched[i].page < fetched[j].page })
		for _, ph := range fetched {
			all = append(all, ph.hits...)
		}
	}

	markOriginal(all, query)
	r := &SearchResult{
		Hits: all,
		Meta: normalize.Meta{
			Page:       1,
			Limit:      limit,
			Total:      meta.Total,
			RangeStart: 1,
			RangeEnd:   len(all),
		},
	}
	e.cache.Set(key, r)
	return r, nil
}

// fetchOriginalPage fetches and normalizes one page of interlinear hits.
func (e *Engine) fetchOriginalPage(ctx context.Context, query string, page, limit int) ([]normalize.Hit, normalize.Meta, fetch.Result) {
	u := fmt.Sprintf("%s/interlinia/%s?page=%d&limit=%d", e.cfg.BaseURL, url.PathEscape(query), page, limit)
	res, payload := e.client.JSON(ctx, u)
	logging.ProviderFetch("interlinia", u, res.StatusCode, res.Class.String())
	if res.Class != fetch.Success || payload == nil {
		return nil, normalize.Meta{}, res
	}

	hits := normalize.SearchHits(payload, normalize.Hebrew)
	if len(hits) == 0 {
		return nil, normalize.Meta{}, res
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	for i := range hits {
		text := normalize.CleanText(hits[i].Text)
		hits[i].Text = normalize.StripVerseEcho(text, verseFromRef(hits[i].Reference))
	}
	return hits, normalize.SearchMeta(payload, page, limit, len(hits)), res
}

func markOriginal(hits []normalize.Hit, query string) {
	for i := range hits {
		hits[i].Text = highlight.Mark(hits[i].Text, query)
	}
}
