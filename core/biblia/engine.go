// Package biblia is the retrieval engine for biblia.info.pl content:
// passage lookup, phrase search, and original-language search, with
// caching, slug-variant fallback, and response normalization on top of
// the fetch client.
package biblia

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/biblianet/werset/core/citation"
	"github.com/biblianet/werset/core/fetch"
	"github.com/biblianet/werset/core/normalize"
	"github.com/biblianet/werset/internal/cache"
)

// DefaultBaseURL is the provider API base; override via configuration
// when fronting the provider with a proxy.
const DefaultBaseURL = "https://www.biblia.info.pl/api"

// DefaultCacheTTL bounds how long identical requests bypass the network.
const DefaultCacheTTL = 5 * time.Minute

// Config holds engine configuration.
type Config struct {
	BaseURL     string // provider API base URL
	Origin      string // provider site origin, for human-facing result links
	PageWorkers int    // concurrent sub-fetches for multi-page requests
	MaxPages    int    // safety cap for all-pages original-language search
}

var apiSuffix = regexp.MustCompile(`/api/?$`)

// DefaultConfig returns the engine defaults. Origin is derived from the
// base URL by dropping the /api suffix.
func DefaultConfig() Config {
	return ConfigFor(DefaultBaseURL)
}

// ConfigFor builds a Config for the given provider base URL.
func ConfigFor(baseURL string) Config {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		BaseURL:     base,
		Origin:      apiSuffix.ReplaceAllString(base, ""),
		PageWorkers: 10,
		MaxPages:    50,
	}
}

// Engine ties the resolver, fetch client, and cache into the public
// retrieval operations. One Engine is created at process start and
// shared; the cache needs no teardown since entries self-expire.
type Engine struct {
	cfg      Config
	resolver *citation.Resolver
	client   *fetch.Client
	cache    *cache.TTLCache[string, any]
}

// New creates an Engine. Nil collaborators get defaults.
func New(cfg Config, resolver *citation.Resolver, client *fetch.Client, c *cache.TTLCache[string, any]) *Engine {
	if cfg.BaseURL == "" {
		cfg = DefaultConfig()
	}
	if resolver == nil {
		resolver = citation.NewResolver()
	}
	if client == nil {
		client = fetch.NewClient(20*time.Second, fetch.DefaultPolicy())
	}
	if c == nil {
		c = cache.New[string, any](DefaultCacheTTL)
	}
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = 10
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	return &Engine{cfg: cfg, resolver: resolver, client: client, cache: c}
}

// Resolver exposes the engine's citation resolver so callers can merge
// configuration overlays into its tables.
func (e *Engine) Resolver() *citation.Resolver {
	return e.resolver
}

// Passage is the result of a passage lookup.
type Passage struct {
	Citation    citation.Citation `json:"citation"`
	Translation string            `json:"translation"`
	Text        string            `json:"text"`
	SourceURL   string            `json:"source_url"`
}

// SearchResult is the result of a phrase or original-language search.
type SearchResult struct {
	Hits    []normalize.Hit `json:"hits"`
	Meta    normalize.Meta  `json:"meta"`
	PageURL string          `json:"page_url,omitempty"`
}

// sampleLen bounds the diagnostic body sample attached to errors.
const sampleLen = 160

func bodySample(body string) string {
	s := strings.ReplaceAll(body, "\n", " ")
	if len(s) <= sampleLen {
		return s
	}
	// Back off to a rune boundary so the sample stays valid UTF-8.
	cut := sampleLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

var refVerseRe = regexp.MustCompile(`:(\d+)`)

// verseFromRef pulls the leading verse number out of a display
// reference like "J 3:16-18". Returns 0 when absent.
func verseFromRef(ref string) int {
	m := refVerseRe.FindStringSubmatch(ref)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
