// Command werset looks up, searches, and serves Polish Bible passages
// from biblia.info.pl.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/biblianet/werset/core/biblia"
	"github.com/biblianet/werset/core/chunk"
	"github.com/biblianet/werset/core/fetch"
	"github.com/biblianet/werset/internal/api"
	"github.com/biblianet/werset/internal/cache"
	"github.com/biblianet/werset/internal/config"
	"github.com/biblianet/werset/internal/logging"
)

const version = "0.1.0"

// chunkLimit bounds one display block of output.
const chunkLimit = 4000

// CLI defines the command-line interface for werset.
var CLI struct {
	Config    string `name:"config" short:"c" help:"Path to YAML config file" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug|info|warn|error)"`
	LogFormat string `name:"log-format" help:"Log format (json|text)"`

	Lookup       LookupCmd       `cmd:"" help:"Fetch a cited passage in a translation"`
	Search       SearchCmd       `cmd:"" help:"Search a translation for a phrase"`
	Original     OriginalCmd     `cmd:"" help:"Search the original-language interlinear text"`
	Translations TranslationsCmd `cmd:"" help:"List supported translation codes"`
	Serve        ServeCmd        `cmd:"" help:"Start the REST/WebSocket API server"`
	Version      VersionCmd      `cmd:"" help:"Print version information"`
}

// appContext carries the loaded configuration and wired engine into
// command Run methods.
type appContext struct {
	cfg    config.Config
	engine *biblia.Engine
}

func buildApp() (*appContext, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.LogLevel != "" {
		cfg.LogLevel = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		cfg.LogFormat = CLI.LogFormat
	}
	logging.InitLogger(parseLevel(cfg.LogLevel), parseFormat(cfg.LogFormat))

	engineCfg := biblia.ConfigFor(cfg.BaseURL)
	engineCfg.PageWorkers = cfg.PageWorkers
	engineCfg.MaxPages = cfg.MaxPages

	client := fetch.NewClient(cfg.HTTPTimeout.Std(), fetch.DefaultPolicy())
	store := cache.New[string, any](cfg.CacheTTL.Std())
	engine := biblia.New(engineCfg, nil, client, store)

	// Configuration overlays extend the built-in tables.
	engine.Resolver().Merge(cfg.Books.Aliases, cfg.Books.Variants)
	biblia.MergeTranslations(cfg.Translations)

	return &appContext{cfg: cfg, engine: engine}, nil
}

func parseLevel(s string) logging.Level {
	switch strings.ToLower(s) {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseFormat(s string) logging.Format {
	if strings.EqualFold(s, "text") {
		return logging.FormatText
	}
	return logging.FormatJSON
}

// printChunks writes size-bounded blocks separated by a rule, the way a
// chat surface would page them.
func printChunks(title string, lines []string) {
	chunks := chunk.Build(lines, chunkLimit)
	for i, c := range chunks {
		if i == 0 && title != "" {
			fmt.Println(title)
		}
		if i > 0 {
			fmt.Println("---")
		}
		fmt.Println(c.Body)
	}
}

// LookupCmd fetches one cited passage.
type LookupCmd struct {
	Translation string `arg:"" help:"Translation code (e.g. bw, ubg)"`
	Ref         string `arg:"" help:"Citation, e.g. 'J 3:16' or 'Rdz 1:1-3'"`
}

func (c *LookupCmd) Run(app *appContext) error {
	p, err := app.engine.LookupPassage(context.Background(), c.Translation, c.Ref)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s (%s)", p.Citation.String(), strings.ToUpper(p.Translation))
	printChunks(title, strings.Split(p.Text, "\n"))
	fmt.Println(p.SourceURL)
	return nil
}

// SearchCmd searches a translation for a phrase.
type SearchCmd struct {
	Translation string `arg:"" help:"Translation code"`
	Phrase      string `arg:"" help:"Phrase to search for"`
	Page        int    `help:"Result page" default:"1"`
	Limit       int    `help:"Hits per page (1-10)" default:"5"`
}

func (c *SearchCmd) Run(app *appContext) error {
	r, err := app.engine.SearchPhrase(context.Background(), c.Translation, c.Phrase, c.Page, c.Limit)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		lines = append(lines, fmt.Sprintf("%s %s", h.Reference, h.Text))
	}
	title := fmt.Sprintf("Results %d-%d of %d", r.Meta.RangeStart, r.Meta.RangeEnd, r.Meta.Total)
	printChunks(title, lines)
	if r.PageURL != "" {
		fmt.Println(r.PageURL)
	}
	return nil
}

// OriginalCmd searches the original-language interlinear text.
type OriginalCmd struct {
	Query string `arg:"" help:"Original-language query (diacritics optional)"`
	Page  int    `help:"Result page; 0 collects all pages" default:"0"`
	Limit int    `help:"Hits per page (1-10)" default:"5"`
}

func (c *OriginalCmd) Run(app *appContext) error {
	r, err := app.engine.SearchOriginal(context.Background(), c.Query, c.Page, c.Limit)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		lines = append(lines, fmt.Sprintf("%s %s", h.Reference, h.Text))
	}
	title := fmt.Sprintf("%d result(s)", len(r.Hits))
	printChunks(title, lines)
	return nil
}

// TranslationsCmd lists the supported translation codes.
type TranslationsCmd struct{}

func (c *TranslationsCmd) Run(app *appContext) error {
	fmt.Println(strings.Join(biblia.Translations(), ", "))
	return nil
}

// ServeCmd starts the API server.
type ServeCmd struct {
	Addr              string   `help:"Listen address" placeholder:"HOST:PORT"`
	AllowedOrigins    []string `help:"Allowed CORS/WebSocket origins (empty allows all)"`
	RateLimitRequests int      `help:"Requests per minute per client (0 disables)"`
	RateLimitBurst    int      `help:"Rate limit burst size"`
}

func (c *ServeCmd) Run(app *appContext) error {
	addr := c.Addr
	if addr == "" {
		addr = app.cfg.ListenAddr
	}
	return api.Start(api.Config{
		ListenAddr:        addr,
		AllowedOrigins:    c.AllowedOrigins,
		RateLimitRequests: c.RateLimitRequests,
		RateLimitBurst:    c.RateLimitBurst,
	}, app.engine)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(*appContext) error {
	fmt.Printf("werset version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("werset"),
		kong.Description("Polish Bible passage lookup and search"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	app, err := buildApp()
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(app))
}
