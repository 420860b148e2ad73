// Package cli implements the mydungeon command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mydungeon/pkg/cache"
	"github.com/matzehuels/mydungeon/pkg/catalog"
	"github.com/matzehuels/mydungeon/pkg/fetch"
	"github.com/matzehuels/mydungeon/pkg/fonts"
	"github.com/matzehuels/mydungeon/pkg/observability"
	"github.com/matzehuels/mydungeon/pkg/pipeline"
	"github.com/matzehuels/mydungeon/pkg/render"
	"github.com/matzehuels/mydungeon/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is used for directories, cache prefixes and display.
const appName = "mydungeon"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands. Config is loaded by the root
// command before any subcommand runs.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a CLI with a default logger and the built-in config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Component Factories
// =============================================================================

// closers releases resources opened by the factories, last opened first.
type closers []func()

func (cs closers) close() {
	for i := len(cs) - 1; i >= 0; i-- {
		cs[i]()
	}
}

func (c *CLI) openCatalog() (*catalog.Catalog, error) {
	d := c.Config.Data
	cat, err := catalog.Open(d.CSVDir, d.ImagesDir, catalog.WithLogger(c.Logger))
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("catalog loaded", "items", len(cat.Items()), "hissatsus", len(cat.Moves()))
	return cat, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cc := c.Config.Cache
	switch cc.Backend {
	case cacheFile:
		dir := cc.Dir
		if dir == "" {
			def, err := cache.DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
			dir = def
		}
		return cache.NewFileCache(dir)
	case cacheRedis:
		return cache.NewRedisCache(ctx, cc.RedisURL, cc.Prefix)
	}
	return cache.NewNullCache(), nil
}

// newFetcher builds the configured number source with its rate limiter and
// cache decorators.
func (c *CLI) newFetcher(ctx context.Context, cs *closers) (fetch.Fetcher, error) {
	fc := c.Config.Fetch
	var (
		f      fetch.Fetcher
		source string
	)
	switch fc.Backend {
	case fetchHTTP:
		hf := fetch.NewHTTPFetcher(fc.Endpoint, &http.Client{Timeout: fc.Timeout}, c.Logger)
		f, source = hf, hf.Source()
	default:
		rf := fetch.NewRodFetcher(fetch.RodConfig{
			URL:         fc.TargetURL,
			Headless:    fc.Headless,
			Bin:         fc.BrowserBin,
			Timeout:     fc.Timeout,
			StepDelay:   fc.StepDelay,
			SettleDelay: fc.SettleDelay,
		}, c.Logger)
		f, source = rf, rf.Source()
	}

	if fc.RateInterval > 0 {
		f = fetch.NewRateLimited(f, fc.RateInterval, fc.RateBurst)
	}

	if c.Config.Cache.Backend == cacheNone {
		return f, nil
	}
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	*cs = append(*cs, func() { cc.Close() })
	observability.SetCacheHooks(logCacheHooks{logger: c.Logger})
	return fetch.NewCachedFetcher(f, cc, cache.NewDefaultKeyer(), source, c.Config.Cache.TTL, c.Logger), nil
}

// fetchSource returns the source the configured fetcher keys its cache
// entries by, without starting it.
func (c *CLI) fetchSource() string {
	fc := c.Config.Fetch
	if fc.Backend == fetchHTTP {
		return fetch.NewHTTPFetcher(fc.Endpoint, nil, c.Logger).Source()
	}
	return fetch.NewRodFetcher(fetch.RodConfig{URL: fc.TargetURL}, c.Logger).Source()
}

func (c *CLI) newStore(ctx context.Context, cs *closers) (storage.Store, error) {
	sc := c.Config.Storage
	var (
		s   storage.Store
		err error
	)
	if sc.Backend == storeMongo {
		s, err = storage.NewMongoStore(ctx, sc.MongoURI, sc.Database, sc.Bucket)
	} else {
		s, err = storage.NewFileStore(c.Config.Data.OutputDir)
	}
	if err != nil {
		return nil, err
	}
	*cs = append(*cs, func() { s.Close(context.Background()) })
	return s, nil
}

func (c *CLI) newRenderer() (*render.Renderer, error) {
	var (
		f   *fonts.Font
		err error
	)
	if len(c.Config.Render.Fonts) > 0 {
		f, err = fonts.Load(c.Config.Render.Fonts)
	} else {
		f, err = fonts.Default()
	}
	if err != nil {
		return nil, err
	}
	if f.Embedded() {
		c.Logger.Warn("no CJK font found, Japanese text will not render", "fallback", f.Source())
	}
	return render.New(render.WithFont(f), render.WithLogger(c.Logger))
}

// newRunner wires the whole pipeline. The returned closers must be closed
// once the runner is no longer used.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, closers, error) {
	var cs closers
	fail := func(err error) (*pipeline.Runner, closers, error) {
		cs.close()
		return nil, nil, err
	}

	cat, err := c.openCatalog()
	if err != nil {
		return fail(err)
	}
	f, err := c.newFetcher(ctx, &cs)
	if err != nil {
		return fail(err)
	}
	rend, err := c.newRenderer()
	if err != nil {
		return fail(err)
	}
	store, err := c.newStore(ctx, &cs)
	if err != nil {
		return fail(err)
	}
	return pipeline.NewRunner(cat, f, rend, store, c.Logger), cs, nil
}
