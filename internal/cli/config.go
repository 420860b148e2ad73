package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mydungeon/pkg/fetch"
)

// Environment variables that override the config file.
const (
	envConfig    = "MYDUNGEON_CONFIG"
	envTargetURL = "MYDUNGEON_TARGET_URL"
	envHeadless  = "MYDUNGEON_HEADLESS"
	envPort      = "PORT"
)

// defaultConfigFile is read from the working directory when present.
const defaultConfigFile = "mydungeon.toml"

// Backend names.
const (
	fetchRod   = "rod"
	fetchHTTP  = "http"
	cacheNone  = "none"
	cacheFile  = "file"
	cacheRedis = "redis"
	storeFile  = "file"
	storeMongo = "mongo"
)

// Config is the content of mydungeon.toml.
type Config struct {
	Data    DataConfig    `toml:"data"`
	Fetch   FetchConfig   `toml:"fetch"`
	Cache   CacheConfig   `toml:"cache"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	Render  RenderConfig  `toml:"render"`
}

// DataConfig locates the reference tables and output.
type DataConfig struct {
	CSVDir    string `toml:"csv_dir"`
	ImagesDir string `toml:"images_dir"`
	OutputDir string `toml:"output_dir"`
}

// FetchConfig selects and tunes the number source.
type FetchConfig struct {
	Backend     string        `toml:"backend"`
	TargetURL   string        `toml:"target_url"`
	Endpoint    string        `toml:"endpoint"`
	Timeout     time.Duration `toml:"timeout"`
	Headless    bool          `toml:"headless"`
	BrowserBin  string        `toml:"browser_bin"`
	StepDelay   time.Duration `toml:"step_delay"`
	SettleDelay time.Duration `toml:"settle_delay"`
	// RateInterval spaces fetches out; zero disables limiting.
	RateInterval time.Duration `toml:"rate_interval"`
	RateBurst    int           `toml:"rate_burst"`
}

// CacheConfig configures caching of fetched numbers.
type CacheConfig struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`
}

// StorageConfig selects where result images go.
type StorageConfig struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
	Bucket   string `toml:"bucket"`
}

// ServerConfig configures `mydungeon serve`.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	CORSOrigins    []string      `toml:"cors_origins"`
	FrontendDir    string        `toml:"frontend_dir"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// RenderConfig lists font candidates tried before the embedded font.
type RenderConfig struct {
	Fonts []string `toml:"fonts"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	rod := fetch.DefaultRodConfig()
	return Config{
		Data: DataConfig{
			CSVDir:    "database/csv",
			ImagesDir: "database/images",
			OutputDir: "output",
		},
		Fetch: FetchConfig{
			Backend:     fetchRod,
			TargetURL:   rod.URL,
			Timeout:     rod.Timeout,
			Headless:    rod.Headless,
			StepDelay:   rod.StepDelay,
			SettleDelay: rod.SettleDelay,
			RateBurst:   1,
		},
		Cache: CacheConfig{
			Backend: cacheNone,
			Prefix:  appName + ":",
			TTL:     24 * time.Hour,
		},
		Storage: StorageConfig{
			Backend:  storeFile,
			Database: appName,
			Bucket:   "results",
		},
		Server: ServerConfig{
			Addr:           ":8000",
			FrontendDir:    "frontend",
			RequestTimeout: 120 * time.Second,
		},
	}
}

// LoadConfig reads path over the defaults, applies environment overrides
// and validates the result. An empty path falls back to $MYDUNGEON_CONFIG
// and then to ./mydungeon.toml if it exists.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = os.Getenv(envConfig)
		explicit = path != ""
	}
	if path == "" {
		path = defaultConfigFile
	}

	if _, err := os.Stat(path); err == nil || explicit {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("config %s: unknown key %s", path, undecoded[0])
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envTargetURL); v != "" {
		c.Fetch.TargetURL = v
	}
	if v := os.Getenv(envHeadless); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envHeadless, err)
		}
		c.Fetch.Headless = b
	}
	if v := os.Getenv(envPort); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("%s: invalid port %q", envPort, v)
		}
		c.Server.Addr = ":" + v
	}
	return nil
}

// Validate checks backend names and the settings each backend requires.
func (c Config) Validate() error {
	check := func(field, value string, allowed ...string) error {
		if !slices.Contains(allowed, value) {
			return fmt.Errorf("%s: unknown backend %q (want one of %v)", field, value, allowed)
		}
		return nil
	}
	if err := check("fetch.backend", c.Fetch.Backend, fetchRod, fetchHTTP); err != nil {
		return err
	}
	if err := check("cache.backend", c.Cache.Backend, cacheNone, cacheFile, cacheRedis); err != nil {
		return err
	}
	if err := check("storage.backend", c.Storage.Backend, storeFile, storeMongo); err != nil {
		return err
	}

	switch {
	case c.Fetch.Backend == fetchHTTP && c.Fetch.Endpoint == "":
		return fmt.Errorf("fetch.endpoint is required for the http backend")
	case c.Cache.Backend == cacheRedis && c.Cache.RedisURL == "":
		return fmt.Errorf("cache.redis_url is required for the redis backend")
	case c.Storage.Backend == storeMongo && c.Storage.MongoURI == "":
		return fmt.Errorf("storage.mongo_uri is required for the mongo backend")
	case c.Fetch.Timeout < 0, c.Fetch.RateInterval < 0, c.Cache.TTL < 0:
		return fmt.Errorf("durations must not be negative")
	case c.Fetch.RateInterval > 0 && c.Fetch.RateBurst < 1:
		return fmt.Errorf("fetch.rate_burst must be at least 1")
	}
	return nil
}
