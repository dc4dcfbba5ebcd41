package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"premarket-scan/internal/polygon"
	"premarket-scan/internal/scan"
	"premarket-scan/internal/scoring"
	"premarket-scan/internal/tradeplan"
)

// Config holds application configuration from env and the optional YAML overlay.
type Config struct {
	PolygonBaseURL     string
	PolygonAPIKeys     []string
	KeyStrategy        string
	MinRequestInterval time.Duration
	HTTPTimeout        time.Duration
	HTTPMaxRetries     int
	Workers            int
	MarketIndex        string
	// AllowNoKey lets the watchlist scan run without an API key.
	AllowNoKey  bool
	SaveDir     string
	SaveFormat  string
	MetricsAddr string
	LogLevel    string // debug | info | warn | error
	LogFormat   string // text | json

	// From SCAN_CONFIG.
	KeywordTiers      []scoring.KeywordTier
	Gainers           GainerDefaults
	WatchlistPolicies PolicyNames
	GainerPolicies    PolicyNames
}

// GainerDefaults are the gainer filter defaults; CLI flags override them.
type GainerDefaults struct {
	MinPrice     float64
	MaxPrice     float64
	MinChange    float64
	MinVolume    float64
	LookbackDays int
}

// PolicyNames selects the confidence and trade plan policies of a scan mode.
type PolicyNames struct {
	Confidence string
	TradePlan  string
}

// filePolicies leaves empty names at their defaults.
type filePolicies struct {
	Confidence string `yaml:"confidence"`
	TradePlan  string `yaml:"trade_plan"`
}

// fileGainers uses pointers so an explicit zero ("max_price: 0") applies.
type fileGainers struct {
	Confidence   string   `yaml:"confidence"`
	TradePlan    string   `yaml:"trade_plan"`
	MinPrice     *float64 `yaml:"min_price"`
	MaxPrice     *float64 `yaml:"max_price"`
	MinChange    *float64 `yaml:"min_change"`
	MinVolume    *float64 `yaml:"min_volume"`
	LookbackDays *int     `yaml:"lookback_days"`
}

type fileConfig struct {
	MarketIndex string                `yaml:"market_index"`
	Keywords    []scoring.KeywordTier `yaml:"keywords"`
	Watchlist   *filePolicies         `yaml:"watchlist"`
	Gainers     *fileGainers          `yaml:"gainers"`
}

// LoadConfig reads config from .env (when present), the environment and the
// YAML file named by SCAN_CONFIG.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg := &Config{
		PolygonBaseURL: getEnv("POLYGON_BASE_URL", polygon.DefaultBaseURL),
		KeyStrategy:    getEnv("KEY_STRATEGY", "round-robin"),
		MarketIndex:    getEnv("MARKET_INDEX", polygon.DefaultMarketIndex),
		SaveDir:        os.Getenv("SAVE_DIR"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		KeywordTiers:   scoring.DefaultTiers(),
		Gainers: GainerDefaults{
			MinPrice:     scan.DefaultMinPrice,
			MaxPrice:     scan.DefaultMaxPrice,
			MinChange:    scan.DefaultMinChange,
			MinVolume:    scan.DefaultMinVolume,
			LookbackDays: scan.DefaultLookbackDays,
		},
		WatchlistPolicies: PolicyNames{
			Confidence: scoring.NewComposite().Name(),
			TradePlan:  tradeplan.NewRecentHigh().Name(),
		},
		GainerPolicies: PolicyNames{
			Confidence: scoring.Gainer{}.Name(),
			TradePlan:  tradeplan.NewPercentOffset().Name(),
		},
	}
	cfg.SaveFormat = getSaveFormat()
	cfg.PolygonAPIKeys = parsePolygonAPIKeys()

	var err error
	if cfg.MinRequestInterval, err = getDuration("POLYGON_MIN_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", polygon.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.HTTPMaxRetries, err = getInt("HTTP_MAX_RETRIES", polygon.DefaultMaxRetries); err != nil {
		return nil, err
	}
	if cfg.Workers, err = getInt("WORKERS", scan.DefaultWorkers); err != nil {
		return nil, err
	}
	if cfg.AllowNoKey, err = getBool("SCAN_ALLOW_NO_KEY"); err != nil {
		return nil, err
	}

	if path := os.Getenv("SCAN_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// applyFile overlays the YAML file at path. Keys it leaves out keep their values.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.MarketIndex != "" {
		c.MarketIndex = strings.ToUpper(fc.MarketIndex)
	}
	if len(fc.Keywords) > 0 {
		for i, t := range fc.Keywords {
			for j, w := range t.Words {
				fc.Keywords[i].Words[j] = strings.ToLower(strings.TrimSpace(w))
			}
		}
		c.KeywordTiers = fc.Keywords
	}
	if w := fc.Watchlist; w != nil {
		w.applyTo(&c.WatchlistPolicies)
	}
	if g := fc.Gainers; g != nil {
		filePolicies{Confidence: g.Confidence, TradePlan: g.TradePlan}.applyTo(&c.GainerPolicies)
		setIf(&c.Gainers.MinPrice, g.MinPrice)
		setIf(&c.Gainers.MaxPrice, g.MaxPrice)
		setIf(&c.Gainers.MinChange, g.MinChange)
		setIf(&c.Gainers.MinVolume, g.MinVolume)
		if g.LookbackDays != nil && *g.LookbackDays < 1 {
			return fmt.Errorf("config %s: gainers.lookback_days must be at least 1", path)
		}
		setIf(&c.Gainers.LookbackDays, g.LookbackDays)
	}
	slog.Debug("applied config file", "path", path)
	return nil
}

func (p filePolicies) applyTo(dst *PolicyNames) {
	if v := strings.ToLower(strings.TrimSpace(p.Confidence)); v != "" {
		dst.Confidence = v
	}
	if v := strings.ToLower(strings.TrimSpace(p.TradePlan)); v != "" {
		dst.TradePlan = v
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// PolygonConfig is the client configuration derived from c.
func (c *Config) PolygonConfig() polygon.Config {
	return polygon.Config{
		BaseURL:            c.PolygonBaseURL,
		APIKeys:            c.PolygonAPIKeys,
		KeyStrategy:        polygon.ParseKeyStrategy(c.KeyStrategy),
		Timeout:            c.HTTPTimeout,
		MaxRetries:         c.HTTPMaxRetries,
		MinRequestInterval: c.MinRequestInterval,
		Workers:            c.Workers,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a non-negative integer", key, s)
	}
	return v, nil
}

// getDuration accepts a Go duration ("1500ms") or whole seconds ("12").
func getDuration(key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a duration like 12s", key, s)
	}
	return d, nil
}

func getBool(key string) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: want true or false", key, s)
	}
	return v, nil
}

func getSaveFormat() string {
	if v := os.Getenv("SAVE_FORMAT"); v != "" {
		return v
	}
	switch os.Getenv("PROFILE") {
	case "dev", "development":
		return "csv"
	default:
		return "parquet"
	}
}

func parsePolygonAPIKeys() []string {
	s := os.Getenv("POLYGON_API_KEYS")
	if s == "" {
		s = os.Getenv("POLYGON_API_KEY")
	}
	if s == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
