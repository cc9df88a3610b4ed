package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrContentDirRequired = errors.New("essays config: content directory is required")
var ErrFeedsRequireBaseURL = errors.New("essays config: feeds require a site base URL")
var ErrFeedItemLimitInvalid = errors.New("essays config: feed item limit must be zero or positive")
var ErrServerAddrRequired = errors.New("essays config: server address is required when the server is enabled")
var ErrCacheTTLInvalid = errors.New("essays config: cache TTL must be zero or positive")
var ErrLoggingProviderRequired = errors.New("essays config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("essays config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("essays config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("essays config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the corpus engine.
// Fields intentionally use simple types so host applications can extend them.
type Config struct {
	Enabled  bool
	Site     SiteConfig
	Content  ContentConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Lint     LintConfig
	Feeds    FeedsConfig
	Server   ServerConfig
	Commands CommandsConfig
	Features Features
	Logging  LoggingConfig
}

// SiteConfig carries corpus-wide metadata used by feeds and the API.
type SiteConfig struct {
	Title       string
	Description string
	Author      string
	BaseURL     string
}

// ContentConfig captures filesystem behaviour for essay discovery.
type ContentConfig struct {
	Dir       string
	Pattern   string
	Recursive bool
}

// StorageConfig selects the database the post index lives in.
type StorageConfig struct {
	Driver string
	DSN    string
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LintConfig tunes corpus validation.
type LintConfig struct {
	// Categories, when non-empty, is the curated taxonomy; posts referencing
	// unknown categories are flagged.
	Categories []string
	// MetadataSchema optionally validates custom front-matter fields as a
	// JSON Schema document.
	MetadataSchema map[string]any
	// ExternalLinks toggles reporting of non-internal destinations that use
	// unsupported schemes.
	ExternalLinks bool
}

// FeedsConfig controls syndication output.
type FeedsConfig struct {
	ItemLimit     int
	CategoryFeeds bool
}

// ServerConfig captures the read-only API listener.
type ServerConfig struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// Features toggles module functionality.
type Features struct {
	Feeds  bool
	Server bool
	Cache  bool
	Logger bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a single-author corpus.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Site: SiteConfig{
			Title: "Essays",
		},
		Content: ContentConfig{
			Dir:       "content",
			Pattern:   "*.md",
			Recursive: true,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file::memory:?cache=shared",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Lint: LintConfig{
			ExternalLinks: false,
		},
		Feeds: FeedsConfig{
			ItemLimit: 50,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Commands: CommandsConfig{},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Features.Feeds && strings.TrimSpace(cfg.Site.BaseURL) == "" {
		return ErrFeedsRequireBaseURL
	}
	if cfg.Feeds.ItemLimit < 0 {
		return ErrFeedItemLimitInvalid
	}
	if cfg.Features.Server && strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Features.Logger {
		provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
