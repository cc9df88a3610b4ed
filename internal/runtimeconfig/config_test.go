package runtimeconfig

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Content.Dir != "content" {
		t.Fatalf("unexpected content dir %q", cfg.Content.Dir)
	}
	if cfg.Cache.DefaultTTL != time.Minute {
		t.Fatalf("unexpected cache TTL %v", cfg.Cache.DefaultTTL)
	}
}

func TestValidateContentDirRequired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.Dir = "   "
	if err := cfg.Validate(); !errors.Is(err, ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestValidateFeedsRequireBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Feeds = true
	cfg.Site.BaseURL = ""
	if err := cfg.Validate(); !errors.Is(err, ErrFeedsRequireBaseURL) {
		t.Fatalf("expected ErrFeedsRequireBaseURL, got %v", err)
	}

	cfg.Site.BaseURL = "https://example.test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected config to validate with base URL, got %v", err)
	}
}

func TestValidateServerAddrRequired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Server = true
	cfg.Server.Addr = ""
	if err := cfg.Validate(); !errors.Is(err, ErrServerAddrRequired) {
		t.Fatalf("expected ErrServerAddrRequired, got %v", err)
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}

	cfg.Logging.Format = "pretty"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}

	cfg.Logging.Level = "debug"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid logging config, got %v", err)
	}
}
