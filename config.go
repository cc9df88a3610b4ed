package essays

import "github.com/goliatone/go-essays/internal/runtimeconfig"

var (
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrFeedsRequireBaseURL     = runtimeconfig.ErrFeedsRequireBaseURL
	ErrFeedItemLimitInvalid    = runtimeconfig.ErrFeedItemLimitInvalid
	ErrServerAddrRequired      = runtimeconfig.ErrServerAddrRequired
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	SiteConfig     = runtimeconfig.SiteConfig
	ContentConfig  = runtimeconfig.ContentConfig
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	LintConfig     = runtimeconfig.LintConfig
	FeedsConfig    = runtimeconfig.FeedsConfig
	ServerConfig   = runtimeconfig.ServerConfig
	CommandsConfig = runtimeconfig.CommandsConfig
	Features       = runtimeconfig.Features
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
