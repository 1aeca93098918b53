package serverfx

import (
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-fn/pkg/transport/httpx"
	"github.com/joeydtaylor/steeze-fn/pkg/unit"
	"go.uber.org/fx"
)

// Options allow per-deployment env keys/defaults without code duplication.
type Options struct {
	Service         string // for logs only
	ManifestEnv     string // e.g. "STEEZE_FN_MANIFEST"
	DefaultManifest string // e.g. "manifest.toml"; absent file means built-in defaults
	ListenAddrEnv   string // e.g. "SERVER_LISTEN_ADDRESS"
	TLSCertEnv      string // e.g. "SSL_SERVER_CERTIFICATE"
	TLSKeyEnv       string // e.g. "SSL_SERVER_KEY"

	// Registry holds compiled-in units consulted before the units directory.
	// nil means unit.Default.
	Registry *unit.Registry
}

// DefaultOptions returns the env keys used by cmd/steeze-fn.
func DefaultOptions() Options {
	return Options{
		Service:         "steeze-fn",
		ManifestEnv:     "STEEZE_FN_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenAddrEnv:   "SERVER_LISTEN_ADDRESS",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
	}
}

// Module returns a complete Fx option set; add app-specific fx.Invoke(...) alongside.
func Module(opts Options) fx.Option {
	return fx.Options(
		fx.Supply(opts),
		fx.Provide(provideConfig),

		// Logging
		logger.Module,

		// Metrics (named)
		fx.Provide(fx.Annotate(metrics.ProvideMetrics, fx.ResultTags(`name:"metrics"`))),

		// Router implementation
		fx.Provide(httpx.NewChi),

		// Units
		fx.Provide(provideCatalogs),
		fx.Provide(provideDispatcher),

		// Router (named "app")
		fx.Provide(fx.Annotate(provideRouter, fx.ResultTags(`name:"app"`))),

		// HTTP server lifecycle
		fx.Invoke(registerHooks),
	)
}
