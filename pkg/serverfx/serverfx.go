package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"os"

	"github.com/joeydtaylor/steeze-fn/pkg/core"
	"github.com/joeydtaylor/steeze-fn/pkg/dispatch"
	"github.com/joeydtaylor/steeze-fn/pkg/manifest"
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-fn/pkg/transport/httpx"
	"github.com/joeydtaylor/steeze-fn/pkg/unit"
	"github.com/joeydtaylor/steeze-fn/pkg/unit/script"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---- Config ----

func provideConfig(opts Options) (manifest.Config, error) {
	var (
		cfg manifest.Config
		err error
	)
	if p := os.Getenv(opts.ManifestEnv); opts.ManifestEnv != "" && p != "" {
		cfg, err = manifest.LoadConfig(p)
	} else {
		cfg, err = manifest.LoadOrDefault(opts.DefaultManifest)
	}
	if err != nil {
		return manifest.Config{}, err
	}

	cfg.Server.Listen = envOr(opts.ListenAddrEnv, cfg.Server.Listen)
	if cert, key := os.Getenv(opts.TLSCertEnv), os.Getenv(opts.TLSKeyEnv); opts.TLSCertEnv != "" && cert != "" && key != "" {
		cfg.Server.TLSCert, cfg.Server.TLSKey = cert, key
	}
	return cfg, nil
}

// ---- Units ----

func provideCatalogs(opts Options, cfg manifest.Config, log *zap.Logger) []unit.Catalog {
	reg := opts.Registry
	if reg == nil {
		reg = unit.Default
	}
	dir := script.New(cfg.Units.Dir, log.Named("unit"))
	dir.Ext, dir.Index = cfg.Units.Extension, cfg.Units.Index
	dir.Timeout, dir.MaxBytes = cfg.Units.Timeout(), cfg.Units.MaxScriptBytes
	if fi, err := os.Stat(dir.Path); err != nil || !fi.IsDir() {
		log.Warn("units directory not readable", zap.String("dir", dir.Path), zap.Error(err))
	}
	return []unit.Catalog{reg, dir}
}

func provideDispatcher(cats []unit.Catalog, log *zap.Logger) *dispatch.Dispatcher {
	return dispatch.New(cats,
		dispatch.WithLogger(log.Named("dispatch")),
		dispatch.WithObserver(metrics.ObserveUnit),
	)
}

// ---- Router ----

type routerDeps struct {
	fx.In

	Cfg     manifest.Config
	LogMW   *logger.Middleware
	Metrics http.Handler `name:"metrics"`
	R       httpx.Router
	D       *dispatch.Dispatcher
}

func provideRouter(d routerDeps) http.Handler {
	metrics.AddMetricsSkipPaths(d.Cfg.Metrics.Path)
	return core.BuildRouter(d.Cfg, core.BuildDeps{
		LogMW:      d.LogMW,
		Metrics:    d.Metrics,
		Router:     d.R,
		Dispatcher: d.D,
	})
}

// ---- Server lifecycle ----

type serverDeps struct {
	fx.In
	Opts   Options
	Cfg    manifest.Config
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, sd fx.Shutdowner, d serverDeps) {
	sc := d.Cfg.Server
	srv := &http.Server{
		Addr:         sc.Listen,
		Handler:      d.App,
		ReadTimeout:  sc.ReadTimeout(),
		WriteTimeout: sc.WriteTimeout(),
		IdleTimeout:  sc.IdleTimeout(),
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(sc.TLSCert) && fileExists(sc.TLSKey)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// Bind synchronously so a taken port fails startup.
			ln, err := net.Listen("tcp", sc.Listen)
			if err != nil {
				return err
			}

			serve := func() error { return srv.Serve(ln) }
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", ln.Addr().String()),
					zap.String("cert", sc.TLSCert),
					zap.String("units", d.Cfg.Units.Dir),
				)
				serve = func() error { return srv.ServeTLS(ln, sc.TLSCert, sc.TLSKey) }
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", ln.Addr().String()),
					zap.String("units", d.Cfg.Units.Dir),
				)
				srv.TLSConfig = nil
			}

			go func() {
				if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Error("server failed", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Opts.Service))
			err := srv.Shutdown(ctx)
			_ = d.Logger.Sync()
			return err
		},
	})
}

// ---- helpers ----

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func envOr(k, def string) string {
	if k == "" {
		return def
	}
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
