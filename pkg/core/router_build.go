// pkg/core/router_build.go
package core

import (
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-fn/pkg/codec"
	manifest "github.com/joeydtaylor/steeze-fn/pkg/manifest"
	hmetrics "github.com/joeydtaylor/steeze-fn/pkg/middleware/metrics"
)

// BuildRouter mounts the unit routes:
//
//	GET  /            list available units
//	POST /run/{name}  invoke a unit with the JSON request body
func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	if d.Codec == nil {
		d.Codec = codec.JSON
	}

	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware())
	}

	if cfg.Metrics.On() && d.Metrics != nil {
		r.Use(hmetrics.Collect())
		r.Get(cfg.Metrics.Path, d.Metrics)
	}

	var list, run http.HandlerFunc = listHandler(d), runHandler(d, cfg.Server.MaxBodyBytes)
	if t := cfg.Server.RequestTimeout(); t > 0 {
		list, run = withTimeout(list, t), withTimeout(run, t)
	}
	r.Get("/", list)
	r.Post("/run/{name}", run)

	return r.Mux()
}
