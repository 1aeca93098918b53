// pkg/core/router_deps.go
package core

import (
	"context"
	"net/http"

	"github.com/joeydtaylor/steeze-fn/pkg/codec"
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/logger"
	httpx "github.com/joeydtaylor/steeze-fn/pkg/transport/httpx"
)

// Dispatcher is what the HTTP surface needs from dispatch.Dispatcher.
type Dispatcher interface {
	Invoke(ctx context.Context, name string, payload any) (any, error)
	List(ctx context.Context) ([]string, error)
}

type BuildDeps struct {
	LogMW      *logger.Middleware
	Metrics    http.Handler
	Router     httpx.Router
	Dispatcher Dispatcher
	Codec      codec.Codec // defaults to codec.JSON
}
