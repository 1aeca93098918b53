package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProvideMetrics returns the /metrics handler; the Fx provider used by the server wiring.
func ProvideMetrics() http.Handler { return promhttp.Handler() }
