package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"net/http"
	"time"
)

var (
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "graphql_persist",
		Subsystem: "http",
		Name:      "duration",
		Help:      "HTTP duration",
	},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(httpDuration)
}

// RequestMetricMiddleware observes request durations per route pattern, so operation
// ids do not end up as label values.
func RequestMetricMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
		return http.HandlerFunc(fn)
	}
}
