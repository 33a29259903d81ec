package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"log/slog"
	"net/http"
	"runtime/debug"
)

var recoverCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "graphql_persist",
	Subsystem: "recover",
	Name:      "count",
	Help:      "Amount of times a panic was recovered while serving a request",
},
	[]string{"error"},
)

func init() {
	prometheus.MustRegister(recoverCounter)
}

func Recover(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				// http.ErrAbortHandler aborts the response on purpose
				if err == http.ErrAbortHandler { // nolint:errorlint
					panic(err)
				}
				if err != nil {
					recoverCounter.WithLabelValues(errorLabel(err)).Inc()
					log.Error("Panic while serving request", "error", err, "method", r.Method, "path", r.URL.Path, "stacktrace", string(debug.Stack()))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// errorLabel keeps the label cardinality bounded by using the panic value's type.
func errorLabel(err any) string {
	switch err.(type) {
	case error:
		return "error"
	case string:
		return "string"
	default:
		return "unknown"
	}
}
