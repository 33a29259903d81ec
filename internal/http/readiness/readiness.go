package readiness

import (
	"fmt"
	"net/http"
)

// NewReadinessHandler reports ready once the supplied check passes.
func NewReadinessHandler(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil && !ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = fmt.Fprintf(w, "Not ready yet")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "I'm ready!")
	}
}
