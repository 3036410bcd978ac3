package middlewares

import (
	"net/http"
	"sync"
)

// TrackActiveRequests counts in-flight requests on activeRequests and turns
// new ones away with 503 once shutdownChan is closed.
func TrackActiveRequests(
	activeRequests *sync.WaitGroup,
	shutdownChan <-chan struct{},
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-shutdownChan:
				w.Header().Set("Connection", "close")
				http.Error(w, "log is shutting down", http.StatusServiceUnavailable)
				return
			default:
			}

			activeRequests.Add(1)
			defer activeRequests.Done()

			next.ServeHTTP(w, r)
		})
	}
}
