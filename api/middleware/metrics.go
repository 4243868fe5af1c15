package middleware

import (
	"net/http"
	"time"

	"github.com/obinnaeze/renthaven-backend/pkg/metrics"
)

// Metrics records request durations on the shared histogram.
func Metrics(recorder *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if recorder == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			recorder.ObserveRequest(r.Method, rec.status, time.Since(start))
		})
	}
}
