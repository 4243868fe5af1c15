package middleware

import (
	"net/http"

	"github.com/obinnaeze/renthaven-backend/internal/accounttype"
	"github.com/obinnaeze/renthaven-backend/internal/gate"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
	"github.com/obinnaeze/renthaven-backend/pkg/metrics"
)

// Gate applies the route classifier to navigational requests. The account
// type comes straight off the cookie: no store round trip on the hot path.
func Gate(table gate.RouteTable, recorder *metrics.GateMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || !gate.IsNavigational(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			accountType := accounttype.FromRequest(r)
			decision := table.Classify(r.URL.Path, accountType)
			if decision.Allow {
				if recorder != nil {
					recorder.IncAllow()
				}
				next.ServeHTTP(w, r)
				return
			}

			if recorder != nil {
				recorder.IncRedirect(decision.Target)
			}
			if logg != nil {
				ctx := logg.WithFields(r.Context(), map[string]any{
					"path":         r.URL.Path,
					"target":       decision.Target,
					"account_type": string(accountType),
				})
				logg.Debug(ctx, "gate redirect")
			}
			// 307 keeps the method on the off chance a client replays a
			// non-GET against a navigational path.
			http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
		})
	}
}
