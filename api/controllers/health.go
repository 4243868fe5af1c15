package controllers

import (
	"net/http"

	"github.com/obinnaeze/renthaven-backend/api/responses"
	"github.com/obinnaeze/renthaven-backend/pkg/config"
	pkgredis "github.com/obinnaeze/renthaven-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Renthaven-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady also pings redis since the gate's backing store lives there.
func HealthReady(cfg *config.Config, redis pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Renthaven-Env", cfg.App.Env)

		status := map[string]string{"status": "ready"}
		if redis != nil {
			if err := redis.Ping(r.Context()); err != nil {
				status["status"] = "degraded"
				status["redis"] = "unreachable"
				responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
				return
			}
		}
		responses.WriteSuccess(w, status)
	}
}
