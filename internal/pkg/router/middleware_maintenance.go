package router

import (
	"net/http"

	"github.com/shandysiswandi/formgate/internal/pkg/config"
)

// middlewareMaintenance answers 503 for routes listed in
// app.maintenance.endpoints, or for every route when app.maintenance.enabled.
// Both keys are read per request so a config reload takes effect at once.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if underMaintenance(cfg, matchedRoutePath(r)) {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func underMaintenance(cfg config.Config, route string) bool {
	if cfg.GetBool("app.maintenance.enabled") {
		return true
	}
	for _, endpoint := range cfg.GetArray("app.maintenance.endpoints") {
		if endpoint == route {
			return true
		}
	}
	return false
}
