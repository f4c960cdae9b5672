package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/ondc-official/deeplinkd/pkg/domain/model"
	"github.com/ondc-official/deeplinkd/pkg/domain/types"
)

// handleHealth returns a handler reporting service health and the branch the
// release trigger is gated on
func handleHealth(releaseBranch string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:        "healthy",
			Service:       "deeplinkd",
			Version:       types.Version,
			ReleaseBranch: releaseBranch,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}
