package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ondc-official/deeplinkd/pkg/domain/interfaces"
	"github.com/ondc-official/deeplinkd/pkg/processor"
)

// ResolveHandler serves deeplink resolution requests
type ResolveHandler struct {
	resolveUC interfaces.ResolveUseCase
}

// NewResolveHandler creates a new ResolveHandler
func NewResolveHandler(resolveUC interfaces.ResolveUseCase) *ResolveHandler {
	return &ResolveHandler{
		resolveUC: resolveUC,
	}
}

type resolveRequest struct {
	Deeplink string         `json:"deeplink"`
	Values   map[string]any `json:"values,omitempty"`
}

type resolveResponse struct {
	Usecase map[string]any `json:"usecase"`
}

// Handle resolves a deeplink and returns the materialized usecase document.
// Optional "values" are overlaid at dot-separated paths before validation.
func (h *ResolveHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, goerr.Wrap(err, "invalid JSON body"), http.StatusBadRequest)
		return
	}
	if req.Deeplink == "" {
		writeError(ctx, w, goerr.New("deeplink is required"), http.StatusBadRequest)
		return
	}

	schema, err := h.resolveUC.FetchUsecase(ctx, req.Deeplink)
	if err != nil {
		logger.Error("Failed to fetch usecase", "deeplink", req.Deeplink, "error", err)
		writeError(ctx, w, err, http.StatusBadGateway)
		return
	}

	proc, err := processor.New(schema, processor.WithValues(req.Values))
	if err != nil {
		writeError(ctx, w, err, http.StatusBadGateway)
		return
	}
	if err := proc.StaticResolve(); err != nil {
		writeError(ctx, w, err, http.StatusBadGateway)
		return
	}

	doc, err := proc.ParsedUsecase()
	if err != nil {
		logger.Warn("Resolved usecase failed validation", "deeplink", req.Deeplink, "error", err)
		writeError(ctx, w, err, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resolveResponse{Usecase: doc}); err != nil {
		logger.Error("Failed to encode resolve response", "error", err)
	}
}
