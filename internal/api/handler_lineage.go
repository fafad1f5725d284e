package api

import (
	"context"
	"net/http"

	"clingov/internal/domain"
)

// RecordLineageEvent persists a finalized lineage event.
func (h *Handler) RecordLineageEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.LineageEvent
	if err := decodeJSON(r, &ev); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.lineage.Record(r.Context(), &ev); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, ev)
}

// lineageResponse wraps a traversal result.
type lineageResponse struct {
	Location string                `json:"location"`
	Events   []domain.LineageEvent `json:"events"`
}

// GetUpstreamLineage returns every event that directly or transitively
// produced the queried location.
func (h *Handler) GetUpstreamLineage(w http.ResponseWriter, r *http.Request) {
	h.traverse(w, r, h.lineage.Upstream)
}

// GetDownstreamLineage returns every event that directly or
// transitively consumed the queried location.
func (h *Handler) GetDownstreamLineage(w http.ResponseWriter, r *http.Request) {
	h.traverse(w, r, h.lineage.Downstream)
}

func (h *Handler) traverse(w http.ResponseWriter, r *http.Request, query func(ctx context.Context, location string, maxDepth int) ([]domain.LineageEvent, error)) {
	location := r.URL.Query().Get("location")
	if location == "" {
		h.writeError(w, domain.ErrValidation("location query parameter is required"))
		return
	}
	maxDepth, err := depthFromQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	events, err := query(r.Context(), location, maxDepth)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if events == nil {
		events = []domain.LineageEvent{}
	}
	h.writeJSON(w, http.StatusOK, lineageResponse{Location: location, Events: events})
}
