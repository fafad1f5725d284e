package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clingov/internal/domain"
)

// errorResponse is the wire shape for every non-2xx response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write json response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("internal error", "error", err)
	}
	h.writeJSON(w, status, errorResponse{Code: status, Message: err.Error()})
}

// decodeJSON reads a JSON request body into the target. Malformed
// bodies are a 400, not a 500.
func decodeJSON(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return domain.ErrValidation("decode request body: %v", err)
	}
	return nil
}

// pageFromQuery extracts limit/offset query params into a PageRequest.
// Absent or malformed params fall back to the defaults.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.Offset = n
		}
	}
	return p
}

// depthFromQuery extracts the max_depth query param; -1 means "use the
// service default".
func depthFromQuery(r *http.Request) (int, error) {
	v := r.URL.Query().Get("max_depth")
	if v == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, domain.ErrValidation("max_depth must be a non-negative integer, got %q", v)
	}
	return n, nil
}
