package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"clingov/internal/dataset"
	"clingov/internal/domain"
)

// validateQualityRequest is the body for POST /v1/quality/validate/{domain}.
type validateQualityRequest struct {
	SourcePath  string          `json:"source_path"`
	TriggeredBy string          `json:"triggered_by"`
	Dataset     dataset.Dataset `json:"dataset"`
}

// ValidateQuality runs the domain rule set over the posted dataset and
// returns the persisted quality report.
func (h *Handler) ValidateQuality(w http.ResponseWriter, r *http.Request) {
	domainKey := chi.URLParam(r, "domain")

	var req validateQualityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.TriggeredBy == "" {
		req.TriggeredBy = "api"
	}

	report, err := h.quality.ValidateDomain(r.Context(), domainKey, req.SourcePath, req.TriggeredBy, &req.Dataset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// listReportsResponse pages stored quality reports.
type listReportsResponse struct {
	Data   []domain.QualityReport `json:"data"`
	Total  int64                  `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// ListQualityReports returns stored reports, newest first. The domain
// query param filters to one clinical domain.
func (h *Handler) ListQualityReports(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	domainKey := r.URL.Query().Get("domain")

	reports, total, err := h.quality.ListReports(r.Context(), domainKey, page)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if reports == nil {
		reports = []domain.QualityReport{}
	}
	h.writeJSON(w, http.StatusOK, listReportsResponse{
		Data:   reports,
		Total:  total,
		Limit:  page.EffectiveLimit(),
		Offset: page.EffectiveOffset(),
	})
}

// ListQualityDomains returns the domain codes with registered rule sets.
func (h *Handler) ListQualityDomains(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{"domains": h.quality.SupportedDomains()})
}
