package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"clingov/internal/dataset"
	"clingov/internal/domain"
)

// GetContract returns the prebuilt contract for a clinical domain.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	domainKey := chi.URLParam(r, "domain")

	c, err := h.contracts.GetContract(r.Context(), domainKey)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

// ListContractDomains returns the domain codes with prebuilt contracts.
func (h *Handler) ListContractDomains(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{"domains": h.contracts.SupportedDomains()})
}

// validateContractRequest is the body for POST /v1/contracts/{domain}/validate.
type validateContractRequest struct {
	Dataset dataset.Dataset `json:"dataset"`
}

// ValidateContract validates the posted dataset against the domain's
// prebuilt contract and returns the persisted result, including the
// accept/alert/quarantine action.
func (h *Handler) ValidateContract(w http.ResponseWriter, r *http.Request) {
	domainKey := chi.URLParam(r, "domain")

	var req validateContractRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.contracts.ValidateDomain(r.Context(), domainKey, &req.Dataset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// listContractResultsResponse pages stored contract validation results.
type listContractResultsResponse struct {
	Data   []domain.ContractValidationResult `json:"data"`
	Total  int64                             `json:"total"`
	Limit  int                               `json:"limit"`
	Offset int                               `json:"offset"`
}

// ListContractResults returns stored results, newest first. The
// contract query param filters to one contract name.
func (h *Handler) ListContractResults(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	contractName := r.URL.Query().Get("contract")

	results, total, err := h.contracts.ListResults(r.Context(), contractName, page)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if results == nil {
		results = []domain.ContractValidationResult{}
	}
	h.writeJSON(w, http.StatusOK, listContractResultsResponse{
		Data:   results,
		Total:  total,
		Limit:  page.EffectiveLimit(),
		Offset: page.EffectiveOffset(),
	})
}
