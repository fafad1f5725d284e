package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clingov/internal/domain"
	"clingov/internal/lineage"
	"clingov/internal/service/governance"
	"clingov/internal/testutil"
)

type testEnv struct {
	router  http.Handler
	reports *testutil.MockQualityReportRepo
	results *testutil.MockContractResultRepo
	events  *testutil.MockLineageEventRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		reports: &testutil.MockQualityReportRepo{},
		results: &testutil.MockContractResultRepo{},
		events:  &testutil.MockLineageEventRepo{},
	}
	h := NewHandler(
		governance.NewQualityService(env.reports, env.events, logger),
		governance.NewContractService(env.results, logger),
		governance.NewLineageService(env.events, logger),
		logger,
	)
	env.router = NewRouter(h, []string{"*"})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	rec := newTestEnv(t).do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestValidateQuality(t *testing.T) {
	body := map[string]any{
		"source_path":  "/bronze/dm.parquet",
		"triggered_by": "etl",
		"dataset": map[string]any{
			"columns": []string{"USUBJID", "AGE", "SEX", "ARM", "RFSTDTC"},
			"rows": [][]any{
				{"S1", 34, "M", "PLACEBO", "2024-01-15"},
				{"S2", 61, "F", "ACTIVE", "2024-02-03"},
			},
		},
	}

	t.Run("returns_persisted_report", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/v1/quality/validate/DM", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		report := decodeBody[domain.QualityReport](t, rec)
		assert.Equal(t, "DM", report.Domain)
		assert.Equal(t, domain.StatusPassed, report.Status)
		assert.Equal(t, "/bronze/dm.parquet", report.SourcePath)
		assert.Equal(t, 2, report.TotalRecords)

		require.Len(t, env.reports.Reports, 1)
		require.Len(t, env.events.Events, 1)
		assert.Equal(t, "etl", env.events.Events[0].TriggeredBy)
	})

	t.Run("unknown_domain_is_404", func(t *testing.T) {
		rec := newTestEnv(t).do(t, http.MethodPost, "/v1/quality/validate/XX", body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeBody[errorResponse](t, rec)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("malformed_body_is_400", func(t *testing.T) {
		env := newTestEnv(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/quality/validate/DM", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListQualityReports(t *testing.T) {
	env := newTestEnv(t)
	env.reports.ListFn = func(_ context.Context, domainKey string, page domain.PageRequest) ([]domain.QualityReport, int64, error) {
		assert.Equal(t, "DM", domainKey)
		assert.Equal(t, 10, page.Limit)
		assert.Equal(t, 20, page.Offset)
		return []domain.QualityReport{{Domain: "DM"}}, 21, nil
	}

	rec := env.do(t, http.MethodGet, "/v1/quality/reports?domain=DM&limit=10&offset=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[listReportsResponse](t, rec)
	assert.Equal(t, int64(21), resp.Total)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, 20, resp.Offset)
	require.Len(t, resp.Data, 1)
}

func TestListQualityDomains(t *testing.T) {
	rec := newTestEnv(t).do(t, http.MethodGet, "/v1/quality/domains", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[map[string][]string](t, rec)
	assert.Equal(t, []string{"AE", "DM", "LB", "VS"}, resp["domains"])
}

func TestGetContract(t *testing.T) {
	t.Run("known_domain", func(t *testing.T) {
		rec := newTestEnv(t).do(t, http.MethodGet, "/v1/contracts/DM", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		c := decodeBody[domain.DataContract](t, rec)
		assert.Equal(t, "clinical_trial_dm", c.Name)
		assert.NotEmpty(t, c.SchemaHash)
	})

	t.Run("unknown_domain_is_404", func(t *testing.T) {
		rec := newTestEnv(t).do(t, http.MethodGet, "/v1/contracts/XX", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestValidateContract(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{
		"dataset": map[string]any{
			"columns": []string{
				"STUDYID", "DOMAIN", "USUBJID", "SUBJID", "SITEID", "AGE", "AGEU",
				"SEX", "RACE", "ETHNIC", "ARM", "ARMCD", "COUNTRY", "RFSTDTC", "RFENDTC",
			},
			"rows": [][]any{
				{"ST01", "DM", "S1", "001", "SITE1", 34, "YEARS", "M", "WHITE", "NOT HISPANIC", "PLACEBO", "P", "US", "2024-01-15", "2024-06-15"},
			},
		},
	}

	rec := env.do(t, http.MethodPost, "/v1/contracts/DM/validate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody[domain.ContractValidationResult](t, rec)
	assert.Equal(t, domain.ActionAccept, result.Action)
	assert.True(t, result.IsValid)
	require.Len(t, env.results.Results, 1)
}

func TestListContractResults(t *testing.T) {
	env := newTestEnv(t)
	env.results.ListFn = func(_ context.Context, contractName string, _ domain.PageRequest) ([]domain.ContractValidationResult, int64, error) {
		assert.Equal(t, "clinical_trial_dm", contractName)
		return nil, 0, nil
	}

	rec := env.do(t, http.MethodGet, "/v1/contracts/results?contract=clinical_trial_dm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`, "nil result slice renders as an empty array")
}

func TestRecordLineageEvent(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv(t)
		in := int64(100)
		tr := lineage.NewTracker("etl", domain.EventIngestion)
		require.NoError(t, tr.AddOutput(domain.AssetFromLocation("/bronze/dm.parquet", domain.LayerBronze, &in)))
		ev, err := tr.BuildEvent()
		require.NoError(t, err)

		rec := env.do(t, http.MethodPost, "/v1/lineage/events", ev)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		echoed := decodeBody[domain.LineageEvent](t, rec)
		assert.Equal(t, ev.EventID, echoed.EventID)
		require.Len(t, env.events.Events, 1)
	})

	t.Run("missing_event_id_is_400", func(t *testing.T) {
		rec := newTestEnv(t).do(t, http.MethodPost, "/v1/lineage/events", map[string]any{"event_type": "ingestion"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLineageTraversal(t *testing.T) {
	env := newTestEnv(t)
	seed := func(typ domain.LineageEventType, inputs, outputs []string) {
		n := int64(10)
		tr := lineage.NewTracker("etl", typ)
		for _, loc := range inputs {
			require.NoError(t, tr.AddInput(domain.AssetFromLocation(loc, domain.LayerBronze, &n)))
		}
		for _, loc := range outputs {
			require.NoError(t, tr.AddOutput(domain.AssetFromLocation(loc, domain.LayerSilver, &n)))
		}
		ev, err := tr.BuildEvent()
		require.NoError(t, err)
		rec := env.do(t, http.MethodPost, "/v1/lineage/events", ev)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	seed(domain.EventIngestion, nil, []string{"/a"})
	seed(domain.EventTransformation, []string{"/a"}, []string{"/b"})
	seed(domain.EventExport, []string{"/b"}, []string{"/c"})

	t.Run("upstream", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/lineage/upstream?location=/c", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[lineageResponse](t, rec)
		assert.Equal(t, "/c", resp.Location)
		assert.Len(t, resp.Events, 3)
	})

	t.Run("downstream_with_depth", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/lineage/downstream?location=/a&max_depth=0", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[lineageResponse](t, rec)
		assert.Len(t, resp.Events, 1)
	})

	t.Run("unknown_location_is_empty_not_null", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/lineage/upstream?location=/nowhere", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"events":[]`)
	})

	t.Run("missing_location_is_400", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/lineage/upstream", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative_depth_is_400", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/lineage/upstream?location=/c&max_depth=-2", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
