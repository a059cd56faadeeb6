package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/ai"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/analytics"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/database"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/shortlist"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

type fixedPredictor []float64

func (p fixedPredictor) Predict(ctx context.Context, rows []ai.FeatureVector) ([]float64, error) {
	return p, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *database.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	job := &models.Job{ID: "job-1", Title: "Fix pipes", WorkType: "plumbing", Description: "pipe leak", LandSize: 2}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveJob(ctx, &models.Job{ID: "job-2", Title: "Roof", WorkType: "roofing"}); err != nil {
		t.Fatal(err)
	}
	for i, rate := range []float64{50, 60, 70} {
		c := &models.Contractor{
			ID:     fmt.Sprintf("c%d", i+1),
			Name:   fmt.Sprintf("Contractor %d", i+1),
			Skills: []string{"plumbing"},
			Rates:  models.RateTable{"plumbing": rate},
		}
		if err := store.SaveContractor(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	logger, _ := test.NewNullLogger()
	engine := ai.NewEngine(fixedPredictor{0.3, 0.9, 0.6}, ai.NewFallback(1), logger)
	shortlists := shortlist.NewService(store, store, store, engine, nil, logger)
	stats := analytics.NewService(store, nil, logger)

	return NewHandler(shortlists, store, stats, 2, logger).Router(), store
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	if w := do(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestGenerateAndReadShortlist(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodPost, "/api/v1/jobs/job-1/shortlist", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var res shortlist.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("expected the default limit of 2, got %d", len(res.Entries))
	}
	if res.Entries[0].ContractorID != "c2" || res.Entries[1].ContractorID != "c3" {
		t.Errorf("unexpected order: %s, %s", res.Entries[0].ContractorID, res.Entries[1].ContractorID)
	}
	if res.Source != ai.SourceModel {
		t.Errorf("source = %s", res.Source)
	}

	w = do(r, http.MethodGet, "/api/v1/jobs/job-1/shortlist", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"contractor_id":"c2"`) {
		t.Errorf("stored shortlist: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/v1/jobs/job-1/shortlist?limit=0", "")
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || len(res.Entries) != 3 {
		t.Errorf("limit=0 should return every eligible contractor, got %d (%v)", len(res.Entries), err)
	}
}

func TestErrorStatusCodes(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown job", http.MethodPost, "/api/v1/jobs/nope/shortlist", "", http.StatusNotFound},
		{"no eligible contractors", http.MethodPost, "/api/v1/jobs/job-2/shortlist", "", http.StatusUnprocessableEntity},
		{"bad limit", http.MethodPost, "/api/v1/jobs/job-1/shortlist?limit=-3", "", http.StatusBadRequest},
		{"unknown contractor", http.MethodGet, "/api/v1/jobs/job-1/contractors/zz/breakdown", "", http.StatusNotFound},
		{"selection without body", http.MethodPost, "/api/v1/jobs/job-1/selection", `{}`, http.StatusBadRequest},
		{"selection on unknown job", http.MethodPost, "/api/v1/jobs/nope/selection", `{"contractorId":"c1"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("expected an error body, got %s", w.Body.String())
			}
		})
	}
}

func TestBreakdown(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/v1/jobs/job-1/contractors/c1/breakdown", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var b shortlist.Breakdown
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatal(err)
	}
	if !b.Eligible || b.EstimatedCost == nil || *b.EstimatedCost != 100 {
		t.Errorf("breakdown = %+v", b)
	}
}

func TestSelectionAndAnalytics(t *testing.T) {
	r, store := setupRouter(t)

	if w := do(r, http.MethodPost, "/api/v1/jobs/job-1/shortlist", ""); w.Code != http.StatusOK {
		t.Fatalf("generate status = %d", w.Code)
	}

	w := do(r, http.MethodPost, "/api/v1/jobs/job-1/selection", `{"contractorId":"c2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("selection status = %d, body = %s", w.Code, w.Body.String())
	}
	var sel analytics.Selection
	if err := json.Unmarshal(w.Body.Bytes(), &sel); err != nil || !sel.WasAISelected {
		t.Errorf("selection = %+v (%v)", sel, err)
	}

	job, _ := store.GetJob(context.Background(), "job-1")
	if job.AISuccessRate != 1 {
		t.Errorf("ai_success_rate = %v, want 1", job.AISuccessRate)
	}

	w = do(r, http.MethodGet, "/api/v1/analytics/success-rate", "")
	var rate analytics.Rate
	if err := json.Unmarshal(w.Body.Bytes(), &rate); err != nil || rate.Rate != 1 || rate.Total != 1 {
		t.Errorf("success rate = %+v (%v)", rate, err)
	}

	w = do(r, http.MethodGet, "/api/v1/analytics/work-types", "")
	var rates map[string]analytics.Rate
	if err := json.Unmarshal(w.Body.Bytes(), &rates); err != nil || rates["plumbing"].Rate != 1 {
		t.Errorf("work type rates = %+v (%v)", rates, err)
	}

	w = do(r, http.MethodGet, "/api/v1/analytics/top-contractors?limit=1", "")
	var top []analytics.TopContractor
	if err := json.Unmarshal(w.Body.Bytes(), &top); err != nil || len(top) != 1 || top[0].ID != "c2" {
		t.Errorf("top contractors = %+v (%v)", top, err)
	}

	w = do(r, http.MethodGet, "/api/v1/analytics/usage", "")
	var usage analytics.Usage
	if err := json.Unmarshal(w.Body.Bytes(), &usage); err != nil || usage.TotalJobs != 2 || usage.ShortlistedJobs != 1 {
		t.Errorf("usage = %+v (%v)", usage, err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("job x: %w", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("wt: %w", models.ErrNoEligibleContractors), http.StatusUnprocessableEntity},
		{models.ErrInvalidArgument, http.StatusBadRequest},
		{models.ErrVersionConflict, http.StatusConflict},
		{errors.New("disk"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
