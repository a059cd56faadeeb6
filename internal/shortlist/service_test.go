package shortlist

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/ai"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/events"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/matcher"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

// memStore is an in-memory job, contractor and profile store
type memStore struct {
	mu          sync.Mutex
	jobs        map[string]*models.Job
	contractors []*models.Contractor
	saved       map[string][]models.ShortlistEntry
	saveErr     error
	updateErr   error
	updates     map[string]int
}

func newMemStore(job *models.Job, contractors ...*models.Contractor) *memStore {
	return &memStore{
		jobs:        map[string]*models.Job{job.ID: job},
		contractors: contractors,
		saved:       map[string][]models.ShortlistEntry{},
		updates:     map[string]int{},
	}
}

func (m *memStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return nil, fmt.Errorf("job %s: %w", id, models.ErrNotFound)
}

func (m *memStore) SaveShortlist(ctx context.Context, jobID string, entries []models.ShortlistEntry, at time.Time) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[jobID] = entries
	return nil
}

func (m *memStore) ListContractors(ctx context.Context) ([]*models.Contractor, error) {
	return m.contractors, nil
}

func (m *memStore) GetContractor(ctx context.Context, id string) (*models.Contractor, error) {
	for _, c := range m.contractors {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("contractor %s: %w", id, models.ErrNotFound)
}

func (m *memStore) UpdateAIScores(ctx context.Context, id string, mutate func(*models.AIScores) error) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.GetContractor(ctx, id)
	if err != nil {
		return err
	}
	m.updates[id]++
	return mutate(&c.AI)
}

type fixedPredictor []float64

func (p fixedPredictor) Predict(ctx context.Context, rows []ai.FeatureVector) ([]float64, error) {
	return p, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (r *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func plumbingFixture() (*models.Job, []*models.Contractor) {
	job := &models.Job{
		ID:          "job-1",
		WorkType:    "plumbing",
		Description: "Fix a burst pipe and install a new sink",
		LandSize:    2,
	}
	contractors := []*models.Contractor{
		{ID: "c1", Name: "Asha", Skills: []string{"plumbing"}, Rates: models.RateTable{"plumbing": 50}},
		{ID: "c2", Name: "Ravi", Skills: []string{"pipe"}, Rates: models.RateTable{"plumbing": 60}},
		{ID: "c3", Name: "Meena", Skills: []string{"sink"}, Rates: models.RateTable{"plumbing": 70}},
		{ID: "c4", Name: "Kiran", Rates: models.RateTable{"painting": 40}},
	}
	return job, contractors
}

func newTestService(store *memStore, predictor ai.Predictor, pub events.Publisher) *Service {
	logger, _ := test.NewNullLogger()
	engine := ai.NewEngine(predictor, ai.NewFallback(1), logger)
	return NewService(store, store, store, engine, pub, logger)
}

func TestGeneratePlumbingScenario(t *testing.T) {
	job, contractors := plumbingFixture()
	store := newMemStore(job, contractors...)
	pub := &recordingPublisher{}
	svc := newTestService(store, fixedPredictor{0.3, 0.9, 0.6}, pub)

	res, err := svc.Generate(context.Background(), "job-1", 0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if res.Source != ai.SourceModel {
		t.Errorf("Source = %s, want model", res.Source)
	}
	if len(res.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(res.Entries))
	}

	wantOrder := []string{"c2", "c3", "c1"}
	wantCost := map[string]float64{"c1": 100, "c2": 120, "c3": 140}
	for i, e := range res.Entries {
		if e.ContractorID != wantOrder[i] {
			t.Errorf("position %d = %s, want %s", i, e.ContractorID, wantOrder[i])
		}
		if e.Rank != i+1 {
			t.Errorf("%s rank = %d, want %d", e.ContractorID, e.Rank, i+1)
		}
		if e.EstimatedCost == nil || *e.EstimatedCost != wantCost[e.ContractorID] {
			t.Errorf("%s estimated cost = %v, want %v", e.ContractorID, e.EstimatedCost, wantCost[e.ContractorID])
		}
	}
	if res.Entries[0].OverallScore != 90 {
		t.Errorf("top score = %d, want 90", res.Entries[0].OverallScore)
	}

	if got := store.saved["job-1"]; len(got) != 3 {
		t.Errorf("saved %d entries, want 3", len(got))
	}
	if store.updates["c4"] != 0 {
		t.Error("ineligible contractor should not get a history update")
	}
	if c := contractors[1]; c.AI.LatestJobAIScore != 0.9 || len(c.AI.ShortlistHistory) != 1 {
		t.Errorf("c2 history not updated: %+v", c.AI)
	}

	if len(pub.events) != 1 || pub.events[0].Type != events.ShortlistGenerated {
		t.Fatalf("expected one shortlist event, got %+v", pub.events)
	}
	if pub.events[0].Payload["count"] != 3 || pub.events[0].Payload["source"] != "model" {
		t.Errorf("event payload = %v", pub.events[0].Payload)
	}
}

func TestGenerateFallbackOnEmptyPrediction(t *testing.T) {
	job, contractors := plumbingFixture()
	store := newMemStore(job, contractors...)
	svc := newTestService(store, fixedPredictor{}, nil)

	res, err := svc.Generate(context.Background(), "job-1", 0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Source != ai.SourceFallback {
		t.Errorf("Source = %s, want fallback", res.Source)
	}
	if len(res.Entries) != 3 {
		t.Fatalf("expected a fully ranked list, got %d entries", len(res.Entries))
	}
	for i, e := range res.Entries {
		if e.OverallScore < 20 || e.OverallScore > 95 {
			t.Errorf("%s score %d outside fallback bounds", e.ContractorID, e.OverallScore)
		}
		if e.Rank != i+1 {
			t.Errorf("%s rank = %d, want %d", e.ContractorID, e.Rank, i+1)
		}
		if i > 0 && e.OverallScore > res.Entries[i-1].OverallScore {
			t.Errorf("ranking not descending at %d", i)
		}
	}
	for _, c := range contractors[:3] {
		if s := c.AI.LatestJobAIScore; s < 0.2 || s > 0.95 {
			t.Errorf("%s latest score %v outside [0.2,0.95]", c.ID, s)
		}
	}
}

func TestGenerateLimitTruncatesShortlistOnly(t *testing.T) {
	job, contractors := plumbingFixture()
	store := newMemStore(job, contractors...)
	svc := newTestService(store, fixedPredictor{0.3, 0.9, 0.6}, nil)

	res, err := svc.Generate(context.Background(), "job-1", 2)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(res.Entries) != 2 || len(store.saved["job-1"]) != 2 {
		t.Errorf("expected 2 entries returned and saved, got %d and %d", len(res.Entries), len(store.saved["job-1"]))
	}
	for _, id := range []string{"c1", "c2", "c3"} {
		if store.updates[id] != 1 {
			t.Errorf("%s history updates = %d, want 1", id, store.updates[id])
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	job, contractors := plumbingFixture()

	svc := newTestService(newMemStore(job, contractors...), fixedPredictor{0.5}, nil)
	if _, err := svc.Generate(context.Background(), "missing", 0); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing job error = %v, want ErrNotFound", err)
	}

	job.WorkType = "roofing"
	if _, err := svc.Generate(context.Background(), "job-1", 0); !errors.Is(err, models.ErrNoEligibleContractors) {
		t.Errorf("no eligible error = %v, want ErrNoEligibleContractors", err)
	}
}

func TestGeneratePersistenceFailuresAreNotFatal(t *testing.T) {
	job, contractors := plumbingFixture()
	store := newMemStore(job, contractors...)
	store.saveErr = errors.New("disk full")
	store.updateErr = errors.New("locked")
	svc := newTestService(store, fixedPredictor{0.3, 0.9, 0.6}, nil)

	res, err := svc.Generate(context.Background(), "job-1", 0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(res.Entries) != 3 {
		t.Errorf("expected the ranking to be returned, got %d entries", len(res.Entries))
	}
}

func TestBreakdown(t *testing.T) {
	job, contractors := plumbingFixture()
	svc := newTestService(newMemStore(job, contractors...), nil, nil)

	b, err := svc.Breakdown(context.Background(), "job-1", "c1")
	if err != nil {
		t.Fatalf("Breakdown() error = %v", err)
	}
	if !b.Eligible || b.Rate != 50 || b.EstimatedCost == nil || *b.EstimatedCost != 100 {
		t.Errorf("eligibility wrong: %+v", b)
	}
	if b.Weights != matcher.WeightsFor("plumbing") {
		t.Errorf("weights = %+v", b.Weights)
	}
	if b.OverallScore != matcher.OverallScore(b.Factors, b.Weights) {
		t.Errorf("OverallScore = %d, not the weighted sum", b.OverallScore)
	}

	b, err = svc.Breakdown(context.Background(), "job-1", "c4")
	if err != nil {
		t.Fatalf("Breakdown() error = %v", err)
	}
	if b.Eligible || b.EstimatedCost != nil {
		t.Errorf("c4 should be ineligible: %+v", b)
	}

	if _, err := svc.Breakdown(context.Background(), "job-1", "nobody"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing contractor error = %v, want ErrNotFound", err)
	}
}

func TestApplyScoreEvictsOldest(t *testing.T) {
	var s models.AIScores
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 21; i++ {
		ApplyScore(&s, NormalizedScores{Overall: float64(i) / 100}, start.Add(time.Duration(i)*time.Hour))
	}

	if len(s.ShortlistHistory) != models.MaxShortlistHistory {
		t.Fatalf("history length = %d, want %d", len(s.ShortlistHistory), models.MaxShortlistHistory)
	}
	if s.ShortlistHistory[0].Score != 0.01 {
		t.Errorf("oldest remaining score = %v, want 0.01", s.ShortlistHistory[0].Score)
	}
	if last := s.ShortlistHistory[19]; last.Score != 0.2 || !last.Date.Equal(start.Add(20*time.Hour)) {
		t.Errorf("newest entry = %+v", last)
	}

	// mean of 0.01..0.20
	if want := 0.105; math.Abs(s.AIScore-want) > 1e-9 {
		t.Errorf("AIScore = %v, want %v", s.AIScore, want)
	}
}

func TestApplyScoreColdStart(t *testing.T) {
	s := models.AIScores{AIScore: 0.9}
	ApplyScore(&s, NormalizedScores{Overall: 0.2, SkillMatch: 0.5, Quality: 0.4}, time.Now())

	if math.Abs(s.AIScore-0.69) > 1e-9 {
		t.Errorf("AIScore = %v, want 0.69", s.AIScore)
	}
	if s.LatestJobAIScore != 0.2 {
		t.Errorf("LatestJobAIScore = %v, want 0.2", s.LatestJobAIScore)
	}
	if s.SkillMatchScore != 0.5 || s.QualityScore != 0.4 {
		t.Errorf("per-factor scores not overwritten: %+v", s)
	}

	// second exposure is a plain mean
	ApplyScore(&s, NormalizedScores{Overall: 0.6}, time.Now())
	if math.Abs(s.AIScore-0.4) > 1e-9 {
		t.Errorf("AIScore after second update = %v, want 0.4", s.AIScore)
	}
}

func TestApplyScoreNoPrior(t *testing.T) {
	var s models.AIScores
	ApplyScore(&s, NormalizedScores{Overall: 0.75}, time.Now())
	if s.AIScore != 0.75 {
		t.Errorf("AIScore = %v, want 0.75", s.AIScore)
	}
}

func TestNormalize(t *testing.T) {
	n := Normalize(1.4, matcher.Factors{SkillMatch: 50, Reliability: 120, Budget: -10, Location: 100})
	if n.Overall != 1 || n.SkillMatch != 0.5 || n.Reliability != 1 || n.Budget != 0 || n.Location != 1 {
		t.Errorf("Normalize = %+v", n)
	}
}
