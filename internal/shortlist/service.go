// Package shortlist generates ranked, explained contractor shortlists for jobs.
package shortlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/ai"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/events"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/matcher"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

// ContractorPool provides contractor profiles
type ContractorPool interface {
	ListContractors(ctx context.Context) ([]*models.Contractor, error)
	GetContractor(ctx context.Context, id string) (*models.Contractor, error)
}

// JobProvider reads jobs and stores their shortlist
type JobProvider interface {
	GetJob(ctx context.Context, id string) (*models.Job, error)
	SaveShortlist(ctx context.Context, jobID string, entries []models.ShortlistEntry, generatedAt time.Time) error
}

// Result is the outcome of one shortlist generation
type Result struct {
	JobID       string                  `json:"job_id"`
	Entries     []models.ShortlistEntry `json:"entries"`
	Source      ai.Source               `json:"source"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// Breakdown explains how one contractor scores against one job
type Breakdown struct {
	JobID         string          `json:"job_id"`
	ContractorID  string          `json:"contractor_id"`
	WorkType      string          `json:"work_type"`
	Factors       matcher.Factors `json:"factors"`
	Weights       matcher.Weights `json:"weights"`
	OverallScore  int             `json:"overall_score"`
	Eligible      bool            `json:"eligible"`
	Rate          float64         `json:"rate,omitempty"`
	EstimatedCost *float64        `json:"estimated_cost"`
	Explanation   string          `json:"explanation"`
}

// Service generates shortlists
type Service struct {
	jobs        JobProvider
	contractors ContractorPool
	history     *History
	engine      *ai.Engine
	scorer      *matcher.Scorer
	publisher   events.Publisher
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewService wires a shortlist service. publisher may be nil.
func NewService(jobs JobProvider, contractors ContractorPool, profiles ProfileStore,
	engine *ai.Engine, publisher events.Publisher, log logrus.FieldLogger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		jobs:        jobs,
		contractors: contractors,
		history:     NewHistory(profiles),
		engine:      engine,
		scorer:      matcher.NewScorer(),
		publisher:   publisher,
		log:         log,
		now:         time.Now,
	}
}

// Generate ranks every eligible contractor for jobID, replaces the job's
// stored shortlist with the top limit entries (all when limit <= 0) and
// updates the score history of every scored contractor. Persistence and
// publish failures are logged and do not fail the call.
func (s *Service) Generate(ctx context.Context, jobID string, limit int) (*Result, error) {
	log := s.log.WithField("job_id", jobID)

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	pool, err := s.contractors.ListContractors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", err)
	}

	eligible := matcher.FilterEligible(job, pool)
	if len(eligible) == 0 {
		return nil, fmt.Errorf("work type %q: %w", job.WorkType, models.ErrNoEligibleContractors)
	}

	candidates := s.score(job, eligible)

	rows := make([]ai.FeatureVector, len(candidates))
	contractors := make([]*models.Contractor, len(candidates))
	for i, c := range candidates {
		rows[i] = ai.BuildFeatures(job, c.Contractor)
		contractors[i] = c.Contractor
	}

	prediction := s.engine.Predict(ctx, rows, contractors)
	for i := range candidates {
		candidates[i].Prediction = prediction.Scores[i]
	}

	entries := matcher.Rank(candidates, limit)
	generatedAt := s.now()

	if err := s.jobs.SaveShortlist(ctx, job.ID, entries, generatedAt); err != nil {
		log.WithError(err).Error("failed to save shortlist")
	}

	for _, c := range candidates {
		scores := Normalize(c.Prediction, c.Factors)
		if err := s.history.UpdateContractorScore(ctx, c.Contractor.ID, scores); err != nil {
			log.WithError(err).WithField("contractor_id", c.Contractor.ID).Warn("failed to update contractor score history")
		}
	}

	event := events.NewShortlistGenerated(job.ID, len(entries), string(prediction.Source))
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("failed to publish shortlist event")
	}

	log.WithFields(logrus.Fields{
		"eligible":          len(candidates),
		"shortlisted":       len(entries),
		"prediction_source": prediction.Source,
	}).Info("shortlist generated")

	return &Result{
		JobID:       job.ID,
		Entries:     entries,
		Source:      prediction.Source,
		GeneratedAt: generatedAt,
	}, nil
}

// score computes factors for every eligible contractor concurrently. Each
// goroutine writes only its own slot.
func (s *Service) score(job *models.Job, eligible []matcher.Eligible) []matcher.Candidate {
	candidates := make([]matcher.Candidate, len(eligible))

	var wg sync.WaitGroup
	for i := range eligible {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidates[i] = matcher.Candidate{
				Eligible: eligible[i],
				Factors:  s.scorer.Score(job, eligible[i].Contractor),
			}
		}(i)
	}
	wg.Wait()

	return candidates
}

// Breakdown returns the factor scores, weights and weighted overall score of
// one contractor for one job
func (s *Service) Breakdown(ctx context.Context, jobID, contractorID string) (*Breakdown, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	contractor, err := s.contractors.GetContractor(ctx, contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contractor: %w", err)
	}

	factors := s.scorer.Score(job, contractor)
	weights := matcher.WeightsFor(job.WorkType)

	b := &Breakdown{
		JobID:        job.ID,
		ContractorID: contractor.ID,
		WorkType:     job.WorkType,
		Factors:      factors,
		Weights:      weights,
		OverallScore: matcher.OverallScore(factors, weights),
		Explanation:  matcher.Explain(factors),
	}
	if rate, ok := contractor.Rates.Rate(job.WorkType); ok && rate > 0 {
		b.Eligible = true
		b.Rate = rate
		b.EstimatedCost = matcher.EstimateCost(rate, job.LandSize)
	}

	return b, nil
}
