// Package analytics measures how often landowners pick a shortlisted contractor.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/events"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

// Store is the persistence the aggregator reads and writes
type Store interface {
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context) ([]*models.Job, error)
	SetSelection(ctx context.Context, jobID, contractorID string, wasAISelected bool) error
	SetWorkTypeSuccessRate(ctx context.Context, workType string, rate float64) (int64, error)
	TopContractors(ctx context.Context, limit int) ([]*models.Contractor, error)
}

// TopContractor is a leaderboard row
type TopContractor struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	AIScore          float64 `json:"ai_score"`
	LatestJobAIScore float64 `json:"latest_job_ai_score"`
	Shortlisted      int     `json:"times_shortlisted"`
}

// Selection is the outcome of recording a landowner's choice
type Selection struct {
	JobID         string `json:"job_id"`
	ContractorID  string `json:"contractor_id"`
	WasAISelected bool   `json:"was_ai_selected"`
	WorkTypeRate  Rate   `json:"work_type_rate"`
}

// Service computes success metrics over stored jobs
type Service struct {
	store     Store
	publisher events.Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewService returns an analytics service. publisher may be nil.
func NewService(store Store, publisher events.Publisher, log logrus.FieldLogger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, publisher: publisher, log: log, now: time.Now}
}

// SuccessRate is the platform-wide success rate
func (s *Service) SuccessRate(ctx context.Context) (Rate, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to list jobs: %w", err)
	}
	return ComputeSuccessRate(jobs), nil
}

// WorkTypeSuccessRates returns the success rate of every work type
func (s *Service) WorkTypeSuccessRates(ctx context.Context) (map[string]Rate, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return ComputeWorkTypeRates(jobs), nil
}

// UpdateWorkTypeSuccessRate recomputes the rate of workType and writes it
// onto all of its jobs in one batch
func (s *Service) UpdateWorkTypeSuccessRate(ctx context.Context, workType string) (Rate, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to list jobs: %w", err)
	}

	group := make([]*models.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.WorkType == workType {
			group = append(group, j)
		}
	}
	rate := ComputeSuccessRate(group)

	n, err := s.store.SetWorkTypeSuccessRate(ctx, workType, rate.Rate)
	if err != nil {
		return rate, err
	}

	s.log.WithFields(logrus.Fields{
		"work_type": workType,
		"rate":      rate.Rate,
		"jobs":      n,
	}).Debug("work type success rate updated")
	return rate, nil
}

// RecomputeAll refreshes the stored success rate of every work type
func (s *Service) RecomputeAll(ctx context.Context) (map[string]Rate, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	rates := ComputeWorkTypeRates(jobs)
	for _, wt := range WorkTypes(jobs) {
		if _, err := s.store.SetWorkTypeSuccessRate(ctx, wt, rates[wt].Rate); err != nil {
			return rates, err
		}
	}

	s.log.WithField("work_types", len(rates)).Info("success rates recomputed")
	return rates, nil
}

// TopContractors returns up to limit contractors with a positive AI score,
// best first
func (s *Service) TopContractors(ctx context.Context, limit int) ([]TopContractor, error) {
	contractors, err := s.store.TopContractors(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top contractors: %w", err)
	}

	top := make([]TopContractor, 0, len(contractors))
	for _, c := range contractors {
		top = append(top, TopContractor{
			ID:               c.ID,
			Name:             c.Name,
			AIScore:          c.AI.AIScore,
			LatestJobAIScore: c.AI.LatestJobAIScore,
			Shortlisted:      len(c.AI.ShortlistHistory),
		})
	}
	return top, nil
}

// UsageStats counts jobs and generated shortlists overall and over the last week
func (s *Service) UsageStats(ctx context.Context) (Usage, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to list jobs: %w", err)
	}
	return ComputeUsage(jobs, s.now()), nil
}

// UpdateAISuccessTracking records that contractorID was selected for
// jobID, marks whether they came from the shortlist and refreshes the
// work type's success rate
func (s *Service) UpdateAISuccessTracking(ctx context.Context, jobID, contractorID string) (*Selection, error) {
	contractorID = strings.TrimSpace(contractorID)
	if contractorID == "" {
		return nil, fmt.Errorf("contractor id is required: %w", models.ErrInvalidArgument)
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	wasAISelected := InShortlist(job, contractorID)
	if err := s.store.SetSelection(ctx, job.ID, contractorID, wasAISelected); err != nil {
		return nil, err
	}

	sel := &Selection{JobID: job.ID, ContractorID: contractorID, WasAISelected: wasAISelected}

	log := s.log.WithFields(logrus.Fields{"job_id": job.ID, "contractor_id": contractorID})
	if rate, err := s.UpdateWorkTypeSuccessRate(ctx, job.WorkType); err != nil {
		log.WithError(err).Warn("failed to refresh work type success rate")
	} else {
		sel.WorkTypeRate = rate
	}

	if err := s.publisher.Publish(ctx, events.NewContractorSelected(job.ID, contractorID, wasAISelected)); err != nil {
		log.WithError(err).Warn("failed to publish selection event")
	}

	log.WithField("was_ai_selected", wasAISelected).Info("selection recorded")
	return sel, nil
}
