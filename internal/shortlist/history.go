package shortlist

import (
	"context"
	"time"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/matcher"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

const (
	priorWeight   = 0.7
	currentWeight = 0.3
)

// NormalizedScores are one shortlist exposure of a contractor, as fractions in [0,1]
type NormalizedScores struct {
	Overall     float64
	SkillMatch  float64
	Reliability float64
	Experience  float64
	Location    float64
	Budget      float64
	Quality     float64
}

// Normalize converts 0-100 factors and a [0,1] final score into NormalizedScores
func Normalize(overall float64, f matcher.Factors) NormalizedScores {
	return NormalizedScores{
		Overall:     fraction(overall),
		SkillMatch:  fraction(f.SkillMatch / 100),
		Reliability: fraction(f.Reliability / 100),
		Experience:  fraction(f.Experience / 100),
		Location:    fraction(f.Location / 100),
		Budget:      fraction(f.Budget / 100),
		Quality:     fraction(f.Quality / 100),
	}
}

func fraction(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ApplyScore records one exposure on s. The history keeps the newest
// models.MaxShortlistHistory entries and AIScore becomes their mean, except
// on the first entry when a legacy AIScore exists: that is blended 70/30
// with the new score.
func ApplyScore(s *models.AIScores, scores NormalizedScores, now time.Time) {
	prior := s.AIScore
	first := len(s.ShortlistHistory) == 0

	s.ShortlistHistory = append(s.ShortlistHistory, models.ScoreHistoryEntry{Score: scores.Overall, Date: now})
	if n := len(s.ShortlistHistory); n > models.MaxShortlistHistory {
		s.ShortlistHistory = append([]models.ScoreHistoryEntry(nil), s.ShortlistHistory[n-models.MaxShortlistHistory:]...)
	}

	if first && prior > 0 {
		s.AIScore = prior*priorWeight + scores.Overall*currentWeight
	} else {
		total := 0.0
		for _, h := range s.ShortlistHistory {
			total += h.Score
		}
		s.AIScore = total / float64(len(s.ShortlistHistory))
	}

	s.LatestJobAIScore = scores.Overall
	s.SkillMatchScore = scores.SkillMatch
	s.ReliabilityScore = scores.Reliability
	s.ExperienceScore = scores.Experience
	s.LocationScore = scores.Location
	s.BudgetCompatibility = scores.Budget
	s.QualityScore = scores.Quality
}

// ProfileStore persists the AI score bundle of a contractor. mutate runs
// against the current bundle and the result is written back atomically.
type ProfileStore interface {
	UpdateAIScores(ctx context.Context, contractorID string, mutate func(*models.AIScores) error) error
}

// History maintains the rolling AI score of contractors
type History struct {
	store ProfileStore
	now   func() time.Time
}

// NewHistory returns a History backed by store
func NewHistory(store ProfileStore) *History {
	return &History{store: store, now: time.Now}
}

// UpdateContractorScore appends scores to the contractor's history
func (h *History) UpdateContractorScore(ctx context.Context, contractorID string, scores NormalizedScores) error {
	now := h.now()
	return h.store.UpdateAIScores(ctx, contractorID, func(s *models.AIScores) error {
		ApplyScore(s, scores, now)
		return nil
	})
}
