package ai

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

const (
	fallbackBase      = 0.3
	fallbackMaxJitter = 0.3
	fallbackMin       = 0.2
	fallbackMax       = 0.95
)

// Fallback is the local heuristic used when no model prediction is available
type Fallback struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFallback returns a fallback scorer. A zero seed uses the current time.
func NewFallback(seed int64) *Fallback {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Fallback{rng: rand.New(rand.NewSource(seed))}
}

// Score returns 0.3 + rating×0.1 + completed×0.02 plus jitter in [0,0.3),
// clamped to [0.2,0.95]
func (f *Fallback) Score(c *models.Contractor) float64 {
	f.mu.Lock()
	jitter := f.rng.Float64() * fallbackMaxJitter
	f.mu.Unlock()

	score := fallbackBase + jitter
	if c != nil {
		score += c.Rating*0.1 + float64(c.CompletedJobs)*0.02
	}
	return clampFraction(score, fallbackMin, fallbackMax)
}

// ScoreAll scores every contractor in order
func (f *Fallback) ScoreAll(contractors []*models.Contractor) []float64 {
	scores := make([]float64, len(contractors))
	for i, c := range contractors {
		scores[i] = f.Score(c)
	}
	return scores
}

func clampFraction(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
