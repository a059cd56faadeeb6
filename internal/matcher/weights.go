package matcher

import (
	"math"
	"strings"
)

// Weights is the per-factor weighting for a work type. Fields sum to 1.0.
type Weights struct {
	SkillMatch   float64 `json:"skill_match"`
	Reliability  float64 `json:"reliability"`
	Experience   float64 `json:"experience"`
	Location     float64 `json:"location"`
	Budget       float64 `json:"budget"`
	Availability float64 `json:"availability"`
	Quality      float64 `json:"quality"`
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.SkillMatch + w.Reliability + w.Experience + w.Location +
		w.Budget + w.Availability + w.Quality
}

var baseWeights = Weights{
	SkillMatch: 0.25, Reliability: 0.20, Experience: 0.15, Location: 0.15,
	Budget: 0.10, Availability: 0.10, Quality: 0.05,
}

var (
	// trades where a wrong skill means unsafe or failed work
	skillCriticalWeights = Weights{
		SkillMatch: 0.35, Reliability: 0.25, Experience: 0.15, Location: 0.10,
		Budget: 0.10, Availability: 0.03, Quality: 0.02,
	}
	groundsWeights = Weights{
		SkillMatch: 0.15, Reliability: 0.15, Experience: 0.10, Location: 0.30,
		Budget: 0.15, Availability: 0.10, Quality: 0.05,
	}
	buildingWeights = Weights{
		SkillMatch: 0.25, Reliability: 0.20, Experience: 0.25, Location: 0.10,
		Budget: 0.10, Availability: 0.05, Quality: 0.05,
	}
	paintingWeights = Weights{
		SkillMatch: 0.20, Reliability: 0.15, Experience: 0.10, Location: 0.15,
		Budget: 0.15, Availability: 0.10, Quality: 0.15,
	}
	roofingWeights = Weights{
		SkillMatch: 0.30, Reliability: 0.25, Experience: 0.20, Location: 0.10,
		Budget: 0.05, Availability: 0.05, Quality: 0.05,
	}
	smartHomeWeights = Weights{
		SkillMatch: 0.40, Reliability: 0.20, Experience: 0.15, Location: 0.05,
		Budget: 0.10, Availability: 0.05, Quality: 0.05,
	}
)

var workTypeWeights = map[string]Weights{
	"plumbing":     skillCriticalWeights,
	"electrical":   skillCriticalWeights,
	"landscaping":  groundsWeights,
	"gardening":    groundsWeights,
	"lawn-care":    groundsWeights,
	"renovation":   buildingWeights,
	"construction": buildingWeights,
	"remodeling":   buildingWeights,
	"painting":     paintingWeights,
	"roofing":      roofingWeights,
	"smart-home":   smartHomeWeights,
	"automation":   smartHomeWeights,
	"security":     smartHomeWeights,
}

// WeightsFor returns the weighting for workType, falling back to the base
// weighting when the label is not a known trade family
func WeightsFor(workType string) Weights {
	if w, ok := workTypeWeights[strings.ToLower(strings.TrimSpace(workType))]; ok {
		return w
	}
	return baseWeights
}

// WorkTypes lists every label that has a dedicated weighting
func WorkTypes() []string {
	types := make([]string, 0, len(workTypeWeights))
	for wt := range workTypeWeights {
		types = append(types, wt)
	}
	return types
}

// OverallScore is the weighted sum of factors rounded to an integer
func OverallScore(f Factors, w Weights) int {
	sum := f.SkillMatch*w.SkillMatch +
		f.Reliability*w.Reliability +
		f.Experience*w.Experience +
		f.Location*w.Location +
		f.Budget*w.Budget +
		f.Availability*w.Availability +
		f.Quality*w.Quality
	return int(math.Round(clamp(sum, 0, 100)))
}
