package matcher

import (
	"math"
	"sort"
	"strings"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

// Candidate is a scored, eligible contractor waiting to be ranked.
// Prediction is the final ranking score in [0,1]; Factors are for display.
type Candidate struct {
	Eligible
	Factors    Factors
	Prediction float64
}

// Rank orders candidates by descending prediction score and assigns
// positions 1..N. Equal scores keep their input order. limit <= 0 returns
// the full ranking.
func Rank(candidates []Candidate, limit int) []models.ShortlistEntry {
	entries := make([]models.ShortlistEntry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, toEntry(c))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OverallScore > entries[j].OverallScore
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

func toEntry(c Candidate) models.ShortlistEntry {
	entry := models.ShortlistEntry{
		OverallScore:  toPercent(c.Prediction),
		SkillMatch:    roundScore(c.Factors.SkillMatch),
		Reliability:   roundScore(c.Factors.Reliability),
		Experience:    roundScore(c.Factors.Experience),
		Location:      roundScore(c.Factors.Location),
		Budget:        roundScore(c.Factors.Budget),
		Quality:       roundScore(c.Factors.Quality),
		Explanation:   Explain(c.Factors),
		EstimatedCost: c.EstimatedCost,
	}
	if c.Contractor != nil {
		entry.ContractorID = c.Contractor.ID
		entry.ContractorName = c.Contractor.Name
	}
	return entry
}

func toPercent(fraction float64) int {
	return roundScore(fraction * 100)
}

func roundScore(v float64) int {
	return int(math.Round(clamp(v, 0, 100)))
}

type phrase struct {
	high, good, fair string
}

// explanation phrases per factor, in output order
var factorPhrases = []struct {
	value  func(Factors) float64
	phrase phrase
}{
	{func(f Factors) float64 { return f.SkillMatch }, phrase{
		"skills perfectly match the job requirements", "good skill match", "partial skill match"}},
	{func(f Factors) float64 { return f.Reliability }, phrase{
		"highly reliable", "good reliability record", ""}},
	{func(f Factors) float64 { return f.Experience }, phrase{
		"extensive experience", "good experience", "some relevant experience"}},
	{func(f Factors) float64 { return f.Location }, phrase{
		"located very close to the site", "located nearby", ""}},
	{func(f Factors) float64 { return f.Budget }, phrase{
		"pricing fits the budget", "good budget compatibility", ""}},
	{func(f Factors) float64 { return f.Availability }, phrase{
		"available now", "good availability", "limited availability"}},
	{func(f Factors) float64 { return f.Quality }, phrase{
		"excellent work quality", "good work quality", ""}},
}

// Explain builds a deterministic one-line explanation from factor scores
func Explain(f Factors) string {
	parts := []string{}
	for _, fp := range factorPhrases {
		v := fp.value(f)
		var p string
		switch {
		case v > 80:
			p = fp.phrase.high
		case v > 60:
			p = fp.phrase.good
		case v > 40:
			p = fp.phrase.fair
		}
		if p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) == 0 {
		return "Declared a rate for this work type."
	}
	parts[0] = strings.ToUpper(parts[0][:1]) + parts[0][1:]
	return strings.Join(parts, ", ") + "."
}
