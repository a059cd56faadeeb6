package ai

import (
	"math"
	"strings"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

// FeatureVector is one row of the prediction request
type FeatureVector struct {
	JobBudget            float64 `json:"job_budget"`
	CompletedJobs        float64 `json:"completed_jobs"`
	ContractorRating     float64 `json:"contractor_rating"`
	ContractorAvgBudget  float64 `json:"contractor_avg_budget"`
	ContractorExperience float64 `json:"contractor_experience"`
	LocationScore        float64 `json:"location_score"`
	ReliabilityScore     float64 `json:"reliability_score"`
	ExperienceScore      float64 `json:"experience_score"`
	SkillMatchScore      float64 `json:"skill_match_score"`
	AIScore              float64 `json:"ai_score"`
	SkillOverlap         float64 `json:"skill_overlap"`
	SkillOverlapPct      float64 `json:"skill_overlap_pct"`
	BudgetDiff           float64 `json:"budget_diff"`
}

// BuildFeatures assembles the feature row for contractor against job.
// Stored profile sub-scores are read as they are; nothing here is recomputed.
func BuildFeatures(job *models.Job, contractor *models.Contractor) FeatureVector {
	avgBudget := contractor.AverageBudget()
	overlap := SkillOverlap(job.RequiredSkills, contractor.Skills)

	pct := 0.0
	if required := distinctSkills(job.RequiredSkills); len(required) > 0 {
		pct = float64(overlap) / float64(len(required))
	}

	return FeatureVector{
		JobBudget:            job.Budget,
		CompletedJobs:        float64(contractor.CompletedJobs),
		ContractorRating:     contractor.Rating,
		ContractorAvgBudget:  avgBudget,
		ContractorExperience: float64(len(contractor.PastJobs)),
		LocationScore:        contractor.AI.LocationScore,
		ReliabilityScore:     contractor.AI.ReliabilityScore,
		ExperienceScore:      contractor.AI.ExperienceScore,
		SkillMatchScore:      contractor.AI.SkillMatchScore,
		AIScore:              contractor.AI.AIScore,
		SkillOverlap:         float64(overlap),
		SkillOverlapPct:      pct,
		BudgetDiff:           math.Abs(job.Budget - avgBudget),
	}
}

// SkillOverlap counts the required skills the contractor declares,
// compared case-insensitively
func SkillOverlap(required, declared []string) int {
	have := distinctSkills(declared)
	n := 0
	for skill := range distinctSkills(required) {
		if have[skill] {
			n++
		}
	}
	return n
}

func distinctSkills(skills []string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			set[s] = true
		}
	}
	return set
}
