package matcher

import "github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"

// Eligible is a contractor that declared a positive rate for the job's work type
type Eligible struct {
	Contractor    *models.Contractor
	Rate          float64
	EstimatedCost *float64
}

// FilterEligible keeps the contractors with a positive rate for
// job.WorkType, in pool order, and estimates the total cost of each.
func FilterEligible(job *models.Job, pool []*models.Contractor) []Eligible {
	eligible := make([]Eligible, 0, len(pool))

	for _, c := range pool {
		if c == nil {
			continue
		}
		rate, ok := c.Rates.Rate(job.WorkType)
		if !ok || rate <= 0 {
			continue
		}
		eligible = append(eligible, Eligible{
			Contractor:    c,
			Rate:          rate,
			EstimatedCost: EstimateCost(rate, job.LandSize),
		})
	}

	return eligible
}

// EstimateCost returns rate × landSize, or nil when either is missing
func EstimateCost(rate, landSize float64) *float64 {
	if rate <= 0 || landSize <= 0 {
		return nil
	}
	cost := rate * landSize
	return &cost
}
