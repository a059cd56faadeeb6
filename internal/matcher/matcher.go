package matcher

import (
	"math"
	"strings"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

const (
	// skill names closer than this (Dice coefficient) count as a partial match
	similarityThreshold = 0.7

	earthRadiusKm         = 6371.0
	defaultLocationScore  = 50.0
	fallbackBudgetScore   = 20.0
	positiveFeedbackBonus = 30.0
)

var positiveKeywords = []string{"good", "great", "excellent"}

// Factors holds the seven independent 0-100 sub-scores of a contractor for a job
type Factors struct {
	SkillMatch   float64 `json:"skill_match"`
	Reliability  float64 `json:"reliability"`
	Experience   float64 `json:"experience"`
	Location     float64 `json:"location"`
	Budget       float64 `json:"budget"`
	Availability float64 `json:"availability"`
	Quality      float64 `json:"quality"`
}

// Scorer computes factor scores. It holds no state and is safe for
// concurrent use.
type Scorer struct{}

// NewScorer returns a Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score calculates every factor for contractor against job. Missing data
// degrades to the documented defaults; no factor is ever skipped.
func (s *Scorer) Score(job *models.Job, contractor *models.Contractor) Factors {
	return Factors{
		SkillMatch:   s.SkillMatch(job, contractor),
		Reliability:  s.Reliability(contractor),
		Experience:   s.Experience(contractor),
		Location:     s.Location(job, contractor),
		Budget:       s.Budget(job, contractor),
		Availability: s.Availability(contractor),
		Quality:      s.Quality(contractor),
	}
}

// SkillMatch compares skills extracted from the job text with the
// contractor's declared skills
func (s *Scorer) SkillMatch(job *models.Job, contractor *models.Contractor) float64 {
	jobSkills := ExtractSkills(job.Description + " " + job.WorkType)
	if len(jobSkills) == 0 || len(contractor.Skills) == 0 {
		return 0
	}

	contractorSkills := make([]string, 0, len(contractor.Skills))
	for _, skill := range contractor.Skills {
		if skill = strings.ToLower(strings.TrimSpace(skill)); skill != "" {
			contractorSkills = append(contractorSkills, skill)
		}
	}
	if len(contractorSkills) == 0 {
		return 0
	}

	total := 0.0
	for _, js := range jobSkills {
		best := 0.0
		for _, cs := range contractorSkills {
			if cs == js {
				best = 1
				break
			}
			if sim := similarity(js, cs); sim > similarityThreshold && sim > best {
				best = sim
			}
		}
		total += best
	}

	return clamp(total/float64(len(jobSkills))*100, 0, 100)
}

// Reliability rewards rating, completion and punctuality and penalises cancellations
func (s *Scorer) Reliability(c *models.Contractor) float64 {
	completionRate := 0.0
	if all := c.CompletedJobs + c.PendingJobs + c.ActiveJobs; all > 0 {
		completionRate = float64(c.CompletedJobs) / float64(all)
	}

	score := c.Rating*20 + completionRate*30 - c.CancellationRate*50 + c.OnTimeRate*20
	return clamp(score, 0, 100)
}

// Experience scores volume of completed work, spend tier and past ratings
func (s *Scorer) Experience(c *models.Contractor) float64 {
	score := math.Min(float64(c.CompletedJobs)*5, 50)

	switch {
	case c.TotalSpent > 10000:
		score += 20
	case c.TotalSpent > 5000:
		score += 15
	case c.TotalSpent > 1000:
		score += 10
	}

	if len(c.PastJobs) > 0 {
		sum := 0.0
		for _, pj := range c.PastJobs {
			sum += pj.Rating
		}
		score += sum / float64(len(c.PastJobs)) * 10
	}

	return clamp(score, 0, 100)
}

// Location maps the great-circle distance between job and contractor to a step score
func (s *Scorer) Location(job *models.Job, c *models.Contractor) float64 {
	if job.Geo == nil || c.Geo == nil {
		return defaultLocationScore
	}

	km := Haversine(*job.Geo, *c.Geo)
	switch {
	case km <= 5:
		return 100
	case km <= 10:
		return 90
	case km <= 20:
		return 80
	case km <= 30:
		return 70
	case km <= 50:
		return 60
	case km <= 100:
		return 40
	default:
		return 20
	}
}

// Budget checks the job budget against the contractor's declared range,
// then against their historical average
func (s *Scorer) Budget(job *models.Job, c *models.Contractor) float64 {
	if c.MaxBudget > 0 && job.Budget >= c.MinBudget && job.Budget <= c.MaxBudget {
		return 100
	}

	avg := c.AverageBudget()
	if avg <= 0 {
		return fallbackBudgetScore
	}

	diff := math.Abs(job.Budget-avg) / avg
	switch {
	case diff <= 0.2:
		return 80
	case diff <= 0.5:
		return 60
	case diff <= 1.0:
		return 40
	default:
		return fallbackBudgetScore
	}
}

// Availability maps the declared availability, or derives it from active jobs
func (s *Scorer) Availability(c *models.Contractor) float64 {
	switch c.Availability {
	case models.AvailabilityAvailable:
		return 100
	case models.AvailabilityLimited:
		return 70
	case models.AvailabilityBusy:
		return 40
	case models.AvailabilityUnavailable:
		return 0
	}

	switch {
	case c.ActiveJobs <= 0:
		return 100
	case c.ActiveJobs == 1:
		return 80
	case c.ActiveJobs == 2:
		return 60
	default:
		return 30
	}
}

// Quality combines rating, a completed-jobs tier and positive feedback share
func (s *Scorer) Quality(c *models.Contractor) float64 {
	score := c.Rating * 20

	switch {
	case c.CompletedJobs >= 10:
		score += 20
	case c.CompletedJobs >= 5:
		score += 15
	case c.CompletedJobs >= 2:
		score += 10
	}

	if len(c.PastJobs) > 0 {
		positive := 0
		for _, pj := range c.PastJobs {
			if isPositiveFeedback(pj.Feedback) {
				positive++
			}
		}
		score += float64(positive) / float64(len(c.PastJobs)) * positiveFeedbackBonus
	}

	return clamp(score, 0, 100)
}

func isPositiveFeedback(feedback string) bool {
	lower := strings.ToLower(feedback)
	for _, kw := range positiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Haversine returns the great-circle distance between two points in km
func Haversine(a, b models.GeoPoint) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
