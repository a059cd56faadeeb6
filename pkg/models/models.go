package models

import "time"

// Availability is a contractor's declared capacity for new work
type Availability string

const (
	AvailabilityAvailable   Availability = "Available"
	AvailabilityLimited     Availability = "Limited"
	AvailabilityBusy        Availability = "Busy"
	AvailabilityUnavailable Availability = "Unavailable"
)

// MaxShortlistHistory bounds Contractor.AI.ShortlistHistory
const MaxShortlistHistory = 20

// GeoPoint is a WGS84 coordinate pair
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Job represents a land-work job posted by a landowner
type Job struct {
	ID                   string           `json:"id"`
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	WorkType             string           `json:"work_type"`
	LandSize             float64          `json:"land_size"` // acres
	Location             string           `json:"location"`
	Geo                  *GeoPoint        `json:"geo,omitempty"`
	RequiredSkills       []string         `json:"required_skills"`
	Budget               float64          `json:"budget"` // legacy, may be 0
	Shortlist            []ShortlistEntry `json:"shortlist,omitempty"`
	ShortlistGeneratedAt *time.Time       `json:"shortlist_generated_at,omitempty"`
	SelectedContractorID string           `json:"selected_contractor_id,omitempty"`
	WasAISelected        *bool            `json:"was_ai_selected,omitempty"`
	AISuccessRate        float64          `json:"ai_success_rate"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// HasShortlist reports whether a shortlist was ever generated for the job
func (j *Job) HasShortlist() bool {
	return j.ShortlistGeneratedAt != nil || len(j.Shortlist) > 0
}

// PastJob is one entry of a contractor's completed-work history
type PastJob struct {
	Rating   float64 `json:"rating"`
	Feedback string  `json:"feedback"`
	Budget   float64 `json:"budget"`
}

// ScoreHistoryEntry is one shortlist exposure of a contractor
type ScoreHistoryEntry struct {
	Score float64   `json:"score"`
	Date  time.Time `json:"date"`
}

// AIScores is the derived score bundle kept on a contractor profile.
// All scores are fractions in [0,1].
type AIScores struct {
	AIScore             float64             `json:"ai_score"`
	LatestJobAIScore    float64             `json:"latest_job_ai_score"`
	SkillMatchScore     float64             `json:"skill_match_score"`
	ReliabilityScore    float64             `json:"reliability_score"`
	ExperienceScore     float64             `json:"experience_score"`
	LocationScore       float64             `json:"location_score"`
	BudgetCompatibility float64             `json:"budget_compatibility"`
	QualityScore        float64             `json:"quality_score"`
	ShortlistHistory    []ScoreHistoryEntry `json:"shortlist_history"`
	Version             int64               `json:"version"`
}

// Contractor represents a contractor profile in the pool
type Contractor struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Skills           []string     `json:"skills"`
	Rating           float64      `json:"rating"` // 0-5
	CompletedJobs    int          `json:"completed_jobs"`
	PendingJobs      int          `json:"pending_jobs"`
	ActiveJobs       int          `json:"active_jobs"`
	TotalSpent       float64      `json:"total_spent"`
	Availability     Availability `json:"availability"`
	Geo              *GeoPoint    `json:"geo,omitempty"`
	MinBudget        float64      `json:"min_budget"`
	MaxBudget        float64      `json:"max_budget"`
	YearsExperience  float64      `json:"years_experience"`
	CancellationRate float64      `json:"cancellation_rate"` // 0-1
	OnTimeRate       float64      `json:"on_time_rate"`      // 0-1
	Rates            RateTable    `json:"rates"`
	PastJobs         []PastJob    `json:"past_jobs"`
	AI               AIScores     `json:"ai"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// AverageBudget returns the mean budget of past jobs, or 0 when none carry one
func (c *Contractor) AverageBudget() float64 {
	total, n := 0.0, 0
	for _, pj := range c.PastJobs {
		if pj.Budget > 0 {
			total += pj.Budget
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// ShortlistEntry is one ranked contractor in a job's shortlist
type ShortlistEntry struct {
	ContractorID   string   `json:"contractor_id"`
	ContractorName string   `json:"contractor_name,omitempty"`
	OverallScore   int      `json:"overall_score"`
	SkillMatch     int      `json:"skill_match"`
	Reliability    int      `json:"reliability"`
	Experience     int      `json:"experience"`
	Location       int      `json:"location"`
	Budget         int      `json:"budget"`
	Quality        int      `json:"quality"`
	Explanation    string   `json:"explanation"`
	EstimatedCost  *float64 `json:"estimated_cost"`
	Rank           int      `json:"rank"`
}
