package analytics

import (
	"sort"
	"time"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

// UsageWindow is the trailing window reported by usage stats
const UsageWindow = 7 * 24 * time.Hour

// Rate is a success ratio with the counts it was computed from
type Rate struct {
	Successes int     `json:"successes"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

func newRate(successes, total int) Rate {
	r := Rate{Successes: successes, Total: total}
	if total > 0 {
		r.Rate = float64(successes) / float64(total)
	}
	return r
}

// Usage counts jobs and generated shortlists
type Usage struct {
	TotalJobs         int `json:"total_jobs"`
	ShortlistedJobs   int `json:"shortlisted_jobs"`
	RecentJobs        int `json:"recent_jobs"`
	RecentShortlisted int `json:"recent_shortlisted_jobs"`
}

// InShortlist reports whether contractorID appears in the job's shortlist
func InShortlist(job *models.Job, contractorID string) bool {
	for _, e := range job.Shortlist {
		if e.ContractorID == contractorID {
			return true
		}
	}
	return false
}

// counted reports whether the job has both a shortlist and a selection
func counted(job *models.Job) bool {
	return job.HasShortlist() && job.SelectedContractorID != ""
}

// ComputeSuccessRate is the fraction of decided, shortlisted jobs whose
// selected contractor was on the shortlist
func ComputeSuccessRate(jobs []*models.Job) Rate {
	successes, total := 0, 0
	for _, j := range jobs {
		if !counted(j) {
			continue
		}
		total++
		if InShortlist(j, j.SelectedContractorID) {
			successes++
		}
	}
	return newRate(successes, total)
}

// ComputeWorkTypeRates partitions ComputeSuccessRate by work type. Work
// types with no decided jobs are still reported, with a zero rate.
func ComputeWorkTypeRates(jobs []*models.Job) map[string]Rate {
	byType := map[string][]*models.Job{}
	for _, j := range jobs {
		byType[j.WorkType] = append(byType[j.WorkType], j)
	}

	rates := make(map[string]Rate, len(byType))
	for wt, group := range byType {
		rates[wt] = ComputeSuccessRate(group)
	}
	return rates
}

// ComputeUsage counts jobs and shortlisted jobs overall and within
// UsageWindow before now, by job creation time
func ComputeUsage(jobs []*models.Job, now time.Time) Usage {
	since := now.Add(-UsageWindow)

	var u Usage
	for _, j := range jobs {
		u.TotalJobs++
		recent := !j.CreatedAt.Before(since)
		if recent {
			u.RecentJobs++
		}
		if j.HasShortlist() {
			u.ShortlistedJobs++
			if recent {
				u.RecentShortlisted++
			}
		}
	}
	return u
}

// WorkTypes returns the distinct work types of jobs, sorted
func WorkTypes(jobs []*models.Job) []string {
	seen := map[string]bool{}
	types := []string{}
	for _, j := range jobs {
		if !seen[j.WorkType] {
			seen[j.WorkType] = true
			types = append(types, j.WorkType)
		}
	}
	sort.Strings(types)
	return types
}
