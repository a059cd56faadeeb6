package matcher

import (
	"strings"
	"testing"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

func candidate(id string, prediction float64) Candidate {
	return Candidate{
		Eligible:   Eligible{Contractor: &models.Contractor{ID: id, Name: "Contractor " + id}},
		Prediction: prediction,
	}
}

func TestRankOrdersAndNumbers(t *testing.T) {
	candidates := []Candidate{
		candidate("a", 0.5),
		candidate("b", 0.9),
		candidate("c", 0.5),
		candidate("d", 0.7),
	}

	entries := Rank(candidates, 0)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	wantOrder := []string{"b", "d", "a", "c"}
	for i, e := range entries {
		if e.ContractorID != wantOrder[i] {
			t.Errorf("position %d: got %s, want %s", i, e.ContractorID, wantOrder[i])
		}
		if e.Rank != i+1 {
			t.Errorf("position %d: rank %d, want %d", i, e.Rank, i+1)
		}
		if i > 0 && e.OverallScore > entries[i-1].OverallScore {
			t.Errorf("scores not non-increasing at %d: %d > %d", i, e.OverallScore, entries[i-1].OverallScore)
		}
	}
	if entries[0].OverallScore != 90 {
		t.Errorf("top OverallScore = %d, want 90", entries[0].OverallScore)
	}
}

func TestRankLimit(t *testing.T) {
	candidates := []Candidate{candidate("a", 0.1), candidate("b", 0.2), candidate("c", 0.3)}

	entries := Rank(candidates, 2)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ContractorID != "c" || entries[1].ContractorID != "b" {
		t.Errorf("unexpected order: %s, %s", entries[0].ContractorID, entries[1].ContractorID)
	}

	if got := Rank(candidates, 10); len(got) != 3 {
		t.Errorf("limit above pool size returned %d entries", len(got))
	}
	if got := Rank(nil, 5); len(got) != 0 {
		t.Errorf("empty input returned %d entries", len(got))
	}
}

func TestRankCarriesFactorsAndCost(t *testing.T) {
	cost := 240.0
	c := Candidate{
		Eligible: Eligible{
			Contractor:    &models.Contractor{ID: "x"},
			Rate:          120,
			EstimatedCost: &cost,
		},
		Factors: Factors{
			SkillMatch: 84.6, Reliability: 150, Experience: -3, Location: 60,
			Budget: 20, Availability: 100, Quality: 70.5,
		},
		Prediction: 0.734,
	}

	e := Rank([]Candidate{c}, 0)[0]
	if e.OverallScore != 73 {
		t.Errorf("OverallScore = %d, want 73", e.OverallScore)
	}
	if e.SkillMatch != 85 || e.Reliability != 100 || e.Experience != 0 || e.Quality != 71 {
		t.Errorf("factor rounding/clamping wrong: %+v", e)
	}
	if e.EstimatedCost == nil || *e.EstimatedCost != 240 {
		t.Errorf("EstimatedCost = %v, want 240", e.EstimatedCost)
	}
	if e.Explanation == "" {
		t.Error("Explanation should not be empty")
	}
}

func TestExplainIsDeterministic(t *testing.T) {
	f := Factors{SkillMatch: 95, Reliability: 85, Experience: 65, Location: 90, Budget: 50, Availability: 100, Quality: 30}

	first := Explain(f)
	for i := 0; i < 5; i++ {
		if got := Explain(f); got != first {
			t.Fatalf("Explain not deterministic: %q vs %q", got, first)
		}
	}

	if !strings.HasPrefix(first, "Skills perfectly match") {
		t.Errorf("unexpected explanation start: %q", first)
	}
	for _, want := range []string{"highly reliable", "good experience", "located very close", "available now"} {
		if !strings.Contains(first, want) {
			t.Errorf("explanation %q missing %q", first, want)
		}
	}
	if strings.Contains(first, "work quality") {
		t.Errorf("low quality should be omitted: %q", first)
	}
}

func TestExplainLowScores(t *testing.T) {
	if got := Explain(Factors{}); got != "Declared a rate for this work type." {
		t.Errorf("Explain(zero) = %q", got)
	}
}
