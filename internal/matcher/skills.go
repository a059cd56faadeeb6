package matcher

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// diceBigrams compares lowercased character bigrams
var diceBigrams = &metrics.SorensenDice{CaseSensitive: false, NgramSize: 2}

// skillVocabulary is the fixed set of trade terms recognised in job text.
// Keys are already normalised (lowercase, letters only).
var skillVocabulary = map[string]bool{
	// plumbing & water
	"plumbing": true, "plumber": true, "pipe": true, "pipes": true, "pipefitting": true,
	"drain": true, "drainage": true, "leak": true, "irrigation": true, "borewell": true,
	// electrical
	"electrical": true, "electrician": true, "wiring": true, "lighting": true, "solar": true,
	// structure & finishing
	"carpentry": true, "carpenter": true, "woodwork": true, "framing": true,
	"roofing": true, "roofer": true, "shingles": true, "gutter": true,
	"painting": true, "painter": true, "drywall": true, "plastering": true, "plaster": true,
	"masonry": true, "mason": true, "brick": true, "bricklaying": true, "concrete": true,
	"tiling": true, "tiler": true, "flooring": true, "welding": true, "welder": true,
	"hvac": true, "insulation": true,
	// building works
	"renovation": true, "remodeling": true, "remodel": true, "construction": true,
	"demolition": true, "fencing": true, "fence": true, "paving": true,
	// land preparation
	"clearing": true, "excavation": true, "excavator": true, "grading": true,
	"levelling": true, "leveling": true, "bulldozer": true, "tractor": true,
	"ploughing": true, "plowing": true, "tilling": true, "stump": true, "logging": true,
	"surveying": true, "surveyor": true,
	// planting & grounds
	"landscaping": true, "landscaper": true, "gardening": true, "gardener": true,
	"lawn": true, "lawncare": true, "mowing": true, "planting": true, "plantation": true,
	"seeding": true, "pruning": true, "trimming": true, "tree": true, "weeding": true,
	"mulching": true, "fertilizing": true, "harvesting": true, "nursery": true,
	// smart home & security
	"automation": true, "security": true, "cctv": true, "smarthome": true,
	// general
	"installation": true, "repair": true, "maintenance": true, "handyman": true,
}

// ExtractSkills returns the distinct vocabulary terms found in text
func ExtractSkills(text string) []string {
	seen := make(map[string]bool)
	skills := []string{}

	for _, word := range strings.Fields(text) {
		token := normaliseToken(word)
		if token == "" || seen[token] || !skillVocabulary[token] {
			continue
		}
		seen[token] = true
		skills = append(skills, token)
	}

	return skills
}

// normaliseToken lowercases a word and strips everything but letters
func normaliseToken(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// similarity is the Sørensen–Dice coefficient over character bigrams of
// the two strings, ignoring case and whitespace. Returns a value in [0,1].
func similarity(a, b string) float64 {
	a = strings.Join(strings.Fields(a), "")
	b = strings.Join(strings.Fields(b), "")
	return strutil.Similarity(a, b, diceBigrams)
}
