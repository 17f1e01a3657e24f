package matching

import (
	"math"
	"time"

	"github.com/roomly/roomly-api/internal/domain/profile"
)

// Score dimension caps. The total is capped at 100 by construction.
const (
	MaxLocationScore  = 40
	MaxBudgetScore    = 30
	MaxLifestyleScore = 20
	MaxQualityScore   = 5
	MaxRecencyScore   = 5
)

// ScoreBreakdown is the per-dimension contribution to the total
type ScoreBreakdown struct {
	Location       int `json:"location"`
	Budget         int `json:"budget"`
	Lifestyle      int `json:"lifestyle"`
	ProfileQuality int `json:"profile_quality"`
	Recency        int `json:"recency"`
}

// Score is a compatibility score with its breakdown
type Score struct {
	Total     int            `json:"total"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// ScoreCandidate computes the compatibility score of a candidate against the
// requester's context. Pure and deterministic: no I/O, `now` is passed in.
// Missing or unknown fields degrade to the lowest sub-score for their
// dimension; scoring never fails.
func ScoreCandidate(fc *FeedContext, c *Candidate, now time.Time) Score {
	b := ScoreBreakdown{
		Location:       locationScore(fc.Profile, c),
		Budget:         budgetScore(fc.Prefs, c),
		Lifestyle:      lifestyleScore(fc.Prefs, c),
		ProfileQuality: qualityScore(c),
		Recency:        recencyScore(c, now),
	}

	return Score{
		Total:     b.Location + b.Budget + b.Lifestyle + b.ProfileQuality + b.Recency,
		Breakdown: b,
	}
}

// locationScore: same district 40, same city different district 20.
// The eligibility filter already restricts the pool to the requester's city;
// the city check here keeps the scorer safe on arbitrary input.
func locationScore(p *profile.Profile, c *Candidate) int {
	if p.City == "" || p.City != c.City {
		return 0
	}
	if p.District.Valid && c.District.Valid &&
		p.District.String != "" && p.District.String == c.District.String {
		return MaxLocationScore
	}
	return 20
}

// budgetScore: 30 × overlap of the two budget ranges divided by the
// requester's range width. A zero-width requester range counts as width 1.
// Either side missing a bound scores 0.
func budgetScore(prefs *profile.Preferences, c *Candidate) int {
	if !prefs.HasBudget() || !c.BudgetMin.Valid || !c.BudgetMax.Valid {
		return 0
	}

	reqMin, reqMax := prefs.BudgetMin.Int64, prefs.BudgetMax.Int64
	candMin, candMax := c.BudgetMin.Int64, c.BudgetMax.Int64

	overlap := min64(reqMax, candMax) - max64(reqMin, candMin)
	if overlap <= 0 {
		return 0
	}

	width := reqMax - reqMin
	if width == 0 {
		width = 1
	}

	return int(math.Round(MaxBudgetScore * float64(overlap) / float64(width)))
}

// lifestyleScore: smoking (7) + pets (7) + alcohol (6)
func lifestyleScore(prefs *profile.Preferences, c *Candidate) int {
	return smokingScore(prefs.Smoking, c.Smoking) +
		petScore(c.Pets) +
		alcoholScore(prefs.Alcohol, c.Alcohol)
}

// smokingScore follows the ordered scale no < social < regular. Identical
// habits score 7. Adjacency is asymmetric by value: no↔social scores 3,
// social↔regular scores 2. Everything else, unknown included, scores 0.
func smokingScore(a, b profile.SmokingHabit) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 7
	}
	if (a == profile.SmokingNo && b == profile.SmokingSocial) ||
		(a == profile.SmokingSocial && b == profile.SmokingNo) {
		return 3
	}
	if (a == profile.SmokingSocial && b == profile.SmokingRegular) ||
		(a == profile.SmokingRegular && b == profile.SmokingSocial) {
		return 2
	}
	return 0
}

// petScore is driven solely by the candidate's stated pet-compatibility;
// the requester's preference is not consulted.
func petScore(p profile.PetPreference) int {
	switch p {
	case profile.PetsNo:
		return 7
	case profile.PetsDoesntMatter:
		return 5
	case profile.PetsNotBothered:
		return 2
	default:
		// loves_pets, unset and unknown all score 0
		return 0
	}
}

var alcoholOrdinal = map[profile.AlcoholUse]int{
	profile.AlcoholNever:        0,
	profile.AlcoholOccasionally: 1,
	profile.AlcoholSocially:     2,
	profile.AlcoholRegularly:    3,
}

// alcoholScore maps both sides onto an ordinal scale and scores by distance:
// identical 6, one step 3, two steps 1, otherwise 0.
func alcoholScore(a, b profile.AlcoholUse) int {
	av, aok := alcoholOrdinal[a]
	bv, bok := alcoholOrdinal[b]
	if !aok || !bok {
		return 0
	}
	switch abs(av - bv) {
	case 0:
		return 6
	case 1:
		return 3
	case 2:
		return 1
	default:
		return 0
	}
}

// qualityScore: has photo 2, verified photo +1
func qualityScore(c *Candidate) int {
	score := 0
	if c.HasPhoto() {
		score += 2
		if c.PhotoVerified {
			score++
		}
	}
	return score
}

// recencyScore: last active under 1 day 5, under 3 days 3, under 7 days 1,
// otherwise (never active included) 0
func recencyScore(c *Candidate, now time.Time) int {
	if !c.LastActiveAt.Valid {
		return 0
	}
	since := now.Sub(c.LastActiveAt.Time)
	switch {
	case since < 24*time.Hour:
		return 5
	case since < 72*time.Hour:
		return 3
	case since < 7*24*time.Hour:
		return 1
	default:
		return 0
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
