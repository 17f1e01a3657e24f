package matching

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/roomly/roomly-api/internal/domain/profile"
)

func testContext() *FeedContext {
	userID := uuid.New()
	return &FeedContext{
		UserID: userID,
		Profile: &profile.Profile{
			UserID:   userID,
			Name:     "Ayse",
			City:     "Istanbul",
			District: sql.NullString{String: "Kadikoy", Valid: true},
		},
		Prefs: &profile.Preferences{
			UserID:    userID,
			BudgetMin: sql.NullInt64{Int64: 5000, Valid: true},
			BudgetMax: sql.NullInt64{Int64: 6000, Valid: true},
			Smoking:   profile.SmokingNo,
			Alcohol:   profile.AlcoholSocially,
		},
	}
}

func testCandidate() *Candidate {
	return &Candidate{
		UserID:   uuid.New(),
		Name:     "Mehmet",
		City:     "Istanbul",
		District: sql.NullString{String: "Kadikoy", Valid: true},
	}
}

func TestLocationScore(t *testing.T) {
	fc := testContext()

	tests := []struct {
		name     string
		city     string
		district string
		want     int
	}{
		{"same district", "Istanbul", "Kadikoy", 40},
		{"same city different district", "Istanbul", "Besiktas", 20},
		{"different city", "Ankara", "Cankaya", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate()
			c.City = tt.city
			c.District = sql.NullString{String: tt.district, Valid: true}
			if got := locationScore(fc.Profile, c); got != tt.want {
				t.Errorf("locationScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocationScoreMissingDistrict(t *testing.T) {
	fc := testContext()
	c := testCandidate()
	c.District = sql.NullString{}

	if got := locationScore(fc.Profile, c); got != 20 {
		t.Errorf("locationScore() = %d, want 20 for same city without district", got)
	}
}

func TestBudgetScore(t *testing.T) {
	tests := []struct {
		name             string
		reqMin, reqMax   int64
		candMin, candMax int64
		want             int
	}{
		// overlap 200 over requester width 1000
		{"partial overlap", 5000, 6000, 3000, 5200, 6},
		// candidate range strictly inside: overlap 1000 over width 5000
		{"candidate inside requester", 3000, 8000, 5000, 6000, 6},
		{"full coverage", 5000, 6000, 3000, 8000, 30},
		{"no overlap", 5000, 6000, 7000, 9000, 0},
		{"touching ranges", 5000, 6000, 6000, 7000, 0},
		{"identical ranges", 5000, 6000, 5000, 6000, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := &profile.Preferences{
				BudgetMin: sql.NullInt64{Int64: tt.reqMin, Valid: true},
				BudgetMax: sql.NullInt64{Int64: tt.reqMax, Valid: true},
			}
			c := testCandidate()
			c.BudgetMin = sql.NullInt64{Int64: tt.candMin, Valid: true}
			c.BudgetMax = sql.NullInt64{Int64: tt.candMax, Valid: true}

			if got := budgetScore(prefs, c); got != tt.want {
				t.Errorf("budgetScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBudgetScoreZeroWidthRequester(t *testing.T) {
	prefs := &profile.Preferences{
		BudgetMin: sql.NullInt64{Int64: 5000, Valid: true},
		BudgetMax: sql.NullInt64{Int64: 5000, Valid: true},
	}
	c := testCandidate()
	c.BudgetMin = sql.NullInt64{Int64: 4000, Valid: true}
	c.BudgetMax = sql.NullInt64{Int64: 6000, Valid: true}

	// point range inside candidate range: zero overlap, scores 0
	if got := budgetScore(prefs, c); got != 0 {
		t.Errorf("budgetScore() = %d, want 0 for point requester range", got)
	}
}

func TestBudgetScoreMissingBounds(t *testing.T) {
	prefs := &profile.Preferences{
		BudgetMin: sql.NullInt64{Int64: 5000, Valid: true},
		BudgetMax: sql.NullInt64{Int64: 6000, Valid: true},
	}
	c := testCandidate()
	c.BudgetMin = sql.NullInt64{Int64: 5000, Valid: true}

	if got := budgetScore(prefs, c); got != 0 {
		t.Errorf("budgetScore() = %d, want 0 when candidate max is missing", got)
	}

	if got := budgetScore(&profile.Preferences{}, testCandidate()); got != 0 {
		t.Errorf("budgetScore() = %d, want 0 when requester has no budget", got)
	}
}

func TestSmokingScore(t *testing.T) {
	tests := []struct {
		a, b profile.SmokingHabit
		want int
	}{
		{profile.SmokingNo, profile.SmokingNo, 7},
		{profile.SmokingNo, profile.SmokingSocial, 3},
		{profile.SmokingSocial, profile.SmokingNo, 3},
		{profile.SmokingSocial, profile.SmokingRegular, 2},
		{profile.SmokingRegular, profile.SmokingSocial, 2},
		{profile.SmokingNo, profile.SmokingRegular, 0},
		{"", profile.SmokingNo, 0},
		{profile.SmokingNo, "", 0},
	}

	for _, tt := range tests {
		if got := smokingScore(tt.a, tt.b); got != tt.want {
			t.Errorf("smokingScore(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPetScore(t *testing.T) {
	tests := []struct {
		p    profile.PetPreference
		want int
	}{
		{profile.PetsNo, 7},
		{profile.PetsDoesntMatter, 5},
		{profile.PetsNotBothered, 2},
		{profile.PetsLovesPets, 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := petScore(tt.p); got != tt.want {
			t.Errorf("petScore(%q) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestAlcoholScore(t *testing.T) {
	tests := []struct {
		a, b profile.AlcoholUse
		want int
	}{
		{profile.AlcoholNever, profile.AlcoholNever, 6},
		{profile.AlcoholSocially, profile.AlcoholOccasionally, 3},
		{profile.AlcoholSocially, profile.AlcoholNever, 1},
		{profile.AlcoholNever, profile.AlcoholRegularly, 0},
		{"", profile.AlcoholNever, 0},
	}

	for _, tt := range tests {
		if got := alcoholScore(tt.a, tt.b); got != tt.want {
			t.Errorf("alcoholScore(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestQualityScore(t *testing.T) {
	c := testCandidate()
	if got := qualityScore(c); got != 0 {
		t.Errorf("qualityScore() = %d, want 0 without photo", got)
	}

	c.AvatarURL = sql.NullString{String: "https://cdn.example.com/a.jpg", Valid: true}
	if got := qualityScore(c); got != 2 {
		t.Errorf("qualityScore() = %d, want 2 with unverified photo", got)
	}

	c.PhotoVerified = true
	if got := qualityScore(c); got != 3 {
		t.Errorf("qualityScore() = %d, want 3 with verified photo", got)
	}

	// verification without a photo contributes nothing
	c.AvatarURL = sql.NullString{}
	if got := qualityScore(c); got != 0 {
		t.Errorf("qualityScore() = %d, want 0 for verified flag without photo", got)
	}
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want int
	}{
		{"12 hours ago", 12 * time.Hour, 5},
		{"2 days ago", 48 * time.Hour, 3},
		{"5 days ago", 5 * 24 * time.Hour, 1},
		{"30 days ago", 30 * 24 * time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate()
			c.LastActiveAt = sql.NullTime{Time: now.Add(-tt.ago), Valid: true}
			if got := recencyScore(c, now); got != tt.want {
				t.Errorf("recencyScore() = %d, want %d", got, tt.want)
			}
		})
	}

	c := testCandidate()
	if got := recencyScore(c, now); got != 0 {
		t.Errorf("recencyScore() = %d, want 0 for never active", got)
	}
}

func TestScoreCandidateTotalAndRange(t *testing.T) {
	fc := testContext()
	now := time.Now()

	c := testCandidate()
	c.AvatarURL = sql.NullString{String: "https://cdn.example.com/m.jpg", Valid: true}
	c.PhotoVerified = true
	c.LastActiveAt = sql.NullTime{Time: now.Add(-2 * time.Hour), Valid: true}
	c.BudgetMin = sql.NullInt64{Int64: 5000, Valid: true}
	c.BudgetMax = sql.NullInt64{Int64: 6000, Valid: true}
	c.Smoking = profile.SmokingNo
	c.Pets = profile.PetsNo
	c.Alcohol = profile.AlcoholSocially

	score := ScoreCandidate(fc, c, now)
	if score.Total != 100 {
		t.Errorf("Total = %d, want 100 for a perfect candidate", score.Total)
	}
	if sum := score.Breakdown.Location + score.Breakdown.Budget + score.Breakdown.Lifestyle +
		score.Breakdown.ProfileQuality + score.Breakdown.Recency; sum != score.Total {
		t.Errorf("breakdown sums to %d, total is %d", sum, score.Total)
	}

	empty := ScoreCandidate(fc, &Candidate{UserID: uuid.New(), City: "Ankara"}, now)
	if empty.Total != 0 {
		t.Errorf("Total = %d, want 0 for fully incompatible candidate", empty.Total)
	}
}

func TestScoreCandidateIsDeterministic(t *testing.T) {
	fc := testContext()
	c := testCandidate()
	c.BudgetMin = sql.NullInt64{Int64: 5500, Valid: true}
	c.BudgetMax = sql.NullInt64{Int64: 7000, Valid: true}
	now := time.Now()

	first := ScoreCandidate(fc, c, now)
	for i := 0; i < 5; i++ {
		if got := ScoreCandidate(fc, c, now); got != first {
			t.Fatalf("score changed between identical calls: %+v vs %+v", got, first)
		}
	}
}
