package matching

import (
	"strings"

	"github.com/google/uuid"

	"github.com/roomly/roomly-api/internal/domain/profile"
)

// The eligibility pool is built from a list of predicates combined with AND.
// Each predicate variant carries its own emptiness check, so an omitted filter
// is a true no-op rather than an accidental match-nothing clause. Conditions
// use `?` placeholders and are rebound for Postgres by the repository.

type predicate interface {
	apply(b *condBuilder)
}

type condBuilder struct {
	conds []string
	args  []interface{}
}

func (b *condBuilder) where(cond string, args ...interface{}) {
	b.conds = append(b.conds, cond)
	b.args = append(b.args, args...)
}

func (b *condBuilder) clause() string {
	if len(b.conds) == 0 {
		return "TRUE"
	}
	return strings.Join(b.conds, " AND ")
}

// notSelf excludes the requester from their own pool
type notSelf struct {
	userID uuid.UUID
}

func (p notSelf) apply(b *condBuilder) {
	b.where("u.id <> ?", p.userID)
}

// activeAccount excludes soft-deleted and non-active accounts
type activeAccount struct{}

func (p activeAccount) apply(b *condBuilder) {
	b.where("u.deleted_at IS NULL AND u.status = 'active'")
}

// housingType keeps only candidates with the given search type
type housingType struct {
	value profile.HousingType
}

func (p housingType) apply(b *condBuilder) {
	if p.value == "" {
		return
	}
	b.where("pref.housing_type = ?", p.value)
}

// sameCity keeps only candidates in the requester's city
type sameCity struct {
	city string
}

func (p sameCity) apply(b *condBuilder) {
	if p.city == "" {
		return
	}
	b.where("p.city = ?", p.city)
}

// genderRestriction restricts candidate gender for female_only/male_only
// preferences; mixed or unset imposes no restriction
type genderRestriction struct {
	pref profile.GenderPreference
}

func (p genderRestriction) apply(b *condBuilder) {
	switch p.pref {
	case profile.PrefFemaleOnly:
		b.where("p.gender = ?", profile.GenderFemale)
	case profile.PrefMaleOnly:
		b.where("p.gender = ?", profile.GenderMale)
	}
}

// notBlockedWith excludes candidates with a block in either direction
type notBlockedWith struct {
	userID uuid.UUID
}

func (p notBlockedWith) apply(b *condBuilder) {
	b.where(`NOT EXISTS (
		SELECT 1 FROM user_blocks bl
		WHERE (bl.blocker_user_id = ? AND bl.blocked_user_id = u.id)
		   OR (bl.blocker_user_id = u.id AND bl.blocked_user_id = ?)
	)`, p.userID, p.userID)
}

// notSwipedBy excludes candidates the requester has already decided on
type notSwipedBy struct {
	userID uuid.UUID
}

func (p notSwipedBy) apply(b *condBuilder) {
	b.where(`NOT EXISTS (
		SELECT 1 FROM swipes s
		WHERE s.swiper_id = ? AND s.swiped_id = u.id
	)`, p.userID)
}

// poolPredicates assembles the hard filters for a requester's context
func poolPredicates(fc *FeedContext) []predicate {
	return []predicate{
		notSelf{userID: fc.UserID},
		activeAccount{},
		housingType{value: profile.HousingLookingForRoommate},
		sameCity{city: fc.Profile.City},
		genderRestriction{pref: fc.Prefs.GenderPreference},
		notBlockedWith{userID: fc.UserID},
		notSwipedBy{userID: fc.UserID},
	}
}
