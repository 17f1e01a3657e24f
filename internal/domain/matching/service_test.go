package matching

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/roomly/roomly-api/internal/domain/profile"
	"github.com/roomly/roomly-api/internal/domain/user"
)

type pairKey struct {
	a, b uuid.UUID
}

type fakeMatchRepo struct {
	pool    []Candidate
	swipes  map[pairKey]*Swipe
	matches map[uuid.UUID]*Match
	byPair  map[pairKey]uuid.UUID
	creates int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{
		swipes:  make(map[pairKey]*Swipe),
		matches: make(map[uuid.UUID]*Match),
		byPair:  make(map[pairKey]uuid.UUID),
	}
}

func (r *fakeMatchRepo) CandidatePool(ctx context.Context, fc *FeedContext) ([]Candidate, error) {
	return r.pool, nil
}

func (r *fakeMatchRepo) UpsertSwipe(ctx context.Context, swipe *Swipe) error {
	key := pairKey{swipe.SwiperID, swipe.SwipedID}
	now := time.Now()
	if existing, ok := r.swipes[key]; ok {
		swipe.CreatedAt = existing.CreatedAt
	} else {
		swipe.CreatedAt = now
	}
	swipe.UpdatedAt = now
	r.swipes[key] = swipe
	return nil
}

func (r *fakeMatchRepo) HasLikeFrom(ctx context.Context, swiperID, swipedID uuid.UUID) (bool, error) {
	s, ok := r.swipes[pairKey{swiperID, swipedID}]
	return ok && s.Action == ActionLike, nil
}

func (r *fakeMatchRepo) CreateMatch(ctx context.Context, a, b uuid.UUID) (*Match, error) {
	first, second := CanonicalPair(a, b)
	key := pairKey{first, second}
	if _, ok := r.byPair[key]; ok {
		return nil, nil
	}
	r.creates++
	m := &Match{ID: uuid.New(), UserFirstID: first, UserSecondID: second, MatchedAt: time.Now()}
	r.matches[m.ID] = m
	r.byPair[key] = m.ID
	return m, nil
}

func (r *fakeMatchRepo) Unmatch(ctx context.Context, requesterID uuid.UUID, matchID uuid.UUID) error {
	m, ok := r.matches[matchID]
	if !ok || !m.IsActive() || (m.UserFirstID != requesterID && m.UserSecondID != requesterID) {
		return ErrMatchNotFound
	}
	m.UnmatchedAt = sql.NullTime{Time: time.Now(), Valid: true}
	return nil
}

func (r *fakeMatchRepo) HasActiveMatch(ctx context.Context, a, b uuid.UUID) (bool, error) {
	first, second := CanonicalPair(a, b)
	id, ok := r.byPair[pairKey{first, second}]
	if !ok {
		return false, nil
	}
	return r.matches[id].IsActive(), nil
}

func (r *fakeMatchRepo) ListActiveMatches(ctx context.Context, userID uuid.UUID) ([]*Match, error) {
	var out []*Match
	for _, m := range r.matches {
		if m.IsActive() && (m.UserFirstID == userID || m.UserSecondID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) GetLikers(ctx context.Context, userID uuid.UUID, token *string, limit int) ([]Liker, *string, error) {
	var out []Liker
	for key, s := range r.swipes {
		if key.b == userID && s.Action == ActionLike {
			out = append(out, Liker{SwiperID: key.a, UpdatedAt: s.UpdatedAt})
		}
	}
	return out, nil, nil
}

func (r *fakeMatchRepo) CountLikers(ctx context.Context, userID uuid.UUID) (int64, error) {
	likers, _, _ := r.GetLikers(ctx, userID, nil, 0)
	return int64(len(likers)), nil
}

type fakeProfileReader struct {
	profiles map[uuid.UUID]*profile.Profile
	prefs    map[uuid.UUID]*profile.Preferences
}

func newFakeProfileReader() *fakeProfileReader {
	return &fakeProfileReader{
		profiles: make(map[uuid.UUID]*profile.Profile),
		prefs:    make(map[uuid.UUID]*profile.Preferences),
	}
}

func (r *fakeProfileReader) GetProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	return r.profiles[userID], nil
}

func (r *fakeProfileReader) GetPreferences(ctx context.Context, userID uuid.UUID) (*profile.Preferences, error) {
	return r.prefs[userID], nil
}

func (r *fakeProfileReader) add(userID uuid.UUID) {
	r.profiles[userID] = &profile.Profile{UserID: userID, Name: "Test", City: "Istanbul"}
	r.prefs[userID] = &profile.Preferences{UserID: userID, HousingType: profile.HousingLookingForRoommate}
}

type fakeUserReader struct {
	active map[uuid.UUID]bool
}

func (r *fakeUserReader) GetActiveByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if !r.active[id] {
		return nil, nil
	}
	return &user.User{ID: id, Status: user.StatusActive}, nil
}

type fakeBlockChecker struct {
	blocked map[pairKey]bool
}

func (c *fakeBlockChecker) IsBlockedEither(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return c.blocked[pairKey{a, b}] || c.blocked[pairKey{b, a}], nil
}

type fixture struct {
	repo    *fakeMatchRepo
	profile *fakeProfileReader
	users   *fakeUserReader
	blocks  *fakeBlockChecker
	svc     *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:    newFakeMatchRepo(),
		profile: newFakeProfileReader(),
		users:   &fakeUserReader{active: make(map[uuid.UUID]bool)},
		blocks:  &fakeBlockChecker{blocked: make(map[pairKey]bool)},
	}
	f.svc = NewService(f.repo, f.profile, f.users, f.blocks, nil, Config{FeedLimit: 10})
	return f
}

func (f *fixture) addUser() uuid.UUID {
	id := uuid.New()
	f.users.active[id] = true
	f.profile.add(id)
	return id
}

func TestSwipeSelfRejected(t *testing.T) {
	f := newFixture()
	userID := f.addUser()

	_, err := f.svc.Swipe(context.Background(), userID, userID, ActionLike)
	if !errors.Is(err, ErrCannotSwipeSelf) {
		t.Fatalf("expected ErrCannotSwipeSelf, got %v", err)
	}
	if len(f.repo.swipes) != 0 {
		t.Fatal("self-swipe must not be recorded")
	}
}

func TestSwipeSelfCheckedBeforeTargetExistence(t *testing.T) {
	f := newFixture()
	// requester does not exist as an active user either
	ghost := uuid.New()

	_, err := f.svc.Swipe(context.Background(), ghost, ghost, ActionLike)
	if !errors.Is(err, ErrCannotSwipeSelf) {
		t.Fatalf("expected ErrCannotSwipeSelf to win, got %v", err)
	}
}

func TestSwipeMissingTarget(t *testing.T) {
	f := newFixture()
	swiper := f.addUser()

	_, err := f.svc.Swipe(context.Background(), swiper, uuid.New(), ActionLike)
	if !errors.Is(err, ErrSwipeTargetNotFound) {
		t.Fatalf("expected ErrSwipeTargetNotFound, got %v", err)
	}
}

func TestSwipeBlockedBothDirections(t *testing.T) {
	f := newFixture()
	a := f.addUser()
	b := f.addUser()
	f.blocks.blocked[pairKey{b, a}] = true

	if _, err := f.svc.Swipe(context.Background(), a, b, ActionLike); !errors.Is(err, ErrBlockedInteraction) {
		t.Fatalf("expected ErrBlockedInteraction when swiper is blocked, got %v", err)
	}
	if _, err := f.svc.Swipe(context.Background(), b, a, ActionLike); !errors.Is(err, ErrBlockedInteraction) {
		t.Fatalf("expected ErrBlockedInteraction when swiper did the blocking, got %v", err)
	}
}

func TestMutualLikeCreatesSingleMatch(t *testing.T) {
	f := newFixture()
	a := f.addUser()
	b := f.addUser()

	first, err := f.svc.Swipe(context.Background(), a, b, ActionLike)
	if err != nil {
		t.Fatalf("first swipe failed: %v", err)
	}
	if first.Matched {
		t.Fatal("one-sided like must not match")
	}

	second, err := f.svc.Swipe(context.Background(), b, a, ActionLike)
	if err != nil {
		t.Fatalf("second swipe failed: %v", err)
	}
	if !second.Matched || second.Match == nil {
		t.Fatal("mutual like must produce a match")
	}
	if f.repo.creates != 1 {
		t.Fatalf("expected exactly 1 match row, got %d", f.repo.creates)
	}

	wantFirst, wantSecond := CanonicalPair(a, b)
	if second.Match.UserFirstID != wantFirst || second.Match.UserSecondID != wantSecond {
		t.Fatal("match pair is not canonically ordered")
	}
}

func TestRepeatedMutualLikeDoesNotDuplicate(t *testing.T) {
	f := newFixture()
	a := f.addUser()
	b := f.addUser()

	mustSwipe(t, f, a, b, ActionLike)
	mustSwipe(t, f, b, a, ActionLike)

	// re-liking after a match already exists stays matched with one row
	result := mustSwipe(t, f, a, b, ActionLike)
	if !result.Matched {
		t.Fatal("re-like of a matched pair must still report matched")
	}
	if f.repo.creates != 1 {
		t.Fatalf("expected 1 match row after re-like, got %d", f.repo.creates)
	}
}

func TestPassOverwritesLike(t *testing.T) {
	f := newFixture()
	a := f.addUser()
	b := f.addUser()

	mustSwipe(t, f, a, b, ActionLike)
	mustSwipe(t, f, a, b, ActionPass)

	// a's like no longer exists, so b liking back does not match
	result := mustSwipe(t, f, b, a, ActionLike)
	if result.Matched {
		t.Fatal("like overwritten by pass must not count toward a match")
	}
}

func TestUnmatchIsTerminal(t *testing.T) {
	f := newFixture()
	a := f.addUser()
	b := f.addUser()

	mustSwipe(t, f, a, b, ActionLike)
	result := mustSwipe(t, f, b, a, ActionLike)

	if err := f.svc.Unmatch(context.Background(), a, result.Match.ID); err != nil {
		t.Fatalf("unmatch failed: %v", err)
	}

	if err := f.svc.Unmatch(context.Background(), a, result.Match.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("second unmatch must fail with ErrMatchNotFound, got %v", err)
	}

	active, err := f.svc.HasActiveMatch(context.Background(), a, b)
	if err != nil {
		t.Fatalf("HasActiveMatch failed: %v", err)
	}
	if active {
		t.Fatal("dissolved match must not be active")
	}
}

func TestUnmatchByNonParticipant(t *testing.T) {
	f := newFixture()
	a := f.addUser()
	b := f.addUser()
	outsider := f.addUser()

	mustSwipe(t, f, a, b, ActionLike)
	result := mustSwipe(t, f, b, a, ActionLike)

	if err := f.svc.Unmatch(context.Background(), outsider, result.Match.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound for non-participant, got %v", err)
	}
	active, _ := f.svc.HasActiveMatch(context.Background(), a, b)
	if !active {
		t.Fatal("outsider must not be able to dissolve the match")
	}
}

func TestFeedRequiresProfileAndPreferences(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	if _, err := f.svc.BuildRankedFeed(context.Background(), userID); !errors.Is(err, ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound without profile, got %v", err)
	}

	f.profile.profiles[userID] = &profile.Profile{UserID: userID, Name: "Test", City: "Istanbul"}
	if _, err := f.svc.BuildRankedFeed(context.Background(), userID); !errors.Is(err, ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound without preferences, got %v", err)
	}
}

// stubProfileStore is a minimal profile repository used to stand up a real
// profile.Service as the feed's profile reader.
type stubProfileStore struct {
	p *profile.Profile
}

func (s *stubProfileStore) CreateProfile(context.Context, *profile.Profile) error { return nil }
func (s *stubProfileStore) GetProfile(context.Context, uuid.UUID) (*profile.Profile, error) {
	return s.p, nil
}
func (s *stubProfileStore) UpdateProfile(context.Context, *profile.Profile) error { return nil }
func (s *stubProfileStore) SetAvatar(context.Context, uuid.UUID, string, bool) error {
	return nil
}
func (s *stubProfileStore) TouchLastActive(context.Context, uuid.UUID) error { return nil }
func (s *stubProfileStore) UpsertPreferences(context.Context, *profile.Preferences) error {
	return nil
}
func (s *stubProfileStore) GetPreferences(context.Context, uuid.UUID) (*profile.Preferences, error) {
	return nil, nil
}

// The API wires profile.Service, not the raw repository, as the profile
// reader. Its not-found sentinels must still surface as a missing feed
// context rather than leaking through as an unknown error.
func TestFeedContextViaProfileService(t *testing.T) {
	f := newFixture()
	store := &stubProfileStore{}
	svc := NewService(f.repo, profile.NewService(store), f.users, f.blocks, nil, Config{FeedLimit: 10})

	userID := uuid.New()
	if _, err := svc.BuildRankedFeed(context.Background(), userID); !errors.Is(err, ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound without profile, got %v", err)
	}

	store.p = &profile.Profile{UserID: userID, Name: "Test", City: "Istanbul"}
	if _, err := svc.BuildRankedFeed(context.Background(), userID); !errors.Is(err, ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound without preferences, got %v", err)
	}
}

func TestFeedOrderingIsDeterministic(t *testing.T) {
	f := newFixture()
	userID := f.addUser()

	strong := Candidate{UserID: uuid.New(), Name: "Strong", City: "Istanbul",
		AvatarURL: sql.NullString{String: "a.jpg", Valid: true}}
	weak := Candidate{UserID: uuid.New(), Name: "Weak", City: "Ankara"}

	tiedA := Candidate{UserID: uuid.New(), Name: "TiedA", City: "Istanbul"}
	tiedB := Candidate{UserID: uuid.New(), Name: "TiedB", City: "Istanbul"}
	f.repo.pool = []Candidate{weak, tiedB, strong, tiedA}

	feed, err := f.svc.BuildRankedFeed(context.Background(), userID)
	if err != nil {
		t.Fatalf("BuildRankedFeed failed: %v", err)
	}
	if len(feed) != 4 {
		t.Fatalf("expected 4 feed entries, got %d", len(feed))
	}

	if feed[0].Candidate.UserID != strong.UserID {
		t.Fatal("highest score must come first")
	}
	if feed[3].Candidate.UserID != weak.UserID {
		t.Fatal("lowest score must come last")
	}

	wantFirst, wantSecond := CanonicalPair(tiedA.UserID, tiedB.UserID)
	if feed[1].Candidate.UserID != wantFirst || feed[2].Candidate.UserID != wantSecond {
		t.Fatal("tied scores must order by ascending user ID")
	}

	again, err := f.svc.BuildRankedFeed(context.Background(), userID)
	if err != nil {
		t.Fatalf("second BuildRankedFeed failed: %v", err)
	}
	for i := range feed {
		if feed[i].Candidate.UserID != again[i].Candidate.UserID {
			t.Fatal("identical state must yield identical ordering")
		}
	}
}

func TestFeedHonorsLimit(t *testing.T) {
	f := newFixture()
	f.svc = NewService(f.repo, f.profile, f.users, f.blocks, nil, Config{FeedLimit: 2})
	userID := f.addUser()

	for i := 0; i < 5; i++ {
		f.repo.pool = append(f.repo.pool, Candidate{UserID: uuid.New(), City: "Istanbul"})
	}

	feed, err := f.svc.BuildRankedFeed(context.Background(), userID)
	if err != nil {
		t.Fatalf("BuildRankedFeed failed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected feed capped to 2, got %d", len(feed))
	}
}

func TestCountLikesFallsBackToRepository(t *testing.T) {
	f := newFixture()
	a := f.addUser()
	b := f.addUser()
	c := f.addUser()

	mustSwipe(t, f, b, a, ActionLike)
	mustSwipe(t, f, c, a, ActionLike)

	count, err := f.svc.CountLikes(context.Background(), a)
	if err != nil {
		t.Fatalf("CountLikes failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 likes, got %d", count)
	}
}

func mustSwipe(t *testing.T, f *fixture, swiper, target uuid.UUID, action SwipeAction) *SwipeResult {
	t.Helper()
	result, err := f.svc.Swipe(context.Background(), swiper, target, action)
	if err != nil {
		t.Fatalf("swipe %s -> %s failed: %v", swiper, target, err)
	}
	return result
}
