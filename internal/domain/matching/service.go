package matching

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/domain/profile"
	"github.com/roomly/roomly-api/internal/domain/user"
)

// Redis key prefixes
const (
	feedSeenKeyPrefix  = "feed:seen:"
	likeCountKeyPrefix = "likes:count:"
)

// ProfileReader is the read access the feed needs from the profile domain
type ProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*profile.Preferences, error)
}

// UserReader is the read access the swipe flow needs from the user domain
type UserReader interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// BlockChecker is the symmetric exclusion consulted before any interaction
type BlockChecker interface {
	IsBlockedEither(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// Config holds feed tuning knobs
type Config struct {
	FeedLimit    int
	SeenTTL      time.Duration
	LikeCountTTL time.Duration
	SeenEnabled  bool
}

// SwipeResult is the outcome of recording a swipe
type SwipeResult struct {
	Swipe   *Swipe
	Matched bool
	Match   *Match
}

// Service implements feed generation and the swipe/match flows. It holds no
// mutable state of its own: every instance of the API can run it concurrently
// because pair-level mutual exclusion lives in the storage constraints.
type Service struct {
	repo     Repository
	profiles ProfileReader
	users    UserReader
	blocks   BlockChecker
	redis    *redis.Client
	cfg      Config
}

// NewService creates new matching service. redisClient may be nil; the feed
// seen-set and like counters then fall back to database-only behavior.
func NewService(repo Repository, profiles ProfileReader, users UserReader, blocks BlockChecker, redisClient *redis.Client, cfg Config) *Service {
	if cfg.FeedLimit <= 0 {
		cfg.FeedLimit = 50
	}
	return &Service{
		repo:     repo,
		profiles: profiles,
		users:    users,
		blocks:   blocks,
		redis:    redisClient,
		cfg:      cfg,
	}
}

// resolveContext loads the requester's profile and preferences. Both records
// are required before any feed can be built. A missing record may surface as
// a nil result (repository reads) or as a profile-domain sentinel (the
// profile service); both mean the same thing here.
func (s *Service) resolveContext(ctx context.Context, userID uuid.UUID) (*FeedContext, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrContextNotFound
		}
		return nil, err
	}
	if p == nil {
		return nil, ErrContextNotFound
	}

	prefs, err := s.profiles.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrPreferencesNotFound) {
			return nil, ErrContextNotFound
		}
		return nil, err
	}
	if prefs == nil {
		return nil, ErrContextNotFound
	}

	return &FeedContext{UserID: userID, Profile: p, Prefs: prefs}, nil
}

// BuildRankedFeed produces the requester's candidate feed: hard filters at
// the pool query, compatibility scoring over the pool, then a deterministic
// ordering of descending total score with ascending user ID as tie-break.
func (s *Service) BuildRankedFeed(ctx context.Context, userID uuid.UUID) ([]ScoredCandidate, error) {
	fc, err := s.resolveContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.CandidatePool(ctx, fc)
	if err != nil {
		return nil, err
	}

	pool = s.dropRecentlyShown(ctx, userID, pool)

	now := time.Now()
	feed := make([]ScoredCandidate, 0, len(pool))
	for i := range pool {
		feed = append(feed, ScoredCandidate{
			Candidate: pool[i],
			Score:     ScoreCandidate(fc, &pool[i], now),
		})
	}

	sort.Slice(feed, func(i, j int) bool {
		if feed[i].Score.Total != feed[j].Score.Total {
			return feed[i].Score.Total > feed[j].Score.Total
		}
		a, b := feed[i].Candidate.UserID, feed[j].Candidate.UserID
		return bytes.Compare(a[:], b[:]) < 0
	})

	if len(feed) > s.cfg.FeedLimit {
		feed = feed[:s.cfg.FeedLimit]
	}

	s.markShown(ctx, userID, feed)

	return feed, nil
}

// dropRecentlyShown filters out candidates served in a recent feed call.
// Best-effort: without Redis, or on Redis errors, the pool passes through
// unchanged and the feed stays correct, just less varied.
func (s *Service) dropRecentlyShown(ctx context.Context, userID uuid.UUID, pool []Candidate) []Candidate {
	if s.redis == nil || !s.cfg.SeenEnabled || len(pool) == 0 {
		return pool
	}

	members := make([]interface{}, len(pool))
	for i := range pool {
		members[i] = pool[i].UserID.String()
	}

	seen, err := s.redis.SMIsMember(ctx, feedSeenKeyPrefix+userID.String(), members...).Result()
	if err != nil || len(seen) != len(pool) {
		return pool
	}

	kept := pool[:0]
	for i := range pool {
		if !seen[i] {
			kept = append(kept, pool[i])
		}
	}
	return kept
}

// markShown records served candidates in the seen-set with a TTL refresh
func (s *Service) markShown(ctx context.Context, userID uuid.UUID, feed []ScoredCandidate) {
	if s.redis == nil || !s.cfg.SeenEnabled || len(feed) == 0 {
		return
	}

	members := make([]interface{}, len(feed))
	for i := range feed {
		members[i] = feed[i].Candidate.UserID.String()
	}

	key := feedSeenKeyPrefix + userID.String()
	if err := s.redis.SAdd(ctx, key, members...).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to record shown candidates")
		return
	}
	_ = s.redis.Expire(ctx, key, s.cfg.SeenTTL).Err()
}

// Swipe records a directional swipe. Preconditions are checked in a fixed
// order, each with its own failure: self-swipe, missing target, block. On a
// mutual like the match is materialized through CreateMatch; the reverse-like
// check here is advisory only, "exactly one match" is guaranteed by the
// storage constraint rather than by this check-then-act sequence.
func (s *Service) Swipe(ctx context.Context, swiperID, targetID uuid.UUID, action SwipeAction) (*SwipeResult, error) {
	if swiperID == targetID {
		return nil, ErrCannotSwipeSelf
	}

	target, err := s.users.GetActiveByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrSwipeTargetNotFound
	}

	blocked, err := s.blocks.IsBlockedEither(ctx, swiperID, targetID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlockedInteraction
	}

	swipe := &Swipe{SwiperID: swiperID, SwipedID: targetID, Action: action}
	if err := s.repo.UpsertSwipe(ctx, swipe); err != nil {
		return nil, err
	}

	s.bumpLikeCounter(ctx, targetID, action)

	result := &SwipeResult{Swipe: swipe}
	if action != ActionLike {
		return result, nil
	}

	reverseLike, err := s.repo.HasLikeFrom(ctx, targetID, swiperID)
	if err != nil {
		return nil, err
	}
	if !reverseLike {
		return result, nil
	}

	match, err := s.repo.CreateMatch(ctx, swiperID, targetID)
	if err != nil {
		return nil, err
	}

	// Mutual like means the pair is matched whether this call created the row
	// or a concurrent caller got there first.
	result.Matched = true
	result.Match = match
	if match != nil {
		log.Info().
			Str("user_first", match.UserFirstID.String()).
			Str("user_second", match.UserSecondID.String()).
			Msg("Match created")
	}

	return result, nil
}

// Unmatch dissolves the match for one of its participants. Terminal: the
// pair's row is never reactivated, and a second call fails with
// ErrMatchNotFound.
func (s *Service) Unmatch(ctx context.Context, userID uuid.UUID, matchID uuid.UUID) error {
	return s.repo.Unmatch(ctx, userID, matchID)
}

// HasActiveMatch reports whether the unordered pair currently has an active
// match. Consumed by the messaging flow to gate match conversations.
func (s *Service) HasActiveMatch(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.repo.HasActiveMatch(ctx, a, b)
}

// ListMatches returns the user's active matches
func (s *Service) ListMatches(ctx context.Context, userID uuid.UUID) ([]*Match, error) {
	return s.repo.ListActiveMatches(ctx, userID)
}

// ListLikers lists users who liked the given user, with cursor pagination
func (s *Service) ListLikers(ctx context.Context, userID uuid.UUID, token *string, limit int) ([]Liker, *string, error) {
	return s.repo.GetLikers(ctx, userID, token, limit)
}

// CountLikes returns how many users like the given user.
// Cache-first: Redis likes:count key with TTL refresh, database fallback.
func (s *Service) CountLikes(ctx context.Context, userID uuid.UUID) (int64, error) {
	key := likeCountKeyPrefix + userID.String()

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			if n, err := strconv.ParseInt(cached, 10, 64); err == nil {
				_ = s.redis.Expire(ctx, key, s.cfg.LikeCountTTL).Err()
				return n, nil
			}
		}
	}

	count, err := s.repo.CountLikers(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		_ = s.redis.Set(ctx, key, strconv.FormatInt(count, 10), s.cfg.LikeCountTTL).Err()
	}

	return count, nil
}

// bumpLikeCounter keeps the cached like counter roughly in sync; the database
// count remains the source of truth on cache miss
func (s *Service) bumpLikeCounter(ctx context.Context, targetID uuid.UUID, action SwipeAction) {
	if s.redis == nil {
		return
	}

	key := likeCountKeyPrefix + targetID.String()
	var err error
	if action == ActionLike {
		err = s.redis.Incr(ctx, key).Err()
	} else {
		err = s.redis.Decr(ctx, key).Err()
	}
	if err != nil {
		log.Warn().Err(err).Msg("Failed to bump like counter")
		return
	}
	_ = s.redis.Expire(ctx, key, s.cfg.LikeCountTTL).Err()
}
