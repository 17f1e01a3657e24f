package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/domain/user"
	"github.com/roomly/roomly-api/internal/pkg/jwt"
	"github.com/roomly/roomly-api/internal/pkg/password"
)

// TokenStore persists issued refresh tokens by hash
type TokenStore interface {
	Create(ctx context.Context, rec *RefreshTokenRecord) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*RefreshTokenRecord, error)
	MarkUsed(ctx context.Context, tokenHash string) (bool, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error
}

// ProfileToucher bumps the profile activity timestamp on login
type ProfileToucher interface {
	TouchLastActive(ctx context.Context, userID uuid.UUID) error
}

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
	tokens     TokenStore
	profiles   ProfileToucher
}

// NewService creates auth service. profiles may be nil when no profile domain
// is wired (tests).
func NewService(userRepo user.Repository, jwtService *jwt.Service, tokens TokenStore, profiles ProfileToucher) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokens:     tokens,
		profiles:   profiles,
	}
}

// Register creates new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Status:       user.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, u)
}

// Login authenticates user. Suspended and banned accounts can not log in;
// soft-deleted accounts look like wrong credentials.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.IsDeleted() {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if u.Status != user.StatusActive {
		return nil, ErrAccountNotActive
	}

	if err := s.userRepo.UpdateLastLogin(ctx, u.ID); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("Failed to record login time")
	}
	if s.profiles != nil {
		if err := s.profiles.TouchLastActive(ctx, u.ID); err != nil {
			log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("Failed to touch profile activity")
		}
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates the refresh token: the presented token is consumed and a
// new pair is issued. A token that was already consumed fails, whoever
// redeemed it first keeps the only live session from that chain.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	tokenHash := jwt.HashRefreshToken(refreshToken)
	rec, err := s.tokens.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID != claims.UserID || !rec.Usable(time.Now()) {
		return nil, ErrInvalidRefreshToken
	}

	consumed, err := s.tokens.MarkUsed(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetActiveByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return s.generateTokens(ctx, u)
}

// Logout revokes the presented refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.RevokeByTokenHash(ctx, jwt.HashRefreshToken(refreshToken))
}

// GetCurrentUser returns current user by ID
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.IsDeleted() {
		return nil, ErrUserNotFound
	}

	resp := newUserResponse(u)
	return &resp, nil
}

// DeleteAccount soft-deletes the account and kills all its sessions
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	return s.tokens.RevokeAllByUserID(ctx, userID)
}

func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, err
	}

	refreshToken, jti, expiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	rec := &RefreshTokenRecord{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: jwt.HashRefreshToken(refreshToken),
		JTI:       jti,
		ExpiresAt: expiresAt,
	}
	if err := s.tokens.Create(ctx, rec); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: newUserResponse(u),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
		},
	}, nil
}

func newUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}
