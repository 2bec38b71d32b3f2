package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"pixvault/api/internal/config"
	"pixvault/api/internal/ids"
	"pixvault/api/internal/models"
	"pixvault/api/internal/repository"
	"pixvault/api/internal/security"
	"pixvault/api/internal/tier"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

type AuthService struct {
	users UserStore
	tiers *tier.Set
	cfg   config.SecurityConfig
	log   zerolog.Logger
}

func NewAuthService(users UserStore, tiers *tier.Set, cfg config.SecurityConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		tiers: tiers,
		cfg:   cfg,
		log:   log,
	}
}

type AuthResult struct {
	AccessToken string
	User        models.User
}

func (s *AuthService) Register(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return AuthResult{}, fmt.Errorf("email and password required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Tier:         s.tiers.DefaultName(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("tier", user.Tier).Msg("user registered")
	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user models.User) (AuthResult, error) {
	token, err := security.GenerateAccessToken(s.cfg.JWTSecret, user.ID, user.Tier, s.cfg.JWTTTL)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{AccessToken: token, User: user}, nil
}
