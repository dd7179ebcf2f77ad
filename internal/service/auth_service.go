package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/auth"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/repository"
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Session is what a successful login or refresh hands back.
type Session struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

type AuthService struct {
	users      userStore
	roles      *RoleRegistry
	tokens     *RefreshTokenService
	issuer     *auth.TokenIssuer
	bcryptCost int
	logger     *slog.Logger
}

func NewAuthService(users userStore, roles *RoleRegistry, tokens *RefreshTokenService,
	issuer *auth.TokenIssuer, bcryptCost int, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		roles:      roles,
		tokens:     tokens,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		logger:     logger.With("component", "auth.service"),
	}
}

// Signup creates the user. Callers run SignupValidator first; a duplicate that
// races past it is still reported as a duplicate through the unique indexes.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	roles, err := s.roles.Resolve(ctx, req.Roles)
	if err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Roles:    roles,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			_, lookupErr := s.users.GetByUsername(ctx, req.Username)
			switch {
			case lookupErr == nil:
				return nil, ErrDuplicateUsername
			case errors.Is(lookupErr, repository.ErrNotFound):
				return nil, ErrDuplicateEmail
			}
			return nil, fmt.Errorf("classify signup conflict: %w", lookupErr)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user", user.ID, "roles", user.RoleNames())
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.issuer.GenerateAccessToken(*user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user", user.ID)
	return &Session{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// Refresh issues a new access token; the refresh token itself is kept.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	record, err := s.tokens.Verify(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	accessToken, err := s.issuer.GenerateAccessToken(*user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &Session{AccessToken: accessToken, RefreshToken: record.Token, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.Revoke(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user logged out", "user", userID)
	return nil
}
