package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/auth"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/mailer"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/queue"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/repository"
)

const resetTokenBytes = 32

type resetUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type resetTokenStore interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error)
	GetByUserAndToken(ctx context.Context, userID uuid.UUID, token string) (*models.PasswordResetToken, error)
	Create(ctx context.Context, token *models.PasswordResetToken) error
	Redeem(ctx context.Context, token *models.PasswordResetToken, passwordHash string) error
}

type PasswordResetConfig struct {
	// BaseURL prefixes the emailed link: {BaseURL}/pw-reset/{userId}/{token}.
	BaseURL    string
	BcryptCost int
	// TokenExpiry rejects older tokens at redemption; zero disables the check.
	TokenExpiry time.Duration
}

type PasswordResetService struct {
	users      resetUserStore
	tokens     resetTokenStore
	dispatcher queue.Dispatcher
	cfg        PasswordResetConfig
	now        func() time.Time
	logger     *slog.Logger
}

func NewPasswordResetService(users resetUserStore, tokens resetTokenStore, dispatcher queue.Dispatcher,
	cfg PasswordResetConfig, logger *slog.Logger) *PasswordResetService {
	return &PasswordResetService{
		users:      users,
		tokens:     tokens,
		dispatcher: dispatcher,
		cfg:        cfg,
		now:        time.Now,
		logger:     logger.With("component", "password.reset"),
	}
}

// RequestReset emails a reset link to the owner of email, reusing the
// outstanding token if there is one. Mail delivery never affects the result.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		s.logger.Error("empty body received")
		return ErrBadRequest
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("no match for user/email", "email", email)
			return ErrUserNotFound
		}
		return fmt.Errorf("find user by email: %w", err)
	}

	token, err := s.tokenFor(ctx, user.ID)
	if err != nil {
		return err
	}

	link := s.Link(user.ID, token.Token)
	html, err := mailer.RenderPasswordReset(link)
	if err != nil {
		return err
	}
	s.dispatcher.Dispatch(ctx, queue.MailTask{
		To:      user.Email,
		Subject: mailer.PasswordResetSubject,
		HTML:    html,
		Reason:  "password-reset",
	})

	s.logger.Info("pw reset link handed to mailer", "user", user.ID)
	return nil
}

// tokenFor returns the user's outstanding token or creates one. A concurrent
// request that wins the unique user index is picked up by re-reading.
func (s *PasswordResetService) tokenFor(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error) {
	token, err := s.tokens.GetByUser(ctx, userID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find reset token: %w", err)
	}

	s.logger.Info("generating new token", "user", userID)
	value, err := auth.RandomHex(resetTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate reset token: %w", err)
	}
	token = &models.PasswordResetToken{UserID: userID, Token: value}
	if err := s.tokens.Create(ctx, token); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			token, err := s.tokens.GetByUser(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("re-read reset token: %w", err)
			}
			return token, nil
		}
		return nil, fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

func (s *PasswordResetService) Link(userID uuid.UUID, token string) string {
	return fmt.Sprintf("%s/pw-reset/%s/%s", strings.TrimRight(s.cfg.BaseURL, "/"), userID, token)
}

// PerformReset sets a new password if token is the user's outstanding reset
// token, consuming it. On any failure the token stays usable.
func (s *PasswordResetService) PerformReset(ctx context.Context, userID uuid.UUID, token, password string) error {
	if password == "" {
		return ErrBadRequest
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("password reset user id not valid", "user", userID)
			return ErrUserNotFound
		}
		return fmt.Errorf("find user by id: %w", err)
	}

	record, err := s.tokens.GetByUserAndToken(ctx, user.ID, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("password reset token not valid", "user", userID)
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("find reset token: %w", err)
	}
	if s.cfg.TokenExpiry > 0 && s.now().Sub(record.CreatedAt) >= s.cfg.TokenExpiry {
		s.logger.Error("password reset token expired", "user", userID)
		return ErrInvalidOrExpiredToken
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.tokens.Redeem(ctx, record, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("redeem reset token: %w", err)
	}

	s.logger.Info("password reset completed", "user", userID)
	return nil
}
