package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/repository"
)

type refreshTokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type RefreshTokenService struct {
	store  refreshTokenStore
	expiry time.Duration
	now    func() time.Time
}

func NewRefreshTokenService(store refreshTokenStore, expiry time.Duration) *RefreshTokenService {
	return &RefreshTokenService{store: store, expiry: expiry, now: time.Now}
}

// Issue persists a fresh opaque token for the user and returns it.
func (s *RefreshTokenService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token := models.RefreshToken{
		Token:      uuid.NewString(),
		UserID:     userID,
		ExpiryDate: s.now().Add(s.expiry),
	}
	if err := s.store.Create(ctx, &token); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token.Token, nil
}

// IsExpired reports whether the token is at or past its expiry date.
func (s *RefreshTokenService) IsExpired(token *models.RefreshToken) bool {
	return !s.now().Before(token.ExpiryDate)
}

// Verify looks the token up and deletes it if it has expired.
func (s *RefreshTokenService) Verify(ctx context.Context, token string) (*models.RefreshToken, error) {
	record, err := s.store.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	if s.IsExpired(record) {
		if err := s.store.DeleteByToken(ctx, token); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("delete expired refresh token: %w", err)
		}
		return nil, ErrRefreshTokenExpired
	}
	return record, nil
}

// Revoke removes every refresh token of the user.
func (s *RefreshTokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.store.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}
