package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"gorm.io/gorm"
)

type IPasswordResetTokenRepository interface {
	IBaseRepository[models.PasswordResetToken]
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error)
	GetByUserAndToken(ctx context.Context, userID uuid.UUID, token string) (*models.PasswordResetToken, error)
	Redeem(ctx context.Context, token *models.PasswordResetToken, passwordHash string) error
}

type PasswordResetTokenRepository struct {
	IBaseRepository[models.PasswordResetToken]
	db *gorm.DB
}

func NewPasswordResetTokenRepository(db *gorm.DB) IPasswordResetTokenRepository {
	return &PasswordResetTokenRepository{
		IBaseRepository: NewBaseRepository[models.PasswordResetToken](db),
		db:              db,
	}
}

func (r *PasswordResetTokenRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *PasswordResetTokenRepository) GetByUserAndToken(ctx context.Context, userID uuid.UUID, token string) (*models.PasswordResetToken, error) {
	var resetToken models.PasswordResetToken
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		First(&resetToken).Error; err != nil {
		return nil, translate(err)
	}
	return &resetToken, nil
}

// Redeem stores the new password hash and consumes the token in one
// transaction. If the token row is already gone the password is left as is
// and ErrNotFound is returned.
func (r *PasswordResetTokenRepository) Redeem(ctx context.Context, token *models.PasswordResetToken, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted := tx.Where("id = ? AND user_id = ?", token.ID, token.UserID).Delete(&models.PasswordResetToken{})
		if deleted.Error != nil {
			return translate(deleted.Error)
		}
		if deleted.RowsAffected != 1 {
			return ErrNotFound
		}

		updated := tx.Model(&models.User{}).Where("id = ?", token.UserID).Update("password", passwordHash)
		if updated.Error != nil {
			return translate(updated.Error)
		}
		if updated.RowsAffected != 1 {
			return ErrNotFound
		}
		return nil
	})
}
