package repository

import (
	"context"

	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"gorm.io/gorm"
)

type IRoleRepository interface {
	IBaseRepository[models.Role]
	GetByNames(ctx context.Context, names []string) ([]models.Role, error)
}

// RoleRepository implements IRoleRepository
type RoleRepository struct {
	IBaseRepository[models.Role]
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) IRoleRepository {
	return &RoleRepository{
		IBaseRepository: NewBaseRepository[models.Role](db),
		db:              db,
	}
}

func (r *RoleRepository) GetByNames(ctx context.Context, names []string) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.WithContext(ctx).
		Where("name IN ?", names).
		Find(&roles).Error; err != nil {
		return nil, translate(err)
	}
	return roles, nil
}
