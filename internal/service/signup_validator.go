package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/repository"
)

type SignupRequest struct {
	Username string   `json:"username" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required"`
	Roles    []string `json:"roles"`
}

type userLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SignupValidator runs the pre-creation checks. The lookups are not
// transactional; the unique indexes on users catch what slips through.
type SignupValidator struct {
	users  userLookup
	roles  *RoleRegistry
	logger *slog.Logger
}

func NewSignupValidator(users userLookup, roles *RoleRegistry, logger *slog.Logger) *SignupValidator {
	return &SignupValidator{
		users:  users,
		roles:  roles,
		logger: logger.With("component", "signup.validator"),
	}
}

func (v *SignupValidator) Validate(ctx context.Context, req SignupRequest) error {
	if err := v.CheckDuplicates(ctx, req.Username, req.Email); err != nil {
		return err
	}
	return v.CheckRoles(req.Roles)
}

func (v *SignupValidator) CheckDuplicates(ctx context.Context, username, email string) error {
	_, err := v.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		v.logger.Error("verify username - username already in use", "username", username)
		return ErrDuplicateUsername
	case !errors.Is(err, repository.ErrNotFound):
		v.logger.Error("verify username error", "error", err)
		return fmt.Errorf("verify username: %w", err)
	}

	_, err = v.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		v.logger.Error("verify email - email already in use", "email", email)
		return ErrDuplicateEmail
	case !errors.Is(err, repository.ErrNotFound):
		v.logger.Error("verify email error", "error", err)
		return fmt.Errorf("verify email: %w", err)
	}
	return nil
}

// CheckRoles stops at the first unknown role.
func (v *SignupValidator) CheckRoles(roles []string) error {
	for _, name := range roles {
		if !v.roles.Contains(name) {
			v.logger.Error("verify roles - role does not exist", "role", name)
			return &UnknownRoleError{Name: name}
		}
	}
	return nil
}
