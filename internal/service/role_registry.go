package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
)

// RolesConfig is the closed set of role names the service accepts.
type RolesConfig struct {
	Names   []string `yaml:"names"`
	Default string   `yaml:"default"`
}

func DefaultRolesConfig() RolesConfig {
	return RolesConfig{
		Names:   []string{"user", "moderator", "admin"},
		Default: "user",
	}
}

type roleStore interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, role *models.Role) error
	GetByNames(ctx context.Context, names []string) ([]models.Role, error)
}

type RoleRegistry struct {
	store  roleStore
	cfg    RolesConfig
	names  map[string]struct{}
	logger *slog.Logger
}

func NewRoleRegistry(store roleStore, cfg RolesConfig, logger *slog.Logger) *RoleRegistry {
	names := make(map[string]struct{}, len(cfg.Names))
	for _, n := range cfg.Names {
		names[n] = struct{}{}
	}
	if cfg.Default == "" && len(cfg.Names) > 0 {
		cfg.Default = cfg.Names[0]
	}
	return &RoleRegistry{
		store:  store,
		cfg:    cfg,
		names:  names,
		logger: logger.With("component", "role.registry"),
	}
}

// EnsureSeeded inserts every configured role when the table is empty. Any
// existing row, even a partial seed, suppresses all writes.
func (r *RoleRegistry) EnsureSeeded(ctx context.Context) error {
	count, err := r.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if count > 0 {
		return nil
	}

	var errs []error
	for _, name := range r.cfg.Names {
		if err := r.store.Create(ctx, &models.Role{Name: name}); err != nil {
			r.logger.Error("unexpected error when adding role", "role", name, "error", err)
			errs = append(errs, fmt.Errorf("add role %s: %w", name, err))
			continue
		}
		r.logger.Info("role added", "role", name)
	}
	return errors.Join(errs...)
}

func (r *RoleRegistry) Contains(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Names returns the configured role names in order.
func (r *RoleRegistry) Names() []string {
	return append([]string(nil), r.cfg.Names...)
}

// Resolve loads the role rows for a signup. No names means the default role.
func (r *RoleRegistry) Resolve(ctx context.Context, names []string) ([]models.Role, error) {
	if len(names) == 0 {
		names = []string{r.cfg.Default}
	}

	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if !r.Contains(n) {
			return nil, &UnknownRoleError{Name: n}
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}

	roles, err := r.store.GetByNames(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	if len(roles) != len(unique) {
		return nil, fmt.Errorf("roles %v are not fully seeded", unique)
	}
	return roles, nil
}
