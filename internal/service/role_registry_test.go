package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roleNames(roles []models.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

func TestEnsureSeededInsertsConfiguredRolesWhenEmpty(t *testing.T) {
	store := &fakeRoles{}
	registry := NewRoleRegistry(store, DefaultRolesConfig(), discardLogger())

	require.NoError(t, registry.EnsureSeeded(context.Background()))
	assert.Equal(t, []string{"user", "moderator", "admin"}, roleNames(store.roles))
}

func TestEnsureSeededIsIdempotent(t *testing.T) {
	store := &fakeRoles{}
	registry := NewRoleRegistry(store, DefaultRolesConfig(), discardLogger())

	require.NoError(t, registry.EnsureSeeded(context.Background()))
	require.NoError(t, registry.EnsureSeeded(context.Background()))
	assert.Len(t, store.roles, 3)
}

func TestEnsureSeededSkipsPartiallySeededTable(t *testing.T) {
	store := seededRoles("admin")
	registry := NewRoleRegistry(store, DefaultRolesConfig(), discardLogger())

	require.NoError(t, registry.EnsureSeeded(context.Background()))
	assert.Equal(t, []string{"admin"}, roleNames(store.roles))
}

func TestEnsureSeededReportsEveryFailedInsert(t *testing.T) {
	boom := errors.New("boom")
	store := &fakeRoles{createErr: map[string]error{"moderator": boom}}
	registry := NewRoleRegistry(store, DefaultRolesConfig(), discardLogger())

	err := registry.EnsureSeeded(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"user", "admin"}, roleNames(store.roles))
}

func TestEnsureSeededCountFailure(t *testing.T) {
	store := &fakeRoles{countErr: errors.New("down")}
	registry := NewRoleRegistry(store, DefaultRolesConfig(), discardLogger())

	assert.Error(t, registry.EnsureSeeded(context.Background()))
	assert.Empty(t, store.roles)
}

func TestContains(t *testing.T) {
	registry := NewRoleRegistry(&fakeRoles{}, DefaultRolesConfig(), discardLogger())

	assert.True(t, registry.Contains("moderator"))
	assert.False(t, registry.Contains("root"))
	assert.Equal(t, []string{"user", "moderator", "admin"}, registry.Names())
}

func TestResolve(t *testing.T) {
	store := seededRoles("user", "moderator", "admin")
	registry := NewRoleRegistry(store, DefaultRolesConfig(), discardLogger())
	ctx := context.Background()

	t.Run("empty list gets default role", func(t *testing.T) {
		roles, err := registry.Resolve(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"user"}, roleNames(roles))
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		roles, err := registry.Resolve(ctx, []string{"admin", "admin"})
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, roleNames(roles))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := registry.Resolve(ctx, []string{"admin", "root"})
		var unknown *UnknownRoleError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "root", unknown.Name)
	})
}

func TestResolveUnseededRole(t *testing.T) {
	registry := NewRoleRegistry(seededRoles("user"), DefaultRolesConfig(), discardLogger())

	_, err := registry.Resolve(context.Background(), []string{"admin"})
	assert.Error(t, err)
}
