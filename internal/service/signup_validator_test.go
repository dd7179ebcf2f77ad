package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(users *fakeUsers) *SignupValidator {
	registry := NewRoleRegistry(seededRoles("user", "moderator", "admin"), DefaultRolesConfig(), discardLogger())
	return NewSignupValidator(users, registry, discardLogger())
}

func TestValidateAcceptsFreshRequest(t *testing.T) {
	v := newTestValidator(newFakeUsers(models.User{Username: "bob", Email: "bob@example.com"}))

	err := v.Validate(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pw",
		Roles:    []string{"user", "moderator"},
	})
	assert.NoError(t, err)
}

func TestValidateRejectsDuplicates(t *testing.T) {
	v := newTestValidator(newFakeUsers(models.User{Username: "alice", Email: "alice@example.com"}))
	ctx := context.Background()

	err := v.Validate(ctx, SignupRequest{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	err = v.Validate(ctx, SignupRequest{Username: "other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Username is checked first.
	err = v.Validate(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestValidateStopsAtFirstUnknownRole(t *testing.T) {
	v := newTestValidator(newFakeUsers())

	err := v.Validate(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Roles:    []string{"user", "root", "superuser"},
	})
	var unknown *UnknownRoleError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "root", unknown.Name)
	assert.Equal(t, "role: root does not exist", err.Error())
}

func TestValidateSurfacesLookupFailure(t *testing.T) {
	users := newFakeUsers()
	users.lookupErr = errors.New("connection refused")
	v := newTestValidator(users)

	err := v.Validate(context.Background(), SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateUsername)
	assert.ErrorIs(t, err, users.lookupErr)
}
