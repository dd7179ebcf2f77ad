package service

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest            = errors.New("bad request")
	ErrUserNotFound          = errors.New("no user exists with given identity")
	ErrDuplicateUsername     = errors.New("username already in use")
	ErrDuplicateEmail        = errors.New("email already in use")
	ErrInvalidOrExpiredToken = errors.New("invalid link or token expired")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrRefreshTokenNotFound  = errors.New("refresh token is not in database")
	ErrRefreshTokenExpired   = errors.New("refresh token was expired, please make a new signin request")
)

// UnknownRoleError names the first requested role outside the registry.
type UnknownRoleError struct {
	Name string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("role: %s does not exist", e.Name)
}
