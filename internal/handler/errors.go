package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/catalog"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/repository"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/service"
)

// statusFor maps a service or repository error onto its HTTP status.
func statusFor(err error) int {
	var unknownRole *service.UnknownRoleError
	switch {
	case errors.Is(err, service.ErrBadRequest),
		errors.Is(err, service.ErrInvalidOrExpiredToken),
		errors.Is(err, errItemNameRequired),
		errors.As(err, &unknownRole):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrRefreshTokenNotFound),
		errors.Is(err, service.ErrRefreshTokenExpired):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError responds with the mapped status. Internal errors are logged and
// answered with fallback instead of the error text.
func writeError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	// Repository errors carry the driver error joined in; keep that internal.
	message := err.Error()
	switch {
	case errors.Is(err, repository.ErrNotFound):
		message = repository.ErrNotFound.Error()
	case errors.Is(err, repository.ErrConflict):
		message = repository.ErrConflict.Error()
	}
	c.JSON(status, gin.H{"error": message})
}
