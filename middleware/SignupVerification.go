package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/service"
)

// CtxSignupRequest holds the bound body for the signup handler.
const CtxSignupRequest = "signup_request"

type signupValidator interface {
	Validate(ctx context.Context, req service.SignupRequest) error
}

// SignupVerification rejects a signup whose username or email is taken or
// which asks for an unknown role, before the handler runs.
func SignupVerification(v signupValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.SignupRequest
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := v.Validate(c.Request.Context(), req); err != nil {
			var unknownRole *service.UnknownRoleError
			switch {
			case errors.Is(err, service.ErrDuplicateUsername), errors.Is(err, service.ErrDuplicateEmail):
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			case errors.As(err, &unknownRole):
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to verify signup request"})
			}
			return
		}

		c.Set(CtxSignupRequest, req)
		c.Next()
	}
}
