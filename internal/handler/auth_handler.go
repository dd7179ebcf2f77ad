package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/service"
	"github.com/quochao170402/ecommerce-aws/webshop-service/middleware"
)

type authService interface {
	Signup(ctx context.Context, req service.SignupRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (*service.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*service.Session, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type passwordResetService interface {
	RequestReset(ctx context.Context, email string) error
	PerformReset(ctx context.Context, userID uuid.UUID, token, password string) error
}

type AuthHandler struct {
	auth   authService
	resets passwordResetService
	logger *slog.Logger
}

func NewAuthHandler(auth authService, resets passwordResetService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		resets: resets,
		logger: logger.With("component", "auth.handler"),
	}
}

// RegisterAuthRoutes mounts the auth endpoints. signupGate runs before signup,
// requireAuth guards logout.
func RegisterAuthRoutes(rg *gin.RouterGroup, handler *AuthHandler, signupGate, requireAuth gin.HandlerFunc) {
	rg.POST("/signup", signupGate, handler.Signup)
	rg.POST("/login", handler.Login)
	rg.POST("/refresh-token", handler.RefreshToken)
	rg.POST("/logout", requireAuth, handler.Logout)
	rg.POST("/pw-reset", handler.RequestPasswordReset)
	rg.POST("/pw-reset/:userId/:token", middleware.UUIDParamMiddleware("userId"), handler.ResetPassword)
}

// ---------- SIGNUP ----------
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if v, ok := c.Get(middleware.CtxSignupRequest); ok {
		req, _ = v.(service.SignupRequest)
	} else if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully!",
		"user":    user,
	})
}

// ---------- LOGIN ----------
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.logger, err, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
		"id":           session.User.ID,
		"username":     session.User.Username,
		"email":        session.User.Email,
		"roles":        session.User.RoleNames(),
	})
}

// ---------- REFRESH TOKEN ----------
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, h.logger, err, "failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// ---------- LOGOUT ----------
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		writeError(c, h.logger, err, "failed to log out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Log out successful!"})
}

// ---------- PASSWORD RESET ----------
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a body!"})
		return
	}

	if err := h.resets.RequestReset(c.Request.Context(), req.Email); err != nil {
		writeError(c, h.logger, err, "failed to send password reset link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset link successfully sent to your email account."})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid/no password supplied"})
		return
	}

	userID := middleware.UUIDParam(c, "userId")
	if err := h.resets.PerformReset(c.Request.Context(), userID, c.Param("token"), req.Password); err != nil {
		writeError(c, h.logger, err, "failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password successfully reset"})
}
