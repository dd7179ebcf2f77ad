package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/middleware"
)

type roleReader interface {
	GetMany(ctx context.Context, filter map[string]any) ([]models.Role, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
}

type RoleHandler struct {
	repo   roleReader
	logger *slog.Logger
}

func NewRoleHandler(roleRepo roleReader, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{
		repo:   roleRepo,
		logger: logger.With("component", "role.handler"),
	}
}

// RegisterRoleRoutes mounts the read-only role endpoints. The set of roles is
// fixed by configuration, so there is no write surface.
func RegisterRoleRoutes(rg *gin.RouterGroup, handler *RoleHandler) {
	rg.GET("", handler.GetRoles)
	rg.GET("/:id", middleware.UUIDParamMiddleware("id"), handler.GetRoleById)
}

// GET /roles
func (h *RoleHandler) GetRoles(c *gin.Context) {
	roles, err := h.repo.GetMany(c.Request.Context(), nil)
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch roles")
		return
	}
	c.JSON(http.StatusOK, roles)
}

// GET /roles/:id
func (h *RoleHandler) GetRoleById(c *gin.Context) {
	role, err := h.repo.GetByID(c.Request.Context(), middleware.UUIDParam(c, "id"))
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch role")
		return
	}
	c.JSON(http.StatusOK, role)
}
