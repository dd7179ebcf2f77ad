package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/catalog"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/middleware"
)

const (
	roleModerator = "moderator"
	roleAdmin     = "admin"
)

type orderStore interface {
	CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error)
	FindAll(ctx context.Context) ([]models.OrderDetail, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderDetail, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]models.OrderDetail, error)
	Update(ctx context.Context, id uuid.UUID, order *models.Order) (*models.OrderDetail, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	UpdateContactInfo(ctx context.Context, id uuid.UUID, info models.ContactInfo) (*models.OrderDetail, error)
	DeleteContactInfo(ctx context.Context, id uuid.UUID) (string, error)
}

type OrderHandler struct {
	orders  orderStore
	catalog catalog.ProductCatalog
	logger  *slog.Logger
}

// NewOrderHandler builds the handler. products may be nil, which skips the
// catalog check on items sent with a new order.
func NewOrderHandler(orders orderStore, products catalog.ProductCatalog, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		catalog: products,
		logger:  logger.With("component", "order.handler"),
	}
}

// RegisterOrderRoutes expects rg to be behind AuthMiddleware.
func RegisterOrderRoutes(rg *gin.RouterGroup, handler *OrderHandler) {
	rg.POST("", handler.CreateOrder)
	rg.GET("", middleware.RequireRole(roleModerator, roleAdmin), handler.GetOrders)
	rg.GET("/mine", handler.GetMyOrders)
	rg.GET("/:id", middleware.UUIDParamMiddleware("id"), handler.GetOrder)
	rg.PUT("/:id", middleware.UUIDParamMiddleware("id"), handler.UpdateOrder)
	rg.DELETE("/:id", middleware.RequireRole(roleAdmin), middleware.UUIDParamMiddleware("id"), handler.DeleteOrder)
	rg.PUT("/:id/contact-info", middleware.UUIDParamMiddleware("id"), handler.UpdateContactInfo)
	rg.DELETE("/:id/contact-info", middleware.UUIDParamMiddleware("id"), handler.DeleteContactInfo)
}

type orderItemRequest struct {
	Name       string  `json:"name"`
	TotalPrice float64 `json:"totalPrice" binding:"gte=0"`
	Quantity   int     `json:"quantity" binding:"gte=0"`
	Product    string  `json:"product"`
}

type orderRequest struct {
	Number      string             `json:"number" binding:"required"`
	Status      string             `json:"status"`
	Description string             `json:"description"`
	Name        string             `json:"name"`
	Address     string             `json:"address"`
	Zip         string             `json:"zip"`
	TotalPrice  float64            `json:"totalPrice" binding:"gte=0"`
	OrderItems  []orderItemRequest `json:"orderItems" binding:"dive"`
}

// toOrder builds the order owned by userID. description is accepted as an
// older name for status.
func (r orderRequest) toOrder(userID uuid.UUID) *models.Order {
	status := r.Status
	if status == "" {
		status = r.Description
	}
	return &models.Order{
		Number:     r.Number,
		Status:     status,
		Name:       r.Name,
		Address:    r.Address,
		Zip:        r.Zip,
		TotalPrice: r.TotalPrice,
		UserID:     userID,
	}
}

type contactInfoRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Zip     string `json:"zip"`
}

func (r orderItemRequest) toItem() *models.OrderItem {
	quantity := r.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return &models.OrderItem{
		Name:       r.Name,
		TotalPrice: r.TotalPrice,
		Quantity:   quantity,
		Product:    r.Product,
	}
}

// canAccess reports whether the caller owns the order or may see every order.
func canAccess(c *gin.Context, owner uuid.UUID) bool {
	if middleware.HasRole(c, roleModerator) || middleware.HasRole(c, roleAdmin) {
		return true
	}
	userID, ok := middleware.CurrentUserID(c)
	return ok && userID == owner
}

// loadAuthorized fetches the order and checks the caller may touch it. The
// response has been written when it returns false.
func loadAuthorized(c *gin.Context, orders orderFinder, logger *slog.Logger, id uuid.UUID) (*models.OrderDetail, bool) {
	order, err := orders.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, logger, err, "failed to fetch order")
		return nil, false
	}
	if !canAccess(c, order.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return order, true
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]models.OrderItem, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		item := it.toItem()
		if err := prepareItem(c.Request.Context(), h.catalog, item); err != nil {
			writeError(c, h.logger, err, "failed to look up product")
			return
		}
		items = append(items, *item)
	}

	order, err := h.orders.CreateWithItems(c.Request.Context(), req.toOrder(userID), items)
	if err != nil {
		writeError(c, h.logger, err, "failed to create order")
		return
	}

	detail, err := h.orders.FindByID(c.Request.Context(), order.ID)
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch order")
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.orders.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /orders/mine
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orders, err := h.orders.FindAllByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, ok := loadAuthorized(c, h.orders, h.logger, middleware.UUIDParam(c, "id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

// PUT /orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id := middleware.UUIDParam(c, "id")

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, ok := loadAuthorized(c, h.orders, h.logger, id)
	if !ok {
		return
	}

	// Ownership does not move on update.
	updated, err := h.orders.Update(c.Request.Context(), id, req.toOrder(existing.UserID))
	if err != nil {
		writeError(c, h.logger, err, "failed to update order")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// PUT /orders/:id/contact-info
func (h *OrderHandler) UpdateContactInfo(c *gin.Context) {
	id := middleware.UUIDParam(c, "id")

	var req contactInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := loadAuthorized(c, h.orders, h.logger, id); !ok {
		return
	}

	updated, err := h.orders.UpdateContactInfo(c.Request.Context(), id, models.ContactInfo(req))
	if err != nil {
		writeError(c, h.logger, err, "failed to update contact info")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /orders/:id/contact-info
func (h *OrderHandler) DeleteContactInfo(c *gin.Context) {
	id := middleware.UUIDParam(c, "id")
	if _, ok := loadAuthorized(c, h.orders, h.logger, id); !ok {
		return
	}

	message, err := h.orders.DeleteContactInfo(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "failed to delete contact info")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	message, err := h.orders.Delete(c.Request.Context(), middleware.UUIDParam(c, "id"))
	if err != nil {
		writeError(c, h.logger, err, "failed to delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
