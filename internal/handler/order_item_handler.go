package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/catalog"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/middleware"
)

type orderItemStore interface {
	Create(ctx context.Context, item *models.OrderItem, orderID uuid.UUID) (*models.OrderItem, error)
	FindAllByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error)
}

type orderFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderDetail, error)
}

var errItemNameRequired = errors.New("name is required")

// prepareItem checks a referenced product against the catalog and fills an
// empty name from it. Without a catalog only the name is checked.
func prepareItem(ctx context.Context, products catalog.ProductCatalog, item *models.OrderItem) error {
	if products != nil && item.Product != "" {
		product, err := products.Lookup(ctx, item.Product)
		if err != nil {
			return err
		}
		if item.Name == "" {
			item.Name = product.Name
		}
	}
	if item.Name == "" {
		return errItemNameRequired
	}
	return nil
}

type OrderItemHandler struct {
	items   orderItemStore
	orders  orderFinder
	catalog catalog.ProductCatalog
	logger  *slog.Logger
}

// NewOrderItemHandler builds the handler. products may be nil, which skips
// the catalog check on create.
func NewOrderItemHandler(items orderItemStore, orders orderFinder, products catalog.ProductCatalog, logger *slog.Logger) *OrderItemHandler {
	return &OrderItemHandler{
		items:   items,
		orders:  orders,
		catalog: products,
		logger:  logger.With("component", "orderItem.handler"),
	}
}

// RegisterOrderItemRoutes mounts the nested item routes on orders and the
// direct ones on items. Both groups are expected behind AuthMiddleware.
func RegisterOrderItemRoutes(orders, items *gin.RouterGroup, handler *OrderItemHandler) {
	byOrder := orders.Group("/:id/items", middleware.UUIDParamMiddleware("id"))
	byOrder.POST("", handler.CreateItem)
	byOrder.GET("", handler.GetItemsByOrder)
	byOrder.DELETE("", handler.DeleteItemsByOrder)

	items.GET("/:id", middleware.UUIDParamMiddleware("id"), handler.GetItem)
	items.DELETE("/:id", middleware.UUIDParamMiddleware("id"), handler.DeleteItem)
}

func (h *OrderItemHandler) authorizeOrder(c *gin.Context, orderID uuid.UUID) bool {
	_, ok := loadAuthorized(c, h.orders, h.logger, orderID)
	return ok
}

// POST /orders/:id/items
func (h *OrderItemHandler) CreateItem(c *gin.Context) {
	orderID := middleware.UUIDParam(c, "id")

	var req orderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.authorizeOrder(c, orderID) {
		return
	}

	item := req.toItem()
	if err := prepareItem(c.Request.Context(), h.catalog, item); err != nil {
		writeError(c, h.logger, err, "failed to look up product")
		return
	}

	created, err := h.items.Create(c.Request.Context(), item, orderID)
	if err != nil {
		writeError(c, h.logger, err, "failed to create order item")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /orders/:id/items
func (h *OrderItemHandler) GetItemsByOrder(c *gin.Context) {
	orderID := middleware.UUIDParam(c, "id")
	if !h.authorizeOrder(c, orderID) {
		return
	}

	items, err := h.items.FindAllByOrderID(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch order items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// DELETE /orders/:id/items
func (h *OrderItemHandler) DeleteItemsByOrder(c *gin.Context) {
	orderID := middleware.UUIDParam(c, "id")
	if !h.authorizeOrder(c, orderID) {
		return
	}

	count, err := h.items.DeleteByOrderID(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, h.logger, err, "failed to delete order items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "orderItems deleted successfully", "count": count})
}

// GET /order-items/:id
func (h *OrderItemHandler) GetItem(c *gin.Context) {
	item, err := h.items.FindByID(c.Request.Context(), middleware.UUIDParam(c, "id"))
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch order item")
		return
	}
	if !h.authorizeOrder(c, item.OrderID) {
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /order-items/:id
func (h *OrderItemHandler) DeleteItem(c *gin.Context) {
	id := middleware.UUIDParam(c, "id")
	item, err := h.items.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch order item")
		return
	}
	if !h.authorizeOrder(c, item.OrderID) {
		return
	}

	message, err := h.items.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "failed to delete order item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
