package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"gorm.io/gorm"
)

const OrderItemDeletedMessage = "orderItem deleted successfully"

type IOrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem, orderID uuid.UUID) (*models.OrderItem, error)
	FindAllByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error)
}

type OrderItemRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewOrderItemRepository(db *gorm.DB, logger *slog.Logger) IOrderItemRepository {
	return &OrderItemRepository{
		db:     db,
		logger: logger.With("component", "orderItem.repository"),
	}
}

// Create attaches the item to orderID. A missing parent order surfaces as
// ErrNotFound through the foreign key.
func (r *OrderItemRepository) Create(ctx context.Context, item *models.OrderItem, orderID uuid.UUID) (*models.OrderItem, error) {
	created := models.OrderItem{
		Name:       item.Name,
		TotalPrice: item.TotalPrice,
		Quantity:   item.Quantity,
		Product:    item.Product,
		OrderID:    orderID,
	}
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		r.logger.Error("create orderItem failed", "order", orderID, "error", err)
		return nil, translate(err)
	}
	return &created, nil
}

func (r *OrderItemRepository) FindAllByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at").
		Find(&items).Error; err != nil {
		r.logger.Error("find orderItems by order failed", "order", orderID, "error", err)
		return nil, translate(err)
	}
	return items, nil
}

func (r *OrderItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Error("find orderItem by id failed", "id", id, "error", err)
		}
		return nil, translate(err)
	}
	return &item, nil
}

func (r *OrderItemRepository) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	result := r.db.WithContext(ctx).Delete(&models.OrderItem{}, "id = ?", id)
	if result.Error != nil {
		r.logger.Error("delete orderItem failed", "id", id, "error", result.Error)
		return "", translate(result.Error)
	}
	if result.RowsAffected != 1 {
		r.logger.Info("orderItem to delete not found", "id", id)
		return "", ErrNotFound
	}
	r.logger.Info("delete orderItem success", "id", id)
	return OrderItemDeletedMessage, nil
}

// DeleteByOrderID removes every item of the order and reports how many rows
// went away. An order without items yields ErrNotFound.
func (r *OrderItemRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderItem{})
	if result.Error != nil {
		r.logger.Error("delete orderItems by order failed", "order", orderID, "error", result.Error)
		return 0, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Info("orderItems to delete not found", "order", orderID)
		return 0, ErrNotFound
	}
	r.logger.Info("delete orderItems success", "order", orderID, "count", result.RowsAffected)
	return result.RowsAffected, nil
}
