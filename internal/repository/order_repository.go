package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"gorm.io/gorm"
)

const (
	OrderDeletedMessage       = "order deleted successfully"
	ContactInfoDeletedMessage = "contact info deleted successfully"
)

type IOrderRepository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error)
	FindAll(ctx context.Context) ([]models.OrderDetail, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderDetail, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]models.OrderDetail, error)
	Update(ctx context.Context, id uuid.UUID, order *models.Order) (*models.OrderDetail, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	UpdateContactInfo(ctx context.Context, id uuid.UUID, info models.ContactInfo) (*models.OrderDetail, error)
	DeleteContactInfo(ctx context.Context, id uuid.UUID) (string, error)
}

type OrderRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewOrderRepository(db *gorm.DB, logger *slog.Logger) IOrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger.With("component", "order.repository"),
	}
}

// withItems preloads the items of each order, projected to the summary columns.
// order_id is selected as well because gorm needs it to attach the rows.
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("OrderItems", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "order_id", "name", "total_price", "quantity").Order("created_at")
	})
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	return r.CreateWithItems(ctx, order, nil)
}

// CreateWithItems inserts the order and its items in one transaction; a
// failing item leaves nothing behind.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error) {
	created := models.Order{
		Number:     order.Number,
		Status:     order.Status,
		Name:       order.Name,
		Address:    order.Address,
		Zip:        order.Zip,
		TotalPrice: order.TotalPrice,
		UserID:     order.UserID,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&created).Error; err != nil {
			return translate(err)
		}
		for _, it := range items {
			item := models.OrderItem{
				Name:       it.Name,
				TotalPrice: it.TotalPrice,
				Quantity:   it.Quantity,
				Product:    it.Product,
				OrderID:    created.ID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return translate(err)
			}
			created.OrderItems = append(created.OrderItems, item)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("create order failed", "number", order.Number, "items", len(items), "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]models.OrderDetail, error) {
	var orders []models.Order
	if err := withItems(r.db.WithContext(ctx)).Order("created_at").Find(&orders).Error; err != nil {
		r.logger.Error("find all orders failed", "error", err)
		return nil, translate(err)
	}
	return toDetails(orders), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderDetail, error) {
	var order models.Order
	if err := withItems(r.db.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Error("find order by id failed", "id", id, "error", err)
		}
		return nil, translate(err)
	}
	detail := models.NewOrderDetail(order)
	return &detail, nil
}

func (r *OrderRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]models.OrderDetail, error) {
	var orders []models.Order
	if err := withItems(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&orders).Error; err != nil {
		r.logger.Error("find orders by user failed", "user", userID, "error", err)
		return nil, translate(err)
	}
	r.logger.Info("retrieved orders by user", "user", userID, "count", len(orders))
	return toDetails(orders), nil
}

func (r *OrderRepository) Update(ctx context.Context, id uuid.UUID, order *models.Order) (*models.OrderDetail, error) {
	// A map is used so zero values overwrite as well.
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
		"number":      order.Number,
		"status":      order.Status,
		"name":        order.Name,
		"address":     order.Address,
		"zip":         order.Zip,
		"total_price": order.TotalPrice,
		"user_id":     order.UserID,
	})
	if result.Error != nil {
		r.logger.Error("update order failed", "id", id, "error", result.Error)
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Info("order to update not found", "id", id)
		return nil, ErrNotFound
	}
	r.logger.Info("updated order", "id", id)
	return r.FindByID(ctx, id)
}

// Delete removes the order and its items together.
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return translate(err)
		}
		result := tx.Delete(&models.Order{}, "id = ?", id)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected != 1 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.logger.Info("order to delete not found", "id", id)
		} else {
			r.logger.Error("delete order failed", "id", id, "error", err)
		}
		return "", err
	}
	r.logger.Info("delete order success", "id", id)
	return OrderDeletedMessage, nil
}

// UpdateContactInfo overwrites the delivery contact of the order.
func (r *OrderRepository) UpdateContactInfo(ctx context.Context, id uuid.UUID, info models.ContactInfo) (*models.OrderDetail, error) {
	if err := r.setContactInfo(ctx, id, info); err != nil {
		return nil, err
	}
	r.logger.Info("updated order contact info", "id", id)
	return r.FindByID(ctx, id)
}

// DeleteContactInfo clears the delivery contact; the order itself stays.
func (r *OrderRepository) DeleteContactInfo(ctx context.Context, id uuid.UUID) (string, error) {
	if err := r.setContactInfo(ctx, id, models.ContactInfo{}); err != nil {
		return "", err
	}
	r.logger.Info("deleted order contact info", "id", id)
	return ContactInfoDeletedMessage, nil
}

func (r *OrderRepository) setContactInfo(ctx context.Context, id uuid.UUID, info models.ContactInfo) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
		"name":    info.Name,
		"address": info.Address,
		"zip":     info.Zip,
	})
	if result.Error != nil {
		r.logger.Error("update order contact info failed", "id", id, "error", result.Error)
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Info("order for contact info not found", "id", id)
		return ErrNotFound
	}
	return nil
}

func toDetails(orders []models.Order) []models.OrderDetail {
	details := make([]models.OrderDetail, 0, len(orders))
	for _, o := range orders {
		details = append(details, models.NewOrderDetail(o))
	}
	return details
}
