package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Number     string    `gorm:"size:64;not null" json:"number"`
	Status     string    `gorm:"size:255" json:"status"`
	Name       string    `gorm:"size:255" json:"name"`
	Address    string    `gorm:"size:255" json:"address"`
	Zip        string    `gorm:"size:20" json:"zip"`
	TotalPrice float64   `gorm:"not null;default:0" json:"totalPrice"`
	UserID     uuid.UUID `gorm:"type:char(36);index;not null" json:"user"`
	User       *User     `json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	TotalPrice float64   `gorm:"not null;default:0" json:"totalPrice"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	Product    string    `gorm:"size:64" json:"product"`
	OrderID    uuid.UUID `gorm:"type:char(36);index;not null" json:"orderId"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ContactInfo is the delivery contact stored on an order.
type ContactInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Zip     string `json:"zip"`
}

// OrderItemSummary is the projection of an item returned with its order.
type OrderItemSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	TotalPrice float64   `json:"totalPrice"`
	Quantity   int       `json:"quantity"`
}

// OrderDetail is an order together with its projected items.
type OrderDetail struct {
	Order
	OrderItems []OrderItemSummary `json:"orderItems"`
}

func NewOrderDetail(o Order) OrderDetail {
	items := make([]OrderItemSummary, 0, len(o.OrderItems))
	for _, it := range o.OrderItems {
		items = append(items, OrderItemSummary{
			ID:         it.ID,
			Name:       it.Name,
			TotalPrice: it.TotalPrice,
			Quantity:   it.Quantity,
		})
	}
	o.OrderItems = nil
	return OrderDetail{Order: o, OrderItems: items}
}
