package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/webshop-service/auth"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/catalog"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/repository"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func perform(r http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var testIssuer = auth.NewTokenIssuer("secret", time.Hour)

// caller returns a user id and the bearer header for a user holding roles.
func caller(t *testing.T, roles ...string) (uuid.UUID, map[string]string) {
	t.Helper()
	user := models.User{ID: uuid.New(), Username: "u", Email: "u@example.com"}
	for _, r := range roles {
		user.Roles = append(user.Roles, models.Role{Name: r})
	}
	token, err := testIssuer.GenerateAccessToken(user)
	require.NoError(t, err)
	return user.ID, map[string]string{"Authorization": "Bearer " + token}
}

// memOrders keeps orders and items together so both handler fakes agree.
type memOrders struct {
	mu     sync.Mutex
	orders map[uuid.UUID]models.Order
	items  map[uuid.UUID]models.OrderItem
	err    error
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[uuid.UUID]models.Order{}, items: map[uuid.UUID]models.OrderItem{}}
}

func (m *memOrders) detail(o models.Order) models.OrderDetail {
	for _, it := range m.items {
		if it.OrderID == o.ID {
			o.OrderItems = append(o.OrderItems, it)
		}
	}
	return models.NewOrderDetail(o)
}

// CreateWithItems stores the order and items together or not at all.
func (m *memOrders) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	created := *order
	created.ID = uuid.New()
	m.orders[created.ID] = created
	for _, it := range items {
		it.ID = uuid.New()
		it.OrderID = created.ID
		m.items[it.ID] = it
		created.OrderItems = append(created.OrderItems, it)
	}
	return &created, nil
}

func (m *memOrders) FindAll(ctx context.Context) ([]models.OrderDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.OrderDetail{}
	for _, o := range m.orders {
		out = append(out, m.detail(o))
	}
	return out, nil
}

func (m *memOrders) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d := m.detail(o)
	return &d, nil
}

func (m *memOrders) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]models.OrderDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.OrderDetail{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, m.detail(o))
		}
	}
	return out, nil
}

func (m *memOrders) Update(ctx context.Context, id uuid.UUID, order *models.Order) (*models.OrderDetail, error) {
	m.mu.Lock()
	if _, ok := m.orders[id]; !ok {
		m.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	updated := *order
	updated.ID = id
	m.orders[id] = updated
	m.mu.Unlock()
	return m.FindByID(ctx, id)
}

func (m *memOrders) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return "", repository.ErrNotFound
	}
	for itemID, it := range m.items {
		if it.OrderID == id {
			delete(m.items, itemID)
		}
	}
	delete(m.orders, id)
	return repository.OrderDeletedMessage, nil
}

func (m *memOrders) UpdateContactInfo(ctx context.Context, id uuid.UUID, info models.ContactInfo) (*models.OrderDetail, error) {
	m.mu.Lock()
	o, ok := m.orders[id]
	if !ok {
		m.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	o.Name, o.Address, o.Zip = info.Name, info.Address, info.Zip
	m.orders[id] = o
	m.mu.Unlock()
	return m.FindByID(ctx, id)
}

func (m *memOrders) DeleteContactInfo(ctx context.Context, id uuid.UUID) (string, error) {
	if _, err := m.UpdateContactInfo(ctx, id, models.ContactInfo{}); err != nil {
		return "", err
	}
	return repository.ContactInfoDeletedMessage, nil
}

// memItems is the item side of memOrders.
type memItems struct{ *memOrders }

func (m memItems) Create(ctx context.Context, item *models.OrderItem, orderID uuid.UUID) (*models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[orderID]; !ok {
		return nil, repository.ErrNotFound
	}
	created := *item
	created.ID = uuid.New()
	created.OrderID = orderID
	m.items[created.ID] = created
	return &created, nil
}

func (m memItems) FindAllByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.OrderItem{}
	for _, it := range m.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m memItems) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &it, nil
}

func (m memItems) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return "", repository.ErrNotFound
	}
	delete(m.items, id)
	return repository.OrderItemDeletedMessage, nil
}

func (m memItems) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, it := range m.items {
		if it.OrderID == orderID {
			delete(m.items, id)
			n++
		}
	}
	if n == 0 {
		return 0, repository.ErrNotFound
	}
	return n, nil
}

type stubCatalog map[string]catalog.Product

func (s stubCatalog) Lookup(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

var (
	errStoreDown       = errors.New("store down")
	errNotFoundForTest = fmt.Errorf("role: %w", repository.ErrNotFound)
)
