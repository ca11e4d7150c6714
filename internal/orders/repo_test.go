package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bdshop/storefront-backend/pkg/db/models"
	"github.com/bdshop/storefront-backend/pkg/enums"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
	"github.com/bdshop/storefront-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL,
  stripe_session_id TEXT NOT NULL UNIQUE,
  stripe_customer_id TEXT,
  stripe_payment_intent_id TEXT,
  clerk_user_id TEXT,
  customer_name TEXT,
  email TEXT,
  total NUMERIC NOT NULL DEFAULT 0,
  total_price NUMERIC,
  currency TEXT NOT NULL DEFAULT 'usd',
  amount_discount NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  delivery_status TEXT NOT NULL DEFAULT 'confirmed',
  delivery_notes TEXT,
  shipping_address TEXT,
  order_date DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderProducts := `
CREATE TABLE IF NOT EXISTS order_products (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_title TEXT,
  unit_price NUMERIC,
  quantity INTEGER NOT NULL CHECK (quantity >= 1)
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderProducts).Error)
	return db
}

func newTestOrder(sessionID string, orderDate time.Time) *models.Order {
	title := "Blue Panjabi"
	return &models.Order{
		OrderNumber:     "ORD-12345678",
		StripeSessionID: sessionID,
		Total:           decimal.NewFromInt(3000),
		TotalPrice:      decimal.NewNullDecimal(decimal.NewFromInt(3000)),
		Currency:        "usd",
		Status:          enums.OrderRecordStatusPaid,
		DeliveryStatus:  enums.DeliveryStatusConfirmed,
		ShippingAddress: &types.ShippingAddress{
			FullName:    "Rahim Uddin",
			PhoneNumber: "01712345678",
			District:    "dhaka",
			HomeAddress: "House 1, Road 2",
			Country:     "Bangladesh",
		},
		OrderDate: orderDate,
		Products: []models.OrderProduct{{
			ProductID:    "p-panjabi",
			ProductTitle: &title,
			UnitPrice:    decimal.NewNullDecimal(decimal.NewFromInt(1500)),
			Quantity:     2,
		}},
	}
}

func TestRepositorySaveIsIdempotentPerSession(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	first, created, err := repo.Save(ctx, newTestOrder("cs_test_1", now))
	require.NoError(t, err)
	require.True(t, created)
	require.NotEqual(t, uuid.Nil, first.ID)

	second, created, err := repo.Save(ctx, newTestOrder("cs_test_1", now.Add(time.Minute)))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Products, 1)
	assert.Equal(t, 2, second.Products[0].Quantity)
	require.NotNil(t, second.ShippingAddress)
	assert.Equal(t, "dhaka", second.ShippingAddress.District)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepositorySaveRequiresSession(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))

	_, _, err := repo.Save(context.Background(), newTestOrder(" ", time.Now()))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRepositoryListNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, _, err := repo.Save(ctx, newTestOrder(fmt.Sprintf("cs_test_%d", i), base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	orders, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "cs_test_2", orders[0].StripeSessionID)
	assert.Equal(t, "cs_test_1", orders[1].StripeSessionID)
	assert.Len(t, orders[0].Products, 1)
}

func TestRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	saved, _, err := repo.Save(ctx, newTestOrder("cs_test_delete", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, saved.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.OrderProduct{}).Where("order_id = ?", saved.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	err = repo.Delete(ctx, saved.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = repo.FindBySessionID(ctx, "cs_test_delete")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
