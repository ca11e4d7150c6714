package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bdshop/storefront-backend/internal/repo"
	"github.com/bdshop/storefront-backend/pkg/db"
	"github.com/bdshop/storefront-backend/pkg/db/models"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
)

// Repository persists order records.
type Repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Save inserts order unless a record for the same checkout session exists, in
// which case the stored record is returned and created is false.
func (r *Repository) Save(ctx context.Context, order *models.Order) (saved *models.Order, created bool, err error) {
	if order == nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	sessionID := strings.TrimSpace(order.StripeSessionID)
	if sessionID == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "stripe session id is required")
	}

	err = r.Tx(ctx, func(tx *gorm.DB) error {
		existing, findErr := findBySession(tx, sessionID)
		if findErr == nil {
			saved = existing
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		if order.ID == uuid.Nil {
			order.ID = uuid.New()
		}
		for i := range order.Products {
			if order.Products[i].ID == uuid.Nil {
				order.Products[i].ID = uuid.New()
			}
			order.Products[i].OrderID = order.ID
		}
		if createErr := tx.Create(order).Error; createErr != nil {
			return createErr
		}
		saved = order
		created = true
		return nil
	})
	if err != nil && db.IsUniqueViolation(err, "") {
		// lost a concurrent insert for the same session
		existing, findErr := r.FindBySessionID(ctx, sessionID)
		if findErr != nil {
			return nil, false, findErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return saved, created, nil
}

// FindBySessionID returns the order recorded for a checkout session.
func (r *Repository) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	order, err := findBySession(r.DB(ctx), sessionID)
	if err != nil {
		return nil, repo.NotFound(err, "order not found")
	}
	return order, nil
}

func findBySession(tx *gorm.DB, sessionID string) (*models.Order, error) {
	var order models.Order
	err := tx.Preload("Products").
		Where("stripe_session_id = ?", sessionID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders newest first. A non-positive limit returns every order.
func (r *Repository) List(ctx context.Context, limit int) ([]models.Order, error) {
	qb := r.DB(ctx).
		Preload("Products").
		Order("order_date DESC").
		Order("created_at DESC")
	if limit > 0 {
		qb = qb.Limit(limit)
	}
	var orders []models.Order
	if err := qb.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Delete removes an order and its product rows.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.Tx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil
	})
}
