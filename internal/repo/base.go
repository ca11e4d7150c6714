package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
)

// Base is embedded by the gorm-backed catalog, basket and order repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx; a nil ctx yields the raw connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Tx runs fn in a transaction bound to ctx. Returning an error rolls back.
func (b Base) Tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}

// NotFound maps a missing row onto a NOT_FOUND error carrying msg. Other
// errors, and nil, are returned unchanged.
func NotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msg)
	}
	return err
}
