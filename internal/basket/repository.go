package basket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bdshop/storefront-backend/internal/repo"
	"github.com/bdshop/storefront-backend/pkg/db/models"
	"github.com/bdshop/storefront-backend/pkg/redis"
)

// Repository loads and saves the whole per-profile blob. Load returns empty
// state for an unknown profile and an error wrapping ErrCorruptState, together
// with empty state, when the stored blob cannot be decoded.
type Repository interface {
	Load(ctx context.Context, profileID string) (State, error)
	Save(ctx context.Context, profileID string, state State) error
}

type blobStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	BasketKey(profileID string) string
}

// RedisRepository keeps each blob under its own key.
type RedisRepository struct {
	store blobStore
	ttl   time.Duration
}

// NewRedisRepository stores blobs through client; a zero ttl keeps them forever.
func NewRedisRepository(client blobStore, ttl time.Duration) (*RedisRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisRepository{store: client, ttl: ttl}, nil
}

func (r *RedisRepository) Load(ctx context.Context, profileID string) (State, error) {
	raw, err := r.store.Get(ctx, r.store.BasketKey(profileID))
	if err != nil {
		if redis.IsNil(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("load basket blob: %w", err)
	}
	return DecodeState([]byte(raw))
}

func (r *RedisRepository) Save(ctx context.Context, profileID string, state State) error {
	raw, err := EncodeState(state)
	if err != nil {
		return fmt.Errorf("encode basket blob: %w", err)
	}
	if err := r.store.Set(ctx, r.store.BasketKey(profileID), string(raw), r.ttl); err != nil {
		return fmt.Errorf("save basket blob: %w", err)
	}
	return nil
}

// GormRepository keeps blobs in the profile_states table.
type GormRepository struct {
	repo.Base
}

// NewGormRepository constructs a repository bound to the provided DB.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *GormRepository) WithTx(tx *gorm.DB) *GormRepository {
	if tx == nil {
		return r
	}
	return NewGormRepository(tx)
}

func (r *GormRepository) Load(ctx context.Context, profileID string) (State, error) {
	var row models.ProfileState
	err := r.DB(ctx).Where("profile_id = ?", profileID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("load profile state: %w", err)
	}
	return DecodeState([]byte(row.Payload))
}

func (r *GormRepository) Save(ctx context.Context, profileID string, state State) error {
	raw, err := EncodeState(state)
	if err != nil {
		return fmt.Errorf("encode basket blob: %w", err)
	}
	row := models.ProfileState{
		ProfileID: profileID,
		Payload:   string(raw),
		UpdatedAt: time.Now().UTC(),
	}
	err = r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save profile state: %w", err)
	}
	return nil
}
