package models

import "time"

// ProfileState stores one browser profile's serialized basket and order history.
type ProfileState struct {
	ProfileID string    `gorm:"column:profile_id;primaryKey"`
	Payload   string    `gorm:"column:payload;type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
