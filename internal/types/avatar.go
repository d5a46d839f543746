package types

import (
	"time"

	"github.com/google/uuid"
)

// Avatar is a saved, user-owned copy of a generated preview image. The bytes
// live in the bucket under ImageKey; ImageURL is the gateway-resolved address.
type Avatar struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	Prompt    string    `gorm:"not null;column:prompt" json:"prompt"`
	ImageURL  string    `gorm:"not null;column:image_url" json:"imageUrl"`
	ImageKey  string    `gorm:"column:image_key" json:"imageKey"`
	Preferred bool      `gorm:"not null;default:false;column:preferred" json:"preferred"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (Avatar) TableName() string {
	return "avatar"
}
