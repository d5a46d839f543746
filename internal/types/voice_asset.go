package types

import (
	"time"

	"github.com/google/uuid"
)

type VoiceAsset struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	Text       string    `gorm:"not null;column:text" json:"text"`
	VoiceID    string    `gorm:"not null;column:voice_id" json:"voiceId"`
	ModelID    string    `gorm:"not null;column:model_id" json:"modelId"`
	Stability  float64   `gorm:"not null;column:stability" json:"stability"`
	Similarity float64   `gorm:"not null;column:similarity" json:"similarity"`
	AudioKey   string    `gorm:"not null;column:audio_key" json:"audioKey"`
	AudioURL   string    `gorm:"not null;column:audio_url" json:"audioUrl"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
}

func (VoiceAsset) TableName() string {
	return "voice_asset"
}
