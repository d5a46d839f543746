package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	VideoJobStatusQueued    = "queued"
	VideoJobStatusCompleted = "completed"

	// VideoScriptAudioSentinel is stored as the script when the narration came
	// from an uploaded audio track instead of text.
	VideoScriptAudioSentinel = "[audio provided]"
)

// VideoJob records a talking-head render request. Jobs are created
// synchronously; a job that comes back queued has no later transition since
// the provider offers no callback.
type VideoJob struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	AvatarID  uuid.UUID `gorm:"type:uuid;not null;column:avatar_id" json:"avatarId"`
	Script    string    `gorm:"not null;column:script" json:"script"`
	VoiceID   *string   `gorm:"column:voice_id" json:"voiceId"`
	Status    string    `gorm:"not null;column:status" json:"status"`
	OutputURL string    `gorm:"not null;default:'';column:output_url" json:"outputUrl"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (VideoJob) TableName() string {
	return "video_job"
}
