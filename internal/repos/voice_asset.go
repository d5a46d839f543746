package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/types"
)

type VoiceAssetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, asset *types.VoiceAsset) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.VoiceAsset, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
}

type voiceAssetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoiceAssetRepo(db *gorm.DB, baseLog *logger.Logger) VoiceAssetRepo {
	return &voiceAssetRepo{db: db, log: baseLog.With("repo", "VoiceAssetRepo")}
}

func (vr *voiceAssetRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return vr.db
}

func (vr *voiceAssetRepo) Create(ctx context.Context, tx *gorm.DB, asset *types.VoiceAsset) error {
	return vr.conn(tx).WithContext(ctx).Create(asset).Error
}

func (vr *voiceAssetRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.VoiceAsset, error) {
	var results []*types.VoiceAsset
	err := vr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *voiceAssetRepo) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	result := vr.conn(tx).WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.VoiceAsset{})
	return result.RowsAffected, result.Error
}
