package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/types"
)

type VideoJobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, job *types.VideoJob) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.VideoJob, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
}

type videoJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoJobRepo(db *gorm.DB, baseLog *logger.Logger) VideoJobRepo {
	return &videoJobRepo{db: db, log: baseLog.With("repo", "VideoJobRepo")}
}

func (vr *videoJobRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return vr.db
}

func (vr *videoJobRepo) Create(ctx context.Context, tx *gorm.DB, job *types.VideoJob) error {
	return vr.conn(tx).WithContext(ctx).Create(job).Error
}

func (vr *videoJobRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.VideoJob, error) {
	var results []*types.VideoJob
	err := vr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *videoJobRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := vr.conn(tx).WithContext(ctx).
		Model(&types.VideoJob{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (vr *videoJobRepo) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	result := vr.conn(tx).WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.VideoJob{})
	return result.RowsAffected, result.Error
}
