package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/types"
)

type AvatarRepo interface {
	Create(ctx context.Context, tx *gorm.DB, avatar *types.Avatar) error
	// GetByIDForUser returns nil when the avatar does not exist or belongs to
	// another user; ownership is enforced here, not in handlers.
	GetByIDForUser(ctx context.Context, tx *gorm.DB, avatarID, userID uuid.UUID) (*types.Avatar, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Avatar, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	ClearPreferred(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, avatarID uuid.UUID) error
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
}

type avatarRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAvatarRepo(db *gorm.DB, baseLog *logger.Logger) AvatarRepo {
	return &avatarRepo{db: db, log: baseLog.With("repo", "AvatarRepo")}
}

func (ar *avatarRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ar.db
}

func (ar *avatarRepo) Create(ctx context.Context, tx *gorm.DB, avatar *types.Avatar) error {
	return ar.conn(tx).WithContext(ctx).Create(avatar).Error
}

func (ar *avatarRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, avatarID, userID uuid.UUID) (*types.Avatar, error) {
	var result types.Avatar
	err := ar.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", avatarID, userID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ar *avatarRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Avatar, error) {
	var results []*types.Avatar
	err := ar.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("preferred DESC").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *avatarRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := ar.conn(tx).WithContext(ctx).
		Model(&types.Avatar{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (ar *avatarRepo) ClearPreferred(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return ar.conn(tx).WithContext(ctx).
		Model(&types.Avatar{}).
		Where("user_id = ?", userID).
		Update("preferred", false).Error
}

func (ar *avatarRepo) Delete(ctx context.Context, tx *gorm.DB, avatarID uuid.UUID) error {
	return ar.conn(tx).WithContext(ctx).
		Where("id = ?", avatarID).
		Delete(&types.Avatar{}).Error
}

func (ar *avatarRepo) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	result := ar.conn(tx).WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Avatar{})
	return result.RowsAffected, result.Error
}
