package repository

import (
	"Glimmer/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepo 用户资料由身份服务同步, 计数列不随同步覆盖
type ProfileRepo interface {
	GetProfile(ctx context.Context, userID uint64) (*model.Profile, error)
	GetProfiles(ctx context.Context, userIDs []uint64) ([]*model.Profile, error)
	UpsertProfile(ctx context.Context, profile *model.Profile) error
}

type ProfileRepoImpl struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepo {
	return &ProfileRepoImpl{db: db}
}

// GetProfile 不存在时返回 nil, nil
func (s *ProfileRepoImpl) GetProfile(ctx context.Context, userID uint64) (*model.Profile, error) {
	profile := &model.Profile{}
	result := s.db.WithContext(ctx).Take(profile, "user_id = ?", userID)
	if result.Error != nil {
		if IsNotFound(result.Error) {
			return nil, nil
		}
		return nil, result.Error
	}
	return profile, nil
}

func (s *ProfileRepoImpl) GetProfiles(ctx context.Context, userIDs []uint64) ([]*model.Profile, error) {
	profiles := make([]*model.Profile, 0, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}
	result := s.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}
	return profiles, nil
}

func (s *ProfileRepoImpl) UpsertProfile(ctx context.Context, profile *model.Profile) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"nickname", "avatar_url", "updated_at"}),
		}).
		Create(profile).Error
}
