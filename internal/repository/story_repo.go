package repository

import (
	"Glimmer/internal/model"
	"context"

	"gorm.io/gorm"
)

type StoryRepo interface {
	CreateStory(ctx context.Context, story *model.Story) error
	GetStory(ctx context.Context, id uint64) (*model.Story, error)
	GetStoryByIds(ctx context.Context, ids []uint64) ([]*model.Story, error)
	DeleteStory(ctx context.Context, id uint64) error

	CreateStoryView(ctx context.Context, view *model.StoryView) error
	GetStoryView(ctx context.Context, userID, storyID uint64) (*model.StoryView, error)
	FindStoryViews(ctx context.Context, userID uint64, storyIDs []uint64) ([]*model.StoryView, error)
	GetStoryViewers(ctx context.Context, storyID uint64, limit, offset int) ([]*model.StoryView, error)
}

type StoryRepoImpl struct {
	db *gorm.DB
}

func NewStoryRepo(db *gorm.DB) StoryRepo {
	return &StoryRepoImpl{db: db}
}

func (s *StoryRepoImpl) CreateStory(ctx context.Context, story *model.Story) error {
	return s.db.WithContext(ctx).Create(story).Error
}

func (s *StoryRepoImpl) GetStory(ctx context.Context, id uint64) (*model.Story, error) {
	var story model.Story
	err := s.db.WithContext(ctx).First(&story, id).Error
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (s *StoryRepoImpl) GetStoryByIds(ctx context.Context, ids []uint64) ([]*model.Story, error) {
	stories := make([]*model.Story, 0, len(ids))
	if len(ids) == 0 {
		return stories, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

// DeleteStory 连同已读回执一起删除
func (s *StoryRepoImpl) DeleteStory(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", id).Delete(&model.StoryView{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Story{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CreateStoryView 唯一索引 (user_id, story_id) 冲突时返回重复键错误
func (s *StoryRepoImpl) CreateStoryView(ctx context.Context, view *model.StoryView) error {
	return s.db.WithContext(ctx).Create(view).Error
}

func (s *StoryRepoImpl) GetStoryView(ctx context.Context, userID, storyID uint64) (*model.StoryView, error) {
	var view model.StoryView
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Take(&view).Error
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *StoryRepoImpl) FindStoryViews(ctx context.Context, userID uint64, storyIDs []uint64) ([]*model.StoryView, error) {
	var views []*model.StoryView
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND story_id IN ?", userID, storyIDs).
		Find(&views).Error
	return views, err
}

// GetStoryViewers 最近看过的在前
func (s *StoryRepoImpl) GetStoryViewers(ctx context.Context, storyID uint64, limit, offset int) ([]*model.StoryView, error) {
	var views []*model.StoryView
	err := s.db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&views).Error
	return views, err
}
