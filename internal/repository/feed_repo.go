package repository

import (
	"Glimmer/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// FeedQuery 信息流查询条件, Limit < 0 表示不分页
type FeedQuery struct {
	Viewer uint64
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// FeedRepo 按 "自己 + 关注的人" 过滤内容 id, 时间倒序, 同一时刻按 id 倒序
type FeedRepo interface {
	PostIDs(ctx context.Context, q FeedQuery) ([]uint64, error)
	StoryIDs(ctx context.Context, q FeedQuery) ([]uint64, error)
}

type FeedRepoImpl struct {
	db *gorm.DB
}

func NewFeedRepo(db *gorm.DB) FeedRepo {
	return &FeedRepoImpl{db: db}
}

func (s *FeedRepoImpl) PostIDs(ctx context.Context, q FeedQuery) ([]uint64, error) {
	return s.ids(ctx, &model.Post{}, q)
}

func (s *FeedRepoImpl) StoryIDs(ctx context.Context, q FeedQuery) ([]uint64, error) {
	return s.ids(ctx, &model.Story{}, q)
}

func (s *FeedRepoImpl) ids(ctx context.Context, m any, q FeedQuery) ([]uint64, error) {
	db := s.db.WithContext(ctx)
	followees := db.Model(&model.Follow{}).Select("following_id").Where("follower_id = ?", q.Viewer)

	tx := db.Model(m).Where("(user_id = ? OR user_id IN (?))", q.Viewer, followees)
	if q.From != nil {
		tx = tx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("created_at <= ?", *q.To)
	}
	if q.Limit >= 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset)
	}

	ids := make([]uint64, 0)
	err := tx.Order("created_at DESC").Order("id DESC").Pluck("id", &ids).Error
	return ids, err
}
