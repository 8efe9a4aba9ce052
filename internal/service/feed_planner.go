package service

import (
	"Glimmer/internal/api/config"
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/metrics"
	"Glimmer/internal/pkg/util"
	"Glimmer/internal/repository"
	"context"
	"time"
)

const defaultStoryWindow = 24 * time.Hour

// FeedPlanner 计算观看者可见的内容 id: 自己的内容加上关注的人的内容
type FeedPlanner interface {
	PlanFeed(ctx context.Context, viewer uint64, kind model.ContentKind) ([]uint64, error)
	PlanFeedPage(ctx context.Context, viewer uint64, kind model.ContentKind, page, size int) ([]uint64, bool, error)
	StoryWindow() time.Duration
}

type FeedPlannerImpl struct {
	repo        repository.FeedRepo
	now         func() time.Time
	window      time.Duration
	maxPageSize int
}

func NewFeedPlanner(cfg config.FeedConfig, repo repository.FeedRepo, now func() time.Time) FeedPlanner {
	if now == nil {
		now = time.Now
	}
	window := time.Duration(cfg.StoryWindowHours) * time.Hour
	if window <= 0 {
		window = defaultStoryWindow
	}
	maxPageSize := cfg.MaxPageSize
	if maxPageSize <= 0 {
		maxPageSize = 50
	}
	return &FeedPlannerImpl{repo: repo, now: now, window: window, maxPageSize: maxPageSize}
}

func (s *FeedPlannerImpl) StoryWindow() time.Duration {
	return s.window
}

// PlanFeed 返回完整有序列表
func (s *FeedPlannerImpl) PlanFeed(ctx context.Context, viewer uint64, kind model.ContentKind) ([]uint64, error) {
	return s.plan(ctx, viewer, kind, -1, 0)
}

// PlanFeedPage 第 page 页 (从 1 开始), 多取一条判断是否还有下一页
func (s *FeedPlannerImpl) PlanFeedPage(ctx context.Context, viewer uint64, kind model.ContentKind, page, size int) ([]uint64, bool, error) {
	page, size = util.NormalizePage(page, size, s.maxPageSize)
	ids, err := s.plan(ctx, viewer, kind, size+1, (page-1)*size)
	if err != nil {
		return nil, false, err
	}
	hasMore := len(ids) > size
	if hasMore {
		ids = ids[:size]
	}
	return ids, hasMore, nil
}

func (s *FeedPlannerImpl) plan(ctx context.Context, viewer uint64, kind model.ContentKind, limit, offset int) ([]uint64, error) {
	// 匿名用户没有关注关系, 也没有自己的内容
	if viewer == 0 {
		return []uint64{}, nil
	}

	start := time.Now()
	defer func() {
		metrics.Get().FeedPlanDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}()

	q := repository.FeedQuery{Viewer: viewer, Limit: limit, Offset: offset}
	switch kind {
	case model.KindPost:
		return s.repo.PostIDs(ctx, q)
	case model.KindStory:
		now := s.now().UTC()
		from := now.Add(-s.window)
		q.From, q.To = &from, &now
		return s.repo.StoryIDs(ctx, q)
	}
	return nil, ErrParamInvalid
}
