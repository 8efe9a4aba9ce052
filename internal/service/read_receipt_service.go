package service

import (
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/metrics"
	"Glimmer/internal/repository"
	"context"
	log "log/slog"
)

// ReadReceiptService 快拍已读回执, 每个 (观看者, 快拍) 至多一条
type ReadReceiptService interface {
	// RecordView 返回已有或新建的回执 id, 作者本人和匿名用户不记录
	RecordView(ctx context.Context, viewer, storyID uint64) (uint64, bool, error)
	ReadCount(ctx context.Context, storyID uint64) (int64, error)
	ListViewers(ctx context.Context, requester, storyID uint64, limit, offset int) ([]*model.StoryView, error)
}

type readReceiptServiceImpl struct {
	storyRepo   repository.StoryRepo
	counterRepo repository.CounterRepo
	updater     *CounterUpdater
	cache       CounterCache
}

func NewReadReceiptService(
	storyRepo repository.StoryRepo,
	counterRepo repository.CounterRepo,
	updater *CounterUpdater,
	cache CounterCache,
) ReadReceiptService {
	return &readReceiptServiceImpl{
		storyRepo:   storyRepo,
		counterRepo: counterRepo,
		updater:     updater,
		cache:       cache,
	}
}

func (s *readReceiptServiceImpl) RecordView(ctx context.Context, viewer, storyID uint64) (uint64, bool, error) {
	if viewer == 0 {
		return 0, false, nil
	}
	story, err := s.storyRepo.GetStory(ctx, storyID)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, false, ErrStoryNotFound
		}
		return 0, false, err
	}
	if story.UserID == viewer {
		metrics.Get().ReceiptTotal.WithLabelValues("owner").Inc()
		return 0, false, nil
	}

	// 先插入, 冲突再查, 唯一索引负责并发去重
	view := &model.StoryView{UserID: viewer, StoryID: storyID}
	err = s.storyRepo.CreateStoryView(ctx, view)
	if err == nil {
		metrics.Get().ReceiptTotal.WithLabelValues("created").Inc()
		s.updater.Apply(ctx, model.CounterDelta{Ref: model.NewCounterRef(model.StoryViews, storyID), Delta: 1})
		return view.ID, true, nil
	}
	if !repository.IsDuplicateError(err) {
		return 0, false, err
	}

	existing, err := s.storyRepo.GetStoryView(ctx, viewer, storyID)
	if err != nil {
		log.ErrorContext(ctx, "fetch existing read receipt failed", "story_id", storyID, "err", err)
		return 0, false, err
	}
	metrics.Get().ReceiptTotal.WithLabelValues("existing").Inc()
	return existing.ID, false, nil
}

func (s *readReceiptServiceImpl) ReadCount(ctx context.Context, storyID uint64) (int64, error) {
	ref := model.NewCounterRef(model.StoryViews, storyID)
	count, err := s.cache.GetOrCompute(ctx, ref, func(ctx context.Context) (int64, error) {
		return s.counterRepo.Get(ctx, ref)
	}, 0)
	if repository.IsNotFound(err) {
		return 0, ErrStoryNotFound
	}
	return count, err
}

// ListViewers 只有作者本人可以查看
func (s *readReceiptServiceImpl) ListViewers(ctx context.Context, requester, storyID uint64, limit, offset int) ([]*model.StoryView, error) {
	story, err := s.storyRepo.GetStory(ctx, storyID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	if requester == 0 || story.UserID != requester {
		return nil, UnauthorizedError
	}
	return s.storyRepo.GetStoryViewers(ctx, storyID, limit, offset)
}
