package service

import (
	"Glimmer/internal/api/dto"
	"Glimmer/internal/model"
	"Glimmer/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

type StoryService interface {
	CreateStory(ctx context.Context, userID uint64, req *dto.StoryCreateDTO) (*dto.StoryDTO, error)
	GetStory(ctx context.Context, viewer, storyID uint64) (*dto.StoryDTO, error)
	DeleteStory(ctx context.Context, userID, storyID uint64) error
	GetStoryTray(ctx context.Context, viewer uint64) ([]*dto.StoryTrayDTO, error)
	GetStoryViewers(ctx context.Context, requester, storyID uint64, limit, offset int) ([]*dto.StoryViewerDTO, error)
}

type storyServiceImpl struct {
	storyRepo   repository.StoryRepo
	profileRepo repository.ProfileRepo
	planner     FeedPlanner
	annotator   Annotator
	receipts    ReadReceiptService
	cache       CounterCache
	counters    counterReader
	now         func() time.Time
}

func NewStoryService(
	storyRepo repository.StoryRepo,
	profileRepo repository.ProfileRepo,
	counterRepo repository.CounterRepo,
	planner FeedPlanner,
	annotator Annotator,
	receipts ReadReceiptService,
	cache CounterCache,
	cacheTTL time.Duration,
	now func() time.Time,
) StoryService {
	if now == nil {
		now = time.Now
	}
	return &storyServiceImpl{
		storyRepo:   storyRepo,
		profileRepo: profileRepo,
		planner:     planner,
		annotator:   annotator,
		receipts:    receipts,
		cache:       cache,
		counters:    newCounterReader(counterRepo, cache, cacheTTL),
		now:         now,
	}
}

func (s *storyServiceImpl) CreateStory(ctx context.Context, userID uint64, req *dto.StoryCreateDTO) (*dto.StoryDTO, error) {
	story := &model.Story{
		UserID:    userID,
		Content:   req.Content,
		ImagePath: req.ImagePath,
		Duration:  req.Duration,
	}
	if err := s.storyRepo.CreateStory(ctx, story); err != nil {
		return nil, err
	}
	return toStoryDTO(story), nil
}

// GetStory 非作者查看过期快拍视为不存在, 成功返回前记录已读回执
func (s *storyServiceImpl) GetStory(ctx context.Context, viewer, storyID uint64) (*dto.StoryDTO, error) {
	story, err := s.storyRepo.GetStory(ctx, storyID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	if story.UserID != viewer && s.expired(story) {
		return nil, ErrStoryNotFound
	}

	_, _, err = s.receipts.RecordView(ctx, viewer, storyID)
	if err != nil {
		return nil, err
	}
	count, err := s.receipts.ReadCount(ctx, storyID)
	if err != nil {
		return nil, err
	}

	item := toStoryDTO(story)
	item.Watched = viewer != 0 && viewer != story.UserID
	item.ReadUsersCount = count
	return item, nil
}

func (s *storyServiceImpl) expired(story *model.Story) bool {
	return story.CreatedAt.Before(s.now().UTC().Add(-s.planner.StoryWindow()))
}

// DeleteStory 仅作者可删除, 已读回执随快拍一起删除
func (s *storyServiceImpl) DeleteStory(ctx context.Context, userID, storyID uint64) error {
	story, err := s.storyRepo.GetStory(ctx, storyID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrStoryNotFound
		}
		return err
	}
	if story.UserID != userID {
		return UnauthorizedError
	}
	if err = s.storyRepo.DeleteStory(ctx, storyID); err != nil {
		if repository.IsNotFound(err) {
			return ErrStoryNotFound
		}
		return err
	}
	_ = s.cache.Invalidate(ctx, model.NewCounterRef(model.StoryViews, storyID))
	return nil
}

// GetStoryTray 按作者分组, 作者顺序取其最新一条快拍的时间
func (s *storyServiceImpl) GetStoryTray(ctx context.Context, viewer uint64) ([]*dto.StoryTrayDTO, error) {
	ids, err := s.planner.PlanFeed(ctx, viewer, model.KindStory)
	if err != nil {
		return nil, err
	}
	tray := make([]*dto.StoryTrayDTO, 0)
	if len(ids) == 0 {
		return tray, nil
	}

	stories, err := s.storyRepo.GetStoryByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Story, len(stories))
	userIDs := make([]uint64, 0, len(stories))
	for _, st := range stories {
		byID[st.ID] = st
		userIDs = append(userIDs, st.UserID)
	}

	facts, err := s.annotator.Annotate(ctx, viewer, model.KindStory, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.counters.many(ctx, ids, model.StoryViews)
	if err != nil {
		return nil, err
	}
	profiles, err := lookupProfiles(ctx, s.profileRepo, userIDs)
	if err != nil {
		return nil, err
	}

	groups := make(map[uint64]*dto.StoryTrayDTO)
	for _, id := range ids {
		st, ok := byID[id]
		if !ok {
			continue
		}
		group, ok := groups[st.UserID]
		if !ok {
			p := profiles[st.UserID]
			group = &dto.StoryTrayDTO{
				UserID:     st.UserID,
				Nickname:   p.Nickname,
				AvatarURL:  p.AvatarURL,
				AllWatched: true,
				Stories:    make([]*dto.StoryDTO, 0, 1),
			}
			groups[st.UserID] = group
			tray = append(tray, group)
		}

		item := toStoryDTO(st)
		item.Watched = facts[id].Watched
		item.ReadUsersCount = counts[model.NewCounterRef(model.StoryViews, id)]
		// 自己的快拍不会产生回执, 不参与 "未看" 提示
		if st.UserID != viewer && !item.Watched {
			group.AllWatched = false
		}
		group.Stories = append(group.Stories, item)
	}
	return tray, nil
}

func (s *storyServiceImpl) GetStoryViewers(ctx context.Context, requester, storyID uint64, limit, offset int) ([]*dto.StoryViewerDTO, error) {
	views, err := s.receipts.ListViewers(ctx, requester, storyID, limit, offset)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint64, len(views))
	for i, v := range views {
		userIDs[i] = v.UserID
	}
	profiles, err := lookupProfiles(ctx, s.profileRepo, userIDs)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.StoryViewerDTO, len(views))
	for i, v := range views {
		p := profiles[v.UserID]
		res[i] = &dto.StoryViewerDTO{
			ReceiptID: v.ID,
			UserID:    v.UserID,
			Nickname:  p.Nickname,
			AvatarURL: p.AvatarURL,
			ViewedAt:  v.CreatedAt.Format(time.DateTime),
		}
	}
	return res, nil
}

func toStoryDTO(st *model.Story) *dto.StoryDTO {
	item := &dto.StoryDTO{}
	_ = copier.Copy(item, st)
	item.CreatedAt = st.CreatedAt.Format(time.DateTime)
	return item
}
