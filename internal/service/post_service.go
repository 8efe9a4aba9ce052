package service

import (
	"Glimmer/internal/api/dto"
	"Glimmer/internal/model"
	"Glimmer/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, viewer, postID uint64) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, userID, postID uint64, req *dto.PostUpdateDTO) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, userID, postID uint64) error
	GetUserLikedPosts(ctx context.Context, viewer, userID uint64, limit, offset int) ([]*dto.PostDTO, error)
	GetFeed(ctx context.Context, viewer uint64, page, pageSize int) (*dto.PostFeedDTO, error)
}

type postServiceImpl struct {
	postRepo    repository.PostRepo
	profileRepo repository.ProfileRepo
	planner     FeedPlanner
	annotator   Annotator
	cache       CounterCache
	counters    counterReader
}

func NewPostService(
	postRepo repository.PostRepo,
	profileRepo repository.ProfileRepo,
	counterRepo repository.CounterRepo,
	planner FeedPlanner,
	annotator Annotator,
	cache CounterCache,
	cacheTTL time.Duration,
) PostService {
	return &postServiceImpl{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		planner:     planner,
		annotator:   annotator,
		cache:       cache,
		counters:    newCounterReader(counterRepo, cache, cacheTTL),
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error) {
	post := &model.Post{UserID: userID, Content: req.Content}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	profiles, err := lookupProfiles(ctx, s.profileRepo, []uint64{userID})
	if err != nil {
		return nil, err
	}
	return toPostDTO(post, profiles[userID]), nil
}

func (s *postServiceImpl) GetPost(ctx context.Context, viewer, postID uint64) (*dto.PostDTO, error) {
	posts, err := s.assemble(ctx, viewer, []uint64{postID})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return posts[0], nil
}

// UpdatePost 仅作者可修改正文, 计数不变
func (s *postServiceImpl) UpdatePost(ctx context.Context, userID, postID uint64, req *dto.PostUpdateDTO) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.UserID != userID {
		return nil, UnauthorizedError
	}
	if err = s.postRepo.UpdatePost(ctx, postID, req.Content); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.GetPost(ctx, userID, postID)
}

// DeletePost 仅作者可删除, 点赞与评论随帖子级联删除, 不再单独扣减计数
func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrPostNotFound
		}
		return err
	}
	if post.UserID != userID {
		return UnauthorizedError
	}
	if err = s.postRepo.DeletePost(ctx, postID); err != nil {
		if repository.IsNotFound(err) {
			return ErrPostNotFound
		}
		return err
	}
	_ = s.cache.Invalidate(ctx,
		model.NewCounterRef(model.PostLikes, postID),
		model.NewCounterRef(model.PostComments, postID),
	)
	return nil
}

// GetUserLikedPosts userID 点赞过的帖子, 按点赞时间倒序, LikeID 针对 viewer 标注
func (s *postServiceImpl) GetUserLikedPosts(ctx context.Context, viewer, userID uint64, limit, offset int) ([]*dto.PostDTO, error) {
	ids, err := s.postRepo.GetLikedPostIDs(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, viewer, ids)
}

// GetFeed 规划 id, 批量标注, 计数走缓存, 最后按规划顺序组装
func (s *postServiceImpl) GetFeed(ctx context.Context, viewer uint64, page, pageSize int) (*dto.PostFeedDTO, error) {
	ids, hasMore, err := s.planner.PlanFeedPage(ctx, viewer, model.KindPost, page, pageSize)
	if err != nil {
		return nil, err
	}
	list, err := s.assemble(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}
	return &dto.PostFeedDTO{List: list, HasMore: hasMore}, nil
}

func (s *postServiceImpl) assemble(ctx context.Context, viewer uint64, ids []uint64) ([]*dto.PostDTO, error) {
	res := make([]*dto.PostDTO, 0, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	posts, err := s.postRepo.GetPostByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Post, len(posts))
	userIDs := make([]uint64, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		userIDs = append(userIDs, p.UserID)
	}

	facts, err := s.annotator.Annotate(ctx, viewer, model.KindPost, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.counters.many(ctx, ids, model.PostLikes, model.PostComments)
	if err != nil {
		return nil, err
	}
	profiles, err := lookupProfiles(ctx, s.profileRepo, userIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		item := toPostDTO(p, profiles[p.UserID])
		if v, ok := counts[model.NewCounterRef(model.PostLikes, id)]; ok {
			item.LikesCount = v
		}
		if v, ok := counts[model.NewCounterRef(model.PostComments, id)]; ok {
			item.CommentsCount = v
		}
		item.LikeID = facts[id].LikeID
		res = append(res, item)
	}
	return res, nil
}

func toPostDTO(p *model.Post, author *model.Profile) *dto.PostDTO {
	item := &dto.PostDTO{}
	_ = copier.Copy(item, p)
	item.Nickname = author.Nickname
	item.AvatarURL = author.AvatarURL
	item.CreatedAt = p.CreatedAt.Format(time.DateTime)
	return item
}
