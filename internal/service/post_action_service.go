package service

import (
	"Glimmer/internal/api/dto"
	"Glimmer/internal/model"
	"Glimmer/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

type PostActionService interface {
	LikePost(ctx context.Context, userID, postID uint64) (*dto.LikeDTO, error)
	UnlikePost(ctx context.Context, userID, postID uint64) error

	LikeComment(ctx context.Context, userID, commentID uint64) (*dto.LikeDTO, error)
	UnlikeComment(ctx context.Context, userID, commentID uint64) error

	CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	UpdateComment(ctx context.Context, userID, commentID uint64, req *dto.CommentUpdateDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, userID, commentID uint64) error
	GetComments(ctx context.Context, viewer, postID uint64, limit, offset int) ([]*dto.CommentDTO, error)

	CreateReComment(ctx context.Context, userID uint64, req *dto.ReCommentCreateDTO) (*dto.ReCommentDTO, error)
	UpdateReComment(ctx context.Context, userID, reCommentID uint64, req *dto.CommentUpdateDTO) (*dto.ReCommentDTO, error)
	DeleteReComment(ctx context.Context, userID, reCommentID uint64) error
	GetReComments(ctx context.Context, commentID uint64, limit, offset int) ([]*dto.ReCommentDTO, error)
}

type postActionServiceImpl struct {
	actionRepo  repository.PostActionRepo
	postRepo    repository.PostRepo
	profileRepo repository.ProfileRepo
	updater     *CounterUpdater
	annotator   Annotator
	counters    counterReader
}

func NewPostActionService(
	actionRepo repository.PostActionRepo,
	postRepo repository.PostRepo,
	profileRepo repository.ProfileRepo,
	counterRepo repository.CounterRepo,
	updater *CounterUpdater,
	annotator Annotator,
	cache CounterCache,
	cacheTTL time.Duration,
) PostActionService {
	return &postActionServiceImpl{
		actionRepo:  actionRepo,
		postRepo:    postRepo,
		profileRepo: profileRepo,
		updater:     updater,
		annotator:   annotator,
		counters:    newCounterReader(counterRepo, cache, cacheTTL),
	}
}

func (s *postActionServiceImpl) LikePost(ctx context.Context, userID, postID uint64) (*dto.LikeDTO, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	like := &model.Like{UserID: userID, PostID: postID}
	if err := s.actionRepo.CreateLike(ctx, like); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrDuplicateEdge
		}
		return nil, err
	}

	ref := model.NewCounterRef(model.PostLikes, postID)
	s.updater.Apply(ctx, model.CounterDelta{Ref: ref, Delta: 1})
	return s.likeResult(ctx, like.ID, ref), nil
}

func (s *postActionServiceImpl) UnlikePost(ctx context.Context, userID, postID uint64) error {
	deleted, err := s.actionRepo.DeleteLike(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEdgeNotFound
	}
	s.updater.Apply(ctx, model.CounterDelta{Ref: model.NewCounterRef(model.PostLikes, postID), Delta: -1})
	return nil
}

func (s *postActionServiceImpl) LikeComment(ctx context.Context, userID, commentID uint64) (*dto.LikeDTO, error) {
	if _, err := s.getComment(ctx, commentID); err != nil {
		return nil, err
	}

	like := &model.CommentLike{UserID: userID, CommentID: commentID}
	if err := s.actionRepo.CreateCommentLike(ctx, like); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrDuplicateEdge
		}
		return nil, err
	}

	ref := model.NewCounterRef(model.CommentLikes, commentID)
	s.updater.Apply(ctx, model.CounterDelta{Ref: ref, Delta: 1})
	return s.likeResult(ctx, like.ID, ref), nil
}

func (s *postActionServiceImpl) UnlikeComment(ctx context.Context, userID, commentID uint64) error {
	deleted, err := s.actionRepo.DeleteCommentLike(ctx, userID, commentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEdgeNotFound
	}
	s.updater.Apply(ctx, model.CounterDelta{Ref: model.NewCounterRef(model.CommentLikes, commentID), Delta: -1})
	return nil
}

// likeResult 计数读取失败不影响点赞结果
func (s *postActionServiceImpl) likeResult(ctx context.Context, likeID uint64, ref model.CounterRef) *dto.LikeDTO {
	count, _ := s.counters.one(ctx, ref)
	return &dto.LikeDTO{LikeID: likeID, LikesCount: count}
}

func (s *postActionServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	if _, err := s.getPost(ctx, req.PostID); err != nil {
		return nil, err
	}

	comment := &model.Comment{PostID: req.PostID, UserID: userID, Content: req.Content}
	if err := s.actionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	s.updater.Apply(ctx, model.CounterDelta{Ref: model.NewCounterRef(model.PostComments, req.PostID), Delta: 1})

	profiles, err := lookupProfiles(ctx, s.profileRepo, []uint64{userID})
	if err != nil {
		return nil, err
	}
	return toCommentDTO(comment, profiles[userID]), nil
}

// UpdateComment 只有评论作者可修改
func (s *postActionServiceImpl) UpdateComment(ctx context.Context, userID, commentID uint64, req *dto.CommentUpdateDTO) (*dto.CommentDTO, error) {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, UnauthorizedError
	}
	if err = s.actionRepo.UpdateComment(ctx, commentID, req.Content); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostCommentNotFound
		}
		return nil, err
	}
	comment.Content = req.Content

	counts, err := s.counters.many(ctx, []uint64{commentID}, model.CommentLikes, model.CommentRecomments)
	if err != nil {
		return nil, err
	}
	facts, err := s.annotator.Annotate(ctx, userID, model.KindComment, []uint64{commentID})
	if err != nil {
		return nil, err
	}
	profiles, err := lookupProfiles(ctx, s.profileRepo, []uint64{userID})
	if err != nil {
		return nil, err
	}
	item := toCommentDTO(comment, profiles[userID])
	item.LikesCount = counts[model.NewCounterRef(model.CommentLikes, commentID)]
	item.RecommentsCount = counts[model.NewCounterRef(model.CommentRecomments, commentID)]
	item.LikeID = facts[commentID].LikeID
	return item, nil
}

// DeleteComment 评论作者或帖子作者可删除, 回复随评论一起删除并从帖子评论数中扣除
func (s *postActionServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		post, err := s.getPost(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.UserID != userID {
			return UnauthorizedError
		}
	}

	replies, err := s.actionRepo.DeleteComment(ctx, commentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrPostCommentNotFound
		}
		return err
	}
	s.updater.Apply(ctx, model.CounterDelta{
		Ref:   model.NewCounterRef(model.PostComments, comment.PostID),
		Delta: -(1 + replies),
	})
	return nil
}

func (s *postActionServiceImpl) GetComments(ctx context.Context, viewer, postID uint64, limit, offset int) ([]*dto.CommentDTO, error) {
	comments, err := s.actionRepo.GetCommentsByPostID(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []*dto.CommentDTO{}, nil
	}

	ids := make([]uint64, len(comments))
	userIDs := make([]uint64, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
		userIDs[i] = c.UserID
	}

	facts, err := s.annotator.Annotate(ctx, viewer, model.KindComment, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.counters.many(ctx, ids, model.CommentLikes, model.CommentRecomments)
	if err != nil {
		return nil, err
	}
	profiles, err := lookupProfiles(ctx, s.profileRepo, userIDs)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CommentDTO, len(comments))
	for i, c := range comments {
		item := toCommentDTO(c, profiles[c.UserID])
		item.LikesCount = counts[model.NewCounterRef(model.CommentLikes, c.ID)]
		item.RecommentsCount = counts[model.NewCounterRef(model.CommentRecomments, c.ID)]
		item.LikeID = facts[c.ID].LikeID
		res[i] = item
	}
	return res, nil
}

// CreateReComment 回复同时计入评论的回复数和帖子的评论数
func (s *postActionServiceImpl) CreateReComment(ctx context.Context, userID uint64, req *dto.ReCommentCreateDTO) (*dto.ReCommentDTO, error) {
	comment, err := s.getComment(ctx, req.CommentID)
	if err != nil {
		return nil, err
	}

	rc := &model.ReComment{CommentID: comment.ID, UserID: userID, Content: req.Content}
	if err = s.actionRepo.CreateReComment(ctx, rc); err != nil {
		return nil, err
	}
	s.updater.Apply(ctx,
		model.CounterDelta{Ref: model.NewCounterRef(model.PostComments, comment.PostID), Delta: 1},
		model.CounterDelta{Ref: model.NewCounterRef(model.CommentRecomments, comment.ID), Delta: 1},
	)

	profiles, err := lookupProfiles(ctx, s.profileRepo, []uint64{userID})
	if err != nil {
		return nil, err
	}
	return toReCommentDTO(rc, profiles[userID]), nil
}

// UpdateReComment 只有回复作者可修改
func (s *postActionServiceImpl) UpdateReComment(ctx context.Context, userID, reCommentID uint64, req *dto.CommentUpdateDTO) (*dto.ReCommentDTO, error) {
	rc, err := s.actionRepo.GetReCommentByID(ctx, reCommentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostCommentNotFound
		}
		return nil, err
	}
	if rc.UserID != userID {
		return nil, UnauthorizedError
	}
	if err = s.actionRepo.UpdateReComment(ctx, reCommentID, req.Content); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostCommentNotFound
		}
		return nil, err
	}
	rc.Content = req.Content

	profiles, err := lookupProfiles(ctx, s.profileRepo, []uint64{userID})
	if err != nil {
		return nil, err
	}
	return toReCommentDTO(rc, profiles[userID]), nil
}

func (s *postActionServiceImpl) DeleteReComment(ctx context.Context, userID, reCommentID uint64) error {
	rc, err := s.actionRepo.GetReCommentByID(ctx, reCommentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrPostCommentNotFound
		}
		return err
	}
	if rc.UserID != userID {
		return UnauthorizedError
	}
	comment, err := s.getComment(ctx, rc.CommentID)
	if err != nil {
		return err
	}

	deleted, err := s.actionRepo.DeleteReComment(ctx, reCommentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPostCommentNotFound
	}
	s.updater.Apply(ctx,
		model.CounterDelta{Ref: model.NewCounterRef(model.PostComments, comment.PostID), Delta: -1},
		model.CounterDelta{Ref: model.NewCounterRef(model.CommentRecomments, comment.ID), Delta: -1},
	)
	return nil
}

func (s *postActionServiceImpl) GetReComments(ctx context.Context, commentID uint64, limit, offset int) ([]*dto.ReCommentDTO, error) {
	rcs, err := s.actionRepo.GetReCommentsByCommentID(ctx, commentID, limit, offset)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint64, len(rcs))
	for i, rc := range rcs {
		userIDs[i] = rc.UserID
	}
	profiles, err := lookupProfiles(ctx, s.profileRepo, userIDs)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ReCommentDTO, len(rcs))
	for i, rc := range rcs {
		res[i] = toReCommentDTO(rc, profiles[rc.UserID])
	}
	return res, nil
}

func (s *postActionServiceImpl) getPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postActionServiceImpl) getComment(ctx context.Context, commentID uint64) (*model.Comment, error) {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func toCommentDTO(c *model.Comment, author *model.Profile) *dto.CommentDTO {
	item := &dto.CommentDTO{}
	_ = copier.Copy(item, c)
	item.Nickname = author.Nickname
	item.AvatarURL = author.AvatarURL
	item.CreatedAt = c.CreatedAt.Format(time.DateTime)
	return item
}

func toReCommentDTO(rc *model.ReComment, author *model.Profile) *dto.ReCommentDTO {
	item := &dto.ReCommentDTO{}
	_ = copier.Copy(item, rc)
	item.Nickname = author.Nickname
	item.AvatarURL = author.AvatarURL
	item.CreatedAt = rc.CreatedAt.Format(time.DateTime)
	return item
}
