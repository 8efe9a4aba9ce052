package service

import (
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/util"
	"Glimmer/internal/repository"
	"context"
)

// Facts 观看者对某条内容的个人状态, 缺省为空
type Facts struct {
	LikeID   *uint64 `json:"like_id"`
	FollowID *uint64 `json:"follow_id"`
	Watched  bool    `json:"watched"`
}

// Annotator 每种内容只发起一次批量查询, 与分页大小无关
type Annotator interface {
	Annotate(ctx context.Context, viewer uint64, kind model.ContentKind, ids []uint64) (map[uint64]Facts, error)
}

type AnnotatorImpl struct {
	actionRepo repository.PostActionRepo
	followRepo repository.UserFollowRepo
	storyRepo  repository.StoryRepo
}

func NewAnnotator(
	actionRepo repository.PostActionRepo,
	followRepo repository.UserFollowRepo,
	storyRepo repository.StoryRepo,
) Annotator {
	return &AnnotatorImpl{
		actionRepo: actionRepo,
		followRepo: followRepo,
		storyRepo:  storyRepo,
	}
}

func (s *AnnotatorImpl) Annotate(ctx context.Context, viewer uint64, kind model.ContentKind, ids []uint64) (map[uint64]Facts, error) {
	res := make(map[uint64]Facts, len(ids))
	for _, id := range ids {
		res[id] = Facts{}
	}
	if viewer == 0 || len(ids) == 0 {
		return res, nil
	}

	objects := uniqueIDs(ids)
	switch kind {
	case model.KindPost:
		likes, err := s.actionRepo.FindLikes(ctx, viewer, objects)
		if err != nil {
			return nil, err
		}
		for _, l := range likes {
			f := res[l.PostID]
			f.LikeID = util.PtrUint64(l.ID)
			res[l.PostID] = f
		}
	case model.KindComment:
		likes, err := s.actionRepo.FindCommentLikes(ctx, viewer, objects)
		if err != nil {
			return nil, err
		}
		for _, l := range likes {
			f := res[l.CommentID]
			f.LikeID = util.PtrUint64(l.ID)
			res[l.CommentID] = f
		}
	case model.KindStory:
		views, err := s.storyRepo.FindStoryViews(ctx, viewer, objects)
		if err != nil {
			return nil, err
		}
		for _, v := range views {
			f := res[v.StoryID]
			f.Watched = true
			res[v.StoryID] = f
		}
	case model.KindProfile:
		follows, err := s.followRepo.FindFollows(ctx, viewer, objects)
		if err != nil {
			return nil, err
		}
		for _, fl := range follows {
			f := res[fl.FollowingID]
			f.FollowID = util.PtrUint64(fl.ID)
			res[fl.FollowingID] = f
		}
	default:
		return nil, ErrParamInvalid
	}
	return res, nil
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
