package service

import (
	"Glimmer/internal/api/dto"
	"Glimmer/internal/model"
	"Glimmer/internal/repository"
	"context"
)

type UserFollowService interface {
	Follow(ctx context.Context, followerID, followingID uint64) (*dto.FollowDTO, error)
	Unfollow(ctx context.Context, followerID, followingID uint64) error
	GetUserFollowers(ctx context.Context, viewer, userID uint64, limit, offset int) ([]*dto.FollowUserDTO, error)
	GetUserFollowing(ctx context.Context, viewer, userID uint64, limit, offset int) ([]*dto.FollowUserDTO, error)
}

type UserFollowServiceImpl struct {
	userFollowRepo repository.UserFollowRepo
	profileRepo    repository.ProfileRepo
	updater        *CounterUpdater
	annotator      Annotator
}

func NewUserFollowService(
	userFollowRepo repository.UserFollowRepo,
	profileRepo repository.ProfileRepo,
	updater *CounterUpdater,
	annotator Annotator,
) UserFollowService {
	return &UserFollowServiceImpl{
		userFollowRepo: userFollowRepo,
		profileRepo:    profileRepo,
		updater:        updater,
		annotator:      annotator,
	}
}

// followDeltas 一次关注影响两个互相独立的计数
func followDeltas(followerID, followingID uint64, delta int64) []model.CounterDelta {
	return []model.CounterDelta{
		{Ref: model.NewCounterRef(model.ProfileFollowers, followingID), Delta: delta},
		{Ref: model.NewCounterRef(model.ProfileFollowings, followerID), Delta: delta},
	}
}

func (s *UserFollowServiceImpl) Follow(ctx context.Context, followerID, followingID uint64) (*dto.FollowDTO, error) {
	if followerID == followingID {
		return nil, ErrUserFollowSelf
	}
	target, err := s.profileRepo.GetProfile(ctx, followingID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	follow := &model.Follow{FollowerID: followerID, FollowingID: followingID}
	if err = s.userFollowRepo.CreateUserFollow(ctx, follow); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrDuplicateEdge
		}
		return nil, err
	}

	s.updater.Apply(ctx, followDeltas(followerID, followingID, 1)...)
	return &dto.FollowDTO{FollowID: follow.ID}, nil
}

func (s *UserFollowServiceImpl) Unfollow(ctx context.Context, followerID, followingID uint64) error {
	deleted, err := s.userFollowRepo.DeleteUserFollow(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEdgeNotFound
	}
	s.updater.Apply(ctx, followDeltas(followerID, followingID, -1)...)
	return nil
}

// GetUserFollowers userID 的粉丝, 附带 viewer 对每个人的关注记录
func (s *UserFollowServiceImpl) GetUserFollowers(ctx context.Context, viewer, userID uint64, limit, offset int) ([]*dto.FollowUserDTO, error) {
	follows, err := s.userFollowRepo.GetUserFollowers(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowerID
	}
	return s.toFollowUsers(ctx, viewer, ids)
}

// GetUserFollowing userID 关注的人, 附带 viewer 对每个人的关注记录
func (s *UserFollowServiceImpl) GetUserFollowing(ctx context.Context, viewer, userID uint64, limit, offset int) ([]*dto.FollowUserDTO, error) {
	follows, err := s.userFollowRepo.GetUserFollowing(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowingID
	}
	return s.toFollowUsers(ctx, viewer, ids)
}

func (s *UserFollowServiceImpl) toFollowUsers(ctx context.Context, viewer uint64, userIDs []uint64) ([]*dto.FollowUserDTO, error) {
	res := make([]*dto.FollowUserDTO, 0, len(userIDs))
	if len(userIDs) == 0 {
		return res, nil
	}

	facts, err := s.annotator.Annotate(ctx, viewer, model.KindProfile, userIDs)
	if err != nil {
		return nil, err
	}
	profiles, err := lookupProfiles(ctx, s.profileRepo, userIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range userIDs {
		p := profiles[id]
		res = append(res, &dto.FollowUserDTO{
			UserID:    id,
			Nickname:  p.Nickname,
			AvatarURL: p.AvatarURL,
			FollowID:  facts[id].FollowID,
		})
	}
	return res, nil
}
