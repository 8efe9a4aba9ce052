package service

import (
	"Glimmer/internal/api/dto"
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/util"
	"Glimmer/internal/repository"
	"context"
	"fmt"
	"time"
)

type ProfileService interface {
	GetProfile(ctx context.Context, viewer, userID uint64) (*dto.ProfileDTO, error)
	SyncProfile(ctx context.Context, req *dto.ProfileSyncDTO) error
}

type profileServiceImpl struct {
	profileRepo repository.ProfileRepo
	annotator   Annotator
	updater     *CounterUpdater
	counters    counterReader
}

func NewProfileService(
	profileRepo repository.ProfileRepo,
	counterRepo repository.CounterRepo,
	annotator Annotator,
	updater *CounterUpdater,
	cache CounterCache,
	cacheTTL time.Duration,
) ProfileService {
	return &profileServiceImpl{
		profileRepo: profileRepo,
		annotator:   annotator,
		updater:     updater,
		counters:    newCounterReader(counterRepo, cache, cacheTTL),
	}
}

func (s *profileServiceImpl) GetProfile(ctx context.Context, viewer, userID uint64) (*dto.ProfileDTO, error) {
	profile, err := s.profileRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}

	counts, err := s.counters.many(ctx, []uint64{userID}, model.ProfileFollowers, model.ProfileFollowings)
	if err != nil {
		return nil, err
	}
	facts, err := s.annotator.Annotate(ctx, viewer, model.KindProfile, []uint64{userID})
	if err != nil {
		return nil, err
	}

	return &dto.ProfileDTO{
		UserID:          profile.UserID,
		Nickname:        profile.Nickname,
		AvatarURL:       profile.AvatarURL,
		FollowersCount:  counts[model.NewCounterRef(model.ProfileFollowers, userID)],
		FollowingsCount: counts[model.NewCounterRef(model.ProfileFollowings, userID)],
		FollowID:        facts[userID].FollowID,
	}, nil
}

// SyncProfile 由身份服务推送, 不会覆盖计数
// 资料首次落库时关注关系可能已经存在, 两个计数按边表重算
func (s *profileServiceImpl) SyncProfile(ctx context.Context, req *dto.ProfileSyncDTO) error {
	if err := util.ValidateDTO(req); err != nil {
		return fmt.Errorf("%w: %v", ErrParamInvalid, err)
	}
	existing, err := s.profileRepo.GetProfile(ctx, req.UserID)
	if err != nil {
		return err
	}
	err = s.profileRepo.UpsertProfile(ctx, &model.Profile{
		UserID:    req.UserID,
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return err
	}
	if existing == nil {
		s.updater.Reconcile(ctx,
			model.NewCounterRef(model.ProfileFollowers, req.UserID),
			model.NewCounterRef(model.ProfileFollowings, req.UserID),
		)
	}
	return nil
}
