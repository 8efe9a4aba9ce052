package service

import (
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/consts"
	"Glimmer/internal/repository"
	"context"
)

// lookupProfiles 按 user_id 批量取作者资料, 缺失的用户使用默认资料
func lookupProfiles(ctx context.Context, repo repository.ProfileRepo, userIDs []uint64) (map[uint64]*model.Profile, error) {
	profiles, err := repo.GetProfiles(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, err
	}
	res := make(map[uint64]*model.Profile, len(userIDs))
	for _, p := range profiles {
		res[p.UserID] = p
	}
	for _, id := range userIDs {
		if _, ok := res[id]; !ok {
			res[id] = &model.Profile{UserID: id, AvatarURL: consts.DefaultAvatarURL}
		}
	}
	return res, nil
}
