package repository

import (
	"Glimmer/internal/model"
	"context"

	"gorm.io/gorm"
)

type UserFollowRepo interface {
	GetUserFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.Follow, error)
	GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.Follow, error)
	GetUserFollow(ctx context.Context, followerID, followingID uint64) (*model.Follow, error)
	FindFollows(ctx context.Context, followerID uint64, followingIDs []uint64) ([]*model.Follow, error)
	CreateUserFollow(ctx context.Context, follow *model.Follow) error
	DeleteUserFollow(ctx context.Context, followerID, followingID uint64) (bool, error)
}

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

// GetUserFollowers 获取用户的粉丝列表
func (s *UserFollowRepoImpl) GetUserFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.Follow, error) {
	var follows []*model.Follow
	result := s.db.WithContext(ctx).
		Where("following_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&follows)

	if result.Error != nil {
		return nil, result.Error
	}
	return follows, nil
}

// GetUserFollowing 获取用户的关注列表
func (s *UserFollowRepoImpl) GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.Follow, error) {
	var follows []*model.Follow
	result := s.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&follows)

	if result.Error != nil {
		return nil, result.Error
	}
	return follows, nil
}

// GetUserFollow 获取关注关系, 不存在时返回 nil, nil
func (s *UserFollowRepoImpl) GetUserFollow(ctx context.Context, followerID, followingID uint64) (*model.Follow, error) {
	var follow model.Follow
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Take(&follow)
	if result.Error != nil {
		if IsNotFound(result.Error) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &follow, nil
}

// FindFollows 一次查询取回 followerID 对一批用户的关注关系
func (s *UserFollowRepoImpl) FindFollows(ctx context.Context, followerID uint64, followingIDs []uint64) ([]*model.Follow, error) {
	var follows []*model.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id IN ?", followerID, followingIDs).
		Find(&follows).Error
	return follows, err
}

// CreateUserFollow 创建关注关系, 重复关注由唯一索引拒绝
func (s *UserFollowRepoImpl) CreateUserFollow(ctx context.Context, follow *model.Follow) error {
	return s.db.WithContext(ctx).Create(follow).Error
}

// DeleteUserFollow 删除关注关系, 返回是否真的删除了一行
func (s *UserFollowRepoImpl) DeleteUserFollow(ctx context.Context, followerID, followingID uint64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	return res.RowsAffected == 1, res.Error
}
