package repository

import (
	"Glimmer/internal/model"
	"context"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	UpdatePost(ctx context.Context, id uint64, content string) error
	DeletePost(ctx context.Context, id uint64) error
	GetLikedPostIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostByIds 结果顺序不保证, 由调用方按 id 重排
func (s PostRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, len(ids))
	if len(ids) == 0 {
		return posts, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s PostRepoImpl) UpdatePost(ctx context.Context, id uint64, content string) error {
	res := s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetLikedPostIDs 用户点赞过的帖子, 最近点赞的在前
func (s PostRepoImpl) GetLikedPostIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	ids := make([]uint64, 0, limit)
	err := s.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// DeletePost 在一个事务里删除帖子及其点赞, 评论, 回复和评论点赞, 计数随行一起消失
func (s PostRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := tx.Model(&model.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("comment_id IN (?)", comments).Delete(&model.ReComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id IN (?)", comments).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
