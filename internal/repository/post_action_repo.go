package repository

import (
	"Glimmer/internal/model"
	"context"

	"gorm.io/gorm"
)

type PostActionRepo interface {
	CreateLike(ctx context.Context, like *model.Like) error
	DeleteLike(ctx context.Context, userID, postID uint64) (bool, error)
	FindLikes(ctx context.Context, userID uint64, postIDs []uint64) ([]*model.Like, error)

	CreateCommentLike(ctx context.Context, cl *model.CommentLike) error
	DeleteCommentLike(ctx context.Context, userID, commentID uint64) (bool, error)
	FindCommentLikes(ctx context.Context, userID uint64, commentIDs []uint64) ([]*model.CommentLike, error)

	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID uint64, limit, offset int) ([]*model.Comment, error)
	UpdateComment(ctx context.Context, commentID uint64, content string) error
	DeleteComment(ctx context.Context, commentID uint64) (int64, error)

	CreateReComment(ctx context.Context, rc *model.ReComment) error
	GetReCommentByID(ctx context.Context, id uint64) (*model.ReComment, error)
	GetReCommentsByCommentID(ctx context.Context, commentID uint64, limit, offset int) ([]*model.ReComment, error)
	UpdateReComment(ctx context.Context, id uint64, content string) error
	DeleteReComment(ctx context.Context, id uint64) (bool, error)
}

type PostActionRepoImpl struct {
	db *gorm.DB
}

func NewPostActionRepo(db *gorm.DB) PostActionRepo {
	return &PostActionRepoImpl{db}
}

func (s *PostActionRepoImpl) CreateLike(ctx context.Context, like *model.Like) error {
	return s.db.WithContext(ctx).Create(like).Error
}

// DeleteLike 返回是否真的删除了一行, 只有删除成功才允许扣减计数
func (s *PostActionRepoImpl) DeleteLike(ctx context.Context, userID, postID uint64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	return res.RowsAffected == 1, res.Error
}

// FindLikes 一次查询取回 userID 对一批帖子的点赞
func (s *PostActionRepoImpl) FindLikes(ctx context.Context, userID uint64, postIDs []uint64) ([]*model.Like, error) {
	var likes []*model.Like
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&likes).Error
	return likes, err
}

func (s *PostActionRepoImpl) CreateCommentLike(ctx context.Context, cl *model.CommentLike) error {
	return s.db.WithContext(ctx).Create(cl).Error
}

func (s *PostActionRepoImpl) DeleteCommentLike(ctx context.Context, userID, commentID uint64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&model.CommentLike{})
	return res.RowsAffected == 1, res.Error
}

func (s *PostActionRepoImpl) FindCommentLikes(ctx context.Context, userID uint64, commentIDs []uint64) ([]*model.CommentLike, error) {
	var likes []*model.CommentLike
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Find(&likes).Error
	return likes, err
}

func (s *PostActionRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *PostActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.WithContext(ctx).First(&comment, commentID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID 分页获取帖子的评论, 按时间正序
func (s *PostActionRepoImpl) GetCommentsByPostID(ctx context.Context, postID uint64, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

// DeleteComment 连同回复和评论点赞一并删除, 返回被删除的回复数, 评论不存在时返回 gorm.ErrRecordNotFound
func (s *PostActionRepoImpl) UpdateComment(ctx context.Context, commentID uint64, content string) error {
	res := s.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", commentID).Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *PostActionRepoImpl) DeleteComment(ctx context.Context, commentID uint64) (int64, error) {
	var replies int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ?", commentID).Delete(&model.ReComment{})
		if res.Error != nil {
			return res.Error
		}
		replies = res.RowsAffected
		if err := tx.Where("comment_id = ?", commentID).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		res = tx.Delete(&model.Comment{}, commentID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return replies, err
}

func (s *PostActionRepoImpl) CreateReComment(ctx context.Context, rc *model.ReComment) error {
	return s.db.WithContext(ctx).Create(rc).Error
}

func (s *PostActionRepoImpl) GetReCommentByID(ctx context.Context, id uint64) (*model.ReComment, error) {
	var rc model.ReComment
	err := s.db.WithContext(ctx).First(&rc, id).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (s *PostActionRepoImpl) GetReCommentsByCommentID(ctx context.Context, commentID uint64, limit, offset int) ([]*model.ReComment, error) {
	var rcs []*model.ReComment
	err := s.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&rcs).Error
	return rcs, err
}

func (s *PostActionRepoImpl) UpdateReComment(ctx context.Context, id uint64, content string) error {
	res := s.db.WithContext(ctx).Model(&model.ReComment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *PostActionRepoImpl) DeleteReComment(ctx context.Context, id uint64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&model.ReComment{}, id)
	return res.RowsAffected == 1, res.Error
}
