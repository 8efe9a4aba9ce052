package repository

import (
	"Glimmer/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// CounterRepo 计数字段的读写, 只由计数器账本调用
type CounterRepo interface {
	Get(ctx context.Context, ref model.CounterRef) (int64, error)
	Set(ctx context.Context, ref model.CounterRef, value int64) error
	Add(ctx context.Context, ref model.CounterRef, delta int64) (int64, error)
	GetMany(ctx context.Context, field model.CounterField, ids []uint64) (map[uint64]int64, error)
	CountEdges(ctx context.Context, ref model.CounterRef) (int64, error)
}

type CounterRepoImpl struct {
	db *gorm.DB
}

func NewCounterRepo(db *gorm.DB) CounterRepo {
	return &CounterRepoImpl{db: db}
}

func column(field model.CounterField) (model.CounterColumn, error) {
	c, ok := field.Column()
	if !ok {
		return model.CounterColumn{}, fmt.Errorf("unknown counter field %q", field)
	}
	return c, nil
}

// Get 实体不存在时返回 gorm.ErrRecordNotFound
func (s *CounterRepoImpl) Get(ctx context.Context, ref model.CounterRef) (int64, error) {
	return get(s.db.WithContext(ctx), ref)
}

func get(db *gorm.DB, ref model.CounterRef) (int64, error) {
	c, err := column(ref.Field)
	if err != nil {
		return 0, err
	}
	var values []int64
	err = db.Table(c.Table).
		Where(c.PK+" = ?", ref.ID).
		Limit(1).
		Pluck(c.Column, &values).Error
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return values[0], nil
}

// Set 覆盖写入, 调用方需持有该计数的锁
func (s *CounterRepoImpl) Set(ctx context.Context, ref model.CounterRef, value int64) error {
	c, err := column(ref.Field)
	if err != nil {
		return err
	}
	if value < 0 {
		value = 0
	}
	return s.db.WithContext(ctx).Table(c.Table).
		Where(c.PK+" = ?", ref.ID).
		UpdateColumn(c.Column, value).Error
}

// Add 单条 UPDATE 完成增减并在 0 处截断, 在同一事务内读回新值
func (s *CounterRepoImpl) Add(ctx context.Context, ref model.CounterRef, delta int64) (int64, error) {
	c, err := column(ref.Field)
	if err != nil {
		return 0, err
	}

	var value int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expr := gorm.Expr(
			fmt.Sprintf("CASE WHEN %[1]s + ? < 0 THEN 0 ELSE %[1]s + ? END", c.Column),
			delta, delta,
		)
		if err := tx.Table(c.Table).Where(c.PK+" = ?", ref.ID).UpdateColumn(c.Column, expr).Error; err != nil {
			return err
		}
		// MySQL 对值未变化的行返回 0 影响行数, 以读回结果判断实体是否存在
		v, err := get(tx, ref)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}

type counterRow struct {
	ID    uint64
	Value int64
}

// GetMany 批量读取同一字段, 不存在的 id 不出现在结果中
func (s *CounterRepoImpl) GetMany(ctx context.Context, field model.CounterField, ids []uint64) (map[uint64]int64, error) {
	res := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	c, err := column(field)
	if err != nil {
		return nil, err
	}

	var rows []counterRow
	err = s.db.WithContext(ctx).Table(c.Table).
		Select(fmt.Sprintf("%s AS id, %s AS value", c.PK, c.Column)).
		Where(c.PK+" IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		res[r.ID] = r.Value
	}
	return res, nil
}

// CountEdges 计算计数字段对应关系集合的真实基数
func (s *CounterRepoImpl) CountEdges(ctx context.Context, ref model.CounterRef) (int64, error) {
	db := s.db.WithContext(ctx)
	var count int64

	switch ref.Field {
	case model.PostLikes:
		err := db.Model(&model.Like{}).Where("post_id = ?", ref.ID).Count(&count).Error
		return count, err
	case model.PostComments:
		if err := db.Model(&model.Comment{}).Where("post_id = ?", ref.ID).Count(&count).Error; err != nil {
			return 0, err
		}
		var replies int64
		err := db.Model(&model.ReComment{}).
			Joins("JOIN comments ON comments.id = recomments.comment_id").
			Where("comments.post_id = ?", ref.ID).
			Count(&replies).Error
		return count + replies, err
	case model.CommentLikes:
		err := db.Model(&model.CommentLike{}).Where("comment_id = ?", ref.ID).Count(&count).Error
		return count, err
	case model.CommentRecomments:
		err := db.Model(&model.ReComment{}).Where("comment_id = ?", ref.ID).Count(&count).Error
		return count, err
	case model.ProfileFollowers:
		err := db.Model(&model.Follow{}).Where("following_id = ?", ref.ID).Count(&count).Error
		return count, err
	case model.ProfileFollowings:
		err := db.Model(&model.Follow{}).Where("follower_id = ?", ref.ID).Count(&count).Error
		return count, err
	case model.StoryViews:
		err := db.Model(&model.StoryView{}).Where("story_id = ?", ref.ID).Count(&count).Error
		return count, err
	}
	return 0, fmt.Errorf("unknown counter field %q", ref.Field)
}
