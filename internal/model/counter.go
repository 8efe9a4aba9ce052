package model

import (
	"Glimmer/internal/pkg/consts"
	"fmt"
	"strconv"
	"strings"
)

// CounterField 实体上的一个聚合计数字段
type CounterField string

const (
	PostLikes         CounterField = "post:likes_count"
	PostComments      CounterField = "post:comments_count"
	CommentLikes      CounterField = "comment:likes_count"
	CommentRecomments CounterField = "comment:recomments_count"
	ProfileFollowers  CounterField = "profile:followers_count"
	ProfileFollowings CounterField = "profile:followings_count"
	StoryViews        CounterField = "story:views_count"
)

// CounterColumn 计数字段在存储中的位置
type CounterColumn struct {
	Table  string
	PK     string
	Column string
}

var counterColumns = map[CounterField]CounterColumn{
	PostLikes:         {Table: "posts", PK: "id", Column: "likes_count"},
	PostComments:      {Table: "posts", PK: "id", Column: "comments_count"},
	CommentLikes:      {Table: "comments", PK: "id", Column: "likes_count"},
	CommentRecomments: {Table: "comments", PK: "id", Column: "recomments_count"},
	ProfileFollowers:  {Table: "profiles", PK: "user_id", Column: "followers_count"},
	ProfileFollowings: {Table: "profiles", PK: "user_id", Column: "followings_count"},
	StoryViews:        {Table: "stories", PK: "id", Column: "views_count"},
}

// Column 返回字段对应的表与列, 未登记的字段返回 false
func (f CounterField) Column() (CounterColumn, bool) {
	c, ok := counterColumns[f]
	return c, ok
}

// CounterRef 指向某个实体上的某个计数字段
type CounterRef struct {
	Field CounterField
	ID    uint64
}

func NewCounterRef(field CounterField, id uint64) CounterRef {
	return CounterRef{Field: field, ID: id}
}

// String 形如 post:12:likes_count, 用作缓存键、脏集合成员和消息键
func (r CounterRef) String() string {
	entity, column, _ := strings.Cut(string(r.Field), ":")
	return entity + ":" + strconv.FormatUint(r.ID, 10) + ":" + column
}

// LockKey 每个计数字段独立加锁
func (r CounterRef) LockKey() string {
	return consts.CounterLockPrefix + r.String()
}

// ParseCounterRef 解析 String 的输出
func ParseCounterRef(s string) (CounterRef, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return CounterRef{}, fmt.Errorf("invalid counter ref %q", s)
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return CounterRef{}, fmt.Errorf("invalid counter ref %q: %w", s, err)
	}
	field := CounterField(parts[0] + ":" + parts[2])
	if _, ok := field.Column(); !ok {
		return CounterRef{}, fmt.Errorf("unknown counter field %q", field)
	}
	return CounterRef{Field: field, ID: id}, nil
}

// CounterDelta 一次计数变更
type CounterDelta struct {
	Ref   CounterRef
	Delta int64
}
