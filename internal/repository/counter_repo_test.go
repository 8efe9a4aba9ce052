package repository

import (
	"Glimmer/internal/model"
	"Glimmer/internal/testutils"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCounterFixture(t *testing.T) (*gorm.DB, CounterRepo, *model.Post) {
	t.Helper()
	db := testutils.NewTestDB(t)
	p := &model.Post{UserID: 1, Content: "hello"}
	require.NoError(t, db.Create(p).Error)
	return db, NewCounterRepo(db), p
}

func TestCounterRepo_AddClampsAtZero(t *testing.T) {
	_, repo, p := newCounterFixture(t)
	ctx := context.Background()
	ref := model.NewCounterRef(model.PostLikes, p.ID)

	v, err := repo.Add(ctx, ref, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, v)

	v, err = repo.Add(ctx, ref, -5)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)

	// 值未变化时同样能读回
	v, err = repo.Add(ctx, ref, -1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)
}

func TestCounterRepo_MissingEntity(t *testing.T) {
	_, repo, _ := newCounterFixture(t)
	ctx := context.Background()
	ref := model.NewCounterRef(model.PostLikes, 404)

	_, err := repo.Get(ctx, ref)
	assert.True(t, IsNotFound(err))

	_, err = repo.Add(ctx, ref, 1)
	assert.True(t, IsNotFound(err))

	_, err = repo.Get(ctx, model.CounterRef{Field: "post:views", ID: 1})
	assert.Error(t, err)
}

func TestCounterRepo_SetAndGetMany(t *testing.T) {
	db, repo, p := newCounterFixture(t)
	ctx := context.Background()
	other := &model.Post{UserID: 2, Content: "world"}
	require.NoError(t, db.Create(other).Error)

	require.NoError(t, repo.Set(ctx, model.NewCounterRef(model.PostComments, p.ID), 7))
	require.NoError(t, repo.Set(ctx, model.NewCounterRef(model.PostComments, other.ID), -2))

	got, err := repo.GetMany(ctx, model.PostComments, []uint64{p.ID, other.ID, 404})
	require.NoError(t, err)
	assert.Equal(t, map[uint64]int64{p.ID: 7, other.ID: 0}, got)

	empty, err := repo.GetMany(ctx, model.PostComments, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCounterRepo_ProfileKeyedByUserID(t *testing.T) {
	db := testutils.NewTestDB(t)
	repo := NewCounterRepo(db)
	ctx := context.Background()
	require.NoError(t, db.Create(&model.Profile{UserID: 42, Nickname: "alice"}).Error)

	v, err := repo.Add(ctx, model.NewCounterRef(model.ProfileFollowers, 42), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestCounterRepo_CountEdges(t *testing.T) {
	db, repo, p := newCounterFixture(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Like{UserID: 2, PostID: p.ID}).Error)
	require.NoError(t, db.Create(&model.Like{UserID: 3, PostID: p.ID}).Error)
	c := &model.Comment{PostID: p.ID, UserID: 2, Content: "c"}
	require.NoError(t, db.Create(c).Error)
	require.NoError(t, db.Create(&model.ReComment{CommentID: c.ID, UserID: 3, Content: "r"}).Error)
	require.NoError(t, db.Create(&model.Follow{FollowerID: 2, FollowingID: 1}).Error)

	cases := []struct {
		ref  model.CounterRef
		want int64
	}{
		{model.NewCounterRef(model.PostLikes, p.ID), 2},
		{model.NewCounterRef(model.PostComments, p.ID), 2},
		{model.NewCounterRef(model.CommentRecomments, c.ID), 1},
		{model.NewCounterRef(model.CommentLikes, c.ID), 0},
		{model.NewCounterRef(model.ProfileFollowers, 1), 1},
		{model.NewCounterRef(model.ProfileFollowings, 2), 1},
		{model.NewCounterRef(model.StoryViews, 9), 0},
	}
	for _, tc := range cases {
		t.Run(tc.ref.String(), func(t *testing.T) {
			got, err := repo.CountEdges(ctx, tc.ref)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
