package repository

import (
	"Glimmer/internal/model"
	"Glimmer/internal/testutils"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedRepo_PostIDsOrderAndScope(t *testing.T) {
	db := testutils.NewTestDB(t)
	repo := NewFeedRepo(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&model.Follow{FollowerID: 1, FollowingID: 2}).Error)
	mk := func(uid uint64, at time.Time) uint64 {
		p := &model.Post{UserID: uid, Content: "x", CreatedAt: at}
		require.NoError(t, db.Create(p).Error)
		return p.ID
	}
	own := mk(1, base)
	tieA := mk(2, base.Add(time.Minute))
	tieB := mk(2, base.Add(time.Minute))
	mk(3, base.Add(time.Hour)) // 未关注

	ids, err := repo.PostIDs(ctx, FeedQuery{Viewer: 1, Limit: -1})
	require.NoError(t, err)
	assert.Equal(t, []uint64{tieB, tieA, own}, ids)

	ids, err = repo.PostIDs(ctx, FeedQuery{Viewer: 1, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint64{tieA}, ids)
}

func TestFeedRepo_StoryIDsWindow(t *testing.T) {
	db := testutils.NewTestDB(t)
	repo := NewFeedRepo(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mk := func(at time.Time) uint64 {
		s := &model.Story{UserID: 1, ImagePath: "s.png", CreatedAt: at}
		require.NoError(t, db.Create(s).Error)
		return s.ID
	}
	edge := mk(now.Add(-24 * time.Hour))
	mk(now.Add(-24*time.Hour - time.Second))
	fresh := mk(now.Add(-time.Minute))
	mk(now.Add(time.Minute))

	from := now.Add(-24 * time.Hour)
	ids, err := repo.StoryIDs(ctx, FeedQuery{Viewer: 1, From: &from, To: &now, Limit: -1})
	require.NoError(t, err)
	assert.Equal(t, []uint64{fresh, edge}, ids)
}
