package service

import (
	"Glimmer/internal/model"
	"Glimmer/internal/testutils"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotator_PostsSingleQuery(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	ids := make([]uint64, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, e.post(t, 2, time.Time{}).ID)
	}
	liked := &model.Like{UserID: 1, PostID: ids[1]}
	require.NoError(t, e.actionRepo.CreateLike(ctx, liked))
	require.NoError(t, e.actionRepo.CreateLike(ctx, &model.Like{UserID: 3, PostID: ids[2]}))

	queries := testutils.CountQueries(t, e.db)
	facts, err := e.annotator.Annotate(ctx, 1, model.KindPost, ids)
	require.NoError(t, err)
	assert.EqualValues(t, 1, queries.Load())

	require.Len(t, facts, 5)
	require.NotNil(t, facts[ids[1]].LikeID)
	assert.Equal(t, liked.ID, *facts[ids[1]].LikeID)
	for _, id := range []uint64{ids[0], ids[2], ids[3], ids[4]} {
		assert.Nil(t, facts[id].LikeID, "post %d", id)
	}
}

func TestAnnotator_AnonymousViewerDefaultsWithoutQuery(t *testing.T) {
	e := newTestEnv(t)
	queries := testutils.CountQueries(t, e.db)

	facts, err := e.annotator.Annotate(context.Background(), 0, model.KindPost, []uint64{1, 2})
	require.NoError(t, err)
	assert.EqualValues(t, 0, queries.Load())
	assert.Equal(t, map[uint64]Facts{1: {}, 2: {}}, facts)

	facts, err = e.annotator.Annotate(context.Background(), 1, model.KindPost, nil)
	require.NoError(t, err)
	assert.Empty(t, facts)
	assert.EqualValues(t, 0, queries.Load())
}

func TestAnnotator_FollowsStoriesAndComments(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.follow(t, 1, 2)

	st := e.story(t, 2, e.clock.Now())
	unseen := e.story(t, 2, e.clock.Now())
	require.NoError(t, e.storyRepo.CreateStoryView(ctx, &model.StoryView{UserID: 1, StoryID: st.ID}))

	p := e.post(t, 2, time.Time{})
	c := e.comment(t, p.ID, 2)
	require.NoError(t, e.actionRepo.CreateCommentLike(ctx, &model.CommentLike{UserID: 1, CommentID: c.ID}))

	queries := testutils.CountQueries(t, e.db)

	profiles, err := e.annotator.Annotate(ctx, 1, model.KindProfile, []uint64{2, 3, 2})
	require.NoError(t, err)
	assert.NotNil(t, profiles[2].FollowID)
	assert.Nil(t, profiles[3].FollowID)

	stories, err := e.annotator.Annotate(ctx, 1, model.KindStory, []uint64{st.ID, unseen.ID})
	require.NoError(t, err)
	assert.True(t, stories[st.ID].Watched)
	assert.False(t, stories[unseen.ID].Watched)

	comments, err := e.annotator.Annotate(ctx, 1, model.KindComment, []uint64{c.ID})
	require.NoError(t, err)
	assert.NotNil(t, comments[c.ID].LikeID)

	assert.EqualValues(t, 3, queries.Load(), "one query per kind")
}
