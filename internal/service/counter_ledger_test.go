package service

import (
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/consts"
	"Glimmer/internal/testutils"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterLedger_ConcurrentIncrementsConverge(t *testing.T) {
	e := newTestEnv(t)
	p := e.post(t, 1, time.Time{})
	ref := model.NewCounterRef(model.PostLikes, p.ID)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.ledger.Apply(context.Background(), ref, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.EqualValues(t, n, e.stored(t, model.PostLikes, p.ID))
	assert.False(t, e.mr.Exists(ref.LockKey()), "lock must be released")
}

func TestCounterLedger_MixedDeltasConverge(t *testing.T) {
	e := newTestEnv(t)
	p := e.post(t, 1, time.Time{})
	ref := model.NewCounterRef(model.PostComments, p.ID)
	require.NoError(t, e.counterRepo.Set(context.Background(), ref, 10))

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		delta := int64(1)
		if i%3 == 0 {
			delta = -1
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ledger.Apply(context.Background(), ref, delta)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 10 + 20 - 10
	assert.EqualValues(t, 20, e.stored(t, model.PostComments, p.ID))
}

func TestCounterLedger_ClampsAtZero(t *testing.T) {
	e := newTestEnv(t)
	p := e.post(t, 1, time.Time{})
	ref := model.NewCounterRef(model.PostLikes, p.ID)
	ctx := context.Background()

	v, err := e.ledger.Apply(ctx, ref, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)

	v, err = e.ledger.Apply(ctx, ref, -3)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)
	assert.EqualValues(t, 0, e.stored(t, model.PostLikes, p.ID))
}

func TestCounterLedger_LockUnavailable(t *testing.T) {
	cfg := testutils.DefaultCounterConfig()
	cfg.LockAttempts = 3
	cfg.LockRetryInterval = 1
	e := newTestEnvWith(t, cfg)
	p := e.post(t, 1, time.Time{})
	ref := model.NewCounterRef(model.PostLikes, p.ID)

	require.NoError(t, e.mr.Set(ref.LockKey(), "someone-else"))

	_, err := e.ledger.Apply(context.Background(), ref, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLockUnavailable))
	assert.EqualValues(t, 0, e.stored(t, model.PostLikes, p.ID))

	got, err := e.mr.Get(ref.LockKey())
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got, "foreign lock must be left alone")
}

func TestCounterLedger_UnknownReference(t *testing.T) {
	e := newTestEnv(t)
	ref := model.NewCounterRef(model.PostLikes, 999)
	ctx := context.Background()

	_, err := e.ledger.Apply(ctx, ref, 1)
	assert.ErrorIs(t, err, ErrUnknownReference)

	// 实体已删除时的扣减直接忽略
	v, err := e.ledger.Apply(ctx, ref, -1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)
}

func TestCounterLedger_UnknownCounterField(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.ledger.Apply(context.Background(), model.CounterRef{Field: "post:shares_count", ID: 1}, 1)
	assert.ErrorIs(t, err, ErrUnknownCounter)
}

func TestCounterLedger_AtomicMode(t *testing.T) {
	cfg := testutils.DefaultCounterConfig()
	cfg.Mode = consts.CounterModeAtomic
	e := newTestEnvWith(t, cfg)
	p := e.post(t, 1, time.Time{})
	ref := model.NewCounterRef(model.PostLikes, p.ID)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ledger.Apply(context.Background(), ref, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 20, e.stored(t, model.PostLikes, p.ID))

	v, err := e.ledger.Apply(context.Background(), ref, -100)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)
	assert.False(t, e.mr.Exists(ref.LockKey()))

	_, err = e.ledger.Apply(context.Background(), model.NewCounterRef(model.PostLikes, 999), 1)
	assert.ErrorIs(t, err, ErrUnknownReference)
}

func TestCounterLedger_InvalidatesCache(t *testing.T) {
	e := newTestEnv(t)
	p := e.post(t, 1, time.Time{})
	ref := model.NewCounterRef(model.PostLikes, p.ID)
	ctx := context.Background()

	v, err := e.cache.GetOrCompute(ctx, ref, func(context.Context) (int64, error) { return 0, nil }, time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 0, v)
	require.True(t, e.mr.Exists(cacheKey(ref)))

	_, err = e.ledger.Apply(ctx, ref, 1)
	require.NoError(t, err)
	assert.False(t, e.mr.Exists(cacheKey(ref)))
}

func TestCounterLedger_ApplyAllReportsEachFailure(t *testing.T) {
	e := newTestEnv(t)
	p := e.post(t, 1, time.Time{})

	err := e.ledger.ApplyAll(context.Background(),
		model.CounterDelta{Ref: model.NewCounterRef(model.PostLikes, p.ID), Delta: 1},
		model.CounterDelta{Ref: model.NewCounterRef(model.PostLikes, 404), Delta: 1},
	)
	require.Error(t, err)

	var applyErr *CounterApplyError
	require.True(t, errors.As(err, &applyErr))
	assert.EqualValues(t, 404, applyErr.Delta.Ref.ID)
	assert.ErrorIs(t, err, ErrUnknownReference)
	assert.EqualValues(t, 1, e.stored(t, model.PostLikes, p.ID))
}

func TestCounterLedger_Reconcile(t *testing.T) {
	e := newTestEnv(t)
	p := e.post(t, 1, time.Time{})
	ctx := context.Background()
	for _, uid := range []uint64{2, 3} {
		require.NoError(t, e.actionRepo.CreateLike(ctx, &model.Like{UserID: uid, PostID: p.ID}))
	}
	ref := model.NewCounterRef(model.PostLikes, p.ID)
	require.NoError(t, e.counterRepo.Set(ctx, ref, 42))

	v, err := e.ledger.Reconcile(ctx, ref)
	require.NoError(t, err)
	assert.EqualValues(t, 2, v)
	assert.EqualValues(t, 2, e.stored(t, model.PostLikes, p.ID))

	_, err = e.ledger.Reconcile(ctx, model.NewCounterRef(model.PostLikes, 999))
	assert.ErrorIs(t, err, ErrUnknownReference)
}

func TestCounterLedger_ReconcileCountsReplies(t *testing.T) {
	e := newTestEnv(t)
	p := e.post(t, 1, time.Time{})
	c := e.comment(t, p.ID, 2)
	ctx := context.Background()
	require.NoError(t, e.actionRepo.CreateReComment(ctx, &model.ReComment{CommentID: c.ID, UserID: 3, Content: "re"}))

	v, err := e.ledger.Reconcile(ctx, model.NewCounterRef(model.PostComments, p.ID))
	require.NoError(t, err)
	assert.EqualValues(t, 2, v)

	v, err = e.ledger.Reconcile(ctx, model.NewCounterRef(model.CommentRecomments, c.ID))
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestCounterUpdater_MarksDirtyAndPublishesOnLockUnavailable(t *testing.T) {
	cfg := testutils.DefaultCounterConfig()
	cfg.LockAttempts = 2
	cfg.LockRetryInterval = 1
	e := newTestEnvWith(t, cfg)
	p := e.post(t, 1, time.Time{})
	busy := model.NewCounterRef(model.PostLikes, p.ID)
	missing := model.NewCounterRef(model.PostComments, 404)
	require.NoError(t, e.mr.Set(busy.LockKey(), "held"))

	e.updater.Apply(context.Background(),
		model.CounterDelta{Ref: busy, Delta: 1},
		model.CounterDelta{Ref: missing, Delta: 1},
	)

	members, err := e.mr.Members(consts.CounterDirtyKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{busy.String(), missing.String()}, members)
	assert.Equal(t, []model.CounterDelta{{Ref: busy, Delta: 1}}, e.publisher.published())
}

func TestCounterUpdater_SuccessLeavesNoTrace(t *testing.T) {
	e := newTestEnv(t)
	p := e.post(t, 1, time.Time{})

	e.updater.Apply(context.Background(), model.CounterDelta{Ref: model.NewCounterRef(model.PostLikes, p.ID), Delta: 1})

	assert.False(t, e.mr.Exists(consts.CounterDirtyKey))
	assert.Empty(t, e.publisher.published())
	assert.EqualValues(t, 1, e.stored(t, model.PostLikes, p.ID))
}
