package job

import (
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/consts"
	"Glimmer/internal/repository"
	"Glimmer/internal/service"
	"Glimmer/internal/testutils"
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	mu         sync.Mutex
	errs       map[string]error
	reconciled []string
}

func (f *fakeLedger) Apply(context.Context, model.CounterRef, int64) (int64, error) {
	return 0, nil
}

func (f *fakeLedger) ApplyAll(context.Context, ...model.CounterDelta) error {
	return nil
}

func (f *fakeLedger) Reconcile(_ context.Context, ref model.CounterRef) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[ref.String()]; err != nil {
		return 0, err
	}
	f.reconciled = append(f.reconciled, ref.String())
	return 1, nil
}

func (f *fakeLedger) done() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := append([]string(nil), f.reconciled...)
	sort.Strings(res)
	return res
}

func TestCounterReconcileJob_DrainsDirtySet(t *testing.T) {
	mr := testutils.NewTestRedis(t)
	ledger := &fakeLedger{errs: map[string]error{
		"post:2:likes_count":    service.ErrLockUnavailable,
		"post:3:comments_count": service.ErrUnknownReference,
	}}
	_, err := mr.SAdd(consts.CounterDirtyKey,
		"post:1:likes_count", "post:2:likes_count", "post:3:comments_count", "garbage")
	require.NoError(t, err)

	n, err := NewCounterReconcileJob(ledger, 2).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"post:1:likes_count"}, ledger.done())

	// 只有锁不可用的放回脏集合
	members, err := mr.Members(consts.CounterDirtyKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"post:2:likes_count"}, members)
	assert.False(t, mr.Exists(consts.CounterDirtyProcessingKey))
}

func TestCounterReconcileJob_MergesLeftoverProcessing(t *testing.T) {
	mr := testutils.NewTestRedis(t)
	ledger := &fakeLedger{}
	_, err := mr.SAdd(consts.CounterDirtyProcessingKey, "story:9:views_count")
	require.NoError(t, err)
	_, err = mr.SAdd(consts.CounterDirtyKey, "comment:4:likes_count")
	require.NoError(t, err)

	n, err := NewCounterReconcileJob(ledger, 0).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"comment:4:likes_count", "story:9:views_count"}, ledger.done())
	assert.False(t, mr.Exists(consts.CounterDirtyKey))
}

func TestCounterReconcileJob_EmptyDirtySet(t *testing.T) {
	testutils.NewTestRedis(t)
	ledger := &fakeLedger{}

	n, err := NewCounterReconcileJob(ledger, 4).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, ledger.done())
}

func TestCounterReconcileJob_RepairsStoredCounter(t *testing.T) {
	db := testutils.NewTestDB(t)
	mr := testutils.NewTestRedis(t)
	ctx := context.Background()
	cfg := testutils.DefaultCounterConfig()

	p := &model.Post{UserID: 1, Content: "x", LikesCount: 5}
	require.NoError(t, db.Create(p).Error)
	require.NoError(t, db.Create(&model.Like{UserID: 2, PostID: p.ID}).Error)

	counterRepo := repository.NewCounterRepo(db)
	ledger := service.NewCounterLedger(cfg, counterRepo, service.NewRedisLocker(
		time.Duration(cfg.LockLease)*time.Millisecond, cfg.LockAttempts, time.Duration(cfg.LockRetryInterval)*time.Millisecond,
	), service.NewCounterCache(time.Minute))

	ref := model.NewCounterRef(model.PostLikes, p.ID)
	_, err := mr.SAdd(consts.CounterDirtyKey, ref.String())
	require.NoError(t, err)

	n, err := NewCounterReconcileJob(ledger, 1).RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	v, err := counterRepo.Get(ctx, ref)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestCounterReconcileJob_RedisErrorPropagates(t *testing.T) {
	mr := testutils.NewTestRedis(t)
	mr.Close()

	n, err := NewCounterReconcileJob(&fakeLedger{}, 1).RunOnce(context.Background())
	require.Error(t, err)
	assert.Zero(t, n)
}
