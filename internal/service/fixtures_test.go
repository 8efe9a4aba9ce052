package service

import (
	"Glimmer/internal/api/config"
	"Glimmer/internal/model"
	"Glimmer/internal/repository"
	"Glimmer/internal/testutils"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv 真实仓储 + SQLite + miniredis 组装出的完整服务
type testEnv struct {
	db    *gorm.DB
	mr    *miniredis.Miniredis
	clock *testutils.Clock

	counterRepo repository.CounterRepo
	actionRepo  repository.PostActionRepo
	followRepo  repository.UserFollowRepo
	profileRepo repository.ProfileRepo
	postRepo    repository.PostRepo
	storyRepo   repository.StoryRepo

	cache     CounterCache
	ledger    CounterLedger
	publisher *recordingPublisher
	updater   *CounterUpdater
	planner   FeedPlanner
	annotator Annotator
	receipts  ReadReceiptService

	posts    PostService
	actions  PostActionService
	follows  UserFollowService
	profiles ProfileService
	stories  StoryService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, testutils.DefaultCounterConfig())
}

func newTestEnvWith(t *testing.T, cfg config.CounterConfig) *testEnv {
	t.Helper()

	e := &testEnv{
		db:    testutils.NewTestDB(t),
		mr:    testutils.NewTestRedis(t),
		clock: testutils.NewClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	e.counterRepo = repository.NewCounterRepo(e.db)
	e.actionRepo = repository.NewPostActionRepo(e.db)
	e.followRepo = repository.NewUserFollowRepo(e.db)
	e.profileRepo = repository.NewProfileRepo(e.db)
	e.postRepo = repository.NewPostRepository(e.db)
	e.storyRepo = repository.NewStoryRepo(e.db)

	ttl := time.Duration(cfg.CacheTTL) * time.Millisecond
	e.cache = NewCounterCache(ttl)
	locker := NewRedisLocker(
		time.Duration(cfg.LockLease)*time.Millisecond,
		cfg.LockAttempts,
		time.Duration(cfg.LockRetryInterval)*time.Millisecond,
	)
	e.ledger = NewCounterLedger(cfg, e.counterRepo, locker, e.cache)
	e.publisher = &recordingPublisher{}
	e.updater = NewCounterUpdater(e.ledger, e.publisher)

	e.planner = NewFeedPlanner(config.FeedConfig{StoryWindowHours: 24, MaxPageSize: 50}, repository.NewFeedRepo(e.db), e.clock.Now)
	e.annotator = NewAnnotator(e.actionRepo, e.followRepo, e.storyRepo)
	e.receipts = NewReadReceiptService(e.storyRepo, e.counterRepo, e.updater, e.cache)

	e.posts = NewPostService(e.postRepo, e.profileRepo, e.counterRepo, e.planner, e.annotator, e.cache, ttl)
	e.actions = NewPostActionService(e.actionRepo, e.postRepo, e.profileRepo, e.counterRepo, e.updater, e.annotator, e.cache, ttl)
	e.follows = NewUserFollowService(e.followRepo, e.profileRepo, e.updater, e.annotator)
	e.profiles = NewProfileService(e.profileRepo, e.counterRepo, e.annotator, e.updater, e.cache, ttl)
	e.stories = NewStoryService(e.storyRepo, e.profileRepo, e.counterRepo, e.planner, e.annotator, e.receipts, e.cache, ttl, e.clock.Now)
	return e
}

func (e *testEnv) profile(t *testing.T, userID uint64, nickname string) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.Profile{UserID: userID, Nickname: nickname}).Error)
}

func (e *testEnv) post(t *testing.T, userID uint64, at time.Time) *model.Post {
	t.Helper()
	p := &model.Post{UserID: userID, Content: "hello", CreatedAt: at}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) story(t *testing.T, userID uint64, at time.Time) *model.Story {
	t.Helper()
	s := &model.Story{UserID: userID, ImagePath: "s.png", CreatedAt: at}
	require.NoError(t, e.db.Create(s).Error)
	return s
}

func (e *testEnv) comment(t *testing.T, postID, userID uint64) *model.Comment {
	t.Helper()
	c := &model.Comment{PostID: postID, UserID: userID, Content: "nice"}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *testEnv) follow(t *testing.T, follower, following uint64) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.Follow{FollowerID: follower, FollowingID: following}).Error)
}

// stored 直接读库, 绕过缓存
func (e *testEnv) stored(t *testing.T, field model.CounterField, id uint64) int64 {
	t.Helper()
	v, err := e.counterRepo.Get(context.Background(), model.NewCounterRef(field, id))
	require.NoError(t, err)
	return v
}

type recordingPublisher struct {
	mu     sync.Mutex
	deltas []model.CounterDelta
}

func (p *recordingPublisher) PublishCounterDelta(_ context.Context, d model.CounterDelta) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deltas = append(p.deltas, d)
	return nil
}

func (p *recordingPublisher) published() []model.CounterDelta {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.CounterDelta(nil), p.deltas...)
}
