package wire

import (
	"Glimmer/internal/api"
	"Glimmer/internal/api/config"
	"Glimmer/internal/api/handler"
	"Glimmer/internal/job"
	"Glimmer/internal/pkg/cron"
	"Glimmer/internal/pkg/kafka"
	"Glimmer/internal/repository"
	"Glimmer/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager
	Producer     *kafka.CounterRetryProducer
}

// Close 释放生产者, 消费者随 ctx 结束自行关闭
func (a *ApplicationContainer) Close() error {
	if a.Producer != nil {
		return a.Producer.Close()
	}
	return nil
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	counterCfg := cfg.Counter
	cacheTTL := time.Duration(counterCfg.CacheTTL) * time.Millisecond

	// repository
	counterRepo := repository.NewCounterRepo(db)
	postActionRepo := repository.NewPostActionRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	profileRepo := repository.NewProfileRepo(db)
	postRepo := repository.NewPostRepository(db)
	storyRepo := repository.NewStoryRepo(db)
	feedRepo := repository.NewFeedRepo(db)

	// 计数器
	cache := service.NewCounterCache(cacheTTL)
	locker := service.NewRedisLocker(
		time.Duration(counterCfg.LockLease)*time.Millisecond,
		counterCfg.LockAttempts,
		time.Duration(counterCfg.LockRetryInterval)*time.Millisecond,
	)
	ledger := service.NewCounterLedger(counterCfg, counterRepo, locker, cache)

	var (
		publisher service.CounterRetryPublisher = service.NoopRetryPublisher{}
		producer  *kafka.CounterRetryProducer
	)
	if cfg.Kafka.Enable {
		syncProducer, err := kafka.NewSyncProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		producer = kafka.NewCounterRetryProducer(syncProducer, cfg.KafkaCounterRetryConsumer.Topic)
		publisher = producer
	}
	updater := service.NewCounterUpdater(ledger, publisher)

	// service
	planner := service.NewFeedPlanner(cfg.Feed, feedRepo, time.Now)
	annotator := service.NewAnnotator(postActionRepo, userFollowRepo, storyRepo)
	receipts := service.NewReadReceiptService(storyRepo, counterRepo, updater, cache)

	postSvc := service.NewPostService(postRepo, profileRepo, counterRepo, planner, annotator, cache, cacheTTL)
	postActionSvc := service.NewPostActionService(postActionRepo, postRepo, profileRepo, counterRepo, updater, annotator, cache, cacheTTL)
	userFollowSvc := service.NewUserFollowService(userFollowRepo, profileRepo, updater, annotator)
	profileSvc := service.NewProfileService(profileRepo, counterRepo, annotator, updater, cache, cacheTTL)
	storySvc := service.NewStoryService(storyRepo, profileRepo, counterRepo, planner, annotator, receipts, cache, cacheTTL, time.Now)

	handlers := &api.HandlersGroup{
		PostHandler:       handler.NewPostHandler(postSvc),
		PostActionHandler: handler.NewPostActionHandler(postActionSvc),
		UserFollowHandler: handler.NewUserFollowHandler(userFollowSvc),
		ProfileHandler:    handler.NewProfileHandler(profileSvc),
		StoryHandler:      handler.NewStoryHandler(storySvc),
	}
	router := api.SetupRouter(handlers, cfg.Server.AllowOrigins)

	// 定时对账
	reconcileJob := job.NewCounterReconcileJob(ledger, counterCfg.ReconcileParallelism)
	cronMgr := cron.NewCronManager(counterCfg.ReconcileSpec, reconcileJob)

	app := &ApplicationContainer{
		Router:   router,
		DB:       db,
		CronMgr:  cronMgr,
		Producer: producer,
	}

	if cfg.Kafka.Enable {
		kafkaMgr, err := kafka.NewConsumerManager(cfg, ledger, profileSvc)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.KafkaManager = kafkaMgr
	}

	return app, nil
}
