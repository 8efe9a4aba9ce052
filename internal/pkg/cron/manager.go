package cron

import (
	"Glimmer/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine              *cron.Cron
	reconcileSpec       string
	counterReconcileJob *job.CounterReconcileJob
}

func NewCronManager(reconcileSpec string, counterReconcileJob *job.CounterReconcileJob) *Manager {
	if reconcileSpec == "" {
		reconcileSpec = "@every 1m"
	}
	logger := newCronLogger(nil)
	return &Manager{
		engine: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		reconcileSpec:       reconcileSpec,
		counterReconcileJob: counterReconcileJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.reconcileSpec, s.counterReconcileJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
