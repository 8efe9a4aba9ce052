package cron

import (
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// InitCron 注册并启动定时任务
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	log.Info("Cron Jobs starting...", "counter_reconcile", mgr.reconcileSpec, "entries", len(mgr.engine.Entries()))
	mgr.Start()
	return nil
}

// slogAdapter 把 cron 内部日志接到 slog
type slogAdapter struct {
	l *log.Logger
}

func newCronLogger(l *log.Logger) cron.Logger {
	if l == nil {
		l = log.Default()
	}
	return slogAdapter{l: l.With("component", "cron")}
}

func (s slogAdapter) Info(msg string, keysAndValues ...interface{}) {
	s.l.Debug(msg, keysAndValues...)
}

func (s slogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	s.l.Error(msg, append(keysAndValues, "err", err)...)
}
