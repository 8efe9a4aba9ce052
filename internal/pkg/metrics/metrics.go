package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 进程内全部 Prometheus 指标
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 计数器
	CounterApplyTotal    *prometheus.CounterVec
	CounterApplyDuration *prometheus.HistogramVec
	CounterLockTotal     *prometheus.CounterVec
	CounterCacheTotal    *prometheus.CounterVec
	CounterDirtyTotal    prometheus.Counter
	CounterReconciled    *prometheus.CounterVec

	// 已读回执
	ReceiptTotal *prometheus.CounterVec

	// 信息流
	FeedPlanDuration *prometheus.HistogramVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize 注册全部指标, 重复调用返回同一实例
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path"},
			),
			CounterApplyTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "counter_apply_total",
					Help: "Counter delta applications by field and result",
				},
				[]string{"field", "result"},
			),
			CounterApplyDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "counter_apply_duration_seconds",
					Help:    "Time spent applying a single counter delta",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2},
				},
				[]string{"mode"},
			),
			CounterLockTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "counter_lock_total",
					Help: "Counter lock acquisition outcomes",
				},
				[]string{"result"},
			),
			CounterCacheTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "counter_cache_total",
					Help: "Counter cache lookups by result",
				},
				[]string{"result"},
			),
			CounterDirtyTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "counter_dirty_marked_total",
					Help: "Counters marked for reconciliation after a failed update",
				},
			),
			CounterReconciled: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "counter_reconciled_total",
					Help: "Counters recomputed from edge relations",
				},
				[]string{"result"},
			),
			ReceiptTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "read_receipt_total",
					Help: "Story view receipts by outcome",
				},
				[]string{"outcome"},
			),
			FeedPlanDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_plan_duration_seconds",
					Help:    "Feed query planning and execution latency",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
				},
				[]string{"kind"},
			),
		}
	})
	return instance
}

// Get 返回已注册的指标
func Get() *Metrics {
	return Initialize()
}
