package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerMetrics 回填任务指标
type LedgerMetrics struct {
	// 回填相关指标
	SweepTotal    *prometheus.CounterVec   // 回填次数（按领域、结果）
	SweepDuration *prometheus.HistogramVec // 回填耗时
	SweepLastRun  *prometheus.GaugeVec     // 最近一次回填完成时间

	// 记录相关指标
	RowsInsertedTotal     *prometheus.CounterVec // 写入行数（按领域）
	DuplicateDaysTotal    *prometheus.CounterVec // 已存在而跳过的天数（按领域）
	DayFailuresTotal      *prometheus.CounterVec // 写入失败的天数（按领域）
	UsersSkippedTotal     *prometheus.CounterVec // 跳过的用户数（按领域、原因）
	SimulationFaultsTotal *prometheus.CounterVec // 记为 0 的模拟项（按领域）

	// 分布式锁相关指标
	LockAcquireTotal    *prometheus.CounterVec // 锁获取总数（按结果）
	LockAcquireDuration prometheus.Histogram   // 锁获取耗时

	// 消息相关指标
	PublishTotal *prometheus.CounterVec // 碳足迹事件发送（按结果）
}

// NewLedgerMetrics 创建回填任务指标
func NewLedgerMetrics() *LedgerMetrics {
	return &LedgerMetrics{
		SweepTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_sweep_total",
				Help: "Total number of backfill sweeps",
			},
			[]string{"domain", "result"}, // result: success/failed
		),
		SweepDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_sweep_duration_seconds",
				Help:    "Duration of backfill sweeps",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 900, 1800},
			},
			[]string{"domain"},
		),
		SweepLastRun: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledger_sweep_last_run_timestamp_seconds",
				Help: "Unix time the last sweep of a domain finished",
			},
			[]string{"domain"},
		),

		RowsInsertedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rows_inserted_total",
				Help: "Total number of daily rows written",
			},
			[]string{"domain"},
		),
		DuplicateDaysTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_duplicate_days_total",
				Help: "Total number of days that already had a row",
			},
			[]string{"domain"},
		),
		DayFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_day_failures_total",
				Help: "Total number of days abandoned on a persistence fault",
			},
			[]string{"domain"},
		),
		UsersSkippedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_users_skipped_total",
				Help: "Total number of users skipped by a sweep",
			},
			[]string{"domain", "reason"}, // reason: missing_data/current
		),
		SimulationFaultsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_simulation_faults_total",
				Help: "Total number of simulated items that contributed zero",
			},
			[]string{"domain"},
		),

		LockAcquireTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_lock_acquire_total",
				Help: "Total number of lock acquisition attempts",
			},
			[]string{"result"}, // result: success/failed
		),
		LockAcquireDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_lock_acquire_duration_seconds",
				Help:    "Duration of lock acquisition",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0}, // 毫秒级
			},
		),

		PublishTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_footprint_publish_total",
				Help: "Total number of footprint events published",
			},
			[]string{"result"},
		),
	}
}

// 全局指标实例
var (
	defaultMetrics *LedgerMetrics
	once           sync.Once
)

// GetMetrics 获取全局指标实例
func GetMetrics() *LedgerMetrics {
	once.Do(func() {
		defaultMetrics = NewLedgerMetrics()
	})
	return defaultMetrics
}
