package server

import (
	"context"
	"time"

	"household-ledger/internal/biz"
	"household-ledger/internal/conf"
	"household-ledger/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
)

// SweepServer 按 cron 定时执行全量回填
type SweepServer struct {
	cron       *cron.Cron
	backfill   *biz.BackfillUseCase
	spec       string
	timeout    time.Duration
	runOnStart bool
	log        *log.Helper
}

// NewSweepServer 创建定时回填服务
func NewSweepServer(c *conf.Bootstrap, backfill *biz.BackfillUseCase, logger log.Logger) *SweepServer {
	s := &SweepServer{
		backfill: backfill,
		spec:     constants.DefaultSweepCron,
		timeout:  constants.DefaultSweepTimeout,
		log:      log.NewHelper(logger),
	}
	if c.Sweep != nil {
		if c.Sweep.Cron != "" {
			s.spec = c.Sweep.Cron
		}
		if d := c.Sweep.Timeout.AsDuration(); d > 0 {
			s.timeout = d
		}
		s.runOnStart = c.Sweep.RunOnStart
	}

	cronLogger := cronLogger{log: s.log}
	s.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	return s
}

// Start 注册并启动定时任务
func (s *SweepServer) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		s.log.Errorf("Failed to add sweep job: spec=%s, error=%v", s.spec, err)
		return err
	}
	s.cron.Start()
	s.log.Infof("[CRON] Sweep scheduled: spec=%s, timeout=%s", s.spec, s.timeout)

	if s.runOnStart {
		go s.run()
	}
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (s *SweepServer) Stop(ctx context.Context) error {
	s.log.Info("[CRON] Stopping sweep scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("[CRON] Sweep scheduler stopped gracefully")
	case <-ctx.Done():
		s.log.Warn("[CRON] Sweep scheduler forced to stop")
	}
	return nil
}

func (s *SweepServer) run() {
	s.log.Info("[CRON] Starting sweep...")
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	reports, err := s.backfill.SweepAll(ctx)
	if err != nil {
		s.log.Errorf("[CRON] Sweep aborted: %v", err)
		return
	}
	for _, r := range reports {
		s.log.Infof("[CRON] %s: users=%d, inserted=%d, duplicate=%d, skipped=%d, failed=%d",
			r.Domain, r.Users, r.DaysInserted, r.DaysDuplicate, r.UsersSkipped, r.UsersFailed)
	}
	s.log.Info("[CRON] Finished sweep")
}

// cronLogger 把 cron 的日志转给 kratos log
type cronLogger struct {
	log *log.Helper
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(append([]interface{}{"msg", msg}, keysAndValues...)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(append([]interface{}{"msg", msg, "error", err}, keysAndValues...)...)
}
