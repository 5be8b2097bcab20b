package service

import (
	"context"
	"time"

	"household-ledger/internal/biz"
	"household-ledger/internal/conf"
	"household-ledger/internal/constants"
	ledgerErrors "household-ledger/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(
	NewLedgerService,
	wire.Bind(new(Sweeper), new(*biz.BackfillUseCase)),
)

// Sweeper 回填执行者
type Sweeper interface {
	HasDomain(domain string) bool
	Sweep(ctx context.Context, domain string) (*biz.SweepReport, error)
	SweepAll(ctx context.Context) ([]*biz.SweepReport, error)
}

// SweepAccepted 回填已受理，在后台执行
type SweepAccepted struct {
	Domain  string `json:"domain"`
	Timeout string `json:"timeout"`
}

// SafeLimitReply 用户安全限额（kg CO2e / 月）
type SafeLimitReply struct {
	UserID      string  `json:"user_id"`
	Electricity float64 `json:"electricity_safe_limit"`
	Gas         float64 `json:"gas_safe_limit"`
	Fuel        float64 `json:"fuel_safe_limit"`
	Water       float64 `json:"water_safe_limit"`
	Total       float64 `json:"total_safe_limit"`
}

// LedgerService 面向运维的回填与限额服务
type LedgerService struct {
	backfill   Sweeper
	safeLimits *biz.SafeLimitUseCase
	timeout    time.Duration
	log        *log.Helper
}

// NewLedgerService 创建 LedgerService
func NewLedgerService(c *conf.Bootstrap, backfill Sweeper, safeLimits *biz.SafeLimitUseCase, logger log.Logger) *LedgerService {
	s := &LedgerService{
		backfill:   backfill,
		safeLimits: safeLimits,
		timeout:    constants.DefaultSweepTimeout,
		log:        log.NewHelper(logger),
	}
	if c.Sweep != nil {
		if d := c.Sweep.Timeout.AsDuration(); d > 0 {
			s.timeout = d
		}
	}
	return s
}

// StartSweep 校验领域后在后台回填，不受请求超时约束
// domain 为 all 时按顺序回填全部领域
func (s *LedgerService) StartSweep(domain string) (*SweepAccepted, error) {
	if domain != constants.DomainAll && !s.backfill.HasDomain(domain) {
		return nil, ledgerErrors.UnknownDomain(domain)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.runSweep(ctx, domain)
	}()

	s.log.Infof("Sweep accepted: domain=%s, timeout=%s", domain, s.timeout)
	return &SweepAccepted{Domain: domain, Timeout: s.timeout.String()}, nil
}

func (s *LedgerService) runSweep(ctx context.Context, domain string) {
	var (
		reports []*biz.SweepReport
		err     error
	)
	if domain == constants.DomainAll {
		reports, err = s.backfill.SweepAll(ctx)
	} else {
		var report *biz.SweepReport
		report, err = s.backfill.Sweep(ctx, domain)
		if report != nil {
			reports = append(reports, report)
		}
	}

	for _, r := range reports {
		s.log.Infof("Sweep %s: users=%d, current=%d, skipped=%d, failed=%d, inserted=%d, duplicate=%d, faults=%d",
			r.Domain, r.Users, r.UsersCurrent, r.UsersSkipped, r.UsersFailed, r.DaysInserted, r.DaysDuplicate, r.Faults)
	}
	if err != nil {
		s.log.Errorf("Sweep failed: domain=%s, error=%v", domain, err)
	}
}

// RefreshSafeLimit 重新计算单个用户的安全限额
func (s *LedgerService) RefreshSafeLimit(ctx context.Context, userID string) (*SafeLimitReply, error) {
	record, err := s.safeLimits.RefreshUser(ctx, userID)
	if err != nil {
		s.log.Errorf("RefreshSafeLimit failed: user=%s, error=%v", userID, err)
		return nil, err
	}
	return &SafeLimitReply{
		UserID:      record.UserID,
		Electricity: record.Electricity,
		Gas:         record.Gas,
		Fuel:        record.Fuel,
		Water:       record.Water,
		Total:       record.Total,
	}, nil
}
