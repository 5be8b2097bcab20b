package biz

import (
	"context"
	"time"

	"household-ledger/internal/constants"
	ledgerErrors "household-ledger/internal/errors"
	"household-ledger/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// SweepLocker 回填互斥锁，同一领域同一时间只允许一个回填
type SweepLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// SweepReport 单个领域一次回填的统计
type SweepReport struct {
	Domain        string
	Today         time.Time
	Users         int
	UsersCurrent  int // 已是最新
	UsersSkipped  int // 缺少数据
	UsersFailed   int // 存储失败，剩余日期放弃
	DaysInserted  int
	DaysDuplicate int
	DaysFailed    int
	RowsInserted  int // 燃油每辆车一行，可能多于天数
	Faults        int
}

// BackfillUseCase 按领域补齐所有用户缺失的日记录
type BackfillUseCase struct {
	household  HouseholdRepo
	locker     SweepLocker
	generators map[string]DailyGenerator
	safeLimits *SafeLimitUseCase
	now        func() time.Time
	metrics    *metrics.LedgerMetrics
	log        *log.Helper
}

// NewBackfillUseCase 创建回填 UseCase
func NewBackfillUseCase(
	household HouseholdRepo,
	locker SweepLocker,
	electricity *ElectricityUseCase,
	water *WaterUseCase,
	gas *GasUseCase,
	fuel *FuelUseCase,
	footprint *FootprintUseCase,
	safeLimits *SafeLimitUseCase,
	logger log.Logger,
) *BackfillUseCase {
	uc := &BackfillUseCase{
		household:  household,
		locker:     locker,
		generators: make(map[string]DailyGenerator),
		safeLimits: safeLimits,
		now:        time.Now,
		metrics:    metrics.GetMetrics(),
		log:        log.NewHelper(logger),
	}
	for _, g := range []DailyGenerator{electricity, water, gas, fuel, footprint} {
		uc.generators[g.Domain()] = g
	}
	return uc
}

// WithClock 替换当前时间来源
func (uc *BackfillUseCase) WithClock(now func() time.Time) *BackfillUseCase {
	uc.now = now
	return uc
}

// Sweep 执行单个领域的回填
// 无法枚举用户时整体失败；单个用户的失败只记录日志并计入报告
func (uc *BackfillUseCase) Sweep(ctx context.Context, domain string) (*SweepReport, error) {
	gen, ok := uc.generators[domain]
	if !ok && domain != constants.DomainSafeLimits {
		return nil, ledgerErrors.UnknownDomain(domain)
	}

	unlock, err := uc.lock(ctx, domain)
	if err != nil {
		return nil, err
	}
	defer unlock()

	startTime := time.Now()
	var report *SweepReport
	if domain == constants.DomainSafeLimits {
		report, err = uc.safeLimits.RefreshAll(ctx)
		if report != nil {
			report.Domain = domain
			report.Today = DateOf(uc.now())
		}
	} else {
		report, err = uc.sweep(ctx, gen)
	}

	if uc.metrics != nil {
		result := constants.ResultSuccess
		if err != nil {
			result = constants.ResultFailed
		}
		uc.metrics.SweepTotal.WithLabelValues(domain, result).Inc()
		uc.metrics.SweepDuration.WithLabelValues(domain).Observe(time.Since(startTime).Seconds())
		uc.metrics.SweepLastRun.WithLabelValues(domain).SetToCurrentTime()
	}
	return report, err
}

// SweepAll 依次回填电力、用水、燃气、燃油、碳足迹，最后刷新安全限额
// 某个领域被其他实例锁定时跳过该领域
func (uc *BackfillUseCase) SweepAll(ctx context.Context) ([]*SweepReport, error) {
	domains := append(append([]string{}, constants.SweepOrder...), constants.DomainSafeLimits)
	reports := make([]*SweepReport, 0, len(domains))
	for _, domain := range domains {
		report, err := uc.Sweep(ctx, domain)
		if err != nil {
			if ledgerErrors.IsUserEnumeration(err) || ctx.Err() != nil {
				return reports, err
			}
			uc.log.Warnf("Sweep %s failed, continue with next domain: %v", domain, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (uc *BackfillUseCase) lock(ctx context.Context, domain string) (func(), error) {
	lockStartTime := time.Now()
	unlock, err := uc.locker.Lock(ctx, constants.RedisKeySweepLock+domain)
	if uc.metrics != nil {
		result := constants.ResultSuccess
		if err != nil {
			result = constants.ResultFailed
		}
		uc.metrics.LockAcquireTotal.WithLabelValues(result).Inc()
		uc.metrics.LockAcquireDuration.Observe(time.Since(lockStartTime).Seconds())
	}
	if err != nil {
		uc.log.Errorf("Failed to acquire sweep lock: domain=%s, error=%v", domain, err)
		return nil, ledgerErrors.SweepLocked(domain, err)
	}
	return unlock, nil
}

func (uc *BackfillUseCase) sweep(ctx context.Context, gen DailyGenerator) (*SweepReport, error) {
	domain := gen.Domain()
	today := DateOf(uc.now())

	userIDs, err := uc.household.ListUserIDs(ctx)
	if err != nil {
		uc.log.Errorf("List users failed, abort %s sweep: %v", domain, err)
		return nil, ledgerErrors.UserEnumeration(err)
	}

	report := &SweepReport{Domain: domain, Today: today, Users: len(userIDs)}
	if len(userIDs) == 0 {
		uc.log.Info("No users found, skip sweep")
		return report, nil
	}

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		uc.sweepUser(ctx, gen, userID, today, report)
	}

	uc.log.Infof("Sweep %s completed: today=%s, users=%d, current=%d, skipped=%d, failed=%d, inserted=%d, duplicate=%d, faults=%d",
		domain, today.Format(constants.TimeFormatDate), report.Users, report.UsersCurrent, report.UsersSkipped,
		report.UsersFailed, report.DaysInserted, report.DaysDuplicate, report.Faults)
	return report, nil
}

func (uc *BackfillUseCase) sweepUser(ctx context.Context, gen DailyGenerator, userID string, today time.Time, report *SweepReport) {
	domain := gen.Domain()

	last, ok, err := gen.LastDate(ctx, userID)
	if err != nil {
		uc.log.Warnf("LastDate failed for user=%s, domain=%s: %v", userID, domain, err)
		report.UsersFailed++
		return
	}
	end := today
	if domain == constants.DomainCarbon {
		horizon, linked, err := uc.resourceHorizon(ctx, userID)
		if err != nil {
			uc.log.Warnf("Resource horizon failed for user=%s: %v", userID, err)
			report.UsersFailed++
			return
		}
		if !linked {
			uc.log.Infof("Skip user=%s, domain=%s: linked resource domains have no records yet", userID, domain)
			report.UsersSkipped++
			uc.skipped(domain, constants.SkipReasonPendingResources)
			return
		}
		if horizon.Before(end) {
			end = horizon
		}
	}

	start := WindowStart(domain, today)
	if ok {
		last = DateOf(last)
		if !last.Before(end) {
			report.UsersCurrent++
			uc.skipped(domain, constants.SkipReasonCurrent)
			return
		}
		start = last.AddDate(0, 0, 1)
	}

	write, err := gen.Prepare(ctx, userID)
	if err != nil {
		if ledgerErrors.IsMissingData(err) {
			uc.log.Infof("Skip user=%s, domain=%s: %v", userID, domain, err)
			report.UsersSkipped++
			uc.skipped(domain, constants.SkipReasonMissingData)
			return
		}
		uc.log.Warnf("Prepare failed for user=%s, domain=%s: %v", userID, domain, err)
		report.UsersFailed++
		return
	}

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		res, err := write(ctx, date)
		if err != nil {
			// 剩余日期留给下一次回填
			uc.log.Warnf("Write %s failed for user=%s, date=%s, abandon remaining days: %v",
				domain, userID, date.Format(constants.TimeFormatDate), err)
			report.DaysFailed++
			report.UsersFailed++
			if uc.metrics != nil {
				uc.metrics.DayFailuresTotal.WithLabelValues(domain).Inc()
			}
			return
		}

		report.Faults += res.Faults
		switch {
		case res.Duplicate:
			report.DaysDuplicate++
		case res.Rows > 0:
			report.DaysInserted++
			report.RowsInserted += res.Rows
		}
		if uc.metrics != nil {
			if res.Duplicate {
				uc.metrics.DuplicateDaysTotal.WithLabelValues(domain).Inc()
			}
			uc.metrics.RowsInsertedTotal.WithLabelValues(domain).Add(float64(res.Rows))
			uc.metrics.SimulationFaultsTotal.WithLabelValues(domain).Add(float64(res.Faults))
		}
	}
}

// resourceHorizon 碳足迹只能计算到用户已关联的资源领域都已写入的日期
// 未关联的领域（缺少服务商、住房或车辆）不参与；已关联但尚无记录时 linked 为 false
func (uc *BackfillUseCase) resourceHorizon(ctx context.Context, userID string) (horizon time.Time, linked bool, err error) {
	for _, domain := range constants.SweepOrder {
		if domain == constants.DomainCarbon {
			continue
		}
		gen := uc.generators[domain]
		if _, err := gen.Prepare(ctx, userID); err != nil {
			if ledgerErrors.IsMissingData(err) {
				continue
			}
			return time.Time{}, false, err
		}
		last, ok, err := gen.LastDate(ctx, userID)
		if err != nil {
			return time.Time{}, false, err
		}
		if !ok {
			return time.Time{}, false, nil
		}
		last = DateOf(last)
		if !linked || last.Before(horizon) {
			horizon = last
		}
		linked = true
	}
	return horizon, linked, nil
}

// HasDomain 是否为可回填的领域
func (uc *BackfillUseCase) HasDomain(domain string) bool {
	_, ok := uc.generators[domain]
	return ok || domain == constants.DomainSafeLimits
}

func (uc *BackfillUseCase) skipped(domain, reason string) {
	if uc.metrics != nil {
		uc.metrics.UsersSkippedTotal.WithLabelValues(domain, reason).Inc()
	}
}
