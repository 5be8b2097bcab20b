package biz

import (
	"context"

	"household-ledger/internal/carbon"
	ledgerErrors "household-ledger/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
)

// SafeLimitRecord 用户每日安全限额（kg CO2e）
type SafeLimitRecord struct {
	UserID      string
	Electricity float64
	Gas         float64
	Fuel        float64
	Water       float64
	Total       float64
}

// SafeLimitRepo 安全限额数据层接口（定义在 biz 层）
type SafeLimitRepo interface {
	// Upsert 每个用户一行，已存在时更新
	Upsert(ctx context.Context, record *SafeLimitRecord) error
}

// SafeLimitUseCase 安全限额计算
type SafeLimitUseCase struct {
	household HouseholdRepo
	repo      SafeLimitRepo
	conf      *SimulationConfig
	log       *log.Helper
}

// NewSafeLimitUseCase 创建安全限额 UseCase
func NewSafeLimitUseCase(household HouseholdRepo, repo SafeLimitRepo, conf *SimulationConfig, logger log.Logger) *SafeLimitUseCase {
	return &SafeLimitUseCase{
		household: household,
		repo:      repo,
		conf:      conf,
		log:       log.NewHelper(logger),
	}
}

// RefreshUser 重新计算并保存单个用户的安全限额
func (uc *SafeLimitUseCase) RefreshUser(ctx context.Context, userID string) (*SafeLimitRecord, error) {
	user, housing, err := loadHousehold(ctx, uc.household, userID)
	if err != nil {
		return nil, err
	}

	factors := carbon.NeutralFactors()
	for _, f := range []struct {
		providerID string
		target     *float64
	}{
		{user.ElectricityProviderID, &factors.Electricity},
		{user.GasProviderID, &factors.Gas},
		{user.WaterProviderID, &factors.Water},
	} {
		if f.providerID == "" {
			continue
		}
		provider, err := uc.household.GetProvider(ctx, f.providerID)
		if err != nil {
			return nil, ledgerErrors.PersistenceFault(ledgerErrors.ErrCodeRecordQueryFailed, err, "get provider %s", f.providerID)
		}
		*f.target = provider.Factor()
	}

	limit := uc.conf.Allowance.SafeLimit(housing.Members(), factors)
	record := &SafeLimitRecord{
		UserID:      userID,
		Electricity: limit.Electricity,
		Gas:         limit.Gas,
		Fuel:        limit.Fuel,
		Water:       limit.Water,
		Total:       limit.Total,
	}
	if err := uc.repo.Upsert(ctx, record); err != nil {
		return nil, ledgerErrors.PersistenceFault(ledgerErrors.ErrCodeSafeLimitSaveFailed, err, "save safe limit of user %s", userID)
	}
	return record, nil
}

// RefreshAll 重新计算所有用户的安全限额，单个用户失败时记录日志并继续
func (uc *SafeLimitUseCase) RefreshAll(ctx context.Context) (*SweepReport, error) {
	userIDs, err := uc.household.ListUserIDs(ctx)
	if err != nil {
		return nil, ledgerErrors.UserEnumeration(err)
	}

	report := &SweepReport{Users: len(userIDs)}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := uc.RefreshUser(ctx, userID); err != nil {
			if ledgerErrors.IsMissingData(err) {
				report.UsersSkipped++
			} else {
				report.UsersFailed++
			}
			uc.log.Warnf("RefreshSafeLimit failed for user=%s: %v", userID, err)
			continue
		}
		report.RowsInserted++
	}

	uc.log.Infof("Refresh safe limits completed: totalUsers=%d, updated=%d, skipped=%d, failed=%d",
		report.Users, report.RowsInserted, report.UsersSkipped, report.UsersFailed)
	return report, nil
}
