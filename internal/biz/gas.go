package biz

import (
	"context"
	"fmt"
	"time"

	"household-ledger/internal/constants"
	ledgerErrors "household-ledger/internal/errors"
	"household-ledger/internal/simulation"

	"github.com/go-kratos/kratos/v2/log"
)

// GasUseCase 日燃气模拟
type GasUseCase struct {
	household HouseholdRepo
	records   ConsumptionRepo
	sim       *simulation.GasSimulator
	rand      simulation.Rand
	log       *log.Helper
}

// NewGasUseCase 创建燃气 UseCase
func NewGasUseCase(household HouseholdRepo, records ConsumptionRepo, conf *SimulationConfig, r simulation.Rand, logger log.Logger) *GasUseCase {
	return &GasUseCase{
		household: household,
		records:   records,
		sim:       simulation.NewGasSimulator(conf.Catalog),
		rand:      r,
		log:       log.NewHelper(logger),
	}
}

func (uc *GasUseCase) Domain() string { return constants.DomainGas }

func (uc *GasUseCase) LastDate(ctx context.Context, userID string) (time.Time, bool, error) {
	return lastDate(ctx, uc.records, constants.DomainGas, userID)
}

// Prepare 需要燃气服务商；没有住房信息时按 4 人计算
func (uc *GasUseCase) Prepare(ctx context.Context, userID string) (DayWriter, error) {
	user, housing, err := loadHousehold(ctx, uc.household, userID)
	if err != nil {
		return nil, err
	}
	provider, err := loadProvider(ctx, uc.household, userID, constants.DomainGas, user.GasProviderID)
	if err != nil {
		return nil, err
	}
	gasType, err := simulation.NormalizeGasType(user.GasType)
	if err != nil {
		return nil, ledgerErrors.MissingData(ledgerErrors.ErrCodeUnknownGasType, "user %s: %v", userID, err)
	}
	members := housing.Members()

	return func(ctx context.Context, date time.Time) (DayResult, error) {
		day, err := uc.sim.Simulate(gasType, members, date, uc.rand)
		if err != nil {
			return DayResult{}, fmt.Errorf("simulate gas for user %s: %w", userID, err)
		}
		for _, a := range day.Activities {
			if a.Err != nil {
				uc.log.Warnf("gas activity %s skipped for user=%s, date=%s: %v",
					a.Activity, userID, date.Format(constants.TimeFormatDate), a.Err)
			}
		}

		record := &GasRecord{
			UserID:          userID,
			ProviderID:      provider.ID,
			ConsumptionDate: date,
			HouseholdType:   string(day.HouseholdType),
			CubicMeters:     day.CubicMeters,
			Cost:            day.Cost,
		}
		if gasType == simulation.Metered {
			m := members
			record.NumMembers = &m
		} else {
			record.BurnerType = string(day.BurnerType)
		}
		inserted, err := uc.records.InsertGas(ctx, record)
		if err != nil {
			return DayResult{}, insertFault(err, constants.DomainGas, userID, date)
		}
		return dayResult(inserted, 1, day.Faults()), nil
	}, nil
}
