package biz

import (
	"context"
	"time"

	"household-ledger/internal/constants"
	ledgerErrors "household-ledger/internal/errors"
	"household-ledger/internal/simulation"
	"household-ledger/internal/tariff"

	"github.com/go-kratos/kratos/v2/log"
)

// WaterUseCase 日用水模拟与计费
type WaterUseCase struct {
	household HouseholdRepo
	records   ConsumptionRepo
	sim       *simulation.WaterSimulator
	conf      *SimulationConfig
	rand      simulation.Rand
	log       *log.Helper
}

// NewWaterUseCase 创建用水 UseCase
func NewWaterUseCase(household HouseholdRepo, records ConsumptionRepo, conf *SimulationConfig, r simulation.Rand, logger log.Logger) *WaterUseCase {
	return &WaterUseCase{
		household: household,
		records:   records,
		sim:       simulation.NewWaterSimulator(conf.Catalog),
		conf:      conf,
		rand:      r,
		log:       log.NewHelper(logger),
	}
}

func (uc *WaterUseCase) Domain() string { return constants.DomainWater }

func (uc *WaterUseCase) LastDate(ctx context.Context, userID string) (time.Time, bool, error) {
	return lastDate(ctx, uc.records, constants.DomainWater, userID)
}

// Prepare 需要住房信息和供水服务商
func (uc *WaterUseCase) Prepare(ctx context.Context, userID string) (DayWriter, error) {
	user, housing, err := loadHousehold(ctx, uc.household, userID)
	if err != nil {
		return nil, err
	}
	if housing == nil {
		return nil, ledgerErrors.MissingData(ledgerErrors.ErrCodeHousingMissing, "user %s has no housing", userID)
	}
	provider, err := loadProvider(ctx, uc.household, userID, constants.DomainWater, user.WaterProviderID)
	if err != nil {
		return nil, err
	}

	household := housing.Simulated()
	return func(ctx context.Context, date time.Time) (DayResult, error) {
		day := uc.sim.Simulate(household, date, uc.conf.Water, uc.rand)
		for _, c := range day.Categories {
			if c.Err != nil {
				uc.log.Warnf("water category %s skipped for user=%s, date=%s: %v",
					c.Category, userID, date.Format(constants.TimeFormatDate), c.Err)
			}
		}

		record := &WaterRecord{
			UserID:          userID,
			ProviderID:      provider.ID,
			ConsumptionDate: date,
			Liters:          simulation.Round2(day.Liters),
			Bill:            simulation.Round2(tariff.PerKiloliter(day.Liters, provider.UnitPrice)),
			PaymentStatus:   constants.PaymentStatusDue,
		}
		inserted, err := uc.records.InsertWater(ctx, record)
		if err != nil {
			return DayResult{}, insertFault(err, constants.DomainWater, userID, date)
		}
		return dayResult(inserted, 1, day.Faults()), nil
	}, nil
}
