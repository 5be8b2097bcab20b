package biz

import (
	"context"
	"time"

	"household-ledger/internal/constants"
	ledgerErrors "household-ledger/internal/errors"
	"household-ledger/internal/simulation"

	"github.com/go-kratos/kratos/v2/log"
)

// FuelUseCase 日燃油模拟，每辆燃油车一行
type FuelUseCase struct {
	household HouseholdRepo
	records   ConsumptionRepo
	sim       *simulation.FuelSimulator
	rand      simulation.Rand
	log       *log.Helper
}

// NewFuelUseCase 创建燃油 UseCase
func NewFuelUseCase(household HouseholdRepo, records ConsumptionRepo, conf *SimulationConfig, r simulation.Rand, logger log.Logger) *FuelUseCase {
	return &FuelUseCase{
		household: household,
		records:   records,
		sim:       simulation.NewFuelSimulator(conf.Catalog),
		rand:      r,
		log:       log.NewHelper(logger),
	}
}

func (uc *FuelUseCase) Domain() string { return constants.DomainFuel }

func (uc *FuelUseCase) LastDate(ctx context.Context, userID string) (time.Time, bool, error) {
	return lastDate(ctx, uc.records, constants.DomainFuel, userID)
}

// Prepare 需要至少一辆非电动车
func (uc *FuelUseCase) Prepare(ctx context.Context, userID string) (DayWriter, error) {
	owned, err := uc.household.ListVehicles(ctx, userID)
	if err != nil {
		return nil, ledgerErrors.PersistenceFault(ledgerErrors.ErrCodeRecordQueryFailed, err, "list vehicles of user %s", userID)
	}
	vehicles := make([]simulation.Vehicle, 0, len(owned))
	for _, v := range owned {
		sv := v.Simulated()
		if sv.Electric() {
			continue
		}
		vehicles = append(vehicles, sv)
	}
	if len(vehicles) == 0 {
		return nil, ledgerErrors.MissingData(ledgerErrors.ErrCodeNoFuelVehicles, "user %s has no fuel vehicles", userID)
	}

	return func(ctx context.Context, date time.Time) (DayResult, error) {
		day := uc.sim.Simulate(vehicles, date, uc.rand)
		records := make([]*FuelRecord, 0, len(day.Vehicles))
		for _, u := range day.Vehicles {
			if u.Err != nil {
				uc.log.Warnf("vehicle %s skipped for user=%s, date=%s: %v",
					u.Vehicle.ID, userID, date.Format(constants.TimeFormatDate), u.Err)
				continue
			}
			records = append(records, &FuelRecord{
				UserID:           userID,
				UserVehicleID:    u.Vehicle.ID,
				VehicleID:        u.Vehicle.VehicleID,
				ConsumptionDate:  date,
				FuelType:         u.Vehicle.FuelType,
				DistanceKm:       simulation.Round2(u.DistanceKm),
				FuelUsedLiters:   u.Liters,
				FuelPrice:        u.Price,
				FuelCost:         u.Cost,
				DrivingCondition: string(u.Condition),
			})
		}
		if len(records) == 0 {
			return DayResult{Faults: day.Faults()}, nil
		}

		n, err := uc.records.InsertFuelDay(ctx, records)
		if err != nil {
			return DayResult{}, insertFault(err, constants.DomainFuel, userID, date)
		}
		if n == 0 {
			return DayResult{Duplicate: true, Faults: day.Faults()}, nil
		}
		return DayResult{Rows: n, Faults: day.Faults()}, nil
	}, nil
}
