package biz

import (
	"context"
	"time"

	"household-ledger/internal/constants"
	ledgerErrors "household-ledger/internal/errors"
	"household-ledger/internal/simulation"

	"github.com/go-kratos/kratos/v2/log"
)

// ElectricityUseCase 日用电模拟与计费
type ElectricityUseCase struct {
	household HouseholdRepo
	records   ConsumptionRepo
	sim       *simulation.ElectricitySimulator
	conf      *SimulationConfig
	rand      simulation.Rand
	log       *log.Helper
}

// NewElectricityUseCase 创建用电 UseCase
func NewElectricityUseCase(household HouseholdRepo, records ConsumptionRepo, conf *SimulationConfig, r simulation.Rand, logger log.Logger) *ElectricityUseCase {
	return &ElectricityUseCase{
		household: household,
		records:   records,
		sim:       simulation.NewElectricitySimulator(conf.Catalog),
		conf:      conf,
		rand:      r,
		log:       log.NewHelper(logger),
	}
}

func (uc *ElectricityUseCase) Domain() string { return constants.DomainElectricity }

func (uc *ElectricityUseCase) LastDate(ctx context.Context, userID string) (time.Time, bool, error) {
	return lastDate(ctx, uc.records, constants.DomainElectricity, userID)
}

// Prepare 需要住房信息和电力服务商
func (uc *ElectricityUseCase) Prepare(ctx context.Context, userID string) (DayWriter, error) {
	user, housing, err := loadHousehold(ctx, uc.household, userID)
	if err != nil {
		return nil, err
	}
	if housing == nil {
		return nil, ledgerErrors.MissingData(ledgerErrors.ErrCodeHousingMissing, "user %s has no housing", userID)
	}
	provider, err := loadProvider(ctx, uc.household, userID, constants.DomainElectricity, user.ElectricityProviderID)
	if err != nil {
		return nil, err
	}
	schedule, err := uc.conf.Tariff.WithBaseRate(provider.UnitPrice)
	if err != nil {
		return nil, ledgerErrors.MissingData(ledgerErrors.ErrCodeInvalidProvider, "provider %s: %v", provider.ID, err)
	}

	household := housing.Simulated()
	return func(ctx context.Context, date time.Time) (DayResult, error) {
		day := uc.sim.Simulate(household, date, uc.rand)
		for _, a := range day.Appliances {
			if a.Err != nil {
				uc.log.Warnf("appliance %s skipped for user=%s, date=%s: %v",
					a.Instance, userID, date.Format(constants.TimeFormatDate), a.Err)
			}
		}

		record := &ElectricityRecord{
			UserID:          userID,
			ProviderID:      provider.ID,
			ConsumptionDate: date,
			RawKWh:          simulation.Round2(day.RawKWh),
			RenewableKWh:    simulation.Round2(day.RenewableKWh),
			ConsumptionKWh:  day.NetKWh,
			Bill:            simulation.Round2(schedule.Bill(day.NetKWh)),
			PaymentStatus:   constants.PaymentStatusDue,
		}
		inserted, err := uc.records.InsertElectricity(ctx, record)
		if err != nil {
			return DayResult{}, insertFault(err, constants.DomainElectricity, userID, date)
		}
		return dayResult(inserted, 1, day.Faults()), nil
	}, nil
}

func lastDate(ctx context.Context, records ConsumptionRepo, domain, userID string) (time.Time, bool, error) {
	last, ok, err := records.LastDate(ctx, domain, userID)
	if err != nil {
		return time.Time{}, false, ledgerErrors.PersistenceFault(ledgerErrors.ErrCodeRecordQueryFailed, err,
			"last %s date for user %s", domain, userID)
	}
	return last, ok, nil
}

// loadHousehold 加载用户和住房信息，住房可能为 nil
func loadHousehold(ctx context.Context, repo HouseholdRepo, userID string) (*User, *Housing, error) {
	user, err := repo.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, ledgerErrors.PersistenceFault(ledgerErrors.ErrCodeRecordQueryFailed, err, "get user %s", userID)
	}
	if user == nil {
		return nil, nil, ledgerErrors.MissingData(ledgerErrors.ErrCodeUserNotFound, "user %s not found", userID)
	}
	housing, err := repo.GetHousing(ctx, userID)
	if err != nil {
		return nil, nil, ledgerErrors.PersistenceFault(ledgerErrors.ErrCodeRecordQueryFailed, err, "get housing of user %s", userID)
	}
	return user, housing, nil
}

// loadProvider 加载必需的服务商，未关联或不存在时返回 MissingData
func loadProvider(ctx context.Context, repo HouseholdRepo, userID, domain, providerID string) (*UtilityProvider, error) {
	if providerID == "" {
		return nil, ledgerErrors.MissingData(ledgerErrors.ErrCodeProviderMissing, "user %s has no %s provider", userID, domain)
	}
	provider, err := repo.GetProvider(ctx, providerID)
	if err != nil {
		return nil, ledgerErrors.PersistenceFault(ledgerErrors.ErrCodeRecordQueryFailed, err, "get provider %s", providerID)
	}
	if provider == nil {
		return nil, ledgerErrors.MissingData(ledgerErrors.ErrCodeProviderMissing, "%s provider %s of user %s not found", domain, providerID, userID)
	}
	return provider, nil
}

func insertFault(err error, domain, userID string, date time.Time) error {
	return ledgerErrors.PersistenceFault(ledgerErrors.ErrCodeRecordInsertFailed, err,
		"insert %s for user %s on %s", domain, userID, date.Format(constants.TimeFormatDate))
}

func dayResult(inserted bool, rows, faults int) DayResult {
	if !inserted {
		return DayResult{Duplicate: true, Faults: faults}
	}
	return DayResult{Rows: rows, Faults: faults}
}
