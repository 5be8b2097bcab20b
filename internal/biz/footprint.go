package biz

import (
	"context"
	"time"

	"household-ledger/internal/carbon"
	"household-ledger/internal/constants"
	ledgerErrors "household-ledger/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
)

// FootprintRecord 日碳足迹记录
type FootprintRecord struct {
	ID              string
	UserID          string
	ConsumptionDate time.Time
	ElectricityKg   float64
	FuelKg          float64
	GasKg           float64
	WaterKg         float64
	TotalKg         float64
	Tag             string
	Suggestion      string
}

// FootprintRepo 碳足迹数据层接口（定义在 biz 层）
type FootprintRepo interface {
	LastDate(ctx context.Context, userID string) (time.Time, bool, error)
	Insert(ctx context.Context, record *FootprintRecord) (bool, error)
}

// FootprintPublisher 碳足迹事件发送
type FootprintPublisher interface {
	Publish(ctx context.Context, record *FootprintRecord) error
}

// FootprintUseCase 日碳足迹计算，依赖四个资源领域已写入的数据
type FootprintUseCase struct {
	records    ConsumptionRepo
	footprints FootprintRepo
	publisher  FootprintPublisher
	conf       *SimulationConfig
	log        *log.Helper
}

// NewFootprintUseCase 创建碳足迹 UseCase
func NewFootprintUseCase(records ConsumptionRepo, footprints FootprintRepo, publisher FootprintPublisher, conf *SimulationConfig, logger log.Logger) *FootprintUseCase {
	return &FootprintUseCase{
		records:    records,
		footprints: footprints,
		publisher:  publisher,
		conf:       conf,
		log:        log.NewHelper(logger),
	}
}

func (uc *FootprintUseCase) Domain() string { return constants.DomainCarbon }

func (uc *FootprintUseCase) LastDate(ctx context.Context, userID string) (time.Time, bool, error) {
	last, ok, err := uc.footprints.LastDate(ctx, userID)
	if err != nil {
		return time.Time{}, false, ledgerErrors.PersistenceFault(ledgerErrors.ErrCodeRecordQueryFailed, err,
			"last footprint date for user %s", userID)
	}
	return last, ok, nil
}

// Prepare 碳足迹不需要额外数据，当天没有任何消耗记录时不写入
func (uc *FootprintUseCase) Prepare(_ context.Context, userID string) (DayWriter, error) {
	return func(ctx context.Context, date time.Time) (DayResult, error) {
		totals, err := uc.records.DailyTotals(ctx, userID, date)
		if err != nil {
			return DayResult{}, ledgerErrors.PersistenceFault(ledgerErrors.ErrCodeRecordQueryFailed, err,
				"daily totals for user %s on %s", userID, date.Format(constants.TimeFormatDate))
		}
		if totals == nil || totals.Rows == 0 {
			return DayResult{}, nil
		}

		fp := uc.conf.Factors.Calculate(carbon.Usage{
			ElectricityKWh: totals.ElectricityKWh,
			FuelLiters:     totals.FuelLiters,
			GasCubicMeters: totals.GasCubicMeters,
			WaterLiters:    totals.WaterLiters,
		})
		record := &FootprintRecord{
			UserID:          userID,
			ConsumptionDate: date,
			ElectricityKg:   fp.ElectricityKg,
			FuelKg:          fp.FuelKg,
			GasKg:           fp.GasKg,
			WaterKg:         fp.WaterKg,
			TotalKg:         fp.TotalKg,
			Tag:             string(fp.Tag),
			Suggestion:      fp.Suggestion,
		}
		inserted, err := uc.footprints.Insert(ctx, record)
		if err != nil {
			return DayResult{}, insertFault(err, constants.DomainCarbon, userID, date)
		}
		if !inserted {
			return DayResult{Duplicate: true}, nil
		}

		// 事件发送失败不影响已写入的记录
		if err := uc.publisher.Publish(ctx, record); err != nil {
			uc.log.Warnf("publish footprint failed for user=%s, date=%s: %v",
				userID, date.Format(constants.TimeFormatDate), err)
		}
		return DayResult{Rows: 1}, nil
	}, nil
}
