package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"household-ledger/internal/biz"
	"household-ledger/internal/constants"
	"household-ledger/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// domainTables 各领域的日记录表
var domainTables = map[string]string{
	constants.DomainElectricity: model.DailyElectricityConsumption{}.TableName(),
	constants.DomainWater:       model.DailyWaterConsumption{}.TableName(),
	constants.DomainGas:         model.DailyGasConsumption{}.TableName(),
	constants.DomainFuel:        model.DailyFuelConsumption{}.TableName(),
	constants.DomainCarbon:      model.DailyCarbonFootprint{}.TableName(),
}

// consumptionRepo 日消耗记录数据访问
type consumptionRepo struct {
	data *Data
	log  *log.Helper
}

// NewConsumptionRepo 创建日消耗记录 repo（返回 biz.ConsumptionRepo 接口）
func NewConsumptionRepo(data *Data, logger log.Logger) biz.ConsumptionRepo {
	return &consumptionRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// LastDate 获取用户在某领域最近一条记录的日期
func (r *consumptionRepo) LastDate(ctx context.Context, domain, userID string) (time.Time, bool, error) {
	table, ok := domainTables[domain]
	if !ok {
		return time.Time{}, false, fmt.Errorf("no table for domain %q", domain)
	}
	return lastDate(ctx, r.data.db, table, userID)
}

func lastDate(ctx context.Context, db *gorm.DB, table, userID string) (time.Time, bool, error) {
	var row struct {
		ConsumptionDate time.Time
	}
	if err := db.WithContext(ctx).
		Table(table).
		Select("consumption_date").
		Where("user_id = ?", userID).
		Order("consumption_date DESC").
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return biz.DateOf(row.ConsumptionDate), true, nil
}

// insertIfAbsent 记录已存在（唯一索引冲突）时不写入，返回 false
func insertIfAbsent(db *gorm.DB, value any) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(value)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// InsertElectricity 写入日用电记录
func (r *consumptionRepo) InsertElectricity(ctx context.Context, record *biz.ElectricityRecord) (bool, error) {
	m := &model.DailyElectricityConsumption{
		ID:                uuid.New().String(),
		UserID:            record.UserID,
		UtilityProviderID: record.ProviderID,
		ConsumptionDate:   biz.DateOf(record.ConsumptionDate),
		RawUnits:          record.RawKWh,
		RenewableUnits:    record.RenewableKWh,
		UnitsConsumed:     record.ConsumptionKWh,
		DailyBill:         record.Bill,
		PaymentStatus:     record.PaymentStatus,
	}
	inserted, err := insertIfAbsent(r.data.db.WithContext(ctx), m)
	if inserted {
		record.ID = m.ID
	}
	return inserted, err
}

// InsertWater 写入日用水记录
func (r *consumptionRepo) InsertWater(ctx context.Context, record *biz.WaterRecord) (bool, error) {
	m := &model.DailyWaterConsumption{
		ID:                uuid.New().String(),
		UserID:            record.UserID,
		UtilityProviderID: record.ProviderID,
		ConsumptionDate:   biz.DateOf(record.ConsumptionDate),
		LitersConsumed:    record.Liters,
		DailyBill:         record.Bill,
		PaymentStatus:     record.PaymentStatus,
	}
	inserted, err := insertIfAbsent(r.data.db.WithContext(ctx), m)
	if inserted {
		record.ID = m.ID
	}
	return inserted, err
}

// InsertGas 写入日燃气记录
func (r *consumptionRepo) InsertGas(ctx context.Context, record *biz.GasRecord) (bool, error) {
	m := &model.DailyGasConsumption{
		ID:                 uuid.New().String(),
		UserID:             record.UserID,
		UtilityProviderID:  record.ProviderID,
		ConsumptionDate:    biz.DateOf(record.ConsumptionDate),
		GasUsedCubicMeters: record.CubicMeters,
		GasCost:            record.Cost,
		HouseholdType:      record.HouseholdType,
		NumMembers:         record.NumMembers,
	}
	if record.BurnerType != "" {
		burner := record.BurnerType
		m.BurnerType = &burner
	}
	inserted, err := insertIfAbsent(r.data.db.WithContext(ctx), m)
	if inserted {
		record.ID = m.ID
	}
	return inserted, err
}

// InsertFuelDay 在一个事务内写入同一天所有车辆的记录
func (r *consumptionRepo) InsertFuelDay(ctx context.Context, records []*biz.FuelRecord) (int, error) {
	inserted := 0
	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted = 0
		for _, record := range records {
			m := &model.DailyFuelConsumption{
				ID:               uuid.New().String(),
				UserID:           record.UserID,
				UserVehicleID:    record.UserVehicleID,
				VehicleID:        record.VehicleID,
				ConsumptionDate:  biz.DateOf(record.ConsumptionDate),
				FuelType:         record.FuelType,
				DistanceKm:       record.DistanceKm,
				FuelUsedLiters:   record.FuelUsedLiters,
				FuelPrice:        record.FuelPrice,
				FuelCost:         record.FuelCost,
				DrivingCondition: record.DrivingCondition,
			}
			ok, err := insertIfAbsent(tx, m)
			if err != nil {
				return err
			}
			if ok {
				record.ID = m.ID
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// sumRow 单表合计结果
type sumRow struct {
	Total float64
	N     int
}

func (r *consumptionRepo) sum(ctx context.Context, table, column, userID string, date time.Time) (sumRow, error) {
	var row sumRow
	err := r.data.db.WithContext(ctx).
		Table(table).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0) AS total, COUNT(*) AS n", column)).
		Where("user_id = ? AND consumption_date = ?", userID, biz.DateOf(date)).
		Scan(&row).Error
	return row, err
}

// DailyTotals 汇总用户某天四个领域的用量
func (r *consumptionRepo) DailyTotals(ctx context.Context, userID string, date time.Time) (*biz.DailyTotals, error) {
	totals := &biz.DailyTotals{}
	for _, q := range []struct {
		table  string
		column string
		target *float64
	}{
		{model.DailyElectricityConsumption{}.TableName(), "units_consumed", &totals.ElectricityKWh},
		{model.DailyWaterConsumption{}.TableName(), "liters_consumed", &totals.WaterLiters},
		{model.DailyGasConsumption{}.TableName(), "gas_used_cubic_meters", &totals.GasCubicMeters},
		{model.DailyFuelConsumption{}.TableName(), "fuel_used_liters", &totals.FuelLiters},
	} {
		row, err := r.sum(ctx, q.table, q.column, userID, date)
		if err != nil {
			return nil, err
		}
		*q.target = row.Total
		totals.Rows += row.N
	}
	return totals, nil
}
