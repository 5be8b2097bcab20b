package data

import (
	"context"
	"time"

	"household-ledger/internal/biz"
	"household-ledger/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// footprintRepo 碳足迹数据访问
type footprintRepo struct {
	data *Data
	log  *log.Helper
}

// NewFootprintRepo 创建碳足迹 repo（返回 biz.FootprintRepo 接口）
func NewFootprintRepo(data *Data, logger log.Logger) biz.FootprintRepo {
	return &footprintRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// LastDate 获取用户最近一条碳足迹的日期
func (r *footprintRepo) LastDate(ctx context.Context, userID string) (time.Time, bool, error) {
	return lastDate(ctx, r.data.db, model.DailyCarbonFootprint{}.TableName(), userID)
}

// Insert 写入日碳足迹，已存在时返回 false
func (r *footprintRepo) Insert(ctx context.Context, record *biz.FootprintRecord) (bool, error) {
	m := &model.DailyCarbonFootprint{
		ID:                    uuid.New().String(),
		UserID:                record.UserID,
		ConsumptionDate:       biz.DateOf(record.ConsumptionDate),
		ElectricityEmissionKg: record.ElectricityKg,
		FuelEmissionKg:        record.FuelKg,
		GasEmissionKg:         record.GasKg,
		WaterEmissionKg:       record.WaterKg,
		TotalEmissionKg:       record.TotalKg,
		EmissionTag:           record.Tag,
		Suggestions:           record.Suggestion,
	}
	inserted, err := insertIfAbsent(r.data.db.WithContext(ctx), m)
	if inserted {
		record.ID = m.ID
	}
	return inserted, err
}

// safeLimitRepo 安全限额数据访问
type safeLimitRepo struct {
	data *Data
	log  *log.Helper
}

// NewSafeLimitRepo 创建安全限额 repo（返回 biz.SafeLimitRepo 接口）
func NewSafeLimitRepo(data *Data, logger log.Logger) biz.SafeLimitRepo {
	return &safeLimitRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// Upsert 按 user_id 插入或更新
func (r *safeLimitRepo) Upsert(ctx context.Context, record *biz.SafeLimitRecord) error {
	m := &model.SafeLimit{
		ID:                   uuid.New().String(),
		UserID:               record.UserID,
		ElectricitySafeLimit: record.Electricity,
		GasSafeLimit:         record.Gas,
		FuelSafeLimit:        record.Fuel,
		WaterSafeLimit:       record.Water,
		TotalSafeLimit:       record.Total,
	}
	return r.data.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"electricity_safe_limit",
				"gas_safe_limit",
				"fuel_safe_limit",
				"water_safe_limit",
				"total_safe_limit",
				"updated_at",
			}),
		}).
		Create(m).Error
}
