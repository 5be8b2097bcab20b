package data

import (
	"context"
	"errors"

	"household-ledger/internal/biz"
	"household-ledger/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// householdRepo 家庭数据只读访问
type householdRepo struct {
	data *Data
	log  *log.Helper
}

// NewHouseholdRepo 创建家庭数据 repo（返回 biz.HouseholdRepo 接口）
func NewHouseholdRepo(data *Data, logger log.Logger) biz.HouseholdRepo {
	return &householdRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// ListUserIDs 获取所有用户ID
func (r *householdRepo) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.data.db.WithContext(ctx).
		Model(&model.User{}).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetUser 获取用户
func (r *householdRepo) GetUser(ctx context.Context, userID string) (*biz.User, error) {
	var m model.User
	if err := r.data.db.WithContext(ctx).Where("id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &biz.User{
		ID:                    m.ID,
		ElectricityProviderID: deref(m.ElectricityProvider),
		WaterProviderID:       deref(m.WaterProvider),
		GasProviderID:         deref(m.GasProvider),
		GasType:               deref(m.GasType),
	}, nil
}

// GetHousing 获取住房信息
func (r *householdRepo) GetHousing(ctx context.Context, userID string) (*biz.Housing, error) {
	var m model.UserHousing
	if err := r.data.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &biz.Housing{
		UserID:         m.UserID,
		HouseSizeSqft:  m.HouseSizeSqft,
		NumMembers:     deref(m.NumMembers),
		SolarPanelWatt: deref(m.SolarPanelWatt),
		WindSourceWatt: deref(m.WindSourceWatt),
	}, nil
}

// GetProvider 获取服务商
func (r *householdRepo) GetProvider(ctx context.Context, providerID string) (*biz.UtilityProvider, error) {
	var m model.UtilityProvider
	if err := r.data.db.WithContext(ctx).Where("id = ?", providerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &biz.UtilityProvider{
		ID:             m.ID,
		UnitPrice:      m.UnitPrice,
		EmissionFactor: m.EmissionFactor,
	}, nil
}

// userVehicleRow 用户车辆与车型的关联查询结果
type userVehicleRow struct {
	ID                string
	UserID            string
	VehicleID         string
	CustomDailyKm     *float64
	VehicleType       string
	FuelType          string
	UrbanEfficiency   *float64
	HighwayEfficiency *float64
	DailyAverageKm    *float64
}

// ListVehicles 获取用户车辆（含电动车，由 biz 过滤）
func (r *householdRepo) ListVehicles(ctx context.Context, userID string) ([]*biz.UserVehicle, error) {
	var rows []userVehicleRow
	if err := r.data.db.WithContext(ctx).
		Table(model.UserVehicle{}.TableName()+" AS uv").
		Select("uv.id, uv.user_id, uv.vehicle_id, uv.custom_daily_km, v.vehicle_type, v.fuel_type, "+
			"v.urban_efficiency, v.highway_efficiency, v.daily_average_km").
		Joins("JOIN "+model.Vehicle{}.TableName()+" AS v ON uv.vehicle_id = v.id").
		Where("uv.user_id = ?", userID).
		Order("uv.id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	vehicles := make([]*biz.UserVehicle, 0, len(rows))
	for _, row := range rows {
		vehicles = append(vehicles, &biz.UserVehicle{
			ID:                row.ID,
			UserID:            row.UserID,
			VehicleID:         row.VehicleID,
			VehicleType:       row.VehicleType,
			FuelType:          row.FuelType,
			UrbanEfficiency:   deref(row.UrbanEfficiency),
			HighwayEfficiency: deref(row.HighwayEfficiency),
			DailyAverageKm:    deref(row.DailyAverageKm),
			CustomDailyKm:     deref(row.CustomDailyKm),
		})
	}
	return vehicles, nil
}

// deref 取指针值，nil 返回零值
func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
