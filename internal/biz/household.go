package biz

import (
	"context"

	"household-ledger/internal/constants"
	"household-ledger/internal/simulation"
)

// User 用户领域对象（只读，由外部系统维护）
type User struct {
	ID                    string
	ElectricityProviderID string
	WaterProviderID       string
	GasProviderID         string
	GasType               string // metered / non_metered，空表示计量
}

// Housing 住房领域对象
type Housing struct {
	UserID         string
	HouseSizeSqft  float64
	NumMembers     int // 0 表示未填写
	SolarPanelWatt float64
	WindSourceWatt float64
}

// Members 家庭人数，未填写时默认 4 人
func (h *Housing) Members() int {
	if h == nil || h.NumMembers < 1 {
		return constants.DefaultNumMembers
	}
	return h.NumMembers
}

// Simulated 转换为模拟器使用的家庭参数
func (h *Housing) Simulated() simulation.Household {
	return simulation.Household{
		HouseSizeSqft:  h.HouseSizeSqft,
		NumMembers:     h.Members(),
		SolarPanelWatt: h.SolarPanelWatt,
		WindSourceWatt: h.WindSourceWatt,
	}
}

// UtilityProvider 公用事业服务商
type UtilityProvider struct {
	ID             string
	UnitPrice      float64
	EmissionFactor *float64 // nil 表示未设置
}

// Factor 排放系数，未设置时为 1.0
func (p *UtilityProvider) Factor() float64 {
	if p == nil || p.EmissionFactor == nil {
		return 1
	}
	return *p.EmissionFactor
}

// UserVehicle 用户车辆（已关联车型信息）
type UserVehicle struct {
	ID                string
	UserID            string
	VehicleID         string
	VehicleType       string
	FuelType          string
	UrbanEfficiency   float64
	HighwayEfficiency float64
	DailyAverageKm    float64
	CustomDailyKm     float64
}

// Simulated 转换为模拟器使用的车辆参数
func (v *UserVehicle) Simulated() simulation.Vehicle {
	return simulation.Vehicle{
		ID:                v.ID,
		VehicleID:         v.VehicleID,
		VehicleType:       v.VehicleType,
		FuelType:          v.FuelType,
		UrbanEfficiency:   v.UrbanEfficiency,
		HighwayEfficiency: v.HighwayEfficiency,
		DailyAverageKm:    v.DailyAverageKm,
		CustomDailyKm:     v.CustomDailyKm,
	}
}

// HouseholdRepo 家庭数据层接口（定义在 biz 层）
// 查询不到记录时返回 nil, nil
type HouseholdRepo interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	GetHousing(ctx context.Context, userID string) (*Housing, error)
	GetProvider(ctx context.Context, providerID string) (*UtilityProvider, error)
	ListVehicles(ctx context.Context, userID string) ([]*UserVehicle, error)
}
