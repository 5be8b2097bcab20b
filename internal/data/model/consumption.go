package model

import (
	"time"
)

// DailyElectricityConsumption 日用电表
type DailyElectricityConsumption struct {
	ID                string    `gorm:"primaryKey;type:varchar(36)"`
	UserID            string    `gorm:"type:varchar(36);not null;uniqueIndex:uk_electricity_user_date,priority:1"`
	UtilityProviderID string    `gorm:"type:varchar(36);not null"`
	ConsumptionDate   time.Time `gorm:"type:date;not null;uniqueIndex:uk_electricity_user_date,priority:2"`
	RawUnits          float64   `gorm:"default:0"`
	RenewableUnits    float64   `gorm:"default:0"`
	UnitsConsumed     float64   `gorm:"not null"` // 计费电量 kWh
	DailyBill         float64   `gorm:"not null"`
	PaymentStatus     string    `gorm:"type:varchar(16);default:'due'"` // due/paid
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

// TableName 指定表名
func (DailyElectricityConsumption) TableName() string {
	return "daily_electricity_consumption"
}

// DailyWaterConsumption 日用水表
type DailyWaterConsumption struct {
	ID                string    `gorm:"primaryKey;type:varchar(36)"`
	UserID            string    `gorm:"type:varchar(36);not null;uniqueIndex:uk_water_user_date,priority:1"`
	UtilityProviderID string    `gorm:"type:varchar(36);not null"`
	ConsumptionDate   time.Time `gorm:"type:date;not null;uniqueIndex:uk_water_user_date,priority:2"`
	LitersConsumed    float64   `gorm:"not null"`
	DailyBill         float64   `gorm:"not null"`
	PaymentStatus     string    `gorm:"type:varchar(16);default:'due'"` // due/paid
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

// TableName 指定表名
func (DailyWaterConsumption) TableName() string {
	return "daily_water_consumption"
}

// DailyGasConsumption 日燃气表
type DailyGasConsumption struct {
	ID                 string    `gorm:"primaryKey;type:varchar(36)"`
	UserID             string    `gorm:"type:varchar(36);not null;uniqueIndex:uk_gas_user_date,priority:1"`
	UtilityProviderID  string    `gorm:"type:varchar(36);not null"`
	ConsumptionDate    time.Time `gorm:"type:date;not null;uniqueIndex:uk_gas_user_date,priority:2"`
	GasUsedCubicMeters float64   `gorm:"not null"`
	GasCost            float64   `gorm:"not null"`
	HouseholdType      string    `gorm:"type:varchar(16);not null"` // metered/non_metered
	BurnerType         *string   `gorm:"type:varchar(16)"`          // 仅非计量用户
	NumMembers         *int      `gorm:"column:num_members"`        // 仅计量用户
	CreatedAt          time.Time `gorm:"autoCreateTime"`
}

// TableName 指定表名
func (DailyGasConsumption) TableName() string {
	return "daily_gas_consumption"
}

// DailyFuelConsumption 日燃油表（每辆车一行）
type DailyFuelConsumption struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)"`
	UserID           string    `gorm:"type:varchar(36);not null;uniqueIndex:uk_fuel_user_vehicle_date,priority:1"`
	UserVehicleID    string    `gorm:"type:varchar(36);not null;uniqueIndex:uk_fuel_user_vehicle_date,priority:2"`
	VehicleID        string    `gorm:"type:varchar(36);not null"`
	ConsumptionDate  time.Time `gorm:"type:date;not null;uniqueIndex:uk_fuel_user_vehicle_date,priority:3"`
	FuelType         string    `gorm:"type:varchar(16)"`
	DistanceKm       float64   `gorm:"not null"`
	FuelUsedLiters   float64   `gorm:"not null"`
	FuelPrice        float64   `gorm:"not null"`
	FuelCost         float64   `gorm:"not null"`
	DrivingCondition string    `gorm:"type:varchar(16)"` // urban/highway
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

// TableName 指定表名
func (DailyFuelConsumption) TableName() string {
	return "daily_fuel_consumption"
}
