package model

import (
	"time"
)

// DailyCarbonFootprint 日碳足迹表
type DailyCarbonFootprint struct {
	ID                    string    `gorm:"primaryKey;type:varchar(36)"`
	UserID                string    `gorm:"type:varchar(36);not null;uniqueIndex:uk_footprint_user_date,priority:1"`
	ConsumptionDate       time.Time `gorm:"type:date;not null;uniqueIndex:uk_footprint_user_date,priority:2"`
	ElectricityEmissionKg float64   `gorm:"default:0"`
	FuelEmissionKg        float64   `gorm:"default:0"`
	GasEmissionKg         float64   `gorm:"default:0"`
	WaterEmissionKg       float64   `gorm:"default:0"`
	TotalEmissionKg       float64   `gorm:"not null"`
	EmissionTag           string    `gorm:"type:varchar(16);not null"` // Good/Moderate/High
	Suggestions           string    `gorm:"type:varchar(255)"`
	CreatedAt             time.Time `gorm:"autoCreateTime"`
}

// TableName 指定表名
func (DailyCarbonFootprint) TableName() string {
	return "daily_carbon_footprint"
}

// SafeLimit 安全限额表（每个用户一行）
type SafeLimit struct {
	ID                   string    `gorm:"primaryKey;type:varchar(36)"`
	UserID               string    `gorm:"type:varchar(36);not null;uniqueIndex:uk_safe_limit_user"`
	ElectricitySafeLimit float64   `gorm:"not null"`
	GasSafeLimit         float64   `gorm:"not null"`
	FuelSafeLimit        float64   `gorm:"not null"`
	WaterSafeLimit       float64   `gorm:"not null"`
	TotalSafeLimit       float64   `gorm:"not null"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (SafeLimit) TableName() string {
	return "safe_limits"
}

// Produced 本服务写入的表，用于 AutoMigrate
func Produced() []any {
	return []any{
		&DailyElectricityConsumption{},
		&DailyWaterConsumption{},
		&DailyGasConsumption{},
		&DailyFuelConsumption{},
		&DailyCarbonFootprint{},
		&SafeLimit{},
	}
}
