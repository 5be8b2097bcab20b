package biz

import (
	"context"
	"time"
)

// ElectricityRecord 日用电记录
type ElectricityRecord struct {
	ID              string
	UserID          string
	ProviderID      string
	ConsumptionDate time.Time
	RawKWh          float64
	RenewableKWh    float64
	ConsumptionKWh  float64 // 扣除可再生能源后的计费电量
	Bill            float64
	PaymentStatus   string
}

// WaterRecord 日用水记录
type WaterRecord struct {
	ID              string
	UserID          string
	ProviderID      string
	ConsumptionDate time.Time
	Liters          float64
	Bill            float64
	PaymentStatus   string
}

// GasRecord 日燃气记录
type GasRecord struct {
	ID              string
	UserID          string
	ProviderID      string
	ConsumptionDate time.Time
	HouseholdType   string
	NumMembers      *int   // 仅计量用户
	BurnerType      string // 仅非计量用户
	CubicMeters     float64
	Cost            float64
}

// FuelRecord 日燃油记录（每辆车一行）
type FuelRecord struct {
	ID               string
	UserID           string
	UserVehicleID    string
	VehicleID        string
	ConsumptionDate  time.Time
	FuelType         string
	DistanceKm       float64
	FuelUsedLiters   float64
	FuelPrice        float64
	FuelCost         float64
	DrivingCondition string
}

// DailyTotals 用户某天四个领域的用量合计
type DailyTotals struct {
	ElectricityKWh float64
	WaterLiters    float64
	GasCubicMeters float64
	FuelLiters     float64
	Rows           int // 参与合计的记录数，0 表示当天没有任何记录
}

// ConsumptionRepo 日消耗记录数据层接口（定义在 biz 层）
// Insert 系列方法在记录已存在时返回 false 且不修改已有记录
type ConsumptionRepo interface {
	LastDate(ctx context.Context, domain, userID string) (time.Time, bool, error)
	InsertElectricity(ctx context.Context, record *ElectricityRecord) (bool, error)
	InsertWater(ctx context.Context, record *WaterRecord) (bool, error)
	InsertGas(ctx context.Context, record *GasRecord) (bool, error)
	// InsertFuelDay 在一个事务内写入同一用户同一天的所有车辆记录，返回新写入的行数
	InsertFuelDay(ctx context.Context, records []*FuelRecord) (int, error)
	DailyTotals(ctx context.Context, userID string, date time.Time) (*DailyTotals, error)
}
