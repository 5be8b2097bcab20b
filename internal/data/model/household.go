package model

// 以下表由外部系统维护，本服务只读

// User 用户表
type User struct {
	ID                  string  `gorm:"primaryKey;type:varchar(36)"`
	ElectricityProvider *string `gorm:"column:electricity_provider;type:varchar(36)"`
	WaterProvider       *string `gorm:"column:water_provider;type:varchar(36)"`
	GasProvider         *string `gorm:"column:gas_provider;type:varchar(36)"`
	GasType             *string `gorm:"type:varchar(16)"` // metered/non_metered
}

// TableName 指定表名
func (User) TableName() string {
	return "user"
}

// UserHousing 住房信息表
type UserHousing struct {
	ID             string   `gorm:"primaryKey;type:varchar(36)"`
	UserID         string   `gorm:"type:varchar(36);not null;uniqueIndex:uk_housing_user"`
	HouseSizeSqft  float64  `gorm:"not null"`
	NumMembers     *int     `gorm:"column:num_members"`
	SolarPanelWatt *float64 `gorm:"column:solar_panel_watt"`
	WindSourceWatt *float64 `gorm:"column:wind_source_watt"`
}

// TableName 指定表名
func (UserHousing) TableName() string {
	return "user_housing"
}

// UtilityProvider 公用事业服务商表
type UtilityProvider struct {
	ID             string   `gorm:"primaryKey;type:varchar(36)"`
	Name           string   `gorm:"type:varchar(128)"`
	UtilityType    string   `gorm:"type:varchar(16)"` // electricity/water/gas
	Region         string   `gorm:"type:varchar(64)"`
	UnitPrice      float64  `gorm:"not null"`
	EmissionFactor *float64 `gorm:"column:emission_factor"` // NULL 视为 1.0
}

// TableName 指定表名
func (UtilityProvider) TableName() string {
	return "utility_providers"
}

// Vehicle 车型表
type Vehicle struct {
	ID                string   `gorm:"primaryKey;type:varchar(36)"`
	ModelName         string   `gorm:"type:varchar(128)"`
	VehicleType       string   `gorm:"type:varchar(32)"`
	FuelType          string   `gorm:"type:varchar(16)"`
	UrbanEfficiency   *float64 `gorm:"column:urban_efficiency"`   // km/L
	HighwayEfficiency *float64 `gorm:"column:highway_efficiency"` // km/L
	DailyAverageKm    *float64 `gorm:"column:daily_average_km"`
}

// TableName 指定表名
func (Vehicle) TableName() string {
	return "vehicles"
}

// UserVehicle 用户车辆表
type UserVehicle struct {
	ID            string   `gorm:"primaryKey;type:varchar(36)"`
	UserID        string   `gorm:"type:varchar(36);not null;index:idx_user_vehicles_user"`
	VehicleID     string   `gorm:"type:varchar(36);not null"`
	CustomDailyKm *float64 `gorm:"column:custom_daily_km"`
}

// TableName 指定表名
func (UserVehicle) TableName() string {
	return "user_vehicles"
}
