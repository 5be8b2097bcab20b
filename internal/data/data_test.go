package data

import (
	"context"
	"fmt"
	"testing"
	"time"

	"household-ledger/internal/biz"
	"household-ledger/internal/conf"
	"household-ledger/internal/constants"
	"household-ledger/internal/data/model"

	"github.com/glebarez/sqlite"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestData 每个测试独立的内存 sqlite
func newTestData(t *testing.T) *Data {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	tables := append(model.Produced(),
		&model.User{}, &model.UserHousing{}, &model.UtilityProvider{},
		&model.Vehicle{}, &model.UserVehicle{})
	require.NoError(t, db.AutoMigrate(tables...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return &Data{db: db, conf: &conf.Data{}}
}

func seedHousehold(t *testing.T, d *Data) {
	t.Helper()
	require.NoError(t, d.db.Create(&model.User{
		ID:                  "u1",
		ElectricityProvider: ptr("pe"),
		GasProvider:         ptr("pg"),
		GasType:             ptr("metered"),
	}).Error)
	require.NoError(t, d.db.Create(&model.User{ID: "u2"}).Error)
	require.NoError(t, d.db.Create(&model.UserHousing{
		ID: "h1", UserID: "u1", HouseSizeSqft: 1400, NumMembers: ptr(3), SolarPanelWatt: ptr(500.0),
	}).Error)
	require.NoError(t, d.db.Create(&model.UtilityProvider{
		ID: "pe", UtilityType: "electricity", UnitPrice: 6.5, EmissionFactor: ptr(0.8),
	}).Error)
	require.NoError(t, d.db.Create(&model.UtilityProvider{ID: "pg", UtilityType: "gas", UnitPrice: 9.1}).Error)
	require.NoError(t, d.db.Create(&model.Vehicle{
		ID: "v1", VehicleType: "car", FuelType: "petrol",
		UrbanEfficiency: ptr(14.0), HighwayEfficiency: ptr(18.0), DailyAverageKm: ptr(30.0),
	}).Error)
	require.NoError(t, d.db.Create(&model.Vehicle{ID: "v2", VehicleType: "car", FuelType: "electric"}).Error)
	require.NoError(t, d.db.Create(&model.UserVehicle{ID: "uv1", UserID: "u1", VehicleID: "v1", CustomDailyKm: ptr(42.0)}).Error)
	require.NoError(t, d.db.Create(&model.UserVehicle{ID: "uv2", UserID: "u1", VehicleID: "v2"}).Error)
}

func TestHouseholdRepo(t *testing.T) {
	d := newTestData(t)
	seedHousehold(t, d)
	repo := NewHouseholdRepo(d, log.DefaultLogger)
	ctx := context.Background()

	ids, err := repo.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)

	user, err := repo.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "pe", user.ElectricityProviderID)
	assert.Equal(t, "", user.WaterProviderID)
	assert.Equal(t, "metered", user.GasType)

	missing, err := repo.GetUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	housing, err := repo.GetHousing(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, housing.NumMembers)
	assert.Equal(t, 500.0, housing.SolarPanelWatt)
	assert.Equal(t, 0.0, housing.WindSourceWatt)

	noHousing, err := repo.GetHousing(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, noHousing)

	provider, err := repo.GetProvider(ctx, "pg")
	require.NoError(t, err)
	assert.Equal(t, 9.1, provider.UnitPrice)
	assert.Nil(t, provider.EmissionFactor)
	assert.Equal(t, 1.0, provider.Factor())

	vehicles, err := repo.ListVehicles(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, "petrol", vehicles[0].FuelType)
	assert.Equal(t, 42.0, vehicles[0].CustomDailyKm)
	assert.Equal(t, 18.0, vehicles[0].HighwayEfficiency)
	assert.Equal(t, "electric", vehicles[1].FuelType)
	assert.Equal(t, 0.0, vehicles[1].UrbanEfficiency)
}

func TestConsumptionRepo_InsertIsIdempotent(t *testing.T) {
	d := newTestData(t)
	repo := NewConsumptionRepo(d, log.DefaultLogger)
	ctx := context.Background()

	record := &biz.ElectricityRecord{
		UserID: "u1", ProviderID: "pe", ConsumptionDate: day(2024, 7, 1),
		RawKWh: 12, RenewableKWh: 2, ConsumptionKWh: 10, Bill: 65, PaymentStatus: constants.PaymentStatusDue,
	}
	inserted, err := repo.InsertElectricity(ctx, record)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEmpty(t, record.ID)

	again := *record
	again.ID = ""
	again.Bill = 99
	inserted, err = repo.InsertElectricity(ctx, &again)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Empty(t, again.ID)

	var stored model.DailyElectricityConsumption
	require.NoError(t, d.db.Where("user_id = ?", "u1").Take(&stored).Error)
	assert.Equal(t, 65.0, stored.DailyBill)
	assert.Equal(t, "due", stored.PaymentStatus)
}

func TestConsumptionRepo_LastDate(t *testing.T) {
	d := newTestData(t)
	repo := NewConsumptionRepo(d, log.DefaultLogger)
	ctx := context.Background()

	_, ok, err := repo.LastDate(ctx, constants.DomainWater, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	for _, date := range []time.Time{day(2024, 7, 3), day(2024, 7, 1), day(2024, 7, 2)} {
		_, err := repo.InsertWater(ctx, &biz.WaterRecord{
			UserID: "u1", ProviderID: "pw", ConsumptionDate: date, Liters: 500, Bill: 10,
		})
		require.NoError(t, err)
	}

	last, ok, err := repo.LastDate(ctx, constants.DomainWater, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, last.Equal(day(2024, 7, 3)), "got %s", last)

	_, _, err = repo.LastDate(ctx, "steam", "u1")
	assert.Error(t, err)
}

func TestConsumptionRepo_InsertGas(t *testing.T) {
	d := newTestData(t)
	repo := NewConsumptionRepo(d, log.DefaultLogger)
	ctx := context.Background()

	_, err := repo.InsertGas(ctx, &biz.GasRecord{
		UserID: "u1", ProviderID: "pg", ConsumptionDate: day(2024, 7, 1),
		HouseholdType: "non_metered", BurnerType: "double", CubicMeters: 0.6, Cost: 5.46,
	})
	require.NoError(t, err)
	_, err = repo.InsertGas(ctx, &biz.GasRecord{
		UserID: "u2", ProviderID: "pg", ConsumptionDate: day(2024, 7, 1),
		HouseholdType: "metered", NumMembers: ptr(5), CubicMeters: 1.1, Cost: 10.01,
	})
	require.NoError(t, err)

	var rows []model.DailyGasConsumption
	require.NoError(t, d.db.Order("user_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].BurnerType)
	assert.Equal(t, "double", *rows[0].BurnerType)
	assert.Nil(t, rows[0].NumMembers)
	assert.Nil(t, rows[1].BurnerType)
	require.NotNil(t, rows[1].NumMembers)
	assert.Equal(t, 5, *rows[1].NumMembers)
}

func TestConsumptionRepo_InsertFuelDay(t *testing.T) {
	d := newTestData(t)
	repo := NewConsumptionRepo(d, log.DefaultLogger)
	ctx := context.Background()

	records := func() []*biz.FuelRecord {
		return []*biz.FuelRecord{
			{UserID: "u1", UserVehicleID: "uv1", VehicleID: "v1", ConsumptionDate: day(2024, 7, 1),
				FuelType: "petrol", DistanceKm: 30, FuelUsedLiters: 2, FuelPrice: 121, FuelCost: 242, DrivingCondition: "urban"},
			{UserID: "u1", UserVehicleID: "uv3", VehicleID: "v3", ConsumptionDate: day(2024, 7, 1),
				FuelType: "diesel", DistanceKm: 60, FuelUsedLiters: 4, FuelPrice: 105, FuelCost: 420, DrivingCondition: "highway"},
		}
	}

	n, err := repo.InsertFuelDay(ctx, records())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.InsertFuelDay(ctx, records())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var count int64
	require.NoError(t, d.db.Model(&model.DailyFuelConsumption{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestConsumptionRepo_DailyTotals(t *testing.T) {
	d := newTestData(t)
	repo := NewConsumptionRepo(d, log.DefaultLogger)
	ctx := context.Background()
	date := day(2024, 7, 1)

	totals, err := repo.DailyTotals(ctx, "u1", date)
	require.NoError(t, err)
	assert.Equal(t, 0, totals.Rows)

	_, err = repo.InsertElectricity(ctx, &biz.ElectricityRecord{UserID: "u1", ProviderID: "pe", ConsumptionDate: date, ConsumptionKWh: 8})
	require.NoError(t, err)
	_, err = repo.InsertWater(ctx, &biz.WaterRecord{UserID: "u1", ProviderID: "pw", ConsumptionDate: date, Liters: 600})
	require.NoError(t, err)
	_, err = repo.InsertFuelDay(ctx, []*biz.FuelRecord{
		{UserID: "u1", UserVehicleID: "uv1", VehicleID: "v1", ConsumptionDate: date, FuelUsedLiters: 2},
		{UserID: "u1", UserVehicleID: "uv3", VehicleID: "v3", ConsumptionDate: date, FuelUsedLiters: 3.5},
	})
	require.NoError(t, err)
	// 其他日期与其他用户不计入
	_, err = repo.InsertElectricity(ctx, &biz.ElectricityRecord{UserID: "u1", ProviderID: "pe", ConsumptionDate: day(2024, 7, 2), ConsumptionKWh: 100})
	require.NoError(t, err)
	_, err = repo.InsertElectricity(ctx, &biz.ElectricityRecord{UserID: "u2", ProviderID: "pe", ConsumptionDate: date, ConsumptionKWh: 100})
	require.NoError(t, err)

	totals, err = repo.DailyTotals(ctx, "u1", date)
	require.NoError(t, err)
	assert.Equal(t, 8.0, totals.ElectricityKWh)
	assert.Equal(t, 600.0, totals.WaterLiters)
	assert.Equal(t, 0.0, totals.GasCubicMeters)
	assert.InDelta(t, 5.5, totals.FuelLiters, 1e-9)
	assert.Equal(t, 4, totals.Rows)
}

func TestFootprintRepo(t *testing.T) {
	d := newTestData(t)
	repo := NewFootprintRepo(d, log.DefaultLogger)
	ctx := context.Background()

	record := &biz.FootprintRecord{
		UserID: "u1", ConsumptionDate: day(2024, 7, 1),
		ElectricityKg: 6.2, WaterKg: 7.2, TotalKg: 13.4, Tag: "Moderate", Suggestion: "ok",
	}
	inserted, err := repo.Insert(ctx, record)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(ctx, &biz.FootprintRecord{UserID: "u1", ConsumptionDate: day(2024, 7, 1), TotalKg: 1, Tag: "Good"})
	require.NoError(t, err)
	assert.False(t, inserted)

	last, ok, err := repo.LastDate(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, last.Equal(day(2024, 7, 1)))
}

func TestSafeLimitRepo_Upsert(t *testing.T) {
	d := newTestData(t)
	repo := NewSafeLimitRepo(d, log.DefaultLogger)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &biz.SafeLimitRecord{UserID: "u1", Electricity: 55, Gas: 40, Fuel: 100, Water: 14, Total: 209}))
	require.NoError(t, repo.Upsert(ctx, &biz.SafeLimitRecord{UserID: "u1", Electricity: 220, Gas: 80, Fuel: 200, Water: 28, Total: 528}))

	var rows []model.SafeLimit
	require.NoError(t, d.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 220.0, rows[0].ElectricitySafeLimit)
	assert.Equal(t, 528.0, rows[0].TotalSafeLimit)
}

func TestSweepLocker_LocalFallback(t *testing.T) {
	d := newTestData(t)
	locker := NewSweepLocker(d, &conf.Bootstrap{}, log.DefaultLogger)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "ledger:sweep:electricity")
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "ledger:sweep:electricity")
	assert.Error(t, err)

	other, err := locker.Lock(ctx, "ledger:sweep:water")
	require.NoError(t, err)
	other()

	unlock()
	unlock()

	again, err := locker.Lock(ctx, "ledger:sweep:electricity")
	require.NoError(t, err)
	again()
}

func TestFootprintPublisher_DisabledIsNoop(t *testing.T) {
	d := newTestData(t)
	publisher := NewFootprintPublisher(d, log.DefaultLogger)
	err := publisher.Publish(context.Background(), &biz.FootprintRecord{UserID: "u1", ConsumptionDate: day(2024, 7, 1)})
	assert.NoError(t, err)
}
