package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"household-ledger/internal/constants"
	ledgerErrors "household-ledger/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowStart(t *testing.T) {
	today := day(2024, 7, 15)
	tests := []struct {
		domain string
		want   time.Time
	}{
		{constants.DomainElectricity, day(2024, 1, 1)},
		{constants.DomainFuel, day(2024, 1, 1)},
		{constants.DomainCarbon, day(2024, 1, 1)},
		{constants.DomainGas, day(2024, 4, 30)},
		{constants.DomainWater, day(2024, 4, 17)},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowStart(tt.domain, today))
		})
	}
}

func TestWindowStartIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, day(2023, 9, 1), WindowStart(constants.DomainElectricity, late))
}

func TestSweepFillsGapSinceLastDate(t *testing.T) {
	today := day(2024, 7, 15)
	f := newFixture(today)
	f.household.addHousehold("u1")
	last := today.AddDate(0, 0, -5)
	f.records.seed(constants.DomainElectricity, "u1", last)

	report, err := f.backfill.Sweep(context.Background(), constants.DomainElectricity)
	require.NoError(t, err)

	assert.Equal(t, 5, report.DaysInserted)
	assert.Zero(t, report.DaysDuplicate)
	require.Len(t, f.records.electricity, 5)
	for i, r := range f.records.electricity {
		assert.Equal(t, last.AddDate(0, 0, i+1), r.ConsumptionDate)
		assert.GreaterOrEqual(t, r.ConsumptionKWh, 5.0)
		assert.Equal(t, "pe", r.ProviderID)
		assert.Equal(t, constants.PaymentStatusDue, r.PaymentStatus)
		assert.Greater(t, r.Bill, 0.0)
	}
	assert.Equal(t, []string{constants.RedisKeySweepLock + constants.DomainElectricity}, f.locker.locked)
}

func TestSweepIsIdempotent(t *testing.T) {
	today := day(2024, 7, 15)
	f := newFixture(today)
	f.household.addHousehold("u1")
	f.records.seed(constants.DomainWater, "u1", today.AddDate(0, 0, -3))

	first, err := f.backfill.Sweep(context.Background(), constants.DomainWater)
	require.NoError(t, err)
	assert.Equal(t, 3, first.DaysInserted)

	second, err := f.backfill.Sweep(context.Background(), constants.DomainWater)
	require.NoError(t, err)
	assert.Equal(t, 1, second.UsersCurrent)
	assert.Zero(t, second.DaysInserted)
	assert.Len(t, f.records.water, 3)
}

func TestSweepUsesWindowWhenNoHistory(t *testing.T) {
	today := day(2024, 7, 15)
	f := newFixture(today)
	f.household.addHousehold("u1")

	report, err := f.backfill.Sweep(context.Background(), constants.DomainGas)
	require.NoError(t, err)

	// 2024-04-30 through 2024-07-15 inclusive
	assert.Equal(t, 77, report.DaysInserted)
	dates := f.records.dates(constants.DomainGas, "u1")
	assert.Contains(t, dates, day(2024, 4, 30))
	assert.Contains(t, dates, today)
	assert.NotContains(t, dates, day(2024, 4, 29))
}

func TestSweepCountsExistingDaysAsDuplicates(t *testing.T) {
	today := day(2024, 7, 15)
	f := newFixture(today)
	f.household.addHousehold("u1")
	f.records.seed(constants.DomainElectricity, "u1", day(2024, 7, 10))
	// another writer filled 7/13 after the last date was read
	f.records.seed(constants.DomainElectricity, "u1", day(2024, 7, 13))
	f.records.staleLast = map[string]time.Time{constants.DomainElectricity + "/u1": day(2024, 7, 10)}

	report, err := f.backfill.Sweep(context.Background(), constants.DomainElectricity)
	require.NoError(t, err)

	assert.Equal(t, 4, report.DaysInserted)
	assert.Equal(t, 1, report.DaysDuplicate)
	for _, r := range f.records.electricity {
		assert.NotEqual(t, day(2024, 7, 13), r.ConsumptionDate)
	}
}

func TestSweepSkipsUsersWithMissingData(t *testing.T) {
	today := day(2024, 7, 15)
	f := newFixture(today)
	f.household.addHousehold("u1")
	f.household.addHousehold("u2")
	delete(f.household.housing, "u2")
	f.household.users["u3"] = &User{ID: "u3", ElectricityProviderID: "missing"}
	f.household.housing["u3"] = &Housing{UserID: "u3", HouseSizeSqft: 800}
	for _, u := range []string{"u1", "u2", "u3"} {
		f.records.seed(constants.DomainElectricity, u, today.AddDate(0, 0, -1))
	}

	report, err := f.backfill.Sweep(context.Background(), constants.DomainElectricity)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Users)
	assert.Equal(t, 2, report.UsersSkipped)
	assert.Equal(t, 1, report.DaysInserted)
	assert.Len(t, f.records.dates(constants.DomainElectricity, "u2"), 1)
}

func TestSweepAbandonsUserOnPersistenceFault(t *testing.T) {
	today := day(2024, 7, 15)
	f := newFixture(today)
	f.household.addHousehold("u1")
	f.household.addHousehold("u2")
	f.records.seed(constants.DomainWater, "u1", day(2024, 7, 9))
	f.records.seed(constants.DomainWater, "u2", day(2024, 7, 9))
	f.records.failFrom[constants.DomainWater+"/u1"] = day(2024, 7, 12)

	report, err := f.backfill.Sweep(context.Background(), constants.DomainWater)
	require.NoError(t, err)

	assert.Equal(t, 1, report.UsersFailed)
	assert.Equal(t, 1, report.DaysFailed)
	assert.Equal(t, 2+6, report.DaysInserted)

	u1 := f.records.dates(constants.DomainWater, "u1")
	assert.Contains(t, u1, day(2024, 7, 11))
	assert.NotContains(t, u1, day(2024, 7, 12))
	assert.NotContains(t, u1, day(2024, 7, 13))
	assert.Len(t, f.records.dates(constants.DomainWater, "u2"), 7)
}

func TestSweepAbortsWhenUsersCannotBeListed(t *testing.T) {
	f := newFixture(day(2024, 7, 15))
	f.household.listErr = errors.New("connection refused")

	_, err := f.backfill.Sweep(context.Background(), constants.DomainFuel)
	require.Error(t, err)
	assert.True(t, ledgerErrors.IsUserEnumeration(err))

	_, err = f.backfill.SweepAll(context.Background())
	assert.True(t, ledgerErrors.IsUserEnumeration(err))
}

func TestSweepRejectsUnknownDomain(t *testing.T) {
	f := newFixture(day(2024, 7, 15))
	_, err := f.backfill.Sweep(context.Background(), "solar")
	require.Error(t, err)
	assert.Equal(t, ledgerErrors.ErrCodeUnknownDomain, ledgerErrors.Code(err))
	assert.Empty(t, f.locker.locked)
}

func TestSweepFailsWhenLocked(t *testing.T) {
	f := newFixture(day(2024, 7, 15))
	f.household.addHousehold("u1")
	f.locker.err = errors.New("lock already taken")

	_, err := f.backfill.Sweep(context.Background(), constants.DomainElectricity)
	require.Error(t, err)
	assert.Equal(t, ledgerErrors.ErrCodeSweepLockFailed, ledgerErrors.Code(err))
	assert.Empty(t, f.records.electricity)

	// a locked domain does not fail the full run
	reports, err := f.backfill.SweepAll(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, reports)
}

func TestSweepAllRunsDomainsInOrder(t *testing.T) {
	today := day(2024, 7, 15)
	f := newFixture(today)
	f.household.addHousehold("u1")
	f.household.vehicles["u1"] = []*UserVehicle{{ID: "uv1", VehicleID: "v1", VehicleType: "car", FuelType: "petrol"}}
	for _, d := range []string{constants.DomainElectricity, constants.DomainWater, constants.DomainGas, constants.DomainFuel} {
		f.records.seed(d, "u1", today.AddDate(0, 0, -2))
	}
	f.footprints.records["u1/2024-07-13"] = &FootprintRecord{UserID: "u1", ConsumptionDate: today.AddDate(0, 0, -2)}

	reports, err := f.backfill.SweepAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 6)

	var domains []string
	for _, r := range reports {
		domains = append(domains, r.Domain)
	}
	assert.Equal(t, append(append([]string{}, constants.SweepOrder...), constants.DomainSafeLimits), domains)

	carbon := reports[4]
	assert.Equal(t, 2, carbon.DaysInserted)
	assert.Len(t, f.publisher.published, 2)
	assert.Contains(t, f.safeLimits.rows, "u1")
}

func TestSweepAllHoldsCarbonUntilResourcesCatchUp(t *testing.T) {
	today := day(2024, 7, 15)
	f := newFixture(today)
	f.household.addHousehold("u1")
	f.household.vehicles["u1"] = []*UserVehicle{{ID: "uv1", VehicleID: "v1", VehicleType: "car", FuelType: "petrol"}}
	for _, d := range []string{constants.DomainElectricity, constants.DomainWater, constants.DomainGas, constants.DomainFuel} {
		f.records.seed(d, "u1", day(2024, 7, 9))
	}
	f.footprints.records["u1/2024-07-09"] = &FootprintRecord{UserID: "u1", ConsumptionDate: day(2024, 7, 9)}
	f.records.failFrom[constants.DomainElectricity+"/u1"] = day(2024, 7, 12)

	_, err := f.backfill.SweepAll(context.Background())
	require.NoError(t, err)

	assert.Contains(t, f.footprints.records, "u1/2024-07-10")
	assert.Contains(t, f.footprints.records, "u1/2024-07-11")
	assert.NotContains(t, f.footprints.records, "u1/2024-07-12")
	assert.NotContains(t, f.footprints.records, "u1/2024-07-15")

	delete(f.records.failFrom, constants.DomainElectricity+"/u1")
	_, err = f.backfill.SweepAll(context.Background())
	require.NoError(t, err)

	for _, date := range []string{"2024-07-12", "2024-07-13", "2024-07-14", "2024-07-15"} {
		fp, ok := f.footprints.records["u1/"+date]
		require.True(t, ok, date)
		assert.Greater(t, fp.ElectricityKg, 0.0, date)
	}
}

func TestSweepCarbonSkipsUserWithEmptyLinkedDomain(t *testing.T) {
	today := day(2024, 7, 15)
	f := newFixture(today)
	f.household.addHousehold("u1")
	f.records.seed(constants.DomainElectricity, "u1", day(2024, 7, 13))
	f.records.seed(constants.DomainGas, "u1", day(2024, 7, 14))

	report, err := f.backfill.Sweep(context.Background(), constants.DomainCarbon)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UsersSkipped)
	assert.Zero(t, report.DaysInserted)
	assert.Empty(t, f.footprints.records)

	// fuel is not linked (no vehicles), so the earliest linked domain bounds carbon
	_, err = f.backfill.Sweep(context.Background(), constants.DomainWater)
	require.NoError(t, err)
	f.footprints.records["u1/2024-07-12"] = &FootprintRecord{UserID: "u1", ConsumptionDate: day(2024, 7, 12)}
	report, err = f.backfill.Sweep(context.Background(), constants.DomainCarbon)
	require.NoError(t, err)
	assert.Zero(t, report.UsersSkipped)
	assert.Contains(t, f.footprints.records, "u1/2024-07-13")
	assert.NotContains(t, f.footprints.records, "u1/2024-07-14")
}
