package biz

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"household-ledger/internal/conf"
	"household-ledger/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
)

func testRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

type fakeHouseholdRepo struct {
	users     map[string]*User
	housing   map[string]*Housing
	providers map[string]*UtilityProvider
	vehicles  map[string][]*UserVehicle
	listErr   error
}

func newFakeHousehold() *fakeHouseholdRepo {
	return &fakeHouseholdRepo{
		users:     map[string]*User{},
		housing:   map[string]*Housing{},
		providers: map[string]*UtilityProvider{},
		vehicles:  map[string][]*UserVehicle{},
	}
}

// addHousehold registers a complete medium household with providers for
// every utility.
func (f *fakeHouseholdRepo) addHousehold(userID string) {
	f.users[userID] = &User{ID: userID, ElectricityProviderID: "pe", WaterProviderID: "pw", GasProviderID: "pg"}
	f.housing[userID] = &Housing{UserID: userID, HouseSizeSqft: 1200, NumMembers: 3}
	f.providers["pe"] = &UtilityProvider{ID: "pe", UnitPrice: 5}
	f.providers["pw"] = &UtilityProvider{ID: "pw", UnitPrice: 20}
	f.providers["pg"] = &UtilityProvider{ID: "pg", UnitPrice: 9.1}
}

func (f *fakeHouseholdRepo) ListUserIDs(context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]string, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeHouseholdRepo) GetUser(_ context.Context, userID string) (*User, error) {
	return f.users[userID], nil
}

func (f *fakeHouseholdRepo) GetHousing(_ context.Context, userID string) (*Housing, error) {
	return f.housing[userID], nil
}

func (f *fakeHouseholdRepo) GetProvider(_ context.Context, providerID string) (*UtilityProvider, error) {
	return f.providers[providerID], nil
}

func (f *fakeHouseholdRepo) ListVehicles(_ context.Context, userID string) ([]*UserVehicle, error) {
	return f.vehicles[userID], nil
}

var errStorageDown = errors.New("storage down")

type fakeConsumptionRepo struct {
	mu          sync.Mutex
	days        map[string]map[time.Time]int // domain/user -> date -> rows
	electricity []*ElectricityRecord
	water       []*WaterRecord
	gas         []*GasRecord
	fuel        []*FuelRecord
	failFrom    map[string]time.Time // domain/user -> first failing date
	staleLast   map[string]time.Time // domain/user -> LastDate override
}

func newFakeConsumption() *fakeConsumptionRepo {
	return &fakeConsumptionRepo{days: map[string]map[time.Time]int{}, failFrom: map[string]time.Time{}}
}

func (f *fakeConsumptionRepo) seed(domain, userID string, date time.Time) {
	f.insert(domain, userID, date, 1)
}

func (f *fakeConsumptionRepo) dates(domain, userID string) map[time.Time]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.days[domain+"/"+userID]
}

func (f *fakeConsumptionRepo) insert(domain, userID string, date time.Time, rows int) (bool, error) {
	key := domain + "/" + userID
	if from, ok := f.failFrom[key]; ok && !date.Before(from) {
		return false, errStorageDown
	}
	if f.days[key] == nil {
		f.days[key] = map[time.Time]int{}
	}
	if _, ok := f.days[key][date]; ok {
		return false, nil
	}
	f.days[key][date] = rows
	return true, nil
}

func (f *fakeConsumptionRepo) LastDate(_ context.Context, domain, userID string) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stale, ok := f.staleLast[domain+"/"+userID]; ok {
		return stale, true, nil
	}
	var last time.Time
	for d := range f.days[domain+"/"+userID] {
		if d.After(last) {
			last = d
		}
	}
	return last, !last.IsZero(), nil
}

func (f *fakeConsumptionRepo) InsertElectricity(_ context.Context, r *ElectricityRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok, err := f.insert(constants.DomainElectricity, r.UserID, r.ConsumptionDate, 1)
	if ok {
		f.electricity = append(f.electricity, r)
	}
	return ok, err
}

func (f *fakeConsumptionRepo) InsertWater(_ context.Context, r *WaterRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok, err := f.insert(constants.DomainWater, r.UserID, r.ConsumptionDate, 1)
	if ok {
		f.water = append(f.water, r)
	}
	return ok, err
}

func (f *fakeConsumptionRepo) InsertGas(_ context.Context, r *GasRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok, err := f.insert(constants.DomainGas, r.UserID, r.ConsumptionDate, 1)
	if ok {
		f.gas = append(f.gas, r)
	}
	return ok, err
}

func (f *fakeConsumptionRepo) InsertFuelDay(_ context.Context, rs []*FuelRecord) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok, err := f.insert(constants.DomainFuel, rs[0].UserID, rs[0].ConsumptionDate, len(rs))
	if !ok {
		return 0, err
	}
	f.fuel = append(f.fuel, rs...)
	return len(rs), nil
}

func (f *fakeConsumptionRepo) DailyTotals(_ context.Context, userID string, date time.Time) (*DailyTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &DailyTotals{}
	for _, r := range f.electricity {
		if r.UserID == userID && r.ConsumptionDate.Equal(date) {
			t.ElectricityKWh += r.ConsumptionKWh
			t.Rows++
		}
	}
	for _, r := range f.water {
		if r.UserID == userID && r.ConsumptionDate.Equal(date) {
			t.WaterLiters += r.Liters
			t.Rows++
		}
	}
	for _, r := range f.gas {
		if r.UserID == userID && r.ConsumptionDate.Equal(date) {
			t.GasCubicMeters += r.CubicMeters
			t.Rows++
		}
	}
	for _, r := range f.fuel {
		if r.UserID == userID && r.ConsumptionDate.Equal(date) {
			t.FuelLiters += r.FuelUsedLiters
			t.Rows++
		}
	}
	return t, nil
}

type fakeFootprintRepo struct {
	records map[string]*FootprintRecord // user/date
}

func (f *fakeFootprintRepo) LastDate(_ context.Context, userID string) (time.Time, bool, error) {
	var last time.Time
	for _, r := range f.records {
		if r.UserID == userID && r.ConsumptionDate.After(last) {
			last = r.ConsumptionDate
		}
	}
	return last, !last.IsZero(), nil
}

func (f *fakeFootprintRepo) Insert(_ context.Context, r *FootprintRecord) (bool, error) {
	key := r.UserID + "/" + r.ConsumptionDate.Format(constants.TimeFormatDate)
	if _, ok := f.records[key]; ok {
		return false, nil
	}
	f.records[key] = r
	return true, nil
}

type fakePublisher struct {
	published []*FootprintRecord
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, r *FootprintRecord) error {
	f.published = append(f.published, r)
	return f.err
}

type fakeSafeLimitRepo struct {
	rows map[string]*SafeLimitRecord
}

func (f *fakeSafeLimitRepo) Upsert(_ context.Context, r *SafeLimitRecord) error {
	f.rows[r.UserID] = r
	return nil
}

type fakeLocker struct {
	err    error
	locked []string
}

func (f *fakeLocker) Lock(_ context.Context, key string) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.locked = append(f.locked, key)
	return func() {}, nil
}

type fixture struct {
	household  *fakeHouseholdRepo
	records    *fakeConsumptionRepo
	footprints *fakeFootprintRepo
	publisher  *fakePublisher
	safeLimits *fakeSafeLimitRepo
	locker     *fakeLocker
	backfill   *BackfillUseCase
}

func newFixture(today time.Time) *fixture {
	f := &fixture{
		household:  newFakeHousehold(),
		records:    newFakeConsumption(),
		footprints: &fakeFootprintRepo{records: map[string]*FootprintRecord{}},
		publisher:  &fakePublisher{},
		safeLimits: &fakeSafeLimitRepo{rows: map[string]*SafeLimitRecord{}},
		locker:     &fakeLocker{},
	}
	cfg, err := NewSimulationConfig(&conf.Bootstrap{})
	if err != nil {
		panic(err)
	}
	r := testRand()
	logger := log.DefaultLogger
	f.backfill = NewBackfillUseCase(
		f.household,
		f.locker,
		NewElectricityUseCase(f.household, f.records, cfg, r, logger),
		NewWaterUseCase(f.household, f.records, cfg, r, logger),
		NewGasUseCase(f.household, f.records, cfg, r, logger),
		NewFuelUseCase(f.household, f.records, cfg, r, logger),
		NewFootprintUseCase(f.records, f.footprints, f.publisher, cfg, logger),
		NewSafeLimitUseCase(f.household, f.safeLimits, cfg, logger),
		logger,
	).WithClock(func() time.Time { return today.Add(15 * time.Hour) })
	return f
}
