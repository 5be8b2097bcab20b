package simulation

// Appliance is one electricity catalog entry. A nil distribution means the
// appliance has no usage profile for that period.
type Appliance struct {
	Name    string
	PowerKW float64
	Summer  *Distribution
	Winter  *Distribution
	Daily   *Distribution
	// Replicated appliances are drawn once per size-multiplier instance.
	Replicated bool
	// TransitionFactor scales hours in the transition season; 0 means 1.
	TransitionFactor float64
}

type RenewableProfile struct {
	SolarFactor map[Season]Distribution
	WindFactor  map[Season]Distribution
	SolarCoeff  float64
	WindCoeff   float64
	SeasonBonus map[Season]float64
	MinNetKWh   float64
}

type WaterCategoryType string

const (
	WaterIndividual WaterCategoryType = "individual"
	WaterHouseSize  WaterCategoryType = "house_size"
	WaterAppliance  WaterCategoryType = "appliance"
	WaterOutdoor    WaterCategoryType = "outdoor"
)

// WaterCategory describes one water usage category. Which fields apply
// depends on Type:
//
//	individual: Usage per person
//	house_size: Usage per square meter
//	appliance:  LitersPerCycle × max(MinCycles, Poisson(members / CyclesDivisor))
//	outdoor:    Usage per square meter (PerSqm) or per car × WashesPerWeek / 7
type WaterCategory struct {
	Name           string
	Type           WaterCategoryType
	Usage          Distribution
	PerSqm         bool
	LitersPerCycle float64
	CyclesDivisor  float64
	MinCycles      float64
	WashesPerWeek  float64
}

type WaterProfile struct {
	Categories []WaterCategory
	// Seasonal multipliers per category. Seasons missing from the table use
	// the summer row, categories missing from a row use 1.
	Seasonal   map[Season]map[string]float64
	SqftPerSqm float64
}

type GasActivity struct {
	Name      string
	Usage     Distribution
	PerMember bool
}

type BurnerType string

const (
	SingleBurner BurnerType = "single"
	DoubleBurner BurnerType = "double"
)

type BurnerPlan struct {
	MonthlyCubicMeters float64
	MonthlyRate        float64
}

type GasProfile struct {
	Activities       []GasActivity
	MeteredPrice     float64
	DoubleBurnerProb float64
	Burners          map[BurnerType]BurnerPlan
}

type Condition string

const (
	Urban   Condition = "urban"
	Highway Condition = "highway"
)

type ShareRange struct {
	Low  float64
	High float64
}

type Bounds struct {
	Min float64
	Max float64
}

func (b Bounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

type FuelProfile struct {
	Prices            map[string]float64
	UrbanProbability  map[Season]float64
	WeekendMultiplier map[string]map[Condition]float64
	// Higher priority vehicles are allocated first.
	Priority     map[string]int
	Shares       map[string]ShareRange
	DefaultShare ShareRange

	DefaultDailyKm           float64
	DailyKm                  Bounds
	DefaultUrbanEfficiency   float64
	UrbanEfficiency          Bounds
	DefaultHighwayEfficiency float64
	HighwayEfficiency        Bounds
	Allocation               Bounds
	WeekendDistanceFactor    float64
	Variation                Distribution
	MinLiters                float64
}

// Catalog is the static per-domain configuration the simulators read from.
// Build it once and pass it around; simulators never mutate it.
type Catalog struct {
	Appliances      []Appliance
	SizeReplication map[SizeCategory]int
	Renewable       RenewableProfile
	Water           WaterProfile
	Gas             GasProfile
	Fuel            FuelProfile
}

func dist(d Distribution) *Distribution { return &d }

// DefaultCatalog returns the production catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Appliances: []Appliance{
			{Name: "fan", PowerKW: 0.07, Summer: dist(Normal(14, 2)), Winter: dist(Normal(2, 1)), Replicated: true, TransitionFactor: 0.7},
			{Name: "light", PowerKW: 0.01, Daily: dist(Normal(5, 1.5)), Replicated: true},
			{Name: "ac", PowerKW: 1.0, Summer: dist(Normal(6, 2)), Winter: dist(Uniform(0, 0.5)), TransitionFactor: 0.7},
			{Name: "fridge", PowerKW: 0.15, Daily: dist(Normal(24, 0.1))},
			{Name: "tv", PowerKW: 0.08, Daily: dist(Normal(4, 1.5)), Replicated: true},
			{Name: "washing_machine", PowerKW: 0.5, Daily: dist(Exponential(0.5))},
			{Name: "computer", PowerKW: 0.15, Daily: dist(Normal(6, 2)), Replicated: true},
			{Name: "microwave", PowerKW: 1.0, Daily: dist(Exponential(0.3))},
			{Name: "router", PowerKW: 0.01, Daily: dist(Constant(24))},
			{Name: "water_heater", PowerKW: 1.0, Summer: dist(Normal(0.5, 0.2)), Winter: dist(Normal(1, 0.5)), TransitionFactor: 1.2},
		},
		SizeReplication: map[SizeCategory]int{
			SizeSmall:  1,
			SizeMedium: 2,
			SizeLarge:  3,
		},
		Renewable: RenewableProfile{
			SolarFactor: map[Season]Distribution{
				Summer:     Normal(5, 1),
				Transition: Normal(4, 1),
				Winter:     Normal(3, 1),
			},
			WindFactor: map[Season]Distribution{
				Summer:     Normal(3, 1),
				Transition: Normal(5, 1.5),
				Winter:     Normal(4, 1),
			},
			SolarCoeff: 0.2,
			WindCoeff:  0.3,
			SeasonBonus: map[Season]float64{
				Summer:     1.2,
				Transition: 1.0,
				Winter:     0.8,
			},
			MinNetKWh: 5.0,
		},
		Water: WaterProfile{
			Categories: []WaterCategory{
				{Name: "drinking_cooking", Type: WaterIndividual, Usage: Normal(15, 2)},
				{Name: "bathing", Type: WaterIndividual, Usage: Normal(70, 10)},
				{Name: "toilet", Type: WaterIndividual, Usage: Normal(50, 5)},
				{Name: "cleaning", Type: WaterHouseSize, Usage: Uniform(0.6, 1.0)},
				{Name: "washing_machine", Type: WaterAppliance, LitersPerCycle: 60, CyclesDivisor: 4, MinCycles: 1},
				{Name: "dishwasher", Type: WaterAppliance, LitersPerCycle: 20, CyclesDivisor: 5, MinCycles: 1},
				{Name: "gardening", Type: WaterOutdoor, Usage: Uniform(1.0, 2.0), PerSqm: true},
				{Name: "car_washing", Type: WaterOutdoor, Usage: Normal(120, 20), WashesPerWeek: 2},
			},
			Seasonal: map[Season]map[string]float64{
				Summer: {
					"bathing":         1.0,
					"gardening":       1.0,
					"cleaning":        1.0,
					"washing_machine": 1.0,
					"dishwasher":      1.0,
				},
				Winter: {
					"bathing":         0.7,
					"gardening":       0.2,
					"cleaning":        0.9,
					"washing_machine": 0.8,
					"dishwasher":      0.9,
				},
			},
			SqftPerSqm: 10.764,
		},
		Gas: GasProfile{
			Activities: []GasActivity{
				{Name: "cooking", Usage: Normal(0.5, 0.1), PerMember: true},
				{Name: "water_heating", Usage: Normal(0.3, 0.05), PerMember: true},
				{Name: "space_heating", Usage: Uniform(1.0, 2.0)},
			},
			MeteredPrice:     9.10,
			DoubleBurnerProb: 0.9,
			Burners: map[BurnerType]BurnerPlan{
				SingleBurner: {MonthlyCubicMeters: 82, MonthlyRate: 750},
				DoubleBurner: {MonthlyCubicMeters: 88, MonthlyRate: 800},
			},
		},
		Fuel: FuelProfile{
			Prices: map[string]float64{
				"petrol": 121.0,
				"diesel": 105.0,
				"cng":    43.0,
				"octane": 125.0,
			},
			UrbanProbability: map[Season]float64{
				Summer:     0.6,
				Transition: 0.7,
				Winter:     0.7,
			},
			WeekendMultiplier: map[string]map[Condition]float64{
				"car":        {Urban: 1.3, Highway: 1.8},
				"motorcycle": {Urban: 1.1, Highway: 1.4},
				"truck":      {Urban: 1.0, Highway: 1.2},
				"bus":        {Urban: 1.0, Highway: 1.0},
			},
			Priority: map[string]int{
				"truck":      4,
				"bus":        3,
				"car":        2,
				"motorcycle": 1,
			},
			Shares: map[string]ShareRange{
				"truck": {Low: 0.5, High: 0.8},
				"bus":   {Low: 0.7, High: 0.9},
				"car":   {Low: 0.3, High: 0.6},
			},
			DefaultShare:             ShareRange{Low: 0.1, High: 0.3},
			DefaultDailyKm:           20,
			DailyKm:                  Bounds{Min: 5, Max: 300},
			DefaultUrbanEfficiency:   10,
			UrbanEfficiency:          Bounds{Min: 5, Max: 50},
			DefaultHighwayEfficiency: 15,
			HighwayEfficiency:        Bounds{Min: 8, Max: 60},
			Allocation:               Bounds{Min: 1, Max: 500},
			WeekendDistanceFactor:    1.5,
			Variation:                Normal(1.0, 0.075),
			MinLiters:                0.1,
		},
	}
}
