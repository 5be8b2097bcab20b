// Package carbon converts daily resource consumption into kg CO2e.
package carbon

import "github.com/shopspring/decimal"

type Tag string

const (
	Good     Tag = "Good"
	Moderate Tag = "Moderate"
	High     Tag = "High"
)

const (
	GoodCeilingKg     = 10.0
	ModerateCeilingKg = 25.0
)

var suggestions = map[Tag]string{
	Good:     "Excellent! Your carbon footprint is low. Keep it up!",
	Moderate: "Moderate footprint. Try reducing fuel or electricity usage.",
	High:     "High footprint! Consider using public transport, saving water, and switching to renewable energy.",
}

// Factors are kg CO2e per unit of each resource. Fuel uses one flat factor
// regardless of fuel type.
type Factors struct {
	ElectricityPerKWh float64
	FuelPerLiter      float64
	GasPerCubicMeter  float64
	WaterPerLiter     float64
}

func DefaultFactors() Factors {
	return Factors{
		ElectricityPerKWh: 0.62,
		FuelPerLiter:      2.4,
		GasPerCubicMeter:  1.8,
		WaterPerLiter:     0.00025,
	}
}

// Usage is one household's consumption for one day. Missing domains are zero.
type Usage struct {
	ElectricityKWh float64
	FuelLiters     float64
	GasCubicMeters float64
	WaterLiters    float64
}

type Footprint struct {
	ElectricityKg float64
	FuelKg        float64
	GasKg         float64
	WaterKg       float64
	TotalKg       float64
	Tag           Tag
	Suggestion    string
}

// Calculate applies f to u. Every figure is rounded to two decimals; the
// total is rounded from the unrounded parts and classified after rounding.
func (f Factors) Calculate(u Usage) Footprint {
	electricity := u.ElectricityKWh * f.ElectricityPerKWh
	fuel := u.FuelLiters * f.FuelPerLiter
	gas := u.GasCubicMeters * f.GasPerCubicMeter
	water := u.WaterLiters * f.WaterPerLiter

	fp := Footprint{
		ElectricityKg: round2(electricity),
		FuelKg:        round2(fuel),
		GasKg:         round2(gas),
		WaterKg:       round2(water),
		TotalKg:       round2(electricity + fuel + gas + water),
	}
	fp.Tag, fp.Suggestion = Classify(fp.TotalKg)
	return fp
}

// Classify tags a daily total: up to 10 kg is Good, up to 25 kg Moderate,
// anything above High.
func Classify(totalKg float64) (Tag, string) {
	tag := High
	switch {
	case totalKg <= GoodCeilingKg:
		tag = Good
	case totalKg <= ModerateCeilingKg:
		tag = Moderate
	}
	return tag, suggestions[tag]
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
