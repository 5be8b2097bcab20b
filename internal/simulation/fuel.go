package simulation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

const FuelElectric = "electric"

var ErrUnknownFuelType = errors.New("unknown fuel type")

// Vehicle is one user-owned vehicle joined with its model attributes. Zero
// values mean "not set" and are replaced by catalog defaults in
// NormalizeVehicle.
type Vehicle struct {
	ID                string
	VehicleID         string
	VehicleType       string
	FuelType          string
	UrbanEfficiency   float64
	HighwayEfficiency float64
	DailyAverageKm    float64
	CustomDailyKm     float64

	// DailyKm is the configured distance after defaults and clamping.
	DailyKm float64
}

// NormalizeVehicle applies the fuel profile defaults and bounds: the custom
// distance wins over the model average, and efficiencies fall back to the
// profile defaults.
func NormalizeVehicle(p FuelProfile, v Vehicle) Vehicle {
	km := v.CustomDailyKm
	if km <= 0 {
		km = v.DailyAverageKm
	}
	if km <= 0 {
		km = p.DefaultDailyKm
	}
	v.DailyKm = p.DailyKm.Clamp(km)

	if v.UrbanEfficiency <= 0 {
		v.UrbanEfficiency = p.DefaultUrbanEfficiency
	}
	v.UrbanEfficiency = p.UrbanEfficiency.Clamp(v.UrbanEfficiency)

	if v.HighwayEfficiency <= 0 {
		v.HighwayEfficiency = p.DefaultHighwayEfficiency
	}
	v.HighwayEfficiency = p.HighwayEfficiency.Clamp(v.HighwayEfficiency)
	return v
}

func (v Vehicle) Electric() bool {
	return v.FuelType == FuelElectric
}

type Allocation struct {
	Vehicle    Vehicle
	DistanceKm float64
}

// TotalDistance sums the configured daily distances, scaled up on weekends.
func TotalDistance(p FuelProfile, vehicles []Vehicle, date time.Time) float64 {
	total := 0.0
	for _, v := range vehicles {
		total += v.DailyKm
	}
	if IsWeekend(date) {
		total *= p.WeekendDistanceFactor
	}
	return total
}

// AllocateDistance splits the household's daily distance across vehicles.
// A single vehicle takes the whole distance as is. Otherwise vehicles are
// served in priority order, each but the last taking a random share of
// what is left, and every allocation is clamped and rounded.
func AllocateDistance(p FuelProfile, vehicles []Vehicle, date time.Time, r Rand) []Allocation {
	if len(vehicles) == 0 {
		return nil
	}
	total := TotalDistance(p, vehicles, date)
	if len(vehicles) == 1 {
		return []Allocation{{Vehicle: vehicles[0], DistanceKm: total}}
	}

	ordered := make([]Vehicle, len(vehicles))
	copy(ordered, vehicles)
	sort.SliceStable(ordered, func(i, j int) bool {
		return p.Priority[ordered[i].VehicleType] > p.Priority[ordered[j].VehicleType]
	})

	out := make([]Allocation, 0, len(ordered))
	remaining := total
	for i, v := range ordered {
		distance := remaining
		if i < len(ordered)-1 {
			share, ok := p.Shares[v.VehicleType]
			if !ok {
				share = p.DefaultShare
			}
			distance = remaining * (share.Low + (share.High-share.Low)*r.Float64())
			remaining -= distance
		}
		out = append(out, Allocation{
			Vehicle:    v,
			DistanceKm: Round2(p.Allocation.Clamp(distance)),
		})
	}
	return out
}

// VehicleUsage is one vehicle's fuel for one day. A non-nil Err means the
// vehicle produced no usage that day.
type VehicleUsage struct {
	Vehicle    Vehicle
	DistanceKm float64
	Condition  Condition
	Liters     float64
	Price      float64
	Cost       float64
	Err        error
}

type FuelDay struct {
	Date     time.Time
	Season   Season
	TotalKm  float64
	Vehicles []VehicleUsage
}

func (d FuelDay) Faults() int {
	n := 0
	for _, v := range d.Vehicles {
		if v.Err != nil {
			n++
		}
	}
	return n
}

type FuelSimulator struct {
	catalog *Catalog
}

func NewFuelSimulator(c *Catalog) *FuelSimulator {
	return &FuelSimulator{catalog: c}
}

// Simulate produces one day of fuel usage for a household's vehicles.
// Electric vehicles are dropped before distance is allocated.
func (s *FuelSimulator) Simulate(vehicles []Vehicle, date time.Time, r Rand) FuelDay {
	p := s.catalog.Fuel
	fueled := make([]Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Electric() {
			continue
		}
		fueled = append(fueled, NormalizeVehicle(p, v))
	}

	day := FuelDay{Date: date, Season: SeasonOf(date)}
	if len(fueled) == 0 {
		return day
	}
	day.TotalKm = TotalDistance(p, fueled, date)
	for _, a := range AllocateDistance(p, fueled, date, r) {
		if a.DistanceKm <= 0 {
			continue
		}
		day.Vehicles = append(day.Vehicles, s.SimulateVehicle(a.Vehicle, a.DistanceKm, date, r))
	}
	return day
}

// SimulateVehicle converts one vehicle's allocated distance into liters and
// cost under a randomly drawn driving condition.
func (s *FuelSimulator) SimulateVehicle(v Vehicle, distance float64, date time.Time, r Rand) VehicleUsage {
	p := s.catalog.Fuel
	usage := VehicleUsage{Vehicle: v, DistanceKm: distance}

	price, ok := p.Prices[v.FuelType]
	if !ok {
		usage.Err = fmt.Errorf("vehicle %s: %w: %q", v.ID, ErrUnknownFuelType, v.FuelType)
		return usage
	}

	season := SeasonOf(date)
	urban, ok := p.UrbanProbability[season]
	if !ok {
		urban = p.UrbanProbability[Winter]
	}
	condition, efficiency := Highway, v.HighwayEfficiency
	if r.Float64() < urban {
		condition, efficiency = Urban, v.UrbanEfficiency
	}
	if efficiency <= 0 {
		usage.Err = fmt.Errorf("vehicle %s: %s efficiency %.2f", v.ID, condition, efficiency)
		return usage
	}

	variation, err := Sample(p.Variation, r)
	if err != nil {
		usage.Err = fmt.Errorf("vehicle %s: %w", v.ID, err)
		return usage
	}
	liters := math.Max(p.MinLiters, distance/efficiency*variation)
	if IsWeekend(date) {
		if m, ok := p.WeekendMultiplier[v.VehicleType][condition]; ok {
			liters *= m
		}
	}

	usage.Condition = condition
	usage.Liters = Round2(liters)
	usage.Price = price
	usage.Cost = Round2(usage.Liters * price)
	return usage
}
