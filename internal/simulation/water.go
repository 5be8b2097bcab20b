package simulation

import (
	"fmt"
	"time"
)

type WaterOptions struct {
	HasGarden bool
	NumCars   int
}

func DefaultWaterOptions() WaterOptions {
	return WaterOptions{HasGarden: true, NumCars: 1}
}

// CategoryUsage is one water category's contribution after the seasonal
// multiplier. A non-nil Err means the category contributed zero.
type CategoryUsage struct {
	Category string
	Liters   float64
	Err      error
}

type WaterDay struct {
	Date       time.Time
	Season     Season
	Categories []CategoryUsage
	Liters     float64
}

func (d WaterDay) Faults() int {
	n := 0
	for _, c := range d.Categories {
		if c.Err != nil {
			n++
		}
	}
	return n
}

type WaterSimulator struct {
	catalog *Catalog
}

func NewWaterSimulator(c *Catalog) *WaterSimulator {
	return &WaterSimulator{catalog: c}
}

// Simulate produces one day of household water consumption in liters. The
// total has no floor or ceiling.
func (s *WaterSimulator) Simulate(h Household, date time.Time, opts WaterOptions, r Rand) WaterDay {
	season := SeasonOf(date)
	p := s.catalog.Water
	sqm := h.HouseSizeSqft / p.SqftPerSqm

	day := WaterDay{
		Date:       date,
		Season:     season,
		Categories: make([]CategoryUsage, 0, len(p.Categories)),
	}
	for _, c := range p.Categories {
		if c.Type == WaterOutdoor && !opts.HasGarden {
			continue
		}
		liters, err := s.categoryLiters(c, h.NumMembers, sqm, opts.NumCars, r)
		usage := CategoryUsage{Category: c.Name}
		if err != nil {
			usage.Err = fmt.Errorf("water category %s: %w", c.Name, err)
		} else {
			usage.Liters = liters * s.seasonalMultiplier(season, c.Name)
		}
		day.Categories = append(day.Categories, usage)
		day.Liters += usage.Liters
	}
	return day
}

func (s *WaterSimulator) categoryLiters(c WaterCategory, members int, sqm float64, cars int, r Rand) (float64, error) {
	switch c.Type {
	case WaterIndividual:
		return s.sumDraws(c.Usage, members, r)
	case WaterHouseSize:
		v, err := Sample(c.Usage, r)
		if err != nil {
			return 0, err
		}
		return nonNegative(v) * sqm, nil
	case WaterAppliance:
		if c.CyclesDivisor <= 0 {
			return 0, fmt.Errorf("%w: cycles divisor %.2f", ErrInvalidDistribution, c.CyclesDivisor)
		}
		cycles, err := Sample(Poisson(float64(members)/c.CyclesDivisor), r)
		if err != nil {
			return 0, err
		}
		if cycles < c.MinCycles {
			cycles = c.MinCycles
		}
		return c.LitersPerCycle * cycles, nil
	case WaterOutdoor:
		if c.PerSqm {
			v, err := Sample(c.Usage, r)
			if err != nil {
				return 0, err
			}
			return nonNegative(v) * sqm, nil
		}
		perCar, err := s.sumDraws(c.Usage, cars, r)
		if err != nil {
			return 0, err
		}
		return perCar * c.WashesPerWeek / 7, nil
	default:
		return 0, fmt.Errorf("unknown water category type %q", c.Type)
	}
}

// sumDraws adds n independent clamped draws.
func (s *WaterSimulator) sumDraws(d Distribution, n int, r Rand) (float64, error) {
	total := 0.0
	for i := 0; i < n; i++ {
		v, err := Sample(d, r)
		if err != nil {
			return 0, err
		}
		total += nonNegative(v)
	}
	return total, nil
}

func (s *WaterSimulator) seasonalMultiplier(season Season, category string) float64 {
	row, ok := s.catalog.Water.Seasonal[season]
	if !ok {
		row = s.catalog.Water.Seasonal[Summer]
	}
	if m, ok := row[category]; ok {
		return m
	}
	return 1.0
}
