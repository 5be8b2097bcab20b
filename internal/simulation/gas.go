package simulation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type GasType string

const (
	Metered    GasType = "metered"
	NonMetered GasType = "non_metered"
)

var ErrUnknownGasType = errors.New("unknown gas type")

// NormalizeGasType maps free-form household gas types ("Non-Metered",
// " metered ") onto GasType. An empty value means metered.
func NormalizeGasType(raw string) (GasType, error) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	switch GasType(s) {
	case "", Metered:
		return Metered, nil
	case NonMetered:
		return NonMetered, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGasType, raw)
	}
}

type ActivityUsage struct {
	Activity    string
	CubicMeters float64
	Err         error
}

type GasDay struct {
	Date          time.Time
	HouseholdType GasType
	// BurnerType is set for non-metered households only.
	BurnerType  BurnerType
	Activities  []ActivityUsage
	CubicMeters float64
	Cost        float64
}

func (d GasDay) Faults() int {
	n := 0
	for _, a := range d.Activities {
		if a.Err != nil {
			n++
		}
	}
	return n
}

type GasSimulator struct {
	catalog *Catalog
}

func NewGasSimulator(c *Catalog) *GasSimulator {
	return &GasSimulator{catalog: c}
}

// Simulate produces one day of gas usage and cost. Metered households draw
// activity usage billed per cubic meter; non-metered households get their
// burner plan's monthly quota and rate spread over the days of the month.
func (s *GasSimulator) Simulate(gasType GasType, members int, date time.Time, r Rand) (GasDay, error) {
	switch gasType {
	case Metered:
		return s.metered(members, date, r), nil
	case NonMetered:
		return s.nonMetered(date, r)
	default:
		return GasDay{}, fmt.Errorf("%w: %q", ErrUnknownGasType, gasType)
	}
}

func (s *GasSimulator) metered(members int, date time.Time, r Rand) GasDay {
	p := s.catalog.Gas
	day := GasDay{
		Date:          date,
		HouseholdType: Metered,
		Activities:    make([]ActivityUsage, 0, len(p.Activities)),
	}

	total := 0.0
	for _, a := range p.Activities {
		usage := ActivityUsage{Activity: a.Name}
		v, err := Sample(a.Usage, r)
		if err != nil {
			usage.Err = fmt.Errorf("gas activity %s: %w", a.Name, err)
		} else {
			v = nonNegative(v)
			if a.PerMember {
				v *= float64(members)
			}
			usage.CubicMeters = v
		}
		day.Activities = append(day.Activities, usage)
		total += usage.CubicMeters
	}

	day.CubicMeters = Round2(total)
	day.Cost = Round2(total * p.MeteredPrice)
	return day
}

func (s *GasSimulator) nonMetered(date time.Time, r Rand) (GasDay, error) {
	p := s.catalog.Gas
	burner := SingleBurner
	if r.Float64() < p.DoubleBurnerProb {
		burner = DoubleBurner
	}
	plan, ok := p.Burners[burner]
	if !ok {
		return GasDay{}, fmt.Errorf("no plan for %s burner", burner)
	}

	days := float64(DaysInMonth(date))
	return GasDay{
		Date:          date,
		HouseholdType: NonMetered,
		BurnerType:    burner,
		CubicMeters:   Round2(plan.MonthlyCubicMeters / days),
		Cost:          Round2(plan.MonthlyRate / days),
	}, nil
}
