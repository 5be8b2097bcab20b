package simulation

import (
	"fmt"
	"math"
	"time"
)

// ApplianceUsage is the outcome of one appliance instance for one day. A
// non-nil Err means the draw failed and the instance contributed zero.
type ApplianceUsage struct {
	Instance string
	Hours    float64
	KWh      float64
	Err      error
}

type ElectricityDay struct {
	Date         time.Time
	Season       Season
	Appliances   []ApplianceUsage
	RawKWh       float64
	RenewableKWh float64
	// NetKWh is the billed quantity, floored at the baseline load and
	// rounded to two decimals.
	NetKWh float64
}

// Faults counts appliance instances that contributed zero because of an error.
func (d ElectricityDay) Faults() int {
	n := 0
	for _, a := range d.Appliances {
		if a.Err != nil {
			n++
		}
	}
	return n
}

type ElectricitySimulator struct {
	catalog *Catalog
}

func NewElectricitySimulator(c *Catalog) *ElectricitySimulator {
	return &ElectricitySimulator{catalog: c}
}

// Simulate produces one day of household electricity consumption.
func (s *ElectricitySimulator) Simulate(h Household, date time.Time, r Rand) ElectricityDay {
	season := SeasonOf(date)
	instances := ScaleAppliances(s.catalog, h.HouseSizeSqft, h.NumMembers)

	day := ElectricityDay{
		Date:       date,
		Season:     season,
		Appliances: make([]ApplianceUsage, 0, len(instances)),
	}
	for _, inst := range instances {
		usage := s.applianceUsage(inst, season, r)
		day.Appliances = append(day.Appliances, usage)
		day.RawKWh += usage.KWh
	}

	day.RenewableKWh = s.renewableGeneration(h.SolarPanelWatt, h.WindSourceWatt, season, r)
	net := math.Max(s.catalog.Renewable.MinNetKWh, day.RawKWh-day.RenewableKWh)
	day.NetKWh = Round2(net)
	return day
}

func (s *ElectricitySimulator) applianceUsage(inst ApplianceInstance, season Season, r Rand) ApplianceUsage {
	usage := ApplianceUsage{Instance: inst.Name}

	d := inst.Appliance.hoursDistribution(season)
	if d == nil {
		return usage
	}
	drawn, err := Sample(*d, r)
	if err != nil {
		usage.Err = fmt.Errorf("appliance %s: %w", inst.Name, err)
		return usage
	}
	hours := nonNegative(nonNegative(drawn) * inst.OccupantFactor)
	if season == Transition {
		hours *= inst.Appliance.transitionFactor()
	}

	usage.Hours = hours
	usage.KWh = inst.Appliance.PowerKW * hours
	return usage
}

// renewableGeneration nets solar and wind output for the day, already scaled
// by the season bonus. A failed factor draw counts as no generation from
// that source.
func (s *ElectricitySimulator) renewableGeneration(solar, wind float64, season Season, r Rand) float64 {
	p := s.catalog.Renewable

	solarFactor, err := Sample(p.SolarFactor[season], r)
	if err != nil {
		solarFactor = 0
	}
	windFactor, err := Sample(p.WindFactor[season], r)
	if err != nil {
		windFactor = 0
	}

	generation := math.Max(0, solar*p.SolarCoeff*solarFactor+wind*p.WindCoeff*windFactor)
	bonus, ok := p.SeasonBonus[season]
	if !ok {
		bonus = 1
	}
	return generation * bonus
}
