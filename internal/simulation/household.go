package simulation

import (
	"fmt"
	"math"
)

type SizeCategory string

const (
	SizeSmall  SizeCategory = "small"
	SizeMedium SizeCategory = "medium"
	SizeLarge  SizeCategory = "large"
)

// Household is the subset of housing attributes the simulators read.
type Household struct {
	HouseSizeSqft  float64
	NumMembers     int
	SolarPanelWatt float64
	WindSourceWatt float64
}

// HouseSizeCategory classifies floor area: up to 1000 sqft is small, up to
// 1600 sqft is medium, anything larger is large.
func HouseSizeCategory(sqft float64) SizeCategory {
	switch {
	case sqft <= 1000:
		return SizeSmall
	case sqft <= 1600:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// OccupantFactor scales usage hours by household size, capped at four
// members.
func OccupantFactor(members int) float64 {
	return math.Min(4, float64(members)) / 3
}

// ApplianceInstance is one independently drawn copy of a catalog appliance.
type ApplianceInstance struct {
	Name           string
	Appliance      *Appliance
	OccupantFactor float64
}

// ScaleAppliances expands the catalog for a household. Replicated appliances
// appear once per size multiplier as name_0, name_1, ...; the rest appear
// once under their own name.
func ScaleAppliances(c *Catalog, sqft float64, members int) []ApplianceInstance {
	factor := OccupantFactor(members)
	copies := c.SizeReplication[HouseSizeCategory(sqft)]
	if copies < 1 {
		copies = 1
	}

	instances := make([]ApplianceInstance, 0, len(c.Appliances)*copies)
	for i := range c.Appliances {
		a := &c.Appliances[i]
		if !a.Replicated {
			continue
		}
		for n := 0; n < copies; n++ {
			instances = append(instances, ApplianceInstance{
				Name:           fmt.Sprintf("%s_%d", a.Name, n),
				Appliance:      a,
				OccupantFactor: factor,
			})
		}
	}
	for i := range c.Appliances {
		a := &c.Appliances[i]
		if a.Replicated {
			continue
		}
		instances = append(instances, ApplianceInstance{
			Name:           a.Name,
			Appliance:      a,
			OccupantFactor: factor,
		})
	}
	return instances
}

// hoursDistribution picks the seasonal profile, falling back to the daily
// one. Seasonal-only appliances run on their summer profile in the
// transition months, scaled later by the transition factor.
func (a *Appliance) hoursDistribution(season Season) *Distribution {
	switch {
	case season == Summer && a.Summer != nil:
		return a.Summer
	case season == Winter && a.Winter != nil:
		return a.Winter
	case a.Daily != nil:
		return a.Daily
	default:
		return a.Summer
	}
}

func (a *Appliance) transitionFactor() float64 {
	if a.TransitionFactor == 0 {
		return 1
	}
	return a.TransitionFactor
}
