// Package tariff turns metered consumption into money: a progressive tier
// schedule for electricity and flat volumetric pricing for water.
package tariff

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidSchedule = errors.New("invalid tariff schedule")

const (
	DefaultServiceCharge = 10.0
	DefaultDemandCharge  = 30.0
	DefaultMeterRent     = 10.0
	DefaultVATRate       = 0.05
)

// Unbounded is the capacity of an open-ended last tier.
var Unbounded = math.Inf(1)

// Tier is one slice of the schedule: up to Capacity units billed at
// base rate × Multiplier.
type Tier struct {
	Capacity   float64
	Multiplier float64
}

type Schedule struct {
	BaseRate      float64
	Tiers         []Tier
	ServiceCharge float64
	DemandCharge  float64
	MeterRent     float64
	VATRate       float64
}

// NewSchedule validates s and returns it. Every tier but the last needs a
// finite positive capacity; the last may be Unbounded.
func NewSchedule(s Schedule) (*Schedule, error) {
	if len(s.Tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers", ErrInvalidSchedule)
	}
	if !(s.BaseRate >= 0) || math.IsInf(s.BaseRate, 0) {
		return nil, fmt.Errorf("%w: base rate %v", ErrInvalidSchedule, s.BaseRate)
	}
	for i, t := range s.Tiers {
		if !(t.Capacity > 0) {
			return nil, fmt.Errorf("%w: tier %d capacity %v", ErrInvalidSchedule, i, t.Capacity)
		}
		if math.IsInf(t.Capacity, 1) && i != len(s.Tiers)-1 {
			return nil, fmt.Errorf("%w: tier %d is unbounded but not last", ErrInvalidSchedule, i)
		}
		if !(t.Multiplier >= 0) || math.IsInf(t.Multiplier, 0) {
			return nil, fmt.Errorf("%w: tier %d multiplier %v", ErrInvalidSchedule, i, t.Multiplier)
		}
	}
	for name, v := range map[string]float64{
		"service charge": s.ServiceCharge,
		"demand charge":  s.DemandCharge,
		"meter rent":     s.MeterRent,
		"vat rate":       s.VATRate,
	} {
		if !(v >= 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s %v", ErrInvalidSchedule, name, v)
		}
	}
	tiers := make([]Tier, len(s.Tiers))
	copy(tiers, s.Tiers)
	s.Tiers = tiers
	return &s, nil
}

// ElectricityTiers is the residential slab table.
func ElectricityTiers() []Tier {
	return []Tier{
		{Capacity: 75, Multiplier: 1.00},
		{Capacity: 125, Multiplier: 1.35},
		{Capacity: 100, Multiplier: 1.41},
		{Capacity: 200, Multiplier: 1.48},
		{Capacity: Unbounded, Multiplier: 2.63},
	}
}

// DefaultElectricity is the residential schedule at baseRate per unit.
func DefaultElectricity(baseRate float64) (*Schedule, error) {
	return NewSchedule(Schedule{
		BaseRate:      baseRate,
		Tiers:         ElectricityTiers(),
		ServiceCharge: DefaultServiceCharge,
		DemandCharge:  DefaultDemandCharge,
		MeterRent:     DefaultMeterRent,
		VATRate:       DefaultVATRate,
	})
}

// WithBaseRate returns a copy of s priced at baseRate. Providers differ in
// unit price but share the slab table.
func (s *Schedule) WithBaseRate(baseRate float64) (*Schedule, error) {
	c := *s
	c.BaseRate = baseRate
	return NewSchedule(c)
}

type Line struct {
	Tier   int
	Units  float64
	Rate   float64
	Amount float64
}

type Breakdown struct {
	Units    float64
	Lines    []Line
	Energy   float64
	Fixed    float64
	Subtotal float64
	VAT      float64
	Total    float64
}

// Calculate bills units progressively. Each tier consumes up to its
// capacity at its own rate; units left past the last tier are billed at the
// last tier's rate. Fixed charges are added and VAT applies to the whole
// subtotal. Negative units bill as zero. Amounts are not rounded.
func (s *Schedule) Calculate(units float64) Breakdown {
	if !(units > 0) {
		units = 0
	}
	b := Breakdown{Units: units}

	remaining := units
	for i, t := range s.Tiers {
		if remaining <= 0 {
			break
		}
		used := math.Min(remaining, t.Capacity)
		rate := s.BaseRate * t.Multiplier
		b.Lines = append(b.Lines, Line{Tier: i, Units: used, Rate: rate, Amount: used * rate})
		b.Energy += used * rate
		remaining -= used
	}
	if remaining > 0 {
		last := len(s.Tiers) - 1
		rate := s.BaseRate * s.Tiers[last].Multiplier
		b.Lines = append(b.Lines, Line{Tier: last, Units: remaining, Rate: rate, Amount: remaining * rate})
		b.Energy += remaining * rate
	}

	b.Fixed = s.ServiceCharge + s.DemandCharge + s.MeterRent
	b.Subtotal = b.Energy + b.Fixed
	b.VAT = b.Subtotal * s.VATRate
	b.Total = b.Subtotal + b.VAT
	return b
}

// Bill returns the VAT-inclusive amount for units.
func (s *Schedule) Bill(units float64) float64 {
	return s.Calculate(units).Total
}

// PerKiloliter prices water at unitPrice per 1000 liters.
func PerKiloliter(liters, unitPrice float64) float64 {
	return liters / 1000 * unitPrice
}
