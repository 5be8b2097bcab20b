package carbon

// Allowance is the per-member daily safe limit for each resource, in kg CO2e.
type Allowance struct {
	Electricity float64
	Gas         float64
	Fuel        float64
	Water       float64
}

func DefaultAllowance() Allowance {
	return Allowance{Electricity: 55, Gas: 20, Fuel: 50, Water: 7}
}

// ProviderFactors are the utility providers' emission factors. Fuel has no
// provider and is never scaled.
type ProviderFactors struct {
	Electricity float64
	Gas         float64
	Water       float64
}

func NeutralFactors() ProviderFactors {
	return ProviderFactors{Electricity: 1, Gas: 1, Water: 1}
}

type SafeLimit struct {
	Electricity float64
	Gas         float64
	Fuel        float64
	Water       float64
	Total       float64
}

// SafeLimit scales the allowance by household size and provider factors.
func (a Allowance) SafeLimit(members int, f ProviderFactors) SafeLimit {
	m := float64(members)
	l := SafeLimit{
		Electricity: a.Electricity * m * f.Electricity,
		Gas:         a.Gas * m * f.Gas,
		Fuel:        a.Fuel * m,
		Water:       a.Water * m * f.Water,
	}
	l.Total = l.Electricity + l.Gas + l.Fuel + l.Water
	return l
}
