package biz

import (
	"math/rand/v2"
	"time"

	"household-ledger/internal/carbon"
	"household-ledger/internal/conf"
	ledgerErrors "household-ledger/internal/errors"
	"household-ledger/internal/simulation"
	"household-ledger/internal/tariff"
)

// SimulationConfig 模拟与计费配置
type SimulationConfig struct {
	Catalog   *simulation.Catalog
	Tariff    *tariff.Schedule // BaseRate 由电力服务商单价替换
	Water     simulation.WaterOptions
	Factors   carbon.Factors
	Allowance carbon.Allowance
	Seed      uint64
}

// NewSimulationConfig 从配置创建 SimulationConfig
func NewSimulationConfig(c *conf.Bootstrap) (*SimulationConfig, error) {
	config := &SimulationConfig{
		Catalog:   simulation.DefaultCatalog(),
		Water:     simulation.DefaultWaterOptions(),
		Factors:   carbon.DefaultFactors(),
		Allowance: carbon.DefaultAllowance(),
	}

	schedule := tariff.Schedule{
		Tiers:         tariff.ElectricityTiers(),
		ServiceCharge: tariff.DefaultServiceCharge,
		DemandCharge:  tariff.DefaultDemandCharge,
		MeterRent:     tariff.DefaultMeterRent,
		VATRate:       tariff.DefaultVATRate,
	}
	if s := c.Simulation; s != nil {
		config.Seed = s.Seed
		if t := s.Tariff; t != nil {
			if len(t.Tiers) > 0 {
				schedule.Tiers = make([]tariff.Tier, 0, len(t.Tiers))
				for _, tier := range t.Tiers {
					capacity := tier.Capacity
					if capacity == 0 {
						capacity = tariff.Unbounded
					}
					schedule.Tiers = append(schedule.Tiers, tariff.Tier{Capacity: capacity, Multiplier: tier.Multiplier})
				}
			}
			// 未配置（为 0）时使用默认值
			if t.ServiceCharge > 0 {
				schedule.ServiceCharge = t.ServiceCharge
			}
			if t.DemandCharge > 0 {
				schedule.DemandCharge = t.DemandCharge
			}
			if t.MeterRent > 0 {
				schedule.MeterRent = t.MeterRent
			}
			if t.VatRate > 0 {
				schedule.VATRate = t.VatRate
			}
		}
		if w := s.Water; w != nil {
			if w.HasGarden != nil {
				config.Water.HasGarden = *w.HasGarden
			}
			if w.NumCars != nil {
				config.Water.NumCars = *w.NumCars
			}
		}
	}

	validated, err := tariff.NewSchedule(schedule)
	if err != nil {
		return nil, ledgerErrors.InvalidConfig(ledgerErrors.ErrCodeInvalidTariff, err)
	}
	config.Tariff = validated
	return config, nil
}

// NewRand 创建模拟使用的随机源，配置了种子时结果可复现
func NewRand(c *SimulationConfig) simulation.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed>>32|seed<<32))}
}
