package biz

import "github.com/google/wire"

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewSimulationConfig,
	NewRand,
	NewElectricityUseCase,
	NewWaterUseCase,
	NewGasUseCase,
	NewFuelUseCase,
	NewFootprintUseCase,
	NewSafeLimitUseCase,
	NewBackfillUseCase, // 组合 UseCase
)
