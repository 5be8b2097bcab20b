package server

import (
	"household-ledger/internal/service"

	"github.com/google/wire"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(
	NewHTTPServer,
	NewSweepServer,
	NewHouseholdConsumerServer,
	wire.Bind(new(LedgerHandler), new(*service.LedgerService)),
)
