//go:build wireinject
// +build wireinject

package main

import (
	"household-ledger/internal/biz"
	"household-ledger/internal/conf"
	"household-ledger/internal/data"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp 初始化应用
func wireApp(*conf.Bootstrap, log.Logger) (*BackfillApp, func(), error) {
	panic(wire.Build(
		data.ProviderSet,
		biz.ProviderSet,
		wire.Struct(new(BackfillApp), "*"),
	))
}
