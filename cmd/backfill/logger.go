package main

import (
	"household-ledger/internal/conf"

	"github.com/gaoyong06/go-pkg/logger"
	"github.com/go-kratos/kratos/v2/log"
)

// newLogger 按配置创建 go-pkg logger，默认只输出到控制台
func newLogger(c *conf.Log) log.Logger {
	logConfig := &logger.Config{
		Level:         "info",
		Format:        "json",
		Output:        "stdout",
		FilePath:      "logs/household-ledger-backfill.log",
		MaxSize:       100,
		MaxAge:        30,
		MaxBackups:    10,
		Compress:      true,
		EnableConsole: true,
	}
	if c != nil {
		if c.Level != "" {
			logConfig.Level = c.Level
		}
		if c.Format != "" {
			logConfig.Format = c.Format
		}
		if c.Output != "" {
			logConfig.Output = c.Output
		}
		if c.FilePath != "" {
			logConfig.FilePath = c.FilePath
		}
	}
	return logger.NewLogger(logConfig)
}
