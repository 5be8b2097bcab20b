package conf

import (
	"errors"
	"io/fs"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	_ "github.com/go-kratos/kratos/v2/encoding/yaml"
	"github.com/joho/godotenv"
)

// EnvPrefix 环境变量前缀，LEDGER_DB_SOURCE 在配置文件中以 ${DB_SOURCE} 引用
const EnvPrefix = "LEDGER_"

// Load 加载配置：先读取当前目录的 .env（可选），再合并环境变量与配置文件
func Load(path string) (*Bootstrap, func(), error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, err
	}

	c := config.New(
		config.WithSource(
			env.NewSource(EnvPrefix),
			file.NewSource(path),
		),
	)
	if err := c.Load(); err != nil {
		c.Close()
		return nil, nil, err
	}

	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		c.Close()
		return nil, nil, err
	}
	return &bc, func() { c.Close() }, nil
}
