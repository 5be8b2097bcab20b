package data

import (
	"context"
	"fmt"
	"time"

	"household-ledger/internal/conf"
	"household-ledger/internal/data/model"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/glebarez/sqlite"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redis/redis/v8"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v8"
	"github.com/google/wire"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewDB,
	NewRedis,
	NewProducer,
	NewData,
	NewHouseholdRepo,
	NewConsumptionRepo,
	NewFootprintRepo,
	NewSafeLimitRepo,
	NewSweepLocker,
	NewFootprintPublisher,
)

// Data 数据层结构体
type Data struct {
	db   *gorm.DB
	rdb  *redis.Client     // 未配置 Redis 时为 nil
	sync *redsync.Redsync  // 未配置 Redis 时为 nil
	mq   rocketmq.Producer // 未启用 RocketMQ 时为 nil
	conf *conf.Data
}

// NewDB 创建数据库连接，driver 支持 mysql（默认）、postgres、sqlite
func NewDB(c *conf.Bootstrap) (*gorm.DB, error) {
	if c.Data == nil || c.Data.Database == nil {
		return nil, fmt.Errorf("database config is nil")
	}
	dbConf := c.Data.Database

	var dialector gorm.Dialector
	switch dbConf.Driver {
	case "", "mysql":
		dialector = mysql.Open(dbConf.Source)
	case "postgres":
		dialector = postgres.Open(dbConf.Source)
	case "sqlite":
		dialector = sqlite.Open(dbConf.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbConf.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dbConf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbConf.MaxOpenConns)
	}
	if dbConf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbConf.MaxIdleConns)
	}
	if lifetime := dbConf.ConnMaxLifetime.AsDuration(); lifetime > 0 {
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	if dbConf.AutoMigrate {
		if err := db.AutoMigrate(model.Produced()...); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return db, nil
}

// NewRedis 创建 Redis 连接，未配置 addr 时返回 nil
func NewRedis(c *conf.Bootstrap) (*redis.Client, error) {
	if c.Data == nil || c.Data.Redis == nil || c.Data.Redis.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Data.Redis.Addr,
		Password:     c.Data.Redis.Password,
		DB:           c.Data.Redis.Db,
		ReadTimeout:  c.Data.Redis.ReadTimeout.AsDuration(),
		WriteTimeout: c.Data.Redis.WriteTimeout.AsDuration(),
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

// NewProducer 创建 RocketMQ 生产者，未启用时返回 nil
func NewProducer(c *conf.Bootstrap) (rocketmq.Producer, error) {
	if c.Data == nil || c.Data.Rocketmq == nil || !c.Data.Rocketmq.Enabled {
		return nil, nil
	}
	mqConf := c.Data.Rocketmq

	p, err := rocketmq.NewProducer(
		producer.WithNsResolver(primitive.NewPassthroughResolver(mqConf.NameServers)),
		producer.WithGroupName(mqConf.GroupName),
		producer.WithRetry(int(mqConf.RetryTimes)),
	)
	if err != nil {
		return nil, err
	}
	if err := p.Start(); err != nil {
		return nil, fmt.Errorf("start rocketmq producer: %w", err)
	}
	return p, nil
}

// NewData 创建数据层实例
func NewData(c *conf.Bootstrap, logger log.Logger, db *gorm.DB, rdb *redis.Client, mq rocketmq.Producer) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	cleanup := func() {
		helper.Info("closing the data resources")
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				helper.Errorf("failed to close redis: %v", err)
			}
		}
		if mq != nil {
			if err := mq.Shutdown(); err != nil {
				helper.Errorf("failed to shutdown rocketmq producer: %v", err)
			}
		}
	}

	d := &Data{
		db:   db,
		rdb:  rdb,
		mq:   mq,
		conf: c.Data,
	}
	if rdb != nil {
		d.sync = redsync.New(goredis.NewPool(rdb))
	} else {
		helper.Warn("redis is not configured, sweep lock is process local")
	}
	if mq == nil {
		helper.Info("rocketmq is disabled, footprint events are not published")
	}
	return d, cleanup, nil
}
