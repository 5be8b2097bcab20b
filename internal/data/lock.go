package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"household-ledger/internal/biz"
	"household-ledger/internal/conf"
	"household-ledger/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
)

// sweepLocker 回填锁：配置了 Redis 时使用 redsync 分布式锁，否则退化为进程内锁
type sweepLocker struct {
	data *Data
	ttl  time.Duration
	log  *log.Helper

	mu    sync.Mutex
	local map[string]bool
}

// NewSweepLocker 创建回填锁（返回 biz.SweepLocker 接口）
func NewSweepLocker(data *Data, c *conf.Bootstrap, logger log.Logger) biz.SweepLocker {
	ttl := constants.DefaultLockTTL
	if c.Sweep != nil && c.Sweep.LockTtl.AsDuration() > 0 {
		ttl = c.Sweep.LockTtl.AsDuration()
	}
	return &sweepLocker{
		data:  data,
		ttl:   ttl,
		log:   log.NewHelper(logger),
		local: make(map[string]bool),
	}
}

// Lock 获取锁，已被占用时立即返回错误；持有期间每半个 TTL 续期一次
func (l *sweepLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.data.sync == nil {
		return l.lockLocal(key)
	}

	mutex := l.data.sync.NewMutex(key, redsync.WithExpiry(l.ttl), redsync.WithTries(1))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(l.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if ok, err := mutex.Extend(); !ok || err != nil {
					l.log.Warnf("Failed to extend sweep lock: key=%s, error=%v", key, err)
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			if _, err := mutex.Unlock(); err != nil {
				l.log.Warnf("Failed to release sweep lock: key=%s, error=%v", key, err)
			}
		})
	}, nil
}

func (l *sweepLocker) lockLocal(key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.local[key] {
		return nil, fmt.Errorf("lock %s is held by another sweep", key)
	}
	l.local[key] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.local, key)
			l.mu.Unlock()
		})
	}, nil
}
