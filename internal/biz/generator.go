package biz

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"household-ledger/internal/constants"
)

// DayResult 单日写入结果
type DayResult struct {
	Rows      int  // 新写入的行数
	Duplicate bool // 当天记录已存在
	Faults    int  // 记为 0 的模拟项数
}

// DayWriter 为已准备好的用户模拟并写入某一天
type DayWriter func(ctx context.Context, date time.Time) (DayResult, error)

// DailyGenerator 按领域生成日记录，由 BackfillUseCase 驱动
type DailyGenerator interface {
	Domain() string
	LastDate(ctx context.Context, userID string) (time.Time, bool, error)
	// Prepare 加载用户数据，缺少必要数据时返回 MissingData 错误
	Prepare(ctx context.Context, userID string) (DayWriter, error)
}

// DateOf 取日期部分，统一为 UTC 零点
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WindowStart 用户没有历史记录时的回填起点
func WindowStart(domain string, today time.Time) time.Time {
	today = DateOf(today)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	switch domain {
	case constants.DomainGas:
		return firstOfMonth.AddDate(0, 0, -constants.GasWindowDays)
	case constants.DomainWater:
		return today.AddDate(0, 0, -constants.WaterWindowDays)
	default:
		return firstOfMonth.AddDate(0, -constants.WindowMonths, 0)
	}
}

// lockedRand 并发安全的随机源，多个回填可能同时运行
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Uint64()
}
