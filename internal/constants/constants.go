package constants

import "time"

// 时间格式常量
const (
	// TimeFormatDate 日期格式 (YYYY-MM-DD)
	TimeFormatDate = "2006-01-02"
	// TimeFormatMonth 月份格式 (YYYY-MM)
	TimeFormatMonth = "2006-01"
)

// 资源领域常量（回填任务按领域执行）
const (
	// DomainElectricity 电力
	DomainElectricity = "electricity"
	// DomainWater 用水
	DomainWater = "water"
	// DomainGas 燃气
	DomainGas = "gas"
	// DomainFuel 燃油
	DomainFuel = "fuel"
	// DomainCarbon 碳足迹，依赖前四个领域的数据
	DomainCarbon = "carbon"
	// DomainSafeLimits 安全限额刷新
	DomainSafeLimits = "safe_limits"
	// DomainAll 全部领域
	DomainAll = "all"
)

// SweepOrder 全量回填的执行顺序，碳足迹必须在四个资源领域之后
var SweepOrder = []string{
	DomainElectricity,
	DomainWater,
	DomainGas,
	DomainFuel,
	DomainCarbon,
}

// 回填窗口常量（无历史数据时的起点）
const (
	// WindowMonths 电力、燃油、碳足迹回看的整月数
	WindowMonths = 6
	// GasWindowDays 燃气从本月1日再回看的天数
	GasWindowDays = 62
	// WaterWindowDays 用水从今天回看的天数
	WaterWindowDays = 89
)

// Redis Key 前缀常量
const (
	// RedisKeySweepLock 回填锁 key 前缀
	RedisKeySweepLock = "ledger:sweep:lock:"
)

// DefaultLockTTL 回填锁默认过期时间
const DefaultLockTTL = 30 * time.Minute

// DefaultSweepTimeout 单次定时回填的默认超时
const DefaultSweepTimeout = 2 * time.Hour

// DefaultSweepCron 默认每天 00:30:00 执行（秒级 cron）
const DefaultSweepCron = "0 30 0 * * *"

// 账单支付状态常量
const (
	// PaymentStatusDue 待支付
	PaymentStatusDue = "due"
	// PaymentStatusPaid 已支付
	PaymentStatusPaid = "paid"
)

// 默认家庭人数（住房信息缺少人数时使用）
const DefaultNumMembers = 4

// 用户跳过原因常量（用于指标）
const (
	// SkipReasonMissingData 缺少住房或服务商信息
	SkipReasonMissingData = "missing_data"
	// SkipReasonCurrent 数据已是最新
	SkipReasonCurrent = "current"
	// SkipReasonPendingResources 已关联的资源领域尚无记录，碳足迹等待
	SkipReasonPendingResources = "pending_resources"
)

// 结果常量（用于指标）
const (
	// ResultSuccess 成功
	ResultSuccess = "success"
	// ResultFailed 失败
	ResultFailed = "failed"
)

// 消息常量
const (
	// TopicFootprint 碳足迹事件默认 topic
	TopicFootprint = "household_footprint"
	// TagFootprintDaily 日碳足迹消息 tag
	TagFootprintDaily = "daily"
)
