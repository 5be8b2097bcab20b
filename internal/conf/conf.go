package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap 启动配置
type Bootstrap struct {
	Server     *Server     `json:"server"`
	Data       *Data       `json:"data"`
	Simulation *Simulation `json:"simulation"`
	Sweep      *Sweep      `json:"sweep"`
	Log        *Log        `json:"log"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
}

type Server_HTTP struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
	Rocketmq *Rocketmq      `json:"rocketmq"`
}

// Data_Database 数据库配置，driver 支持 mysql、postgres、sqlite
type Data_Database struct {
	Driver          string    `json:"driver"`
	Source          string    `json:"source"`
	AutoMigrate     bool      `json:"auto_migrate"`
	MaxOpenConns    int       `json:"max_open_conns"`
	MaxIdleConns    int       `json:"max_idle_conns"`
	ConnMaxLifetime *Duration `json:"conn_max_lifetime"`
}

// Data_Redis 未配置 addr 时不启用分布式锁
type Data_Redis struct {
	Addr         string    `json:"addr"`
	Password     string    `json:"password"`
	Db           int       `json:"db"`
	ReadTimeout  *Duration `json:"read_timeout"`
	WriteTimeout *Duration `json:"write_timeout"`
}

// Rocketmq 生产者发送碳足迹事件到 topic，消费者订阅 household_topic 的家庭信息变更
type Rocketmq struct {
	Enabled        bool     `json:"enabled"`
	NameServers    []string `json:"name_servers"`
	GroupName      string   `json:"group_name"`
	Topic          string   `json:"topic"`
	RetryTimes     int32    `json:"retry_times"`
	HouseholdTopic string   `json:"household_topic"`
	ConsumerGroup  string   `json:"consumer_group"`
}

type Simulation struct {
	// Seed 为 0 时使用随机种子
	Seed   uint64             `json:"seed"`
	Tariff *Simulation_Tariff `json:"tariff"`
	Water  *Simulation_Water  `json:"water"`
}

// Simulation_Tariff 电费阶梯配置，字段为 0 时使用默认值
type Simulation_Tariff struct {
	Tiers         []*Simulation_Tier `json:"tiers"`
	ServiceCharge float64            `json:"service_charge"`
	DemandCharge  float64            `json:"demand_charge"`
	MeterRent     float64            `json:"meter_rent"`
	VatRate       float64            `json:"vat_rate"`
}

// Simulation_Tier capacity 为 0 表示不封顶，只允许出现在最后一档
type Simulation_Tier struct {
	Capacity   float64 `json:"capacity"`
	Multiplier float64 `json:"multiplier"`
}

type Simulation_Water struct {
	HasGarden *bool `json:"has_garden"`
	NumCars   *int  `json:"num_cars"`
}

type Sweep struct {
	Cron       string    `json:"cron"`
	RunOnStart bool      `json:"run_on_start"`
	Timeout    *Duration `json:"timeout"`
	LockTtl    *Duration `json:"lock_ttl"`
}

// Log 对应 go-pkg/logger 的配置
type Log struct {
	Level         string `json:"level"`
	Format        string `json:"format"`
	Output        string `json:"output"`
	FilePath      string `json:"file_path"`
	MaxSize       int    `json:"max_size"`
	MaxAge        int    `json:"max_age"`
	MaxBackups    int    `json:"max_backups"`
	Compress      bool   `json:"compress"`
	EnableConsole bool   `json:"enable_console"`
}

// Duration 支持 "1.5s"、"10m" 这样的字符串，也接受纳秒整数
type Duration struct {
	time.Duration
}

func NewDuration(d time.Duration) *Duration {
	return &Duration{Duration: d}
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		d.Duration = v
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// AsDuration nil 安全
func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.Duration
}
