package data

import (
	"context"
	"encoding/json"

	"household-ledger/internal/biz"
	"household-ledger/internal/constants"
	"household-ledger/internal/metrics"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/go-kratos/kratos/v2/log"
)

// FootprintEvent 碳足迹事件消息体
type FootprintEvent struct {
	UserID          string  `json:"user_id"`
	ConsumptionDate string  `json:"consumption_date"` // YYYY-MM-DD
	ElectricityKg   float64 `json:"electricity_emission_kg"`
	FuelKg          float64 `json:"fuel_emission_kg"`
	GasKg           float64 `json:"gas_emission_kg"`
	WaterKg         float64 `json:"water_emission_kg"`
	TotalKg         float64 `json:"total_emission_kg"`
	Tag             string  `json:"emission_tag"`
	Suggestion      string  `json:"suggestion"`
}

// footprintPublisher 通过 RocketMQ 发送碳足迹事件
type footprintPublisher struct {
	data    *Data
	topic   string
	log     *log.Helper
	metrics *metrics.LedgerMetrics
}

// NewFootprintPublisher 创建碳足迹事件发送器（返回 biz.FootprintPublisher 接口）
func NewFootprintPublisher(data *Data, logger log.Logger) biz.FootprintPublisher {
	topic := constants.TopicFootprint
	if data.conf != nil && data.conf.Rocketmq != nil && data.conf.Rocketmq.Topic != "" {
		topic = data.conf.Rocketmq.Topic
	}
	return &footprintPublisher{
		data:    data,
		topic:   topic,
		log:     log.NewHelper(logger),
		metrics: metrics.GetMetrics(),
	}
}

// Publish 同步发送，未启用 RocketMQ 时直接返回
func (p *footprintPublisher) Publish(ctx context.Context, record *biz.FootprintRecord) error {
	if p.data.mq == nil {
		return nil
	}

	body, err := json.Marshal(FootprintEvent{
		UserID:          record.UserID,
		ConsumptionDate: record.ConsumptionDate.Format(constants.TimeFormatDate),
		ElectricityKg:   record.ElectricityKg,
		FuelKg:          record.FuelKg,
		GasKg:           record.GasKg,
		WaterKg:         record.WaterKg,
		TotalKg:         record.TotalKg,
		Tag:             record.Tag,
		Suggestion:      record.Suggestion,
	})
	if err != nil {
		return err
	}

	msg := primitive.NewMessage(p.topic, body)
	msg.WithTag(constants.TagFootprintDaily)
	msg.WithKeys([]string{record.UserID})

	result, err := p.data.mq.SendSync(ctx, msg)
	if err == nil && result.Status != primitive.SendOK {
		err = &sendError{status: result.Status}
	}
	if p.metrics != nil {
		status := constants.ResultSuccess
		if err != nil {
			status = constants.ResultFailed
		}
		p.metrics.PublishTotal.WithLabelValues(status).Inc()
	}
	return err
}

type sendError struct {
	status primitive.SendStatus
}

func (e *sendError) Error() string {
	return "rocketmq send status " + sendStatusNames[e.status]
}

var sendStatusNames = map[primitive.SendStatus]string{
	primitive.SendOK:                "ok",
	primitive.SendFlushDiskTimeout:  "flush_disk_timeout",
	primitive.SendFlushSlaveTimeout: "flush_slave_timeout",
	primitive.SendSlaveNotAvailable: "slave_not_available",
	primitive.SendUnknownError:      "unknown_error",
}
