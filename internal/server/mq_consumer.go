package server

import (
	"context"
	"encoding/json"

	"household-ledger/internal/biz"
	"household-ledger/internal/conf"
	ledgerErrors "household-ledger/internal/errors"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/go-kratos/kratos/v2/log"
)

// HouseholdEvent 家庭信息（住房、成员、服务商）变更消息
type HouseholdEvent struct {
	UserID string `json:"user_id"`
}

// SafeLimitRefresher 按用户刷新安全限额
type SafeLimitRefresher interface {
	RefreshUser(ctx context.Context, userID string) (*biz.SafeLimitRecord, error)
}

// HouseholdConsumerServer 消费家庭信息变更事件，刷新对应用户的安全限额
type HouseholdConsumerServer struct {
	c       rocketmq.PushConsumer
	limits  SafeLimitRefresher
	topic   string
	log     *log.Helper
	enabled bool
}

// NewHouseholdConsumerServer 创建 RocketMQ 消费者，未配置 household_topic 时禁用
func NewHouseholdConsumerServer(c *conf.Bootstrap, limits *biz.SafeLimitUseCase, logger log.Logger) *HouseholdConsumerServer {
	helper := log.NewHelper(logger)
	if c.Data == nil || c.Data.Rocketmq == nil || !c.Data.Rocketmq.Enabled || c.Data.Rocketmq.HouseholdTopic == "" {
		return &HouseholdConsumerServer{log: helper, enabled: false}
	}
	mqConf := c.Data.Rocketmq

	group := mqConf.ConsumerGroup
	if group == "" {
		group = mqConf.GroupName + "-household"
	}
	r, err := rocketmq.NewPushConsumer(
		consumer.WithNsResolver(primitive.NewPassthroughResolver(mqConf.NameServers)),
		consumer.WithGroupName(group),
		consumer.WithRetry(int(mqConf.RetryTimes)),
		consumer.WithConsumeMessageBatchMaxSize(32),
	)
	if err != nil {
		helper.Errorf("init household consumer error: %v", err)
		return &HouseholdConsumerServer{log: helper, enabled: false}
	}

	return &HouseholdConsumerServer{
		c:       r,
		limits:  limits,
		topic:   mqConf.HouseholdTopic,
		log:     helper,
		enabled: true,
	}
}

// Start 订阅并启动消费者
func (s *HouseholdConsumerServer) Start(ctx context.Context) error {
	if !s.enabled || s.c == nil {
		s.log.Infof("HouseholdConsumerServer is disabled, skipping startup")
		return nil
	}

	s.log.Infof("Starting HouseholdConsumerServer, topic: %s", s.topic)
	if err := s.c.Subscribe(s.topic, consumer.MessageSelector{}, s.handler); err != nil {
		// 不返回错误，避免导致整个应用启动失败
		s.log.Errorf("Failed to subscribe to topic %s: %v", s.topic, err)
		return nil
	}
	if err := s.c.Start(); err != nil {
		s.log.Errorf("Failed to start RocketMQ consumer: %v", err)
		return nil
	}
	return nil
}

// Stop 停止消费者
func (s *HouseholdConsumerServer) Stop(ctx context.Context) error {
	if !s.enabled || s.c == nil {
		return nil
	}
	s.log.Info("Stopping HouseholdConsumerServer")
	return s.c.Shutdown()
}

func (s *HouseholdConsumerServer) handler(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
	seen := make(map[string]bool, len(msgs))
	for _, msg := range msgs {
		var event HouseholdEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil || event.UserID == "" {
			s.log.Errorf("Unmarshal message failed: %v, body: %s", err, string(msg.Body))
			continue
		}
		if seen[event.UserID] {
			continue
		}
		seen[event.UserID] = true

		if _, err := s.limits.RefreshUser(ctx, event.UserID); err != nil {
			if ledgerErrors.IsMissingData(err) {
				s.log.Warnf("Skip safe limit refresh: user=%s, error=%v", event.UserID, err)
				continue
			}
			s.log.Errorf("RefreshSafeLimit failed: user=%s, error=%v", event.UserID, err)
			return consumer.ConsumeRetryLater, nil
		}
	}
	return consumer.ConsumeSuccess, nil
}
