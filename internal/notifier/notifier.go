// Package notifier 提供一次性通知下发（通知/报警通道，fire-and-forget）
package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"vital-coach/internal/config"
	"vital-coach/internal/models"
)

// Notifier 通知下发接口
// 实现必须是 fire-and-forget：下发失败记日志，不向调用方传播
type Notifier interface {
	NotifyOnce(ctx context.Context, n models.Notification)
}

// MQTTNotifier 经 MQTT 下发通知（主题：<prefix><session_id>）
type MQTTNotifier struct {
	client mqtt.Client
	cfg    *config.MQTTConfig
	logger *zap.Logger
}

// NewMQTTNotifier 创建 MQTT 通知器并连接 broker
func NewMQTTNotifier(cfg *config.MQTTConfig, logger *zap.Logger) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTNotifier{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// NotifyOnce 下发一条通知
func (n *MQTTNotifier) NotifyOnce(ctx context.Context, notification models.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		n.logger.Error("Failed to marshal notification", zap.Error(err))
		return
	}

	topic := n.cfg.TopicPrefix + notification.SessionID
	token := n.client.Publish(topic, n.cfg.QoS, false, payload)
	token.Wait()

	if token.Error() != nil {
		// 通知通道没有投递保证，失败只记日志
		n.logger.Warn("Failed to publish notification",
			zap.String("topic", topic),
			zap.Error(token.Error()),
		)
		return
	}

	n.logger.Debug("Notification published",
		zap.String("topic", topic),
		zap.String("severity", notification.Severity),
	)
}

// Disconnect 断开 MQTT 连接
func (n *MQTTNotifier) Disconnect() {
	n.client.Disconnect(250)
}

// NopNotifier 空实现（broker 未启用或测试环境）
type NopNotifier struct{}

// NotifyOnce 丢弃通知
func (NopNotifier) NotifyOnce(ctx context.Context, n models.Notification) {}
