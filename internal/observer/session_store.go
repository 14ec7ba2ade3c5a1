package observer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"vital-coach/internal/config"
	"vital-coach/internal/models"
)

// SessionStore 会话状态仓库（报警集合 + 对话日志，Redis 存储）
//
// 报警集合语义上是 set：追加式、去重、不自动过期，
// 只能由用户显式清空。每个会话同时只有一个检查周期在运行，
// 读-改-写不需要跨客户端仲裁。
type SessionStore struct {
	cfg         *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewSessionStore 创建会话状态仓库
func NewSessionStore(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		cfg:         cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

// alertKey 报警集合键
func (s *SessionStore) alertKey(sessionID string) string {
	return s.cfg.Checkup.Session.AlertKeyPrefix + sessionID + s.cfg.Checkup.Session.AlertSuffix
}

// chatKey 对话日志键
func (s *SessionStore) chatKey(sessionID string) string {
	return s.cfg.Checkup.Session.AlertKeyPrefix + sessionID + s.cfg.Checkup.Session.ChatSuffix
}

// GetAlerts 读取当前活跃报警列表（保持追加顺序）
func (s *SessionStore) GetAlerts(ctx context.Context, sessionID string) ([]string, error) {
	var alerts []string
	if err := s.getJSON(ctx, s.alertKey(sessionID), &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// AppendAlert 追加一条报警（去重）
// 返回是否真正追加了新条目；已存在的报警不会重复追加
func (s *SessionStore) AppendAlert(ctx context.Context, sessionID, alert string) (bool, error) {
	key := s.alertKey(sessionID)

	var alerts []string
	if err := s.getJSON(ctx, key, &alerts); err != nil {
		return false, err
	}

	for _, a := range alerts {
		if a == alert {
			return false, nil
		}
	}

	alerts = append(alerts, alert)
	if err := s.setJSON(ctx, key, alerts); err != nil {
		return false, err
	}

	return true, nil
}

// ClearAlerts 清空报警集合（用户显式操作）
func (s *SessionStore) ClearAlerts(ctx context.Context, sessionID string) error {
	if err := s.redisClient.Del(ctx, s.alertKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear alerts: %w", err)
	}
	return nil
}

// GetChatHistory 读取对话日志
func (s *SessionStore) GetChatHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	var history []models.ChatMessage
	if err := s.getJSON(ctx, s.chatKey(sessionID), &history); err != nil {
		return nil, err
	}
	return history, nil
}

// AppendSystemMessage 追加一条 system 角色消息到对话日志（按内容去重）
func (s *SessionStore) AppendSystemMessage(ctx context.Context, sessionID, content string) (bool, error) {
	key := s.chatKey(sessionID)

	var history []models.ChatMessage
	if err := s.getJSON(ctx, key, &history); err != nil {
		return false, err
	}

	for _, msg := range history {
		if msg.Role == "system" && msg.Content == content {
			return false, nil
		}
	}

	history = append(history, models.ChatMessage{Role: "system", Content: content})
	if err := s.setJSON(ctx, key, history); err != nil {
		return false, err
	}

	return true, nil
}

// getJSON 读取并反序列化（键不存在时 out 保持零值）
func (s *SessionStore) getJSON(ctx context.Context, key string, out interface{}) error {
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// setJSON 序列化并写入（不设 TTL：报警不自动过期）
func (s *SessionStore) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.redisClient.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
