package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig MQTT配置（通知下发通道）
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
	// Enabled 为 false 时使用空实现（开发/测试环境无 broker）
	Enabled bool
	// TopicPrefix 通知主题前缀，如 "vital-coach/notify/"
	TopicPrefix string
}

// Config 服务配置
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig

	// 检查服务特定配置
	Checkup struct {
		// 模型产物目录（JSON 系数文件，进程内只加载一次）
		ArtifactsDir string

		// Redis 会话缓存配置
		Session struct {
			AlertKeyPrefix string // 报警集合键前缀，如 "vital-coach:session:"
			AlertSuffix    string // 报警集合键后缀，如 ":alerts"
			ChatSuffix     string // 对话日志键后缀，如 ":chat"
		}
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	// 从环境变量加载（默认值）
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = 5432
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "vitalcoach")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	if port := os.Getenv("DB_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT %q: %w", port, err)
		}
		cfg.Database.Port = p
	}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "vital-coach")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = 1
	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.TopicPrefix = getEnv("MQTT_TOPIC_PREFIX", "vital-coach/notify/")

	cfg.Checkup.ArtifactsDir = getEnv("ARTIFACTS_DIR", "artifacts")
	cfg.Checkup.Session.AlertKeyPrefix = getEnv("SESSION_KEY_PREFIX", "vital-coach:session:")
	cfg.Checkup.Session.AlertSuffix = ":alerts"
	cfg.Checkup.Session.ChatSuffix = ":chat"

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

// getEnv 获取环境变量，为空则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
