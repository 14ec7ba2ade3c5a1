package models

// 报警级别（沿用 syslog 风格级别名）
const (
	AlertLevelCrit    = "CRIT"
	AlertLevelAlert   = "ALERT"
	AlertLevelWarning = "WARNING"
)

// Alert 一条报警（级别 + 人类可读文本）
type Alert struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ChatMessage 对话日志条目（system 角色的消息由 Observer 追加）
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Notification 一次性通知（fire-and-forget，经通知通道下发）
type Notification struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
