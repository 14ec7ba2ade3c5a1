// Package observer 提供检查结果的报警观察器
//
// 对每个检查周期的风险/健康结果集按固定阈值评估，规则彼此独立
// （一个周期可同时命中多条）。每条新报警产生三个观察效果：
// 一次性通知、报警集合持久条目、对话日志 system 消息——由去重
// 统一把关：已存在的报警三个效果都不再产生。
//
// 由降级合成结果（Estimated）派生的报警会被抑制并记日志，
// 避免降级模式的数据造成虚假紧迫感。
package observer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vital-coach/internal/models"
	"vital-coach/internal/notifier"
)

// 报警阈值
const (
	burnoutAlertThreshold  = 70 // burnout 分 > 70 报警（严格大于）
	sleepEffAlertThreshold = 70 // 睡眠效率 < 70 报警
)

// 疾病标识 → 报警文本中的显示名
var diseaseDisplayNames = map[string]string{
	models.DiseaseDiabetes: "Diabetes",
	models.DiseaseHeart:    "Heart",
	models.DiseaseStroke:   "Stroke",
}

// Observer 报警观察器
type Observer struct {
	store    *SessionStore
	notifier notifier.Notifier
	logger   *zap.Logger
}

// NewObserver 创建报警观察器
func NewObserver(store *SessionStore, n notifier.Notifier, logger *zap.Logger) *Observer {
	return &Observer{
		store:    store,
		notifier: n,
		logger:   logger,
	}
}

// Evaluate 评估一个检查周期的结果集
//
// 返回本周期命中的报警列表（按规则检查顺序：burnout → 疾病 → 睡眠）。
// 返回列表反映命中条件；持久效果（通知/报警集合/对话日志）只对
// 新增报警产生（去重不变式）。
func (o *Observer) Evaluate(
	ctx context.Context,
	sessionID string,
	risks models.RiskResultSet,
	wellness models.WellnessResultSet,
) []models.Alert {
	var fired []models.Alert

	// 1. burnout 检查
	if b := wellness.Burnout; b != nil && b.Score > burnoutAlertThreshold {
		if b.Estimated {
			o.logger.Info("Burnout alert suppressed: synthesized result",
				zap.String("session_id", sessionID),
				zap.Float64("score", b.Score),
			)
		} else {
			msg := "High Burnout Risk Detected!"
			detail := fmt.Sprintf("Score is %s/100. System recommends activating Recovery Mode.", fmtScore(b.Score))
			alertTxt := fmt.Sprintf("Burnout Level:%s (High)", fmtScore(b.Score))

			fired = append(fired, models.Alert{Severity: models.AlertLevelAlert, Message: alertTxt})

			if o.appendAlert(ctx, sessionID, models.AlertLevelAlert, alertTxt, msg+" "+detail) {
				o.appendSystemMessage(ctx, sessionID, "🚨 SYSTEM ALERT: "+msg+"\n"+detail)
			}
		}
	}

	// 2. 疾病风险检查（每个命中疾病一条报警，对话日志合并为一条）
	var warnings []string
	for _, disease := range models.DiseaseOrder {
		if risks[disease] != models.RiskHigh {
			continue
		}
		warning := fmt.Sprintf("High %s Risk", diseaseDisplayNames[disease])
		warnings = append(warnings, warning)
		fired = append(fired, models.Alert{Severity: models.AlertLevelCrit, Message: warning})
	}

	if len(warnings) > 0 {
		anyAdded := false
		for _, warning := range warnings {
			if o.appendAlert(ctx, sessionID, models.AlertLevelCrit, warning, "Please consult a doctor.") {
				anyAdded = true
			}
		}
		if anyAdded {
			chatMsg := fmt.Sprintf("🚨 MEDICAL ALERT: Critical Medical Risk Flagged: %s. Please consult a doctor.",
				strings.Join(warnings, ", "))
			o.appendSystemMessage(ctx, sessionID, chatMsg)
		}
	}

	// 3. 睡眠质量检查
	if s := wellness.Sleep; s != nil && s.EfficiencyScore < sleepEffAlertThreshold {
		if s.Estimated {
			o.logger.Info("Sleep alert suppressed: synthesized result",
				zap.String("session_id", sessionID),
				zap.Float64("efficiency", s.EfficiencyScore),
			)
		} else {
			msg := "Poor Sleep Quality Detected!"
			detail := fmt.Sprintf("Efficiency: %s%%. Consider improving sleep hygiene.", fmtScore(s.EfficiencyScore))
			alertTxt := fmt.Sprintf("Sleep Efficiency: %s%% (Low)", fmtScore(s.EfficiencyScore))

			fired = append(fired, models.Alert{Severity: models.AlertLevelWarning, Message: alertTxt})

			if o.appendAlert(ctx, sessionID, models.AlertLevelWarning, alertTxt, msg+" "+detail) {
				o.appendSystemMessage(ctx, sessionID, "💤 SLEEP ALERT: "+msg+"\n"+detail)
			}
		}
	}

	return fired
}

// appendAlert 追加报警到集合，新增时同时下发一次性通知
// 返回是否为新增报警（去重命中时三个效果都不产生）
func (o *Observer) appendAlert(ctx context.Context, sessionID, severity, alertTxt, detail string) bool {
	added, err := o.store.AppendAlert(ctx, sessionID, alertTxt)
	if err != nil {
		o.logger.Error("Failed to append alert",
			zap.String("session_id", sessionID),
			zap.String("alert", alertTxt),
			zap.Error(err),
		)
		return false
	}
	if !added {
		return false
	}

	o.notifier.NotifyOnce(ctx, models.Notification{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Severity:  severity,
		Message:   alertTxt,
		Detail:    detail,
		Timestamp: time.Now().Unix(),
	})

	o.logger.Info("Alert raised",
		zap.String("session_id", sessionID),
		zap.String("severity", severity),
		zap.String("alert", alertTxt),
	)

	return true
}

// appendSystemMessage 追加 system 消息到对话日志（内容去重）
func (o *Observer) appendSystemMessage(ctx context.Context, sessionID, content string) {
	if _, err := o.store.AppendSystemMessage(ctx, sessionID, content); err != nil {
		o.logger.Error("Failed to append system message",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

// fmtScore 数值格式化：整数值不带小数点（85 而非 85.00），其余保留原精度
func fmtScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
