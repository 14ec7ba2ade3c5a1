package observer

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vital-coach/internal/config"
	"vital-coach/internal/models"
)

// captureNotifier 记录所有下发的通知
type captureNotifier struct {
	sent []models.Notification
}

func (c *captureNotifier) NotifyOnce(ctx context.Context, n models.Notification) {
	c.sent = append(c.sent, n)
}

func newTestObserver(t *testing.T) (*Observer, *SessionStore, *captureNotifier) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{}
	cfg.Checkup.Session.AlertKeyPrefix = "vital-coach:session:"
	cfg.Checkup.Session.AlertSuffix = ":alerts"
	cfg.Checkup.Session.ChatSuffix = ":chat"

	store := NewSessionStore(cfg, client, zap.NewNop())
	n := &captureNotifier{}
	return NewObserver(store, n, zap.NewNop()), store, n
}

func highBurnout(score float64) models.WellnessResultSet {
	return models.WellnessResultSet{
		Burnout: &models.BurnoutResult{Score: score, Level: "High", Color: "red"},
	}
}

func TestObserver_BurnoutAndSleepAlerts(t *testing.T) {
	obs, store, n := newTestObserver(t)
	ctx := context.Background()

	wellness := models.WellnessResultSet{
		Burnout: &models.BurnoutResult{Score: 85, Level: "High", Color: "red"},
		Sleep:   &models.SleepResult{EfficiencyScore: 60},
	}

	fired := obs.Evaluate(ctx, "s1", models.RiskResultSet{}, wellness)

	require.Len(t, fired, 2)
	assert.Equal(t, models.AlertLevelAlert, fired[0].Severity)
	assert.Equal(t, "Burnout Level:85 (High)", fired[0].Message)
	assert.Equal(t, models.AlertLevelWarning, fired[1].Severity)
	assert.Equal(t, "Sleep Efficiency: 60% (Low)", fired[1].Message)

	// 三个观察效果：报警集合、对话日志、一次性通知
	alerts, err := store.GetAlerts(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Burnout Level:85 (High)", "Sleep Efficiency: 60% (Low)"}, alerts)

	history, err := store.GetChatHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "system", history[0].Role)
	assert.Equal(t,
		"🚨 SYSTEM ALERT: High Burnout Risk Detected!\nScore is 85/100. System recommends activating Recovery Mode.",
		history[0].Content)
	assert.Equal(t,
		"💤 SLEEP ALERT: Poor Sleep Quality Detected!\nEfficiency: 60%. Consider improving sleep hygiene.",
		history[1].Content)

	require.Len(t, n.sent, 2)
	assert.NotEmpty(t, n.sent[0].ID)
	assert.Equal(t, "s1", n.sent[0].SessionID)
}

func TestObserver_DedupAcrossCycles(t *testing.T) {
	obs, store, n := newTestObserver(t)
	ctx := context.Background()

	wellness := highBurnout(85)

	first := obs.Evaluate(ctx, "s1", models.RiskResultSet{}, wellness)
	second := obs.Evaluate(ctx, "s1", models.RiskResultSet{}, wellness)

	// 返回列表反映命中条件（两个周期都命中）
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)

	// 持久效果只产生一次（去重不变式）
	alerts, err := store.GetAlerts(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	history, err := store.GetChatHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	assert.Len(t, n.sent, 1)
}

func TestObserver_MedicalAlerts(t *testing.T) {
	obs, store, n := newTestObserver(t)
	ctx := context.Background()

	risks := models.RiskResultSet{
		models.DiseaseDiabetes: models.RiskHigh,
		models.DiseaseHeart:    models.RiskLow,
		models.DiseaseStroke:   models.RiskHigh,
	}

	fired := obs.Evaluate(ctx, "s1", risks, models.WellnessResultSet{})

	// 每个命中疾病一条报警，按疾病评估顺序
	require.Len(t, fired, 2)
	assert.Equal(t, "High Diabetes Risk", fired[0].Message)
	assert.Equal(t, models.AlertLevelCrit, fired[0].Severity)
	assert.Equal(t, "High Stroke Risk", fired[1].Message)

	alerts, err := store.GetAlerts(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"High Diabetes Risk", "High Stroke Risk"}, alerts)

	// 对话日志合并为一条
	history, err := store.GetChatHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t,
		"🚨 MEDICAL ALERT: Critical Medical Risk Flagged: High Diabetes Risk, High Stroke Risk. Please consult a doctor.",
		history[0].Content)

	assert.Len(t, n.sent, 2)
}

func TestObserver_EstimatedResultsSuppressed(t *testing.T) {
	obs, store, n := newTestObserver(t)
	ctx := context.Background()

	// 降级合成结果：命中阈值也不产生任何报警
	wellness := models.WellnessResultSet{
		Burnout: &models.BurnoutResult{Score: 90, Level: "High", Estimated: true},
		Sleep:   &models.SleepResult{EfficiencyScore: 50, Estimated: true},
	}

	fired := obs.Evaluate(ctx, "s1", models.RiskResultSet{}, wellness)

	assert.Empty(t, fired)
	alerts, err := store.GetAlerts(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.Empty(t, n.sent)
}

func TestObserver_ThresholdBoundaries(t *testing.T) {
	obs, _, n := newTestObserver(t)
	ctx := context.Background()

	// burnout 阈值严格大于：70 不报警
	wellness := models.WellnessResultSet{
		Burnout: &models.BurnoutResult{Score: 70, Level: "High"},
		Sleep:   &models.SleepResult{EfficiencyScore: 70},
	}

	fired := obs.Evaluate(ctx, "s1", models.RiskResultSet{}, wellness)
	assert.Empty(t, fired)
	assert.Empty(t, n.sent)
}

func TestObserver_ClearAlertsAllowsRefire(t *testing.T) {
	obs, store, n := newTestObserver(t)
	ctx := context.Background()

	obs.Evaluate(ctx, "s1", models.RiskResultSet{}, highBurnout(85))
	require.Len(t, n.sent, 1)

	// 用户显式清空后，同一条件再次命中会重新报警
	require.NoError(t, store.ClearAlerts(ctx, "s1"))

	obs.Evaluate(ctx, "s1", models.RiskResultSet{}, highBurnout(85))
	assert.Len(t, n.sent, 2)

	alerts, err := store.GetAlerts(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Burnout Level:85 (High)"}, alerts)
}

func TestSessionStore_SessionIsolation(t *testing.T) {
	obs, store, _ := newTestObserver(t)
	ctx := context.Background()

	obs.Evaluate(ctx, "s1", models.RiskResultSet{}, highBurnout(85))

	alerts, err := store.GetAlerts(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
