// Package wellness 提供健康评分模型库（burnout / sleep）
//
// 与 risk 包不同，wellness 模型有强制降级策略：产物缺失或推理失败时
// 不向调用方抛错，而是返回合理区间内的合成结果，并用 Estimated 标记
// 与真实模型结果区分（Observer 据此抑制由合成数据派生的报警）。
package wellness

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"vital-coach/internal/artifact"
	"vital-coach/internal/models"
)

// burnout 分级阈值（含下界）：< 30 Low，[30, 70) Medium，>= 70 High
const (
	burnoutMediumMin = 30
	burnoutHighMin   = 70
)

// BurnoutModel burnout 倾向评分模型
type BurnoutModel struct {
	store  *artifact.Store
	rng    *rand.Rand
	logger *zap.Logger
}

// NewBurnoutModel 创建 burnout 模型
// rng 仅用于降级合成结果，为 nil 时使用全局随机源
func NewBurnoutModel(store *artifact.Store, rng *rand.Rand, logger *zap.Logger) *BurnoutModel {
	return &BurnoutModel{
		store:  store,
		rng:    rng,
		logger: logger,
	}
}

// Score 评估 burnout 倾向（0-100 分 + 分级 + 解释文本）
//
// 任何失败都在内部降级，调用方总是拿到可用结果。
func (m *BurnoutModel) Score(in models.WellnessInputs) *models.BurnoutResult {
	a, err := m.store.Load("burnout")
	if err != nil {
		return m.fallback(err)
	}

	score, err := a.Score(in.BurnoutVector())
	if err != nil {
		return m.fallback(err)
	}
	score = math.Round(score*10) / 10

	level, color, msg := burnoutLevel(score)

	return &models.BurnoutResult{
		Score:       score,
		Level:       level,
		Color:       color,
		Explanation: msg,
	}
}

// burnoutLevel 分数 → 分级（边界值归入上段，即含下界）
func burnoutLevel(score float64) (level, color, msg string) {
	switch {
	case score < burnoutMediumMin:
		return "Low", "green",
			"You are in a good state! Keep maintaining your balance."
	case score < burnoutHighMin:
		return "Medium", "orange",
			"Signs of fatigue detected. Consider prioritizing recovery and sleep."
	default:
		return "High", "red",
			"High risk of burnout. It is highly recommended to take a break and consult a wellness professional."
	}
}

// fallback 模型不可用时的合成结果（20-80 区间，Estimated 标记）
func (m *BurnoutModel) fallback(cause error) *models.BurnoutResult {
	m.logger.Warn("Burnout model unavailable, returning synthesized result",
		zap.Error(cause),
	)

	score := float64(20 + m.intn(61)) // 20-80
	level := "Low"
	if score > burnoutMediumMin {
		level = "Medium"
	}

	return &models.BurnoutResult{
		Score:       score,
		Level:       level,
		Color:       "orange",
		Explanation: "Model service temporarily unavailable (Simulated Result).",
		Estimated:   true,
	}
}

func (m *BurnoutModel) intn(n int) int {
	if m.rng != nil {
		return m.rng.Intn(n)
	}
	return rand.Intn(n)
}
