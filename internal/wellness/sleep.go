package wellness

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"vital-coach/internal/artifact"
	"vital-coach/internal/models"
)

// 睡眠归因规则阈值
const (
	sleepStressFlag      = 65  // 压力分 > 65 标记
	sleepHrvDeviationLow = -10 // HRV 偏差 < -10 标记
	sleepHrvAbsLow       = 30  // HRV 绝对值 < 30 标记
	sleepShortHours      = 6   // 睡眠 < 6h 标记
	sleepLongHours       = 9   // 睡眠 > 9h 单独标记（睡眠惰性）
	sleepActivityLow     = 30  // 活动负荷 < 30 标记
	sleepOptimalEff      = 85  // 无规则命中时，效率 > 85 给正向消息
)

// Clock 时钟依赖（day_of_week / is_weekend 特征用）
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SleepModel 睡眠质量（效率）评分模型
type SleepModel struct {
	store  *artifact.Store
	rng    *rand.Rand
	clock  Clock
	logger *zap.Logger
}

// NewSleepModel 创建 sleep 模型
func NewSleepModel(store *artifact.Store, rng *rand.Rand, clock Clock, logger *zap.Logger) *SleepModel {
	if clock == nil {
		clock = systemClock{}
	}
	return &SleepModel{
		store:  store,
		rng:    rng,
		clock:  clock,
		logger: logger,
	}
}

// Score 评估睡眠效率（0-100）并给出根因归类
//
// 归因是规则层，独立于模型输出运行：按固定顺序检查压力、HRV 恢复、
// 睡眠时长、活动负荷，命中即追加消息。因子列表按检查顺序排列，
// 不按严重程度排序。模型失败时内部降级（70-90 区间，Estimated 标记）。
func (m *SleepModel) Score(in models.WellnessInputs) *models.SleepResult {
	features := m.buildFeatures(in)

	a, err := m.store.Load("sleep_quality")
	if err != nil {
		return m.fallback(err)
	}

	efficiency, err := a.Score(features.Vector())
	if err != nil {
		return m.fallback(err)
	}
	efficiency = math.Min(100, math.Max(0, efficiency))
	efficiency = math.Round(efficiency*10) / 10

	return &models.SleepResult{
		EfficiencyScore: efficiency,
		Factors:         explainFactors(features, efficiency),
	}
}

// buildFeatures 从统一特征集构建 sleep 模型的 18 列输入
// 统一集覆盖不到的列用 SleepFillDefaults 补齐
func (m *SleepModel) buildFeatures(in models.WellnessInputs) models.SleepFeatures {
	f := models.SleepFillDefaults

	f.HrvRmssdMs = in.HrvRmssdMs
	f.StressScore = in.StressScore
	f.Spo2AvgPct = in.Spo2AvgPct
	f.SleepDurationHours = in.SleepDurationHours
	f.ActivityLoad = in.ActivityLoad
	f.SleepPressure = in.SleepPressure
	f.BaselineHRV = in.BaselineHRV
	f.HrvDeviation = in.HrvDeviation
	f.Hrv7dAvg = in.Hrv7dAvg
	f.Sleep7dAvg = in.Sleep7dAvg

	now := m.clock.Now()
	// Monday=0 .. Sunday=6
	weekday := (int(now.Weekday()) + 6) % 7
	f.DayOfWeek = float64(weekday)
	if weekday >= 5 {
		f.IsWeekend = 1
	} else {
		f.IsWeekend = 0
	}

	return f
}

// explainFactors 规则归因（检查顺序固定，与严重程度无关）
func explainFactors(f models.SleepFeatures, efficiency float64) []string {
	var causes []string

	// 1. 压力
	if f.StressScore > sleepStressFlag {
		causes = append(causes, "High daily stress levels may be delaying sleep onset.")
	}

	// 2. 恢复状态（HRV）
	if f.HrvDeviation < sleepHrvDeviationLow || f.HrvRmssdMs < sleepHrvAbsLow {
		causes = append(causes, "Your body needs more recovery time (low HRV detected).")
	}

	// 3. 睡眠时长（过短与过长是两种不同原因）
	if f.SleepDurationHours < sleepShortHours {
		causes = append(causes, "Short sleep duration is the primary factor reducing efficiency.")
	} else if f.SleepDurationHours > sleepLongHours {
		causes = append(causes, "Oversleeping might be causing grogginess (sleep inertia).")
	}

	// 4. 活动负荷
	if f.ActivityLoad < sleepActivityLow {
		causes = append(causes, "Low physical activity may reduce sleep drive.")
	}

	// 无规则命中：按效率给单条正向/中性消息
	if len(causes) == 0 {
		if efficiency > sleepOptimalEff {
			causes = append(causes, "Your sleep health looks optimal! Keep it up.")
		} else {
			causes = append(causes, "Your efficiency is slightly low, try to consistent bedtimes.")
		}
	}

	return causes
}

// fallback 模型不可用时的合成结果
func (m *SleepModel) fallback(cause error) *models.SleepResult {
	m.logger.Warn("Sleep model unavailable, returning synthesized result",
		zap.Error(cause),
	)

	eff := 70 + m.float64()*20 // 70-90
	eff = math.Round(eff*10) / 10

	return &models.SleepResult{
		EfficiencyScore: eff,
		Factors:         []string{"Model unavailable. Estimated based on general population data."},
		Estimated:       true,
	}
}

func (m *SleepModel) float64() float64 {
	if m.rng != nil {
		return m.rng.Float64()
	}
	return rand.Float64()
}
