// Package fusion 提供多源健康数据融合
//
// 融合规则：
// - 手动录入（表单）是基础值
// - 穿戴设备遥测严格优先覆盖以下字段：睡眠时长、HRV RMSSD、血氧百分比
// - 活动负荷由步数按固定断点离散化（不是连续映射）
// - 派生字段：BMI、hrv_deviation（相对基线的 HRV 偏差）
//
// 融合是纯函数（除了一次遥测拉取），缺失可选字段不报错，
// 所有字段都有"普通健康成年人"兜底默认值（models.WellnessDefaults）。
package fusion

import (
	"math"

	"go.uber.org/zap"

	"vital-coach/internal/models"
)

// 活动负荷断点（步数 → 0-100 刻度）
// 阶梯函数，边界值归入下段：3000 步 → moderate，8000 步 → active
const (
	activitySedentary = 20
	activityModerate  = 55
	activityActive    = 85

	stepsModerateMin = 3000
	stepsActiveMin   = 8000
)

// TelemetrySource 遥测源（穿戴设备适配器）
type TelemetrySource interface {
	GetReading() *models.TelemetrySnapshot
}

// Resolver 数据融合器
type Resolver struct {
	source TelemetrySource
	logger *zap.Logger
}

// NewResolver 创建数据融合器
func NewResolver(source TelemetrySource, logger *zap.Logger) *Resolver {
	return &Resolver{
		source: source,
		logger: logger,
	}
}

// Fuse 融合手动录入与遥测数据
//
// telemetryAvailable 为 false 时原样返回手动值，遥测为 nil。
// 为 true 时拉取一次遥测快照并按优先级覆盖：
// 1. 睡眠时长（设备比用户记忆准确）
// 2. HRV RMSSD（实测值）
// 3. 血氧百分比
// 4. 活动负荷（由步数离散化）
// 最后重算 hrv_deviation = 统一后 HRV − 基线 HRV。
func (r *Resolver) Fuse(manual models.WellnessInputs, telemetryAvailable bool) (models.WellnessInputs, *models.TelemetrySnapshot) {
	unified := manual

	if !telemetryAvailable || r.source == nil {
		unified.HrvDeviation = unified.HrvRmssdMs - unified.BaselineHRV
		return unified, nil
	}

	snap := r.source.GetReading()
	if snap != nil {
		unified.SleepDurationHours = snap.SleepDurationHours
		unified.HrvRmssdMs = snap.HrvRmssdMs
		unified.Spo2AvgPct = float64(snap.Spo2)
		unified.ActivityLoad = ActivityLoadFromSteps(snap.Steps)

		r.logger.Debug("Telemetry overrides applied",
			zap.Int("steps", snap.Steps),
			zap.Float64("sleep_duration_hours", snap.SleepDurationHours),
			zap.Float64("hrv_rmssd_ms", snap.HrvRmssdMs),
			zap.Int("spo2", snap.Spo2),
		)
	}

	// 派生字段重算
	unified.HrvDeviation = unified.HrvRmssdMs - unified.BaselineHRV

	return unified, snap
}

// ActivityLoadFromSteps 步数 → 活动负荷（阶梯函数）
// < 3000 步: sedentary(20)，3000-7999: moderate(55)，>= 8000: active(85)
func ActivityLoadFromSteps(steps int) float64 {
	if steps < stepsModerateMin {
		return activitySedentary
	}
	if steps < stepsActiveMin {
		return activityModerate
	}
	return activityActive
}

// ComputeBMI 计算 BMI = 体重(kg) / 身高(m)²，保留 2 位小数
func ComputeBMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return math.Round(weightKg/(heightM*heightM)*100) / 100
}
