package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"vital-coach/internal/models"
)

// fakeSource 固定快照的遥测源
type fakeSource struct {
	snap *models.TelemetrySnapshot
}

func (f *fakeSource) GetReading() *models.TelemetrySnapshot { return f.snap }

func TestActivityLoadFromSteps(t *testing.T) {
	// 阶梯函数：边界值归入上段
	tests := []struct {
		steps    int
		expected float64
	}{
		{0, 20},
		{2999, 20},
		{3000, 55},
		{7999, 55},
		{8000, 85},
		{15000, 85},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ActivityLoadFromSteps(tt.steps),
			"steps=%d", tt.steps)
	}
}

func TestComputeBMI(t *testing.T) {
	// 90kg / 1.70m² = 31.1418... → 保留 2 位小数
	assert.Equal(t, 31.14, ComputeBMI(90, 170))
	assert.Equal(t, 24.22, ComputeBMI(70, 170))

	// 非法输入返回 0
	assert.Equal(t, 0.0, ComputeBMI(0, 170))
	assert.Equal(t, 0.0, ComputeBMI(70, 0))
	assert.Equal(t, 0.0, ComputeBMI(-5, 170))
}

func TestResolver_Fuse_NoTelemetry(t *testing.T) {
	resolver := NewResolver(&fakeSource{}, zap.NewNop())

	manual := models.WellnessDefaults
	unified, snap := resolver.Fuse(manual, false)

	assert.Nil(t, snap)
	// 手动值原样保留
	assert.Equal(t, manual.SleepDurationHours, unified.SleepDurationHours)
	assert.Equal(t, manual.StressScore, unified.StressScore)
	// hrv_deviation 总是重算：45 - 50 = -5
	assert.Equal(t, -5.0, unified.HrvDeviation)
}

func TestResolver_Fuse_TelemetryOverrides(t *testing.T) {
	source := &fakeSource{snap: &models.TelemetrySnapshot{
		Steps:              9000,
		SleepDurationHours: 6.2,
		HrvRmssdMs:         38,
		Spo2:               97,
	}}
	resolver := NewResolver(source, zap.NewNop())

	manual := models.WellnessDefaults
	manual.StressScore = 85 // 遥测覆盖不到的字段

	unified, snap := resolver.Fuse(manual, true)

	assert.NotNil(t, snap)
	// 遥测严格优先覆盖
	assert.Equal(t, 6.2, unified.SleepDurationHours)
	assert.Equal(t, 38.0, unified.HrvRmssdMs)
	assert.Equal(t, 97.0, unified.Spo2AvgPct)
	assert.Equal(t, 85.0, unified.ActivityLoad) // 9000 步 → active
	// 手动值保留
	assert.Equal(t, 85.0, unified.StressScore)
	// hrv_deviation 基于统一后的 HRV 重算：38 - 50 = -12
	assert.Equal(t, -12.0, unified.HrvDeviation)
}

func TestResolver_Fuse_NilSnapshot(t *testing.T) {
	// 设备"已连接"但拉取不到快照：手动值保留，遥测为 nil
	resolver := NewResolver(&fakeSource{snap: nil}, zap.NewNop())

	unified, snap := resolver.Fuse(models.WellnessDefaults, true)

	assert.Nil(t, snap)
	assert.Equal(t, models.WellnessDefaults.SleepDurationHours, unified.SleepDurationHours)
	assert.Equal(t, -5.0, unified.HrvDeviation)
}

func TestLifestyleScales(t *testing.T) {
	assert.Equal(t, 30.0, StressScore("Low"))
	assert.Equal(t, 60.0, StressScore("Medium"))
	assert.Equal(t, 85.0, StressScore("High"))
	// 未知答案按 Medium 处理
	assert.Equal(t, 60.0, StressScore("whatever"))

	assert.Equal(t, 20.0, ActivityScore("Sedentary"))
	assert.Equal(t, 55.0, ActivityScore("Moderate"))
	assert.Equal(t, 85.0, ActivityScore("Active"))
	assert.Equal(t, 55.0, ActivityScore(""))

	assert.Equal(t, 30.0, SleepPressureScore("No"))
	assert.Equal(t, 50.0, SleepPressureScore("Sometimes"))
	assert.Equal(t, 80.0, SleepPressureScore("Yes"))
	assert.Equal(t, 50.0, SleepPressureScore("unknown"))
}
