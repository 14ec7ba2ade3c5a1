package models

// WellnessInputs 统一后的健康特征集（UnifiedInputs）
//
// 手动录入（表单）和穿戴设备遥测融合后的单一特征集，burnout 和 sleep
// 两个模型共享。字段名对应模型训练时的特征名，融合规则见 internal/fusion。
// 创建后不再修改（每个检查周期重新构建一份副本）。
type WellnessInputs struct {
	Hrv7dAvg           float64 `json:"hrv_7d_avg"`
	Sleep7dAvg         float64 `json:"sleep_7d_avg"`
	SleepPressure      float64 `json:"sleep_pressure"`
	StressScore        float64 `json:"stress_score"`
	ActivityLoad       float64 `json:"activity_load"`
	BaselineHRV        float64 `json:"baseline_hrv"`
	HrvDeviation       float64 `json:"hrv_deviation"`
	SleepDurationHours float64 `json:"sleep_duration_hours"`
	HrvRmssdMs         float64 `json:"hrv_rmssd_ms"`
	Spo2AvgPct         float64 `json:"spo2_avg_pct"`
}

// WellnessDefaults 健康特征默认值（普通健康成年人）
//
// 所有模型共享的最后兜底值，缺少真实观测时使用。
var WellnessDefaults = WellnessInputs{
	Hrv7dAvg:           45,
	Sleep7dAvg:         7.0,
	SleepPressure:      50,
	StressScore:        50,
	ActivityLoad:       50,
	BaselineHRV:        50,
	HrvDeviation:       0,
	SleepDurationHours: 7.0,
	HrvRmssdMs:         45,
	Spo2AvgPct:         98,
}

// BurnoutFeatureOrder burnout 模型的列顺序
var BurnoutFeatureOrder = []string{
	"hrv_7d_avg",
	"sleep_7d_avg",
	"sleep_pressure",
	"stress_score",
	"activity_load",
	"baseline_hrv",
	"hrv_deviation",
}

// BurnoutVector 按 burnout 模型的列顺序输出特征值
func (w WellnessInputs) BurnoutVector() []float64 {
	return []float64{
		w.Hrv7dAvg,
		w.Sleep7dAvg,
		w.SleepPressure,
		w.StressScore,
		w.ActivityLoad,
		w.BaselineHRV,
		w.HrvDeviation,
	}
}

// SleepFeatures sleep 模型特征（18 列）
//
// WellnessInputs 覆盖不到的列（日间心率、静息心率基线等）使用
// SleepFillDefaults 补齐，day_of_week / is_weekend 由调用方按时钟填入。
type SleepFeatures struct {
	AvgHrDayBpm            float64 `json:"avg_hr_day_bpm"`
	RestingHrBpm           float64 `json:"resting_hr_bpm"`
	HrvRmssdMs             float64 `json:"hrv_rmssd_ms"`
	StressScore            float64 `json:"stress_score"`
	Spo2AvgPct             float64 `json:"spo2_avg_pct"`
	SleepDurationHours     float64 `json:"sleep_duration_hours"`
	SleepArchitectureScore float64 `json:"sleep_architecture_score"`
	ActivityLoad           float64 `json:"activity_load"`
	HrStrain               float64 `json:"hr_strain"`
	SleepPressure          float64 `json:"sleep_pressure"`
	BaselineHRV            float64 `json:"baseline_hrv"`
	BaselineRhr            float64 `json:"baseline_rhr"`
	HrvDeviation           float64 `json:"hrv_deviation"`
	RhrDeviation           float64 `json:"rhr_deviation"`
	Hrv7dAvg               float64 `json:"hrv_7d_avg"`
	Sleep7dAvg             float64 `json:"sleep_7d_avg"`
	DayOfWeek              float64 `json:"day_of_week"`
	IsWeekend              float64 `json:"is_weekend"`
}

// SleepFeatureOrder sleep 模型的列顺序
var SleepFeatureOrder = []string{
	"avg_hr_day_bpm", "resting_hr_bpm", "hrv_rmssd_ms", "stress_score",
	"spo2_avg_pct", "sleep_duration_hours", "sleep_architecture_score",
	"activity_load", "hr_strain", "sleep_pressure", "baseline_hrv",
	"baseline_rhr", "hrv_deviation", "rhr_deviation", "hrv_7d_avg",
	"sleep_7d_avg", "day_of_week", "is_weekend",
}

// SleepFillDefaults sleep 模型专用的补齐默认值
var SleepFillDefaults = SleepFeatures{
	AvgHrDayBpm:            75,
	RestingHrBpm:           60,
	HrvRmssdMs:             45,
	StressScore:            50,
	Spo2AvgPct:             98,
	SleepDurationHours:     7.5,
	SleepArchitectureScore: 80,
	ActivityLoad:           50,
	HrStrain:               40,
	SleepPressure:          50,
	BaselineHRV:            45,
	BaselineRhr:            60,
	HrvDeviation:           0,
	RhrDeviation:           0,
	Hrv7dAvg:               45,
	Sleep7dAvg:             7.5,
}

// Names 返回列顺序
func (f SleepFeatures) Names() []string { return SleepFeatureOrder }

// Vector 按列顺序输出特征值
func (f SleepFeatures) Vector() []float64 {
	return []float64{
		f.AvgHrDayBpm, f.RestingHrBpm, f.HrvRmssdMs, f.StressScore,
		f.Spo2AvgPct, f.SleepDurationHours, f.SleepArchitectureScore,
		f.ActivityLoad, f.HrStrain, f.SleepPressure, f.BaselineHRV,
		f.BaselineRhr, f.HrvDeviation, f.RhrDeviation, f.Hrv7dAvg,
		f.Sleep7dAvg, f.DayOfWeek, f.IsWeekend,
	}
}
