package fusion

// 生活方式问卷答案 → 数值刻度的离散化映射
// 表单的分类答案（压力/活动/醒来疲惫感）转为模型可用的 0-100 刻度值

var stressScale = map[string]float64{
	"Low":    30,
	"Medium": 60,
	"High":   85,
}

var activityScale = map[string]float64{
	"Sedentary": 20,
	"Moderate":  55,
	"Active":    85,
}

var sleepPressureScale = map[string]float64{
	"No":        30,
	"Sometimes": 50,
	"Yes":       80,
}

// StressScore 自评压力等级 → 刻度值（未知答案按 Medium 处理）
func StressScore(level string) float64 {
	if v, ok := stressScale[level]; ok {
		return v
	}
	return stressScale["Medium"]
}

// ActivityScore 日常活动等级 → 刻度值
func ActivityScore(level string) float64 {
	if v, ok := activityScale[level]; ok {
		return v
	}
	return activityScale["Moderate"]
}

// SleepPressureScore 醒来疲惫感 → 睡眠压力刻度值
func SleepPressureScore(answer string) float64 {
	if v, ok := sleepPressureScale[answer]; ok {
		return v
	}
	return sleepPressureScale["Sometimes"]
}
