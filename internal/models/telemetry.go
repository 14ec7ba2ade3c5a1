package models

// TelemetrySnapshot 穿戴设备的一次遥测快照（Reading）
//
// 由 wearable 适配器产生，字段始终齐全（模拟器保证），
// 设备未连接时整体为 nil。
type TelemetrySnapshot struct {
	Timestamp          string  `json:"timestamp"`
	HeartRate          int     `json:"heart_rate"`
	RestingHeartRate   int     `json:"resting_heart_rate"`
	Steps              int     `json:"steps"`
	SleepDurationHours float64 `json:"sleep_duration_hours"`
	SleepEfficiency    float64 `json:"sleep_efficiency"`
	SleepScore         int     `json:"sleep_score"`
	HrvRmssdMs         float64 `json:"hrv_rmssd_ms"`
	StressScore        int     `json:"stress_score"`
	Spo2               int     `json:"spo2"`
	Calories           int     `json:"calories"`
	DistanceKm         float64 `json:"distance"`
	History            History `json:"history"`
}

// History 最近 24 小时的逐小时历史（仪表盘图表用）
type History struct {
	Time      []string `json:"time"`
	HeartRate []int    `json:"heart_rate"`
	Steps     []int    `json:"steps"`
}
