package wearable

import "vital-coach/internal/models"

// LifestyleRisks 基于遥测快照的生活方式风险提示（规则直出，不经过模型）
func LifestyleRisks(snap *models.TelemetrySnapshot) []string {
	if snap == nil {
		return nil
	}

	var risks []string

	if snap.Steps < 4000 {
		risks = append(risks, "Low physical activity")
	}
	if snap.SleepDurationHours < 6 {
		risks = append(risks, "Poor sleep")
	}
	if snap.RestingHeartRate > 90 {
		risks = append(risks, "High resting heart rate")
	}
	if snap.Spo2 < 95 {
		risks = append(risks, "Low oxygen saturation")
	}

	return risks
}
