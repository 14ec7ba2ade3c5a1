package weather

// Advisory 一条环境健康提示
type Advisory struct {
	Factor    string `json:"factor"`
	Condition string `json:"condition"`
	Effect    string `json:"effect"`
}

// HealthRules 按当前环境条件给出健康提示（规则彼此独立，可同时命中多条）
func HealthRules(c *Conditions) []Advisory {
	if c == nil {
		return nil
	}

	var rules []Advisory

	// 温度
	if c.Temperature >= 35 {
		rules = append(rules, Advisory{
			Factor:    "temperature",
			Condition: "high heat",
			Effect:    "Dehydration, fatigue, blood pressure drop",
		})
	}
	if c.Temperature <= 10 {
		rules = append(rules, Advisory{
			Factor:    "temperature",
			Condition: "cold",
			Effect:    "Blood pressure increase, heart strain",
		})
	}

	// 湿度
	if c.Humidity >= 80 {
		rules = append(rules, Advisory{
			Factor:    "humidity",
			Condition: "high humidity",
			Effect:    "Breathing difficulty, fatigue",
		})
	}
	if c.Humidity <= 30 {
		rules = append(rules, Advisory{
			Factor:    "humidity",
			Condition: "low humidity",
			Effect:    "Dry throat, cough",
		})
	}

	// 气压
	if c.Pressure < 1000 {
		rules = append(rules, Advisory{
			Factor:    "air pressure",
			Condition: "sudden drop",
			Effect:    "Headache, joint pain",
		})
	}
	if c.Pressure > 1025 {
		rules = append(rules, Advisory{
			Factor:    "air pressure",
			Condition: "sudden rise",
			Effect:    "Blood pressure discomfort",
		})
	}

	// 空气质量
	if c.AQI >= 4 {
		rules = append(rules, Advisory{
			Factor:    "air quality",
			Condition: "poor AQI",
			Effect:    "Asthma risk, chest tightness",
		})
	}

	return rules
}
