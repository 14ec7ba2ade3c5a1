package models

// 风险标签（分类结果）
const (
	RiskLow  = "Low Risk"
	RiskHigh = "High Risk"
)

// 疾病标识（RiskResultSet 的键，同时也是模型产物 ID）
const (
	DiseaseDiabetes = "diabetes"
	DiseaseHeart    = "heart"
	DiseaseStroke   = "stroke"
)

// DiseaseOrder 疾病评估顺序（结果集合遍历时使用，保证输出稳定）
var DiseaseOrder = []string{DiseaseDiabetes, DiseaseHeart, DiseaseStroke}

// RiskResultSet 一个检查周期的疾病风险结果集
// 键为疾病标识，值为 RiskLow / RiskHigh；某个模型失败时对应键缺失
type RiskResultSet map[string]string

// BurnoutResult burnout 模型结果
type BurnoutResult struct {
	Score       float64 `json:"score"`
	Level       string  `json:"level"` // Low / Medium / High
	Color       string  `json:"color"`
	Explanation string  `json:"explanation"`
	// Estimated 表示模型不可用时的合成结果（降级模式），
	// Observer 据此抑制由合成数据派生的报警
	Estimated bool `json:"estimated,omitempty"`
}

// SleepResult sleep 模型结果
type SleepResult struct {
	EfficiencyScore float64  `json:"efficiency_score"`
	Factors         []string `json:"factors"`
	Estimated       bool     `json:"estimated,omitempty"`
}

// WellnessResultSet 一个检查周期的健康评分结果集
type WellnessResultSet struct {
	Burnout *BurnoutResult `json:"burnout,omitempty"`
	Sleep   *SleepResult   `json:"sleep,omitempty"`
}

// Empty 两个集合是否都为空（空集合表示"检查未能运行"，而非"无风险"）
func (w WellnessResultSet) Empty() bool {
	return w.Burnout == nil && w.Sleep == nil
}

// Profile 用户档案（对应 users.profile JSONB 字段）
//
// JSON 结构是持久化契约，字段名不可变更。核心只接收/返回副本，
// 持久化生命周期由 repository 层负责。
type Profile struct {
	Age      int                `json:"age,omitempty"`
	Weight   float64            `json:"weight,omitempty"`
	Height   float64            `json:"height,omitempty"`
	Gender   string             `json:"gender,omitempty"`
	BMI      float64            `json:"bmi,omitempty"`
	Risks    RiskResultSet      `json:"risks,omitempty"`
	Wellness *WellnessResultSet `json:"wellness,omitempty"`
}
