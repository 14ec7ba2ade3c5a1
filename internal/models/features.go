package models

// 模型特征记录（强类型）
//
// 每个疾病模型的特征向量是位置敏感的：模型产物（artifact）按固定顺序
// 存储权重和标准化参数，Vector() 必须严格按照训练时的列顺序输出。
// 字段名和顺序是与模型产物的稳定契约，不可调整。
//
// 默认模板（*Defaults）代表"普通健康成年人"，在用户档案缺少医学指标时
// 兜底使用，由 checkup 编排器在每个周期叠加计算字段（age/BMI/glucose）。

// DiabetesFeatures 糖尿病模型特征（Pima 数据集列顺序）
type DiabetesFeatures struct {
	Pregnancies              float64 `json:"Pregnancies"`
	Glucose                  float64 `json:"Glucose"`
	BloodPressure            float64 `json:"BloodPressure"`
	SkinThickness            float64 `json:"SkinThickness"`
	Insulin                  float64 `json:"Insulin"`
	BMI                      float64 `json:"BMI"`
	DiabetesPedigreeFunction float64 `json:"DiabetesPedigreeFunction"`
	Age                      float64 `json:"Age"`
}

// DiabetesFeatureOrder 糖尿病模型的列顺序（与模型产物一致）
var DiabetesFeatureOrder = []string{
	"Pregnancies",
	"Glucose",
	"BloodPressure",
	"SkinThickness",
	"Insulin",
	"BMI",
	"DiabetesPedigreeFunction",
	"Age",
}

// DiabetesDefaults 糖尿病模型默认模板
var DiabetesDefaults = DiabetesFeatures{
	Pregnancies:              1,
	Glucose:                  120,
	BloodPressure:            80,
	SkinThickness:            20,
	Insulin:                  85,
	BMI:                      25,
	DiabetesPedigreeFunction: 0.5,
	Age:                      40,
}

// Names 返回列顺序
func (f DiabetesFeatures) Names() []string { return DiabetesFeatureOrder }

// Vector 按列顺序输出特征值
func (f DiabetesFeatures) Vector() []float64 {
	return []float64{
		f.Pregnancies,
		f.Glucose,
		f.BloodPressure,
		f.SkinThickness,
		f.Insulin,
		f.BMI,
		f.DiabetesPedigreeFunction,
		f.Age,
	}
}

// HeartFeatures 心脏病模型特征（UCI heart 数据集列顺序）
type HeartFeatures struct {
	Age      float64 `json:"age"`
	Sex      float64 `json:"sex"`
	Dataset  float64 `json:"dataset"`
	Cp       float64 `json:"cp"`
	Trestbps float64 `json:"trestbps"`
	Chol     float64 `json:"chol"`
	Fbs      float64 `json:"fbs"`
	Restecg  float64 `json:"restecg"`
	Thalch   float64 `json:"thalch"`
	Exang    float64 `json:"exang"`
	Oldpeak  float64 `json:"oldpeak"`
	Slope    float64 `json:"slope"`
	Ca       float64 `json:"ca"`
	Thal     float64 `json:"thal"`
}

// HeartFeatureOrder 心脏病模型的列顺序
var HeartFeatureOrder = []string{
	"age", "sex", "dataset", "cp", "trestbps", "chol", "fbs",
	"restecg", "thalch", "exang", "oldpeak", "slope", "ca", "thal",
}

// HeartDefaults 心脏病模型默认模板
var HeartDefaults = HeartFeatures{
	Age:      45,
	Sex:      1,
	Dataset:  0,
	Cp:       0,
	Trestbps: 120,
	Chol:     200,
	Fbs:      0,
	Restecg:  0,
	Thalch:   150,
	Exang:    0,
	Oldpeak:  0.0,
	Slope:    1,
	Ca:       0,
	Thal:     2,
}

// Names 返回列顺序
func (f HeartFeatures) Names() []string { return HeartFeatureOrder }

// Vector 按列顺序输出特征值
func (f HeartFeatures) Vector() []float64 {
	return []float64{
		f.Age, f.Sex, f.Dataset, f.Cp, f.Trestbps, f.Chol, f.Fbs,
		f.Restecg, f.Thalch, f.Exang, f.Oldpeak, f.Slope, f.Ca, f.Thal,
	}
}

// StrokeFeatures 中风模型特征
type StrokeFeatures struct {
	Gender          float64 `json:"gender"`
	Age             float64 `json:"age"`
	Hypertension    float64 `json:"hypertension"`
	HeartDisease    float64 `json:"heart_disease"`
	EverMarried     float64 `json:"ever_married"`
	WorkType        float64 `json:"work_type"`
	ResidenceType   float64 `json:"Residence_type"`
	AvgGlucoseLevel float64 `json:"avg_glucose_level"`
	BMI             float64 `json:"bmi"`
	SmokingStatus   float64 `json:"smoking_status"`
}

// StrokeFeatureOrder 中风模型的列顺序
var StrokeFeatureOrder = []string{
	"gender", "age", "hypertension", "heart_disease", "ever_married",
	"work_type", "Residence_type", "avg_glucose_level", "bmi", "smoking_status",
}

// StrokeDefaults 中风模型默认模板
var StrokeDefaults = StrokeFeatures{
	Gender:          1,
	Age:             45,
	Hypertension:    0,
	HeartDisease:    0,
	EverMarried:     1,
	WorkType:        1,
	ResidenceType:   1,
	AvgGlucoseLevel: 120,
	BMI:             25,
	SmokingStatus:   1,
}

// Names 返回列顺序
func (f StrokeFeatures) Names() []string { return StrokeFeatureOrder }

// Vector 按列顺序输出特征值
func (f StrokeFeatures) Vector() []float64 {
	return []float64{
		f.Gender, f.Age, f.Hypertension, f.HeartDisease, f.EverMarried,
		f.WorkType, f.ResidenceType, f.AvgGlucoseLevel, f.BMI, f.SmokingStatus,
	}
}
