// Package checkup 提供整体健康检查编排
//
// 一次检查周期（用户动作触发，同步运行到结束）：
// 融合解析 → 疾病风险模型库 + 健康评分模型库 → 组装单一结果。
// 单个疾病模型失败被就地隔离（不阻塞其他模型）；任何未被隔离的
// 意外失败整体降级为两个空结果集——调用方必须把空集理解为
// "检查未能运行"，而不是"无风险"。
package checkup

import (
	"errors"

	"go.uber.org/zap"

	"vital-coach/internal/fusion"
	"vital-coach/internal/models"
	"vital-coach/internal/risk"
	"vital-coach/internal/wellness"
)

// 稀疏档案的兜底人口学默认值
const (
	defaultAge      = 40
	defaultWeightKg = 70
	defaultHeightCm = 170
	defaultGlucose  = 120 // 平均血糖占位值（用户通常不知道）
)

// Orchestrator 健康检查编排器
type Orchestrator struct {
	resolver *fusion.Resolver
	riskBank *risk.Bank
	burnout  *wellness.BurnoutModel
	sleep    *wellness.SleepModel
	logger   *zap.Logger
}

// NewOrchestrator 创建编排器
func NewOrchestrator(
	resolver *fusion.Resolver,
	riskBank *risk.Bank,
	burnout *wellness.BurnoutModel,
	sleep *wellness.SleepModel,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		riskBank: riskBank,
		burnout:  burnout,
		sleep:    sleep,
		logger:   logger,
	}
}

// RunCheckup 运行一次完整健康检查
//
// manualOverride 是表单构建的完整健康特征集（nil 时用默认模板）；
// telemetryAvailable 表示是否有穿戴设备连接（遥测按 fusion 规则覆盖）。
// 两个结果集作为一个原子单元返回；档案副本的持久化由调用方负责。
func (o *Orchestrator) RunCheckup(
	profile models.Profile,
	manualOverride *models.WellnessInputs,
	telemetryAvailable bool,
) (risks models.RiskResultSet, wellnessSet models.WellnessResultSet) {
	// 未被隔离的意外失败整体降级为空结果集，绝不让检查崩溃
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Checkup failed unexpectedly, returning empty result sets",
				zap.Any("panic", r),
			)
			risks = models.RiskResultSet{}
			wellnessSet = models.WellnessResultSet{}
		}
	}()

	// 1. 人口学数据（稀疏档案也必须能跑检查）
	age := profile.Age
	if age == 0 {
		age = defaultAge
	}
	weight := profile.Weight
	if weight == 0 {
		weight = defaultWeightKg
	}
	height := profile.Height
	if height == 0 {
		height = defaultHeightCm
	}

	bmi := fusion.ComputeBMI(weight, height)

	// 2. 疾病特征向量：默认模板叠加计算字段
	diabetesIn := models.DiabetesDefaults
	diabetesIn.Age = float64(age)
	diabetesIn.BMI = bmi
	diabetesIn.Glucose = defaultGlucose

	heartIn := models.HeartDefaults
	heartIn.Age = float64(age)

	strokeIn := models.StrokeDefaults
	strokeIn.Age = float64(age)
	strokeIn.BMI = bmi
	strokeIn.AvgGlucoseLevel = defaultGlucose

	// 3. 逐个调用风险模型，单模型失败就地隔离
	risks = models.RiskResultSet{}
	o.predictInto(risks, models.DiseaseDiabetes, diabetesIn)
	o.predictInto(risks, models.DiseaseHeart, heartIn)
	o.predictInto(risks, models.DiseaseStroke, strokeIn)

	// 4. 健康特征集：默认模板 ← 手动覆盖 ← 遥测覆盖（fusion 规则），
	//    融合内部重算 hrv_deviation
	base := models.WellnessDefaults
	if manualOverride != nil {
		base = *manualOverride
	}
	unified, _ := o.resolver.Fuse(base, telemetryAvailable)

	// 5. 健康评分模型（内部自带降级策略，总是返回可用结果）
	wellnessSet = models.WellnessResultSet{
		Burnout: o.burnout.Score(unified),
		Sleep:   o.sleep.Score(unified),
	}

	return risks, wellnessSet
}

// predictInto 调用单个疾病模型并写入结果集，失败时隔离（只记日志）
func (o *Orchestrator) predictInto(out models.RiskResultSet, disease string, features risk.FeatureVector) {
	label, err := o.riskBank.Predict(disease, features)
	if err != nil {
		if errors.Is(err, risk.ErrModelUnavailable) {
			o.logger.Warn("Risk model unavailable, skipping disease",
				zap.String("disease", disease),
				zap.Error(err),
			)
		} else {
			o.logger.Error("Risk prediction failed, skipping disease",
				zap.String("disease", disease),
				zap.Error(err),
			)
		}
		return
	}
	out[disease] = label
}
