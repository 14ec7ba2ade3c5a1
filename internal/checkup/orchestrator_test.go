package checkup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vital-coach/internal/artifact"
	"vital-coach/internal/fusion"
	"vital-coach/internal/models"
	"vital-coach/internal/risk"
	"vital-coach/internal/wellness"
)

// writeWeightedModel 写一个产物（mean=0、scale=1，输出 = 权重点积 + 截距）
func writeWeightedModel(t *testing.T, dir, modelID, modelType string, features []string, weights []float64, intercept float64) {
	t.Helper()

	n := len(features)
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}
	a := artifact.Artifact{
		ModelID:   modelID,
		Type:      modelType,
		Features:  features,
		Scaler:    artifact.Scaler{Mean: make([]float64, n), Scale: scale},
		Weights:   weights,
		Intercept: intercept,
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, modelID+".json"), data, 0644))
}

// writeModel 写一个零权重产物（输出完全由截距决定）
func writeModel(t *testing.T, dir, modelID, modelType string, features []string, intercept float64) {
	t.Helper()
	writeWeightedModel(t, dir, modelID, modelType, features, make([]float64, len(features)), intercept)
}

// singleWeight 只有一列非零权重的权重向量
func singleWeight(features []string, name string, w float64) []float64 {
	weights := make([]float64, len(features))
	for i, f := range features {
		if f == name {
			weights[i] = w
		}
	}
	return weights
}

// writeAllModels 5 个模型产物：heart 判 High，其余判 Low；burnout 85，sleep 60
func writeAllModels(t *testing.T, dir string) {
	t.Helper()
	writeModel(t, dir, "diabetes", artifact.TypeLogistic, models.DiabetesFeatureOrder, -5)
	writeModel(t, dir, "heart", artifact.TypeLogistic, models.HeartFeatureOrder, 5)
	writeModel(t, dir, "stroke", artifact.TypeLogistic, models.StrokeFeatureOrder, -5)
	writeModel(t, dir, "burnout", artifact.TypeLinear, models.BurnoutFeatureOrder, 85)
	writeModel(t, dir, "sleep_quality", artifact.TypeLinear, models.SleepFeatureOrder, 60)
}

func newOrchestrator(dir string) *Orchestrator {
	logger := zap.NewNop()
	store := artifact.NewStore(dir, logger)
	return NewOrchestrator(
		fusion.NewResolver(nil, logger),
		risk.NewBank(store, logger),
		wellness.NewBurnoutModel(store, nil, logger),
		wellness.NewSleepModel(store, nil, nil, logger),
		logger,
	)
}

func TestOrchestrator_FullCheckup(t *testing.T) {
	dir := t.TempDir()
	writeAllModels(t, dir)
	o := newOrchestrator(dir)

	profile := models.Profile{Age: 45, Weight: 90, Height: 170}
	risks, wellnessSet := o.RunCheckup(profile, nil, false)

	// 三个疾病模型都有结果
	assert.Equal(t, models.RiskResultSet{
		models.DiseaseDiabetes: models.RiskLow,
		models.DiseaseHeart:    models.RiskHigh,
		models.DiseaseStroke:   models.RiskLow,
	}, risks)

	require.NotNil(t, wellnessSet.Burnout)
	require.NotNil(t, wellnessSet.Sleep)
	assert.Equal(t, 85.0, wellnessSet.Burnout.Score)
	assert.Equal(t, "High", wellnessSet.Burnout.Level)
	assert.False(t, wellnessSet.Burnout.Estimated)
	assert.Equal(t, 60.0, wellnessSet.Sleep.EfficiencyScore)
	assert.False(t, wellnessSet.Sleep.Estimated)
}

func TestOrchestrator_SparseProfile(t *testing.T) {
	// 空档案也必须能跑检查（人口学默认值兜底）
	dir := t.TempDir()
	writeAllModels(t, dir)
	o := newOrchestrator(dir)

	risks, wellnessSet := o.RunCheckup(models.Profile{}, nil, false)

	assert.Len(t, risks, 3)
	assert.False(t, wellnessSet.Empty())
}

func TestOrchestrator_SingleModelFailureIsolated(t *testing.T) {
	// heart 产物缺失：其他疾病照常评估，heart 键缺失
	dir := t.TempDir()
	writeAllModels(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "heart.json")))
	o := newOrchestrator(dir)

	risks, wellnessSet := o.RunCheckup(models.Profile{Age: 45}, nil, false)

	assert.Len(t, risks, 2)
	assert.Contains(t, risks, models.DiseaseDiabetes)
	assert.Contains(t, risks, models.DiseaseStroke)
	assert.NotContains(t, risks, models.DiseaseHeart)
	assert.False(t, wellnessSet.Empty())
}

func TestOrchestrator_AllModelsMissing(t *testing.T) {
	// 产物目录为空：疾病结果集为空，健康评分降级为合成结果
	o := newOrchestrator(t.TempDir())

	risks, wellnessSet := o.RunCheckup(models.Profile{}, nil, false)

	assert.Empty(t, risks)
	require.NotNil(t, wellnessSet.Burnout)
	require.NotNil(t, wellnessSet.Sleep)
	assert.True(t, wellnessSet.Burnout.Estimated)
	assert.True(t, wellnessSet.Sleep.Estimated)
}

func TestOrchestrator_ManualOverride(t *testing.T) {
	dir := t.TempDir()
	writeAllModels(t, dir)
	o := newOrchestrator(dir)

	manual := models.WellnessDefaults
	manual.StressScore = 85

	risks, wellnessSet := o.RunCheckup(models.Profile{Age: 30}, &manual, false)

	assert.Len(t, risks, 3)
	require.NotNil(t, wellnessSet.Sleep)
	// 高压力应出现在睡眠归因里
	assert.Contains(t, wellnessSet.Sleep.Factors,
		"High daily stress levels may be delaying sleep onset.")
}

func TestOrchestrator_DiabetesVectorUsesProfileBMI(t *testing.T) {
	// 糖尿病特征向量必须叠加档案计算出的 BMI：
	// 只有 BMI 列有权重，z = BMI - 28 → 90kg/170cm (31.14) 判 High，
	// 60kg/170cm (20.76) 判 Low。权重叠加缺失时两个档案结果相同。
	dir := t.TempDir()
	writeWeightedModel(t, dir, "diabetes", artifact.TypeLogistic,
		models.DiabetesFeatureOrder,
		singleWeight(models.DiabetesFeatureOrder, "BMI", 1), -28)
	o := newOrchestrator(dir)

	risks, _ := o.RunCheckup(models.Profile{Age: 45, Weight: 90, Height: 170}, nil, false)
	assert.Equal(t, models.RiskHigh, risks[models.DiseaseDiabetes])

	risks, _ = o.RunCheckup(models.Profile{Age: 45, Weight: 60, Height: 170}, nil, false)
	assert.Equal(t, models.RiskLow, risks[models.DiseaseDiabetes])
}

func TestOrchestrator_DiabetesVectorUsesProfileAge(t *testing.T) {
	// 只有 Age 列有权重，z = Age - 44.5 → 45 岁判 High，40 岁判 Low
	dir := t.TempDir()
	writeWeightedModel(t, dir, "diabetes", artifact.TypeLogistic,
		models.DiabetesFeatureOrder,
		singleWeight(models.DiabetesFeatureOrder, "Age", 1), -44.5)
	o := newOrchestrator(dir)

	risks, _ := o.RunCheckup(models.Profile{Age: 45}, nil, false)
	assert.Equal(t, models.RiskHigh, risks[models.DiseaseDiabetes])

	risks, _ = o.RunCheckup(models.Profile{Age: 40}, nil, false)
	assert.Equal(t, models.RiskLow, risks[models.DiseaseDiabetes])
}

func TestOrchestrator_DiabetesVectorUsesGlucosePlaceholder(t *testing.T) {
	// 血糖始终是占位值 120：z = Glucose - 119.5 恒为正 → 恒判 High
	dir := t.TempDir()
	writeWeightedModel(t, dir, "diabetes", artifact.TypeLogistic,
		models.DiabetesFeatureOrder,
		singleWeight(models.DiabetesFeatureOrder, "Glucose", 1), -119.5)
	o := newOrchestrator(dir)

	risks, _ := o.RunCheckup(models.Profile{Age: 30, Weight: 55, Height: 180}, nil, false)
	assert.Equal(t, models.RiskHigh, risks[models.DiseaseDiabetes])
}

func TestOrchestrator_PanicDegradesToEmptySets(t *testing.T) {
	// 未被隔离的意外失败（nil 产物仓库触发 panic）整体降级为两个空结果集
	logger := zap.NewNop()
	o := NewOrchestrator(
		fusion.NewResolver(nil, logger),
		risk.NewBank(nil, logger),
		wellness.NewBurnoutModel(nil, nil, logger),
		wellness.NewSleepModel(nil, nil, nil, logger),
		logger,
	)

	risks, wellnessSet := o.RunCheckup(models.Profile{Age: 45}, nil, false)

	assert.Empty(t, risks)
	assert.True(t, wellnessSet.Empty())
}

func TestOrchestrator_Idempotent(t *testing.T) {
	// 同一输入重复运行结果一致（模型无状态）
	dir := t.TempDir()
	writeAllModels(t, dir)
	o := newOrchestrator(dir)

	profile := models.Profile{Age: 45, Weight: 80, Height: 175}
	risks1, wellness1 := o.RunCheckup(profile, nil, false)
	risks2, wellness2 := o.RunCheckup(profile, nil, false)

	assert.Equal(t, risks1, risks2)
	assert.Equal(t, wellness1.Burnout.Score, wellness2.Burnout.Score)
	assert.Equal(t, wellness1.Sleep.EfficiencyScore, wellness2.Sleep.EfficiencyScore)
}
