package wellness

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vital-coach/internal/artifact"
	"vital-coach/internal/models"
)

// writeLinearModel 写一个零权重线性产物（输出完全由截距决定）
func writeLinearModel(t *testing.T, dir, modelID string, features []string, intercept float64) {
	t.Helper()

	n := len(features)
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}
	a := artifact.Artifact{
		ModelID:   modelID,
		Type:      artifact.TypeLinear,
		Features:  features,
		Scaler:    artifact.Scaler{Mean: make([]float64, n), Scale: scale},
		Weights:   make([]float64, n),
		Intercept: intercept,
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, modelID+".json"), data, 0644))
}

func burnoutModelWithScore(t *testing.T, score float64) *BurnoutModel {
	t.Helper()
	dir := t.TempDir()
	writeLinearModel(t, dir, "burnout", models.BurnoutFeatureOrder, score)
	return NewBurnoutModel(artifact.NewStore(dir, zap.NewNop()), nil, zap.NewNop())
}

func TestBurnoutModel_Levels(t *testing.T) {
	// 分级边界：含下界（30 → Medium，70 → High）
	tests := []struct {
		score float64
		level string
		color string
	}{
		{10, "Low", "green"},
		{29.9, "Low", "green"},
		{30, "Medium", "orange"},
		{69.9, "Medium", "orange"},
		{70, "High", "red"},
		{95, "High", "red"},
	}

	for _, tt := range tests {
		m := burnoutModelWithScore(t, tt.score)
		result := m.Score(models.WellnessDefaults)

		assert.Equal(t, tt.score, result.Score, "score=%v", tt.score)
		assert.Equal(t, tt.level, result.Level, "score=%v", tt.score)
		assert.Equal(t, tt.color, result.Color, "score=%v", tt.score)
		assert.False(t, result.Estimated)
		assert.NotEmpty(t, result.Explanation)
	}
}

func TestBurnoutModel_ExplanationTexts(t *testing.T) {
	low := burnoutModelWithScore(t, 15).Score(models.WellnessDefaults)
	assert.Equal(t, "You are in a good state! Keep maintaining your balance.", low.Explanation)

	medium := burnoutModelWithScore(t, 50).Score(models.WellnessDefaults)
	assert.Equal(t, "Signs of fatigue detected. Consider prioritizing recovery and sleep.", medium.Explanation)

	high := burnoutModelWithScore(t, 80).Score(models.WellnessDefaults)
	assert.Equal(t,
		"High risk of burnout. It is highly recommended to take a break and consult a wellness professional.",
		high.Explanation)
}

func TestBurnoutModel_Fallback(t *testing.T) {
	// 产物缺失：降级为合成结果，Estimated 标记
	store := artifact.NewStore(t.TempDir(), zap.NewNop())
	m := NewBurnoutModel(store, rand.New(rand.NewSource(7)), zap.NewNop())

	result := m.Score(models.WellnessDefaults)
	require.NotNil(t, result)

	assert.True(t, result.Estimated)
	assert.GreaterOrEqual(t, result.Score, 20.0)
	assert.LessOrEqual(t, result.Score, 80.0)
	assert.Equal(t, "orange", result.Color)
	assert.Equal(t, "Model service temporarily unavailable (Simulated Result).", result.Explanation)

	if result.Score > 30 {
		assert.Equal(t, "Medium", result.Level)
	} else {
		assert.Equal(t, "Low", result.Level)
	}
}
