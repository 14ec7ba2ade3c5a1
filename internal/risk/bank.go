// Package risk 提供疾病风险模型库
//
// 每个疾病一个独立的二分类模型，共享同一调用契约：
// 按固定列顺序的特征向量输入 → {Low Risk, High Risk} 分类输出。
// 模型是无状态纯函数，彼此不依赖；产物加载失败以 ErrModelUnavailable
// 上抛，由编排器隔离处理（模型内部不做概率性猜测兜底）。
package risk

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vital-coach/internal/artifact"
	"vital-coach/internal/models"
)

// ErrModelUnavailable 模型产物缺失或损坏，无法完成推理
var ErrModelUnavailable = errors.New("risk model unavailable")

// ErrInvalidFeatureVector 特征向量与模型契约不符（列缺失或顺序错误）
// 属于编程契约违规，应在测试阶段暴露
var ErrInvalidFeatureVector = errors.New("invalid feature vector")

// 分类阈值：sigmoid 概率 >= 0.5 判为 High Risk
const highRiskThreshold = 0.5

// FeatureVector 模型输入契约：命名列 + 按列顺序的数值向量
type FeatureVector interface {
	Names() []string
	Vector() []float64
}

// Bank 疾病风险模型库
type Bank struct {
	store  *artifact.Store
	logger *zap.Logger
}

// NewBank 创建风险模型库
func NewBank(store *artifact.Store, logger *zap.Logger) *Bank {
	return &Bank{
		store:  store,
		logger: logger,
	}
}

// Predict 调用指定疾病的风险模型
//
// disease 同时是模型产物 ID（diabetes / heart / stroke）。
// 特征向量的列顺序在打分前与产物声明的列顺序逐一比对，
// 不一致视为契约违规（ErrInvalidFeatureVector），不做静默纠正。
func (b *Bank) Predict(disease string, features FeatureVector) (string, error) {
	a, err := b.store.Load(disease)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrModelUnavailable, disease, err)
	}

	if err := checkOrder(features.Names(), a.Features); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidFeatureVector, disease, err)
	}

	p, err := a.Score(features.Vector())
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidFeatureVector, disease, err)
	}

	label := models.RiskLow
	if p >= highRiskThreshold {
		label = models.RiskHigh
	}

	b.logger.Debug("Risk prediction",
		zap.String("disease", disease),
		zap.Float64("probability", p),
		zap.String("label", label),
	)

	return label, nil
}

// checkOrder 逐列比对特征顺序
func checkOrder(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("feature count %d != expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("feature[%d] is %q, expected %q", i, got[i], want[i])
		}
	}
	return nil
}
