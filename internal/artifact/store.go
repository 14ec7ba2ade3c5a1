// Package artifact 提供模型产物存取
//
// 模型产物是 JSON 系数文件（<dir>/<model_id>.json）：特征列顺序、
// 标准化参数（mean/scale）、线性权重和截距。产物缺失与产物损坏是
// 两种可区分的失败（调用方按 ModelUnavailable 语义降级处理）。
// 产物进程内只加载一次（全进程缓存，会话中不重复加载）。
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// ErrMissing 产物文件不存在
var ErrMissing = errors.New("model artifact missing")

// ErrCorrupt 产物文件无法解析或内部不一致
var ErrCorrupt = errors.New("model artifact corrupt")

// 模型类型
const (
	TypeLogistic = "logistic" // 二分类（sigmoid 输出 0-1）
	TypeLinear   = "linear"   // 回归（原始线性输出）
)

// Scaler 标准化参数（训练时的列均值和标准差）
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Artifact 模型产物（一个可调用的打分函数的全部参数）
type Artifact struct {
	ModelID   string    `json:"model_id"`
	Type      string    `json:"type"`
	Features  []string  `json:"features"`
	Scaler    Scaler    `json:"scaler"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// validate 检查产物内部一致性
func (a *Artifact) validate() error {
	n := len(a.Features)
	if n == 0 {
		return fmt.Errorf("no features declared")
	}
	if len(a.Weights) != n {
		return fmt.Errorf("weights length %d != features length %d", len(a.Weights), n)
	}
	if len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n {
		return fmt.Errorf("scaler length mismatch: mean=%d scale=%d features=%d",
			len(a.Scaler.Mean), len(a.Scaler.Scale), n)
	}
	if a.Type != TypeLogistic && a.Type != TypeLinear {
		return fmt.Errorf("unknown model type: %s", a.Type)
	}
	for i, s := range a.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("scaler scale[%d] is zero", i)
		}
	}
	return nil
}

// Score 对一个按列顺序排列的特征向量打分
// logistic 类型输出 sigmoid 概率（0-1），linear 类型输出原始回归值
func (a *Artifact) Score(x []float64) (float64, error) {
	if len(x) != len(a.Features) {
		return 0, fmt.Errorf("feature vector length %d != expected %d", len(x), len(a.Features))
	}

	z := a.Intercept
	for i, v := range x {
		standardized := (v - a.Scaler.Mean[i]) / a.Scaler.Scale[i]
		z += a.Weights[i] * standardized
	}

	if a.Type == TypeLogistic {
		return 1 / (1 + math.Exp(-z)), nil
	}
	return z, nil
}

// Store 模型产物仓库（带全进程缓存）
type Store struct {
	dir    string
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]*Artifact
}

// NewStore 创建产物仓库
func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger,
		cache:  make(map[string]*Artifact),
	}
}

// Load 加载模型产物
//
// 文件不存在返回 ErrMissing，解析失败或内部不一致返回 ErrCorrupt
// （errors.Is 可区分）。成功加载后缓存，同一产物不会重复读盘。
func (s *Store) Load(modelID string) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.cache[modelID]; ok {
		return a, nil
	}

	path := filepath.Join(s.dir, modelID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, modelID)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", modelID, err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, modelID, err)
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, modelID, err)
	}

	s.cache[modelID] = &a
	s.logger.Info("Model artifact loaded",
		zap.String("model_id", modelID),
		zap.String("type", a.Type),
		zap.Int("features", len(a.Features)),
	)

	return &a, nil
}
