// Package wearable 提供穿戴设备遥测源适配器
//
// 当前实现是模拟器（无真实设备接入时使用）：
// - 步数随时间累积（有状态，进程内保持一致）
// - 心率按昼夜正弦周期波动（凌晨4点最低，下午4点最高）加噪声
// - 睡眠/HRV/血氧等指标在生理合理区间内随机
//
// 模拟器显式持有时钟和随机源依赖，步数累积逻辑可用假时钟单测。
package wearable

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"vital-coach/internal/models"
)

// Clock 时钟依赖（可注入假时钟）
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock 系统时钟
func RealClock() Clock { return realClock{} }

// Simulator 穿戴设备模拟器（遥测源）
//
// 唯一的可变状态是步数累积器和上次更新时间，
// 由互斥锁保护（同一会话同时只有一个检查周期在运行，锁只是兜底）。
type Simulator struct {
	mu         sync.Mutex
	clock      Clock
	rng        *rand.Rand
	stepCount  int
	lastUpdate time.Time
}

// NewSimulator 创建模拟器
// clock 为 nil 时使用系统时钟，rng 为 nil 时使用时间种子
func NewSimulator(clock Clock, rng *rand.Rand) *Simulator {
	if clock == nil {
		clock = RealClock()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		clock:      clock,
		rng:        rng,
		stepCount:  2500,
		lastUpdate: clock.Now(),
	}
}

// GetReading 获取一次遥测快照
//
// 每次调用推进步数累积：距上次更新超过 1 秒时，
// 以 30% 概率按约 1.5 步/秒累加（模拟间歇性走动）。
func (s *Simulator) GetReading() *models.TelemetrySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	// 步数累积
	elapsed := now.Sub(s.lastUpdate).Seconds()
	if elapsed > 1 {
		if s.rng.Float64() > 0.7 {
			s.stepCount += int(elapsed * 1.5)
		}
		s.lastUpdate = now
	}

	// 心率昼夜周期（基础心率 + 噪声）
	hour := float64(now.Hour()) + float64(now.Minute())/60
	baseHR := 75 + 10*math.Sin((hour-10)*math.Pi/12)
	heartRate := int(baseHR) + s.randRange(-5, 15)

	// 睡眠指标
	sleepDuration := round1(6.0 + s.rng.Float64()*2.5) // 小时
	sleepEfficiency := round1(75 + s.rng.Float64()*20) // 百分比

	// HRV（RMSSD，毫秒）：正常区间 20-100ms，越高越好
	hrv := round1(25 + s.rng.Float64()*60)

	restingHR := int(baseHR - 15)
	// 压力分与 HRV 负相关
	stress := clampInt(100-int(hrv)+s.randRange(-10, 10), 0, 100)
	sleepScore := int(sleepDuration/8*50 + sleepEfficiency/100*50)

	spo2Choices := []int{98, 98, 99, 97}
	spo2 := spo2Choices[s.rng.Intn(len(spo2Choices))]

	return &models.TelemetrySnapshot{
		Timestamp:          now.Format("15:04:05"),
		HeartRate:          heartRate,
		RestingHeartRate:   restingHR,
		Steps:              s.stepCount,
		SleepDurationHours: sleepDuration,
		SleepEfficiency:    sleepEfficiency,
		SleepScore:         sleepScore,
		HrvRmssdMs:         hrv,
		StressScore:        stress,
		Spo2:               spo2,
		Calories:           int(float64(s.stepCount) * 0.04),
		DistanceKm:         round2(float64(s.stepCount) * 0.0008),
		History:            s.buildHistory(),
	}
}

// buildHistory 生成最近 24 小时的逐小时历史（图表用）
func (s *Simulator) buildHistory() models.History {
	h := models.History{
		Time:      make([]string, 0, 24),
		HeartRate: make([]int, 0, 24),
		Steps:     make([]int, 0, 24),
	}
	for i := 0; i < 24; i++ {
		h.Time = append(h.Time, fmt.Sprintf("%02d:00", i))

		base := 75 + 10*math.Sin((float64(i)-10)*math.Pi/12)
		h.HeartRate = append(h.HeartRate, int(base)+s.randRange(-5, 15))

		// 白天（8-20点）步数明显更高
		if i >= 8 && i <= 20 {
			h.Steps = append(h.Steps, 200+s.rng.Intn(601))
		} else {
			h.Steps = append(h.Steps, s.rng.Intn(51))
		}
	}
	return h
}

// randRange [min, max] 闭区间随机整数
func (s *Simulator) randRange(min, max int) int {
	return min + s.rng.Intn(max-min+1)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
