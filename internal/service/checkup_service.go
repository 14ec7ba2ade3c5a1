// Package service 整合各层组件，对表现层暴露检查服务
package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"vital-coach/internal/artifact"
	"vital-coach/internal/checkup"
	"vital-coach/internal/config"
	"vital-coach/internal/fusion"
	"vital-coach/internal/models"
	"vital-coach/internal/notifier"
	"vital-coach/internal/observer"
	"vital-coach/internal/repository"
	"vital-coach/internal/risk"
	"vital-coach/internal/weather"
	"vital-coach/internal/wearable"
	"vital-coach/internal/wellness"
)

// ErrCheckupFailed 检查未能运行（两个结果集都为空）
var ErrCheckupFailed = fmt.Errorf("analysis could not complete")

// CheckupForm 表单录入（手动数据源）
type CheckupForm struct {
	Age    int
	Weight float64 // kg
	Height float64 // cm
	Gender string

	SleepHours    float64 // 平均睡眠时长（小时）
	StressLevel   string  // Low / Medium / High
	ActivityLevel string  // Sedentary / Moderate / Active
	WakeTired     string  // No / Sometimes / Yes
}

// CheckupReport 一次检查周期的完整输出
type CheckupReport struct {
	Risks    models.RiskResultSet     `json:"risks"`
	Wellness models.WellnessResultSet `json:"wellness"`
	Alerts   []models.Alert           `json:"alerts"`
	Profile  *models.Profile          `json:"profile"`
}

// CheckupService 健康检查服务（整合各层）
type CheckupService struct {
	config      *config.Config
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger

	// 各层组件
	profileRepo   *repository.ProfileRepository
	simulator     *wearable.Simulator
	resolver      *fusion.Resolver
	artifactStore *artifact.Store
	orchestrator  *checkup.Orchestrator
	sessionStore  *observer.SessionStore
	observer      *observer.Observer
	notifier      notifier.Notifier
	weatherClient *weather.Client
}

// NewCheckupService 创建检查服务
func NewCheckupService(cfg *config.Config, logger *zap.Logger) (*CheckupService, error) {
	// 1. 连接数据库
	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 2. 连接 Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	// 3. 通知通道（broker 未启用时使用空实现）
	var n notifier.Notifier = notifier.NopNotifier{}
	if cfg.MQTT.Enabled {
		mqttNotifier, err := notifier.NewMQTTNotifier(&cfg.MQTT, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create mqtt notifier: %w", err)
		}
		n = mqttNotifier
	}

	// 4. 组装各层
	profileRepo := repository.NewProfileRepository(db, logger)
	simulator := wearable.NewSimulator(nil, nil)
	resolver := fusion.NewResolver(simulator, logger)
	store := artifact.NewStore(cfg.Checkup.ArtifactsDir, logger)
	riskBank := risk.NewBank(store, logger)
	burnoutModel := wellness.NewBurnoutModel(store, nil, logger)
	sleepModel := wellness.NewSleepModel(store, nil, nil, logger)
	orchestrator := checkup.NewOrchestrator(resolver, riskBank, burnoutModel, sleepModel, logger)
	sessionStore := observer.NewSessionStore(cfg, redisClient, logger)
	obs := observer.NewObserver(sessionStore, n, logger)

	return &CheckupService{
		config:        cfg,
		db:            db,
		redisClient:   redisClient,
		logger:        logger,
		profileRepo:   profileRepo,
		simulator:     simulator,
		resolver:      resolver,
		artifactStore: store,
		orchestrator:  orchestrator,
		sessionStore:  sessionStore,
		observer:      obs,
		notifier:      n,
		weatherClient: weather.NewClient(logger),
	}, nil
}

// RunCheckupForUser 为用户运行一次完整检查周期
//
// 读取档案副本 → 编排检查 → 持久化更新后的档案 → 报警评估。
// 检查未能运行（空结果集）时返回 ErrCheckupFailed，档案保持原样。
func (s *CheckupService) RunCheckupForUser(
	ctx context.Context,
	username, sessionID string,
	form *CheckupForm,
	deviceConnected bool,
) (*CheckupReport, error) {
	profile, err := s.profileRepo.GetProfile(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	// 表单人口学数据并入档案副本（原档案在持久化成功前不动）
	updated := *profile
	var manual *models.WellnessInputs
	if form != nil {
		updated.Age = form.Age
		updated.Weight = form.Weight
		updated.Height = form.Height
		updated.Gender = form.Gender
		manual = buildManualInputs(form)
	}
	updated.BMI = fusion.ComputeBMI(updated.Weight, updated.Height)

	risks, wellnessSet := s.orchestrator.RunCheckup(updated, manual, deviceConnected)
	if len(risks) == 0 && wellnessSet.Empty() {
		// 空结果集 = 检查未能运行，档案不做部分覆盖
		return nil, ErrCheckupFailed
	}

	updated.Risks = risks
	updated.Wellness = &wellnessSet

	if err := s.profileRepo.UpdateProfile(ctx, username, &updated); err != nil {
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}

	alerts := s.observer.Evaluate(ctx, sessionID, risks, wellnessSet)

	s.logger.Info("Checkup completed",
		zap.String("username", username),
		zap.Int("risk_results", len(risks)),
		zap.Int("alerts_fired", len(alerts)),
	)

	return &CheckupReport{
		Risks:    risks,
		Wellness: wellnessSet,
		Alerts:   alerts,
		Profile:  &updated,
	}, nil
}

// buildManualInputs 表单 → 健康特征集（分类答案离散化，默认模板打底）
func buildManualInputs(form *CheckupForm) *models.WellnessInputs {
	in := models.WellnessDefaults

	if form.SleepHours > 0 {
		in.SleepDurationHours = form.SleepHours
		in.Sleep7dAvg = form.SleepHours
	}
	in.StressScore = fusion.StressScore(form.StressLevel)
	in.ActivityLoad = fusion.ActivityScore(form.ActivityLevel)
	in.SleepPressure = fusion.SleepPressureScore(form.WakeTired)

	return &in
}

// ActiveAlerts 读取会话的活跃报警
func (s *CheckupService) ActiveAlerts(ctx context.Context, sessionID string) ([]string, error) {
	return s.sessionStore.GetAlerts(ctx, sessionID)
}

// ClearAlerts 清空会话报警（用户显式操作）
func (s *CheckupService) ClearAlerts(ctx context.Context, sessionID string) error {
	return s.sessionStore.ClearAlerts(ctx, sessionID)
}

// ChatHistory 读取会话对话日志
func (s *CheckupService) ChatHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	return s.sessionStore.GetChatHistory(ctx, sessionID)
}

// Telemetry 拉取一次遥测快照（仪表盘展示用）
func (s *CheckupService) Telemetry() *models.TelemetrySnapshot {
	return s.simulator.GetReading()
}

// LifestyleRisks 基于遥测的生活方式风险提示
func (s *CheckupService) LifestyleRisks() []string {
	return wearable.LifestyleRisks(s.simulator.GetReading())
}

// WeatherAdvisories 获取环境健康提示
func (s *CheckupService) WeatherAdvisories(ctx context.Context, lat, lon float64) ([]weather.Advisory, error) {
	cond, err := s.weatherClient.GetConditions(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	return weather.HealthRules(cond), nil
}

// Register 注册用户
func (s *CheckupService) Register(ctx context.Context, username, password string) error {
	return s.profileRepo.Register(ctx, username, password, nil)
}

// Authenticate 校验登录
func (s *CheckupService) Authenticate(ctx context.Context, username, password string) (*models.Profile, error) {
	return s.profileRepo.Authenticate(ctx, username, password)
}

// Stop 关闭服务
func (s *CheckupService) Stop() {
	if mqttNotifier, ok := s.notifier.(*notifier.MQTTNotifier); ok {
		mqttNotifier.Disconnect()
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Error closing Redis client", zap.Error(err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Error closing database connection", zap.Error(err))
		}
	}
}
