package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"vital-coach/internal/config"
	"vital-coach/internal/logger"
	"vital-coach/internal/service"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "vital-coach")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. 获取用户与会话（从环境变量）
	username := os.Getenv("CHECKUP_USERNAME")
	if username == "" {
		log.Fatal("CHECKUP_USERNAME environment variable is required")
	}
	sessionID := os.Getenv("CHECKUP_SESSION_ID")
	if sessionID == "" {
		sessionID = username
	}
	deviceConnected := os.Getenv("CHECKUP_DEVICE_CONNECTED") == "true"

	// 4. 创建服务
	checkupService, err := service.NewCheckupService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create checkup service",
			zap.Error(err),
		)
	}
	defer checkupService.Stop()

	// 5. 运行一次检查周期
	ctx := context.Background()
	report, err := checkupService.RunCheckupForUser(ctx, username, sessionID, nil, deviceConnected)
	if err != nil {
		log.Fatal("Checkup failed",
			zap.String("username", username),
			zap.Error(err),
		)
	}

	// 6. 输出检查报告
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal("Failed to marshal report", zap.Error(err))
	}
	fmt.Println(string(output))

	log.Info("Checkup run finished",
		zap.String("username", username),
		zap.String("session_id", sessionID),
		zap.Bool("device_connected", deviceConnected),
		zap.Int("alerts_fired", len(report.Alerts)),
	)
}
