// Package weather 提供天气/空气质量适配器与健康提示规则
//
// 外部只读依赖（Open-Meteo，免费无密钥），幂等可重试，
// 与遥测拉取之间没有顺序依赖。
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	forecastURL   = "https://api.open-meteo.com/v1/forecast"
	airQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"

	requestTimeout = 10 * time.Second
)

// Conditions 当前天气与空气质量
type Conditions struct {
	Temperature float64 `json:"temperature"` // 摄氏度
	Humidity    float64 `json:"humidity"`    // 相对湿度百分比
	Pressure    float64 `json:"pressure"`    // 地表气压 hPa
	AQI         int     `json:"aqi"`         // 欧洲 AQI 等级（1-5）
}

// Client 天气客户端
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient 创建天气客户端
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

type forecastResponse struct {
	Current struct {
		Temperature     float64 `json:"temperature_2m"`
		Humidity        float64 `json:"relative_humidity_2m"`
		SurfacePressure float64 `json:"surface_pressure"`
	} `json:"current"`
}

type airQualityResponse struct {
	Current struct {
		EuropeanAQI float64 `json:"european_aqi"`
	} `json:"current"`
}

// GetConditions 获取指定坐标的当前天气与空气质量
func (c *Client) GetConditions(ctx context.Context, lat, lon float64) (*Conditions, error) {
	var forecast forecastResponse
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current=temperature_2m,relative_humidity_2m,surface_pressure",
		forecastURL, lat, lon)
	if err := c.getJSON(ctx, url, &forecast); err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}

	cond := &Conditions{
		Temperature: forecast.Current.Temperature,
		Humidity:    forecast.Current.Humidity,
		Pressure:    forecast.Current.SurfacePressure,
	}

	// AQI 获取失败不阻塞天气结果（单独的上游端点）
	var aq airQualityResponse
	aqURL := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current=european_aqi",
		airQualityURL, lat, lon)
	if err := c.getJSON(ctx, aqURL, &aq); err != nil {
		c.logger.Warn("Failed to fetch air quality, AQI omitted", zap.Error(err))
	} else {
		// 欧洲 AQI 数值 → 1-5 等级（每 20 一档）
		cond.AQI = int(aq.Current.EuropeanAQI)/20 + 1
		if cond.AQI > 5 {
			cond.AQI = 5
		}
	}

	return cond, nil
}

// getJSON 发起 GET 请求并解析 JSON 响应
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
