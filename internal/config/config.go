package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	// Event bus
	EventHistoryLimit int

	// Monitoring loop
	MonitorInterval     time.Duration
	QueueAlertThreshold int

	// Dashboard
	BroadcastInterval time.Duration
	DashboardWindow   time.Duration

	// WebSocket
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	historyLimit, err := strconv.Atoi(getEnv("EVENT_HISTORY_LIMIT", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_HISTORY_LIMIT: %w", err)
	}
	config.EventHistoryLimit = historyLimit

	monitorInterval, err := strconv.Atoi(getEnv("MONITOR_INTERVAL", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_INTERVAL: %w", err)
	}
	config.MonitorInterval = time.Duration(monitorInterval) * time.Second

	alertThreshold, err := strconv.Atoi(getEnv("QUEUE_ALERT_THRESHOLD", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_ALERT_THRESHOLD: %w", err)
	}
	config.QueueAlertThreshold = alertThreshold

	broadcastInterval, err := strconv.Atoi(getEnv("BROADCAST_INTERVAL", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid BROADCAST_INTERVAL: %w", err)
	}
	config.BroadcastInterval = time.Duration(broadcastInterval) * time.Second

	dashboardWindow, err := strconv.Atoi(getEnv("DASHBOARD_WINDOW", "3600"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_WINDOW: %w", err)
	}
	config.DashboardWindow = time.Duration(dashboardWindow) * time.Second

	wsReadTimeout, err := strconv.Atoi(getEnv("WS_READ_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_READ_TIMEOUT: %w", err)
	}
	config.WSReadTimeout = time.Duration(wsReadTimeout) * time.Second

	wsWriteTimeout, err := strconv.Atoi(getEnv("WS_WRITE_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_WRITE_TIMEOUT: %w", err)
	}
	config.WSWriteTimeout = time.Duration(wsWriteTimeout) * time.Second

	// Calculate WebSocket constants
	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
