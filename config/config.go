package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv" // 引入這個庫來讀取 .env 檔案
)

// Config 結構體用於儲存應用程式的配置
type Config struct {
	MongoDBURI     string
	DBName         string
	Port           string
	AllowedOrigins []string
	RedisURL       string // 空字串表示不使用分散式鎖
	SweepInterval  time.Duration
	IdleTimeout    time.Duration
	Location       *time.Location
	LogLevel       string
	Env            string
	EnvFileLoaded  bool // 是否有讀到 .env 檔案
}

// LoadConfig 載入配置，優先從環境變數讀取，其次從 .env 檔案讀取
func LoadConfig() (*Config, error) {
	// 嘗試載入 .env 檔案，如果不存在也不會報錯
	envFileErr := godotenv.Load()

	cfg := &Config{
		MongoDBURI:     getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("DB_NAME", "api_bate_papo_uol"),
		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		RedisURL:       getEnv("REDIS_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Env:            getEnv("APP_ENV", "production"),
		EnvFileLoaded:  envFileErr == nil,
	}

	var err error
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.IdleTimeout, err = getDuration("IDLE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Location, err = loadLocation(getEnv("TIME_ZONE", "Local")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv 輔助函數，用於從環境變數獲取值，如果不存在則使用預設值
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("TIME_ZONE: %w", err)
	}
	return loc, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
