package config

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"hrv-service/internal/hrv"
)

// Config конфигурация приложения
type Config struct {
	ServerPort      string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ResultTTL       time.Duration
	MaxUploadBytes  int64
	Delimiter       rune
	PeakDetector    string
	PeakThreshold   float64
	PeakMinDistance int
}

// Load загружает конфигурацию из environment
func Load() Config {
	return Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		ResultTTL:       time.Duration(getEnvAsInt("RESULT_TTL_MINUTES", 60)) * time.Minute,
		MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_MB", 10)) << 20,
		Delimiter:       getEnvAsRune("CSV_DELIMITER", ';'),
		PeakDetector:    getEnv("PEAK_DETECTOR", hrv.DetectorLocalMaxima),
		PeakThreshold:   getEnvAsFloat("PEAK_THRESHOLD", 0),
		PeakMinDistance: getEnvAsInt("PEAK_MIN_DISTANCE", 0),
	}
}

// Validate проверяет конфигурацию
func (c Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server port is required")
	}

	if c.ResultTTL <= 0 {
		return fmt.Errorf("result TTL must be positive")
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}

	if c.Delimiter == '\n' || c.Delimiter == '\r' || c.Delimiter == '"' || c.Delimiter == utf8.RuneError {
		return fmt.Errorf("invalid CSV delimiter %q", c.Delimiter)
	}

	if _, err := c.Detector(); err != nil {
		return err
	}

	return nil
}

// Detector создает стратегию детекции пиков из конфигурации
func (c Config) Detector() (hrv.PeakDetector, error) {
	return hrv.NewDetector(c.PeakDetector, c.PeakThreshold, c.PeakMinDistance)
}

// CacheEnabled пустой REDIS_ADDR отключает кэш
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// getEnv получает environment variable или возвращает default
func getEnv(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return value
}

// getEnvAsInt получает environment variable как int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat получает environment variable как float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var value float64
	if _, err := fmt.Sscanf(valueStr, "%f", &value); err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsRune читает односимвольное значение; "\t" означает табуляцию.
// Для значений длиннее одного символа возвращает utf8.RuneError, который отклоняет Validate.
func getEnvAsRune(key string, defaultValue rune) rune {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if valueStr == `\t` {
		return '\t'
	}
	if utf8.RuneCountInString(valueStr) != 1 {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(valueStr)
	return r
}
