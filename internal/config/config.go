package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит всю конфигурацию клиента
type Config struct {
	API      APIConfig
	Stream   StreamConfig
	Storage  StorageConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Diag     DiagConfig
}

// APIConfig - настройки HTTP клиента backend API
type APIConfig struct {
	BaseURL        string        // базовый URL backend (без /api)
	RequestTimeout time.Duration // общий таймаут одного запроса
	RateLimit      float64       // запросов в секунду к backend
	RateBurst      float64       // burst для token bucket
}

// StreamConfig - настройки live-соединения (WebSocket)
//
// Переподключение - явная политика, а не побочный эффект:
// exponential backoff от ReconnectInitialDelay до ReconnectMaxDelay,
// не более ReconnectMaxRetries попыток (0 = бесконечно).
type StreamConfig struct {
	URL                   string
	ConnectTimeout        time.Duration
	PingInterval          time.Duration
	PongTimeout           time.Duration
	ReconnectInitialDelay time.Duration
	ReconnectMaxDelay     time.Duration
	ReconnectMaxRetries   int
	BufferSize            int // ёмкость буфера последних событий
}

// StorageConfig - настройки локального хранилища (sqlite)
type StorageConfig struct {
	Path string // путь к файлу БД
}

// SecurityConfig - настройки безопасности
type SecurityConfig struct {
	EncryptionKey string // 32 байта, AES-256 для токенов в хранилище
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// DiagConfig - локальный диагностический listener (/metrics, /status)
type DiagConfig struct {
	Enabled bool
	Addr    string
}

// Load загружает конфигурацию из .env файла и переменных окружения.
// Значения из окружения имеют приоритет над .env.
func Load() (*Config, error) {
	// .env опционален: в контейнере конфигурация приходит из окружения
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:        getEnv("API_BASE_URL", "https://api.quantumleap.trade"),
			RequestTimeout: getEnvAsDuration("API_REQUEST_TIMEOUT", 30*time.Second),
			RateLimit:      getEnvAsFloat("API_RATE_LIMIT", 10),
			RateBurst:      getEnvAsFloat("API_RATE_BURST", 20),
		},
		Stream: StreamConfig{
			URL:                   getEnv("STREAM_URL", "wss://api.quantumleap.trade/ws"),
			ConnectTimeout:        getEnvAsDuration("STREAM_CONNECT_TIMEOUT", 10*time.Second),
			PingInterval:          getEnvAsDuration("STREAM_PING_INTERVAL", 30*time.Second),
			PongTimeout:           getEnvAsDuration("STREAM_PONG_TIMEOUT", 10*time.Second),
			ReconnectInitialDelay: getEnvAsDuration("STREAM_RECONNECT_DELAY", 2*time.Second),
			ReconnectMaxDelay:     getEnvAsDuration("STREAM_RECONNECT_MAX_DELAY", 16*time.Second),
			ReconnectMaxRetries:   getEnvAsInt("STREAM_RECONNECT_MAX_RETRIES", 10),
			BufferSize:            getEnvAsInt("STREAM_BUFFER_SIZE", 100),
		},
		Storage: StorageConfig{
			Path: getEnv("STORAGE_PATH", defaultStoragePath()),
		},
		Security: SecurityConfig{
			EncryptionKey: getEnv("ENCRYPTION_KEY", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Diag: DiagConfig{
			Enabled: getEnvAsBool("DIAG_ENABLED", false),
			Addr:    getEnv("DIAG_ADDR", "127.0.0.1:9190"),
		},
	}

	if err := cfg.validateSecurity(); err != nil {
		return nil, err
	}

	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateSecurity проверяет параметры безопасности
func (c *Config) validateSecurity() error {
	// ENCRYPTION_KEY обязателен: без него токены сессии
	// пришлось бы хранить в открытом виде
	if c.Security.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required for encrypting stored session tokens")
	}

	if len(c.Security.EncryptionKey) != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}

	return nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must start with http:// or https://, got %q", c.API.BaseURL)
	}

	if !strings.HasPrefix(c.Stream.URL, "ws://") && !strings.HasPrefix(c.Stream.URL, "wss://") {
		return fmt.Errorf("STREAM_URL must start with ws:// or wss://, got %q", c.Stream.URL)
	}

	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("API_REQUEST_TIMEOUT must be positive, got %v", c.API.RequestTimeout)
	}

	if c.API.RateLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT must be positive, got %v", c.API.RateLimit)
	}

	if c.Stream.ReconnectInitialDelay <= 0 {
		return fmt.Errorf("STREAM_RECONNECT_DELAY must be positive, got %v", c.Stream.ReconnectInitialDelay)
	}

	if c.Stream.ReconnectMaxDelay < c.Stream.ReconnectInitialDelay {
		return fmt.Errorf("STREAM_RECONNECT_MAX_DELAY must be >= STREAM_RECONNECT_DELAY")
	}

	if c.Stream.ReconnectMaxRetries < 0 {
		return fmt.Errorf("STREAM_RECONNECT_MAX_RETRIES cannot be negative, got %d", c.Stream.ReconnectMaxRetries)
	}

	if c.Stream.BufferSize < 1 {
		return fmt.Errorf("STREAM_BUFFER_SIZE must be at least 1, got %d", c.Stream.BufferSize)
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("STORAGE_PATH cannot be empty")
	}

	return nil
}

// defaultStoragePath возвращает путь по умолчанию для локального хранилища
func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "quantumleap.db"
	}
	return home + "/.quantumleap/state.db"
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
