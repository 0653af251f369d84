package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	configOnce sync.Once
	appConfig  *Config
	configErr  error
)

// Config 应用配置
type Config struct {
	OCR    OCRConfig    `yaml:"ocr"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// OCRConfig describes the remote extraction service.
type OCRConfig struct {
	BaseURL string `yaml:"baseURL"`
	// RequestTimeout of zero leaves the transport default (no timeout).
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	SessionTTL         time.Duration `yaml:"sessionTTL"`
	MaxMultipartMemory int64         `yaml:"maxMultipartMemory"`
	AllowOrigins       []string      `yaml:"allowOrigins"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
	File     string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OCR: OCRConfig{
			BaseURL: "http://127.0.0.1:8000",
		},
		Server: ServerConfig{
			Addr:               ":8080",
			SessionTTL:         30 * time.Minute,
			MaxMultipartMemory: 32 << 20,
			AllowOrigins:       []string{"*"},
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// GetConfig loads the process-wide configuration once: .env, then the optional
// YAML file named by REVIEW_CONFIG_FILE, then environment overrides.
func GetConfig() (*Config, error) {
	configOnce.Do(func() {
		// 获取当前文件的目录, .env 位于项目根目录
		_, filename, _, _ := runtime.Caller(0)
		envPath := filepath.Join(filepath.Dir(filepath.Dir(filename)), ".env")
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, falling back to environment variables", envPath)
		}

		appConfig, configErr = Load(os.Getenv("REVIEW_CONFIG_FILE"))
	})
	return appConfig, configErr
}

// Load builds a Config from defaults, the YAML file at path (skipped when empty)
// and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values a running server cannot do without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OCR.BaseURL) == "" {
		return fmt.Errorf("ocr base url is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.OCR.RequestTimeout < 0 {
		return fmt.Errorf("ocr request timeout must not be negative")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("OCR_SERVICE_URL"); v != "" {
		cfg.OCR.BaseURL = v
	}
	if v := os.Getenv("OCR_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid OCR_REQUEST_TIMEOUT: %w", err)
		}
		cfg.OCR.RequestTimeout = d
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		cfg.Server.SessionTTL = d
	}
	if v := os.Getenv("MAX_MULTIPART_MEMORY"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_MULTIPART_MEMORY: %w", err)
		}
		cfg.Server.MaxMultipartMemory = n
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowOrigins = origins
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_ENCODING"); v != "" {
		cfg.Log.Encoding = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}
