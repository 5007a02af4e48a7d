package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Strapi    StrapiConfig    `mapstructure:"strapi"`
	Unsplash  UnsplashConfig  `mapstructure:"unsplash"`
	MealDB    MealDBConfig    `mapstructure:"mealdb"`
	Gate      GateConfig      `mapstructure:"gate"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	LogLevel  string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// GeminiConfig 生成模型設定
type GeminiConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// StrapiConfig 文件存儲（Strapi CMS）設定
type StrapiConfig struct {
	URL      string        `mapstructure:"url"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// UnsplashConfig 圖片搜尋設定（AccessKey 可為空，查詢會降級為無圖片）
type UnsplashConfig struct {
	AccessKey string        `mapstructure:"access_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// MealDBConfig 餐點目錄瀏覽設定
type MealDBConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GateConfig 配額閘道設定
type GateConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	RedisAddr        string `mapstructure:"redis_addr"`
	FreeMonthlyLimit int    `mapstructure:"free_monthly_limit"`
	ProMonthlyLimit  int    `mapstructure:"pro_monthly_limit"`
	DenyAll          bool   `mapstructure:"deny_all"`
}

// RateLimitConfig IP 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("strapi.url", "STRAPI_URL")
	viper.BindEnv("strapi.api_token", "STRAPI_API_TOKEN")
	viper.BindEnv("unsplash.access_key", "UNSPLASH_ACCESS_KEY")
	viper.BindEnv("gate.enabled", "GATE_ENABLED")
	viper.BindEnv("gate.redis_addr", "GATE_REDIS_ADDR")
	viper.BindEnv("gate.free_monthly_limit", "GATE_FREE_MONTHLY_LIMIT")
	viper.BindEnv("gate.pro_monthly_limit", "GATE_PRO_MONTHLY_LIMIT")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"gemini_api_key:", maskAPIKey(viper.GetString("gemini.api_key")),
		"gemini_model:", viper.GetString("gemini.model"),
		"strapi_url:", viper.GetString("strapi.url"),
	)

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "servd-api")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Gemini 設定
	viper.SetDefault("gemini.model", "gemini-2.5-flash-lite")
	viper.SetDefault("gemini.max_tokens", 4096)
	viper.SetDefault("gemini.timeout", "60s")

	// Strapi 設定
	viper.SetDefault("strapi.url", "http://localhost:1337")
	viper.SetDefault("strapi.timeout", "15s")

	// Unsplash 設定
	viper.SetDefault("unsplash.timeout", "10s")

	// MealDB 設定
	viper.SetDefault("mealdb.base_url", "https://www.themealdb.com/api/json/v1/1")
	viper.SetDefault("mealdb.timeout", "10s")

	// 配額閘道設定
	viper.SetDefault("gate.enabled", true)
	viper.SetDefault("gate.redis_addr", "localhost:6379")
	viper.SetDefault("gate.free_monthly_limit", 5)
	viper.SetDefault("gate.pro_monthly_limit", 1000)
	viper.SetDefault("gate.deny_all", false)

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證存儲設定
	if config.Strapi.URL == "" {
		return fmt.Errorf("strapi url is required")
	}

	// 驗證配額閘道設定
	if config.Gate.Enabled {
		if config.Gate.RedisAddr == "" {
			return fmt.Errorf("gate redis addr is required")
		}
		if config.Gate.FreeMonthlyLimit <= 0 || config.Gate.ProMonthlyLimit <= 0 {
			return fmt.Errorf("invalid gate monthly limits")
		}
	}

	// 驗證限流設定
	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}
