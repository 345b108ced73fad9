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
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Auth        AuthConfig       `mapstructure:"auth"`
	Store       StoreConfig      `mapstructure:"store"`
	Generator   GeneratorConfig  `mapstructure:"generator"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Plan        PlanConfig       `mapstructure:"plan"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// AuthConfig 身分驗證服務設定
type AuthConfig struct {
	ProviderURL string        `mapstructure:"provider_url"`
	AnonKey     string        `mapstructure:"anon_key"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	RedirectURL string        `mapstructure:"redirect_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// StoreConfig 使用者狀態儲存設定
type StoreConfig struct {
	Driver     string `mapstructure:"driver"` // memory | redis | sqlite
	RedisAddr  string `mapstructure:"redis_addr"`
	RedisDB    int    `mapstructure:"redis_db"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// GeneratorConfig 食譜生成器設定
type GeneratorConfig struct {
	Provider string        `mapstructure:"provider"` // template | openrouter
	Delay    time.Duration `mapstructure:"delay"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// PlanConfig 免費方案限制
type PlanConfig struct {
	FreeRecipeLimit int `mapstructure:"free_recipe_limit"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時沿用環境變數
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("auth.provider_url", "AUTH_PROVIDER_URL", "SUPABASE_URL")
	_ = v.BindEnv("auth.anon_key", "AUTH_ANON_KEY", "SUPABASE_ANON_KEY")
	_ = v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET", "SUPABASE_JWT_SECRET")
	_ = v.BindEnv("auth.redirect_url", "AUTH_REDIRECT_URL")
	_ = v.BindEnv("store.driver", "STORE_DRIVER")
	_ = v.BindEnv("store.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("store.sqlite_path", "SQLITE_PATH")
	_ = v.BindEnv("generator.provider", "GENERATOR_PROVIDER")
	_ = v.BindEnv("generator.delay", "GENERATOR_DELAY")
	_ = v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("openrouter.model", "OPENROUTER_MODEL")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration",
		"store_driver:", v.GetString("store.driver"),
		"generator:", v.GetString("generator.provider"),
		"auth_anon_key:", maskAPIKey(v.GetString("auth.anon_key")),
	)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

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
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "receita-facil")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "20s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// 身分驗證
	v.SetDefault("auth.redirect_url", "http://localhost:3000")
	v.SetDefault("auth.timeout", "10s")

	// 儲存
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.sqlite_path", "data/receita-facil.db")

	// 生成器
	v.SetDefault("generator.provider", "template")
	v.SetDefault("generator.delay", "1500ms")

	// OpenRouter 設定
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "qwen/qwen2.5-vl-72b-instruct:free")
	v.SetDefault("openrouter.max_tokens", 1000)
	v.SetDefault("openrouter.timeout", "60s")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 方案
	v.SetDefault("plan.free_recipe_limit", 3)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout")
	}

	switch config.Store.Driver {
	case "memory":
	case "redis":
		if config.Store.RedisAddr == "" {
			return fmt.Errorf("redis address is required for redis store")
		}
	case "sqlite":
		if config.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for sqlite store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	switch config.Generator.Provider {
	case "template":
	case "openrouter":
		if config.OpenRouter.APIKey == "" {
			return fmt.Errorf("openrouter api key is required for openrouter generator")
		}
	default:
		return fmt.Errorf("unknown generator provider %q", config.Generator.Provider)
	}
	if config.Generator.Delay < 0 {
		return fmt.Errorf("invalid generator delay")
	}

	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.Plan.FreeRecipeLimit < 0 {
		return fmt.Errorf("invalid free recipe limit")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
