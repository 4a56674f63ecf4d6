package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverOracle   = "oracle"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Server      ServerConfig
	Redis       RedisConfig
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
	Logger      LoggerConfig
	Email       EmailConfig
	LLM         LLMConfig
	CacheTTLs   CacheTTLConfig
	Admin       AdminConfig
}

type AppConfig struct {
	Name     string
	PageSize int
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type LoggerConfig struct {
	Level string
	Env   string
}

// EmailConfig selects the mail transport. Provider "log" writes mails to the logger instead of sending them.
type EmailConfig struct {
	Provider       string
	SendgridAPIKey string
	FromAddress    string
	FromName       string
	AppBaseURL     string
}

type LLMConfig struct {
	ServerURL string
	Model     string
	Timeout   time.Duration
}

type CacheTTLConfig struct {
	Analytics string
}

type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "quiz-admin")
	v.SetDefault("app.page_size", 10)
	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("server.idle_timeout", 20)
	v.SetDefault("server.body_limit", 10*1024*1024)
	v.SetDefault("jwt.access_token_ttl", "15m")
	v.SetDefault("jwt.refresh_token_ttl", "168h")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("email.provider", "log")
	v.SetDefault("email.from_name", "Quiz Admin")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("cache_ttls.analytics", "5m")
}

// LoadConfig reads config.yaml plus environment overrides (APP_ prefix, e.g. APP_DB_HOST).
// A .env file in the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("app.name"),
			PageSize: v.GetInt("app.page_size"),
		},
		DB: DBConfig{
			Driver:       strings.ToLower(v.GetString("db.driver")),
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			DBName:       v.GetString("db.name"),
			SSLMode:      v.GetString("db.sslmode"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			MaxIdleConns: v.GetInt("db.max_idle_conns"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			IdleTimeout:  time.Duration(v.GetInt("server.idle_timeout")) * time.Second,
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     v.GetString("google_oauth.client_id"),
			ClientSecret: v.GetString("google_oauth.client_secret"),
			RedirectURL:  v.GetString("google_oauth.redirect_url"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Email: EmailConfig{
			Provider:       strings.ToLower(v.GetString("email.provider")),
			SendgridAPIKey: v.GetString("email.sendgrid_api_key"),
			FromAddress:    v.GetString("email.from_address"),
			FromName:       v.GetString("email.from_name"),
			AppBaseURL:     strings.TrimRight(v.GetString("email.app_base_url"), "/"),
		},
		LLM: LLMConfig{
			ServerURL: v.GetString("llm.server_url"),
			Model:     v.GetString("llm.model"),
		},
		CacheTTLs: CacheTTLConfig{
			Analytics: v.GetString("cache_ttls.analytics"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
			Name:     v.GetString("admin.name"),
		},
	}

	cfg.JWT = JWTConfig{
		SecretKey:       v.GetString("jwt.secret_key"),
		AccessTokenTTL:  cfg.ParseTTLStringOrDefault(v.GetString("jwt.access_token_ttl"), 15*time.Minute),
		RefreshTokenTTL: cfg.ParseTTLStringOrDefault(v.GetString("jwt.refresh_token_ttl"), 7*24*time.Hour),
	}
	cfg.LLM.Timeout = cfg.ParseTTLStringOrDefault(v.GetString("llm.timeout"), time.Minute)
	if cfg.App.PageSize <= 0 {
		cfg.App.PageSize = 10
	}

	return cfg
}

// ParseTTLStringOrDefault parses a duration string such as "5m" and falls back to def when it is empty or invalid.
func (c *Config) ParseTTLStringOrDefault(ttlString string, def time.Duration) time.Duration {
	if ttlString == "" {
		return def
	}
	d, err := time.ParseDuration(ttlString)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// GetDSN returns the connection string for the configured driver.
func (c *Config) GetDSN() string {
	switch c.DB.Driver {
	case DriverOracle:
		return go_ora.BuildUrl(c.DB.Host, c.DB.Port, c.DB.DBName, c.DB.User, c.DB.Password, nil)
	default:
		sslMode := c.DB.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.DB.Host,
			c.DB.Port,
			c.DB.User,
			c.DB.Password,
			c.DB.DBName,
			sslMode,
		)
	}
}
