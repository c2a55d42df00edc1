package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
// 读取顺序: 代码默认值 < config.yaml < 环境变量 (STOREFRONT_ 前缀, 例如 STOREFRONT_DATABASE_DSN)
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Session  SessionConfig  `mapstructure:"session"`
	Identity IdentityConfig `mapstructure:"identity"`
	Log      LogConfig      `mapstructure:"log"`
	State    StateConfig    `mapstructure:"state"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // gin 模式: debug / release / test
	// 登录失败节流窗口
	LoginThrottle time.Duration `mapstructure:"login_throttle"`
	// 同一 IP 两次下单的最小间隔
	OrderThrottle time.Duration `mapstructure:"order_throttle"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres / sqlite
	DSN             string        `mapstructure:"dsn"`
	LogSQL          bool          `mapstructure:"log_sql"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	Expire time.Duration `mapstructure:"expire"`
}

type SessionConfig struct {
	CookieName  string        `mapstructure:"cookie_name"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// 清理过期会话的 cron 表达式 (带秒)
	SweepSpec string `mapstructure:"sweep_spec"`
}

type IdentityConfig struct {
	Provider string `mapstructure:"provider"` // local / firebase
	// Firebase Identity Toolkit
	FirebaseAPIKey   string `mapstructure:"firebase_api_key"`
	FirebaseEndpoint string `mapstructure:"firebase_endpoint"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type StateConfig struct {
	// 丢弃被新导航取代的加载结果
	DiscardStaleLoads bool `mapstructure:"discard_stale_loads"`
}

const envPrefix = "STOREFRONT"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.login_throttle", 2*time.Second)
	v.SetDefault("server.order_throttle", 5*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=storefront port=5432 sslmode=disable TimeZone=Asia/Kolkata")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "wa-storefront")
	v.SetDefault("jwt.expire", 24*time.Hour)

	v.SetDefault("session.cookie_name", "sf_session")
	v.SetDefault("session.idle_timeout", 2*time.Hour)
	v.SetDefault("session.sweep_spec", "0 */5 * * * *")

	v.SetDefault("identity.provider", "local")
	v.SetDefault("identity.firebase_endpoint", "https://identitytoolkit.googleapis.com")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("state.discard_stale_loads", false)
}

// Load 加载配置，path 为空时只搜索当前目录下的 config.yaml
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// 未指定路径且找不到配置文件时使用默认值
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 纯默认配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate 配置校验
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Identity.Provider {
	case "local":
	case "firebase":
		if c.Identity.FirebaseAPIKey == "" {
			return errors.New("identity.firebase_api_key is required for the firebase provider")
		}
	default:
		return fmt.Errorf("identity.provider must be local or firebase, got %q", c.Identity.Provider)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Session.IdleTimeout <= 0 {
		return errors.New("session.idle_timeout must be positive")
	}
	return nil
}
