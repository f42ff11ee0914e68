package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Display  DisplayConfig  `mapstructure:"display"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects the key/value backend for carts, orders and settings.
type StorageConfig struct {
	Driver     string      `mapstructure:"driver"` // memory, sqlite or redis
	SQLitePath string      `mapstructure:"sqlite_path"`
	Redis      RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	Prefix   string `mapstructure:"prefix"`
}

// CatalogConfig selects where the menu lives. "none" keeps it in storage.
type CatalogConfig struct {
	Driver     string      `mapstructure:"driver"` // none, sqlite or mysql
	SQLitePath string      `mapstructure:"sqlite_path"`
	MySQL      MySQLConfig `mapstructure:"mysql"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// AuditConfig sends the admin action log to MongoDB when a URI is set.
type AuditConfig struct {
	MongoURI   string `mapstructure:"mongo_uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
	MaxEntries int    `mapstructure:"max_entries"`
}

type TelegramConfig struct {
	APIURL       string        `mapstructure:"api_url"`
	BotToken     string        `mapstructure:"bot_token"`
	ChatID       string        `mapstructure:"chat_id"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxFailures  uint32        `mapstructure:"max_failures"`
	OpenDuration time.Duration `mapstructure:"open_duration"`
}

type WhatsAppConfig struct {
	Phone string `mapstructure:"phone"`
}

type AdminConfig struct {
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type DisplayConfig struct {
	Timezone string `mapstructure:"timezone"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "restaurant.db")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.pool_size", 10)
	v.SetDefault("storage.redis.prefix", "restaurant:")

	v.SetDefault("catalog.driver", "none")
	v.SetDefault("catalog.sqlite_path", "catalog.db")
	v.SetDefault("catalog.mysql.host", "localhost")
	v.SetDefault("catalog.mysql.port", 3306)
	v.SetDefault("catalog.mysql.username", "root")
	v.SetDefault("catalog.mysql.password", "")
	v.SetDefault("catalog.mysql.database", "restaurant")
	v.SetDefault("catalog.mysql.max_idle_conns", 5)
	v.SetDefault("catalog.mysql.max_open_conns", 20)

	v.SetDefault("audit.mongo_uri", "")
	v.SetDefault("audit.database", "restaurant")
	v.SetDefault("audit.collection", "admin_actions")
	v.SetDefault("audit.max_entries", 500)

	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.timeout", time.Duration(0))
	v.SetDefault("telegram.max_failures", 5)
	v.SetDefault("telegram.open_duration", 30*time.Second)

	v.SetDefault("whatsapp.phone", "201000000000")

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("admin.jwt_secret", "restaurant_admin_secret")
	v.SetDefault("admin.session_ttl", 24*time.Hour)

	v.SetDefault("display.timezone", "Africa/Cairo")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
}

// Load reads the YAML file at path when it exists, then applies
// RESTAURANT_* environment overrides (server.port -> RESTAURANT_SERVER_PORT).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESTAURANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Catalog.Driver {
	case "none", "sqlite", "mysql":
	default:
		return fmt.Errorf("unknown catalog driver %q", c.Catalog.Driver)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Admin.JWTSecret == "" {
		return errors.New("admin.jwt_secret must not be empty")
	}
	if _, err := c.Display.Location(); err != nil {
		return err
	}
	return nil
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// Location is where "today" is decided for the dashboard.
func (c *DisplayConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
