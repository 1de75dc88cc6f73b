// Package config carga la configuración del daemon: valores por defecto,
// archivo YAML opcional y variables de entorno, en ese orden.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del daemon
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`

	// Semilla del PRNG del seeder de demo
	Seed int64 `yaml:"seed"`
}

// ServerConfig configura el servidor HTTP
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	// Solo detrás de un proxy que reescriba X-Forwarded-For
	TrustProxy bool `yaml:"trust_proxy"`
	// Requests por segundo; 0 desactiva el límite
	RateLimit float64 `yaml:"rate_limit" validate:"gte=0"`
	RateBurst int     `yaml:"rate_burst" validate:"gte=0"`
	// Debug expone los mensajes de errores internos
	Debug bool `yaml:"debug"`
}

// DatabaseConfig configura el almacén relacional
type DatabaseConfig struct {
	Driver  string `yaml:"driver" validate:"oneof=sqlite3 pgx"`
	URL     string `yaml:"url" validate:"required_if=Driver pgx"`
	DataDir string `yaml:"data_dir"`
}

// CacheConfig configura el backend de caché
type CacheConfig struct {
	Backend string      `yaml:"backend" validate:"oneof=redis memory none"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig configura la conexión a Redis
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	DB       int    `yaml:"db" validate:"min=0"`
	Password string `yaml:"password"`
}

// LogConfig configura zap
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// Default retorna la configuración por defecto
func Default() *Config {
	dataDir := "data"
	if homeDir, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(homeDir, ".local", "share", "social-dashboard")
	}

	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:  "sqlite3",
			DataDir: dataDir,
		},
		Cache: CacheConfig{
			Backend: "redis",
			Redis: RedisConfig{
				Host: "localhost",
				Port: 6379,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Seed: 42,
	}
}

// Load arma la configuración. path vacío omite el archivo.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile superpone el YAML sobre los valores actuales
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnv superpone las variables de entorno definidas
func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setInt := func(key string, dst *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("SOCIALDASH_ADDR", &c.Server.Addr)
	setString("DB_DRIVER", &c.Database.Driver)
	setString("DATABASE_URL", &c.Database.URL)
	setString("DATA_DIR", &c.Database.DataDir)
	setString("CACHE_BACKEND", &c.Cache.Backend)
	setString("REDIS_HOST", &c.Cache.Redis.Host)
	setString("REDIS_PASSWORD", &c.Cache.Redis.Password)
	setString("LOG_LEVEL", &c.Log.Level)

	if err := setInt("REDIS_PORT", &c.Cache.Redis.Port); err != nil {
		return err
	}
	if err := setInt("REDIS_DB", &c.Cache.Redis.DB); err != nil {
		return err
	}

	if v := getenv("SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SEED: %w", err)
		}
		c.Seed = seed
	}

	c.Log.Level = strings.ToLower(c.Log.Level)

	return nil
}

var validate = validator.New()

// Validate verifica la configuración y formatea los errores por campo
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
