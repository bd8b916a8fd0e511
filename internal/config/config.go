package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all service configuration. Values come from defaults, then an
// optional YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Port           string         `yaml:"port" validate:"required,numeric"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Database       DatabaseConfig `yaml:"database"`
	Redis          RedisConfig    `yaml:"redis"`
	Mongo          MongoConfig    `yaml:"mongo"`
	Minio          MinioConfig    `yaml:"minio"`
	Models         ModelsConfig   `yaml:"models"`
	Auth           AuthConfig     `yaml:"auth"`
	Logging        LoggingConfig  `yaml:"logging"`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver" validate:"required,oneof=sqlite postgres"`
	SQLitePath  string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
	PostgresDSN string `yaml:"postgres_dsn" validate:"required_if=Driver postgres"`
}

// RedisConfig enables the Redis flash store when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

// MongoConfig enables prediction history when URI is set.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ModelsConfig names the three model artifacts and where to find them.
// With Source "file" the names are paths relative to Dir, with "minio"
// they are object keys, with "remote" they are model names on ServiceURL.
type ModelsConfig struct {
	Source        string `yaml:"source" validate:"required,oneof=file minio remote"`
	Dir           string `yaml:"dir"`
	ServiceURL    string `yaml:"service_url" validate:"required_if=Source remote"`
	PowerScore    string `yaml:"power_score" validate:"required"`
	PowerGen      string `yaml:"power_gen" validate:"required"`
	GridStability string `yaml:"grid_stability" validate:"required"`
}

type AuthConfig struct {
	BcryptCost            int  `yaml:"bcrypt_cost" validate:"min=4,max=31"`
	EnforceUsernameFormat bool `yaml:"enforce_username_format"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing is overridden: a local
// SQLite file and model artifacts under static/models.
func Default() *Config {
	return &Config{
		Port:           "5000",
		AllowedOrigins: []string{"http://localhost:5000"},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "SustainaWatt.db",
		},
		Mongo: MongoConfig{Database: "sustainawatt"},
		Minio: MinioConfig{Bucket: "sustainawatt-models"},
		Models: ModelsConfig{
			Source:        "file",
			Dir:           "static/models",
			PowerScore:    "power_score.json",
			PowerGen:      "power_gen.json",
			GridStability: "grid_stability.json",
		},
		Auth:    AuthConfig{BcryptCost: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getenv("PORT", c.Port)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}

	c.Database.Driver = getenv("DB_DRIVER", c.Database.Driver)
	c.Database.SQLitePath = getenv("SQLITE_PATH", c.Database.SQLitePath)
	c.Database.PostgresDSN = getenv("POSTGRES_DSN", c.Database.PostgresDSN)

	c.Redis.Addr = getenv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getenv("REDIS_PASSWORD", c.Redis.Password)

	c.Mongo.URI = getenv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getenv("MONGO_DB", c.Mongo.Database)

	c.Minio.Endpoint = getenv("MINIO_ENDPOINT", c.Minio.Endpoint)
	c.Minio.AccessKey = getenv("MINIO_ACCESS_KEY", c.Minio.AccessKey)
	c.Minio.SecretKey = getenv("MINIO_SECRET_KEY", c.Minio.SecretKey)
	c.Minio.Bucket = getenv("MINIO_BUCKET", c.Minio.Bucket)
	c.Minio.UseSSL = getenv("MINIO_USE_SSL", strconv.FormatBool(c.Minio.UseSSL)) == "true"

	c.Models.Source = getenv("MODEL_SOURCE", c.Models.Source)
	c.Models.Dir = getenv("MODEL_DIR", c.Models.Dir)
	c.Models.ServiceURL = getenv("MODEL_SERVICE_URL", c.Models.ServiceURL)
	c.Models.PowerScore = getenv("MODEL_POWER_SCORE", c.Models.PowerScore)
	c.Models.PowerGen = getenv("MODEL_POWER_GEN", c.Models.PowerGen)
	c.Models.GridStability = getenv("MODEL_GRID_STABILITY", c.Models.GridStability)

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.Auth.BcryptCost = n
	}
	c.Auth.EnforceUsernameFormat = getenv("ENFORCE_USERNAME_FORMAT", strconv.FormatBool(c.Auth.EnforceUsernameFormat)) == "true"

	c.Logging.Level = getenv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getenv("LOG_FORMAT", c.Logging.Format)
	return nil
}

// Validate checks struct constraints and the cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validation failed for Config: %w", err)
	}
	if c.Models.Source == "minio" && c.Minio.Endpoint == "" {
		return fmt.Errorf("minio endpoint is required when models are loaded from minio")
	}
	if c.Minio.Endpoint != "" && c.Minio.Bucket == "" {
		return fmt.Errorf("minio bucket is required")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
