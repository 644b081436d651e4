package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hyvewyre/lead-api/internal/entity"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	S3        S3Config
	Mail      MailConfig
	Telnyx    TelnyxConfig
	Import    ImportConfig
	FollowUps FollowUpConfig
}

type ServerConfig struct {
	Address     string
	CORSOrigins []string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type S3Config struct {
	Enabled   bool
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type TelnyxConfig struct {
	Enabled bool
	APIKey  string
	BaseURL string
}

type ImportConfig struct {
	RateLimitPerMinute int
	NameInference      entity.NameInference
}

type FollowUpConfig struct {
	SweepInterval time.Duration
}

// loader collects every bad variable so startup reports them all at once.
type loader struct {
	errs []error
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadAll()
}

func LoadAll() (*Config, error) {
	l := &loader{}

	cfg := &Config{
		Server: ServerConfig{
			Address:     getEnv("SERVER_ADDRESS", ":8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		},
		Database: DatabaseConfig{
			URL: l.requireEnv("DATABASE_URL"),
		},
		Redis:    l.loadRedis(),
		RabbitMQ: loadRabbitMQ(),
		S3:       loadS3(),
		Mail:     l.loadMail(),
		Telnyx:   loadTelnyx(),
		Import: ImportConfig{
			RateLimitPerMinute: l.getEnvInt("IMPORT_RATE_LIMIT_PER_MIN", 10),
			NameInference:      entity.NameInference(getEnv("NAME_INFERENCE", string(entity.NameInferenceShorterFirst))),
		},
		FollowUps: FollowUpConfig{
			SweepInterval: time.Duration(l.getEnvInt("FOLLOWUP_SWEEP_SECONDS", 60)) * time.Second,
		},
	}

	l.validate(cfg)
	if len(l.errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(l.errs...))
	}
	return cfg, nil
}

func (l *loader) loadRedis() RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}
	}

	return RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       l.getEnvInt("REDIS_DB", 0),
		TTL:      time.Duration(l.getEnvInt("REDIS_TTL_SECONDS", 900)) * time.Second,
	}
}

func loadRabbitMQ() RabbitMQConfig {
	url := os.Getenv("RABBITMQ_URL")
	return RabbitMQConfig{Enabled: url != "", URL: url}
}

func loadS3() S3Config {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return S3Config{Enabled: false}
	}
	return S3Config{
		Enabled:   true,
		Bucket:    bucket,
		Region:    getEnv("S3_REGION", "us-east-1"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
}

func (l *loader) loadMail() MailConfig {
	host := os.Getenv("MAIL_HOST")
	if host == "" {
		return MailConfig{Enabled: false}
	}
	return MailConfig{
		Enabled:  true,
		Host:     host,
		Port:     l.getEnvInt("MAIL_PORT", 587),
		User:     os.Getenv("MAIL_USER"),
		Password: os.Getenv("MAIL_PASS"),
		From:     getEnv("MAIL_FROM", "no-reply@hyvewyre.com"),
	}
}

func loadTelnyx() TelnyxConfig {
	key := os.Getenv("TELNYX_API_KEY")
	return TelnyxConfig{
		Enabled: key != "",
		APIKey:  key,
		BaseURL: getEnv("TELNYX_BASE_URL", "https://api.telnyx.com/v2"),
	}
}

func (l *loader) validate(cfg *Config) {
	if cfg.Import.RateLimitPerMinute <= 0 {
		l.errs = append(l.errs, errors.New("IMPORT_RATE_LIMIT_PER_MIN must be > 0"))
	}
	if cfg.FollowUps.SweepInterval <= 0 {
		l.errs = append(l.errs, errors.New("FOLLOWUP_SWEEP_SECONDS must be > 0"))
	}
	if !cfg.Import.NameInference.Valid() {
		l.errs = append(l.errs, fmt.Errorf("NAME_INFERENCE must be one of shorter_first, ordered, off (got %q)", cfg.Import.NameInference))
	}
	if cfg.Redis.Enabled && cfg.Redis.TTL <= 0 {
		l.errs = append(l.errs, errors.New("REDIS_TTL_SECONDS must be > 0"))
	}
}

func (l *loader) requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		l.errs = append(l.errs, fmt.Errorf("missing required env var: %s", key))
	}
	return val
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (l *loader) getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("invalid int for env %s: %s", key, v))
		return def
	}
	return i
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
