// Package config loads the service configuration from a YAML file, an
// optional .env file and JOBBOARD_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/jobboard/internal/jobboard/db"
	"github.com/gartstein/jobboard/internal/jobboard/video"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when JOBBOARD_CONFIG is not set.
var DefaultPath = filepath.Join("internal", "jobboard", "config", "config.yaml")

type Config struct {
	GRPCPort int `yaml:"GRPC_PORT"`
	HTTPPort int `yaml:"HTTP_PORT"`

	DBHost     string `yaml:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT"`
	DBUser     string `yaml:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	GroupID      string   `yaml:"GROUP_ID"`

	JWTSecret   string `yaml:"JWT_SECRET"`
	JWTAudience string `yaml:"JWT_AUDIENCE"`

	StorageDir     string `yaml:"STORAGE_DIR"`
	PublicBaseURL  string `yaml:"PUBLIC_BASE_URL"`
	MaxUploadBytes int64  `yaml:"MAX_UPLOAD_BYTES"`

	VideoAppID           string        `yaml:"VIDEO_APP_ID"`
	VideoServerSecret    string        `yaml:"VIDEO_SERVER_SECRET"`
	VideoTokenTTL        time.Duration `yaml:"VIDEO_TOKEN_TTL"`
	VideoMaxParticipants int           `yaml:"VIDEO_MAX_PARTICIPANTS"`
}

func defaults() *Config {
	return &Config{
		GRPCPort:             50051,
		HTTPPort:             8080,
		DBHost:               "localhost",
		DBPort:               5432,
		DBUser:               "postgres",
		DBName:               "jobboard",
		DBSSLMode:            "disable",
		Topic:                "jobboard-events",
		GroupID:              "jobboard-notifier",
		StorageDir:           "data/storage",
		PublicBaseURL:        "http://localhost:8080",
		MaxUploadBytes:       10 << 20,
		VideoTokenTTL:        2 * time.Hour,
		VideoMaxParticipants: 2,
	}
}

// Load reads the configuration. An empty path falls back to JOBBOARD_CONFIG
// and then DefaultPath; a missing file is only an error when the path was
// named explicitly.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = getEnv("JOBBOARD_CONFIG", "")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := defaults()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.DBHost = getEnv("JOBBOARD_DB_HOST", c.DBHost)
	c.DBUser = getEnv("JOBBOARD_DB_USER", c.DBUser)
	c.DBPassword = getEnv("JOBBOARD_DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("JOBBOARD_DB_NAME", c.DBName)
	c.DBSSLMode = getEnv("JOBBOARD_DB_SSLMODE", c.DBSSLMode)
	c.Topic = getEnv("JOBBOARD_TOPIC", c.Topic)
	c.GroupID = getEnv("JOBBOARD_GROUP_ID", c.GroupID)
	c.JWTSecret = getEnv("JOBBOARD_JWT_SECRET", c.JWTSecret)
	c.JWTAudience = getEnv("JOBBOARD_JWT_AUDIENCE", c.JWTAudience)
	c.StorageDir = getEnv("JOBBOARD_STORAGE_DIR", c.StorageDir)
	c.PublicBaseURL = getEnv("JOBBOARD_PUBLIC_BASE_URL", c.PublicBaseURL)
	c.VideoAppID = getEnv("JOBBOARD_VIDEO_APP_ID", c.VideoAppID)
	c.VideoServerSecret = getEnv("JOBBOARD_VIDEO_SERVER_SECRET", c.VideoServerSecret)

	if v := getEnv("JOBBOARD_KAFKA_BROKERS", ""); v != "" {
		c.KafkaBrokers = splitList(v)
	}

	ints := map[string]*int{
		"JOBBOARD_GRPC_PORT":              &c.GRPCPort,
		"JOBBOARD_HTTP_PORT":              &c.HTTPPort,
		"JOBBOARD_DB_PORT":                &c.DBPort,
		"JOBBOARD_VIDEO_MAX_PARTICIPANTS": &c.VideoMaxParticipants,
	}
	for key, dst := range ints {
		v := getEnv(key, "")
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	if v := getEnv("JOBBOARD_VIDEO_TOKEN_TTL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JOBBOARD_VIDEO_TOKEN_TTL: %w", err)
		}
		c.VideoTokenTTL = d
	}
	return nil
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.GRPCPort <= 0 || c.HTTPPort <= 0 {
		return errors.New("GRPC_PORT and HTTP_PORT must be positive")
	}
	if c.VideoMaxParticipants <= 0 || c.VideoMaxParticipants > video.RoomSize {
		return fmt.Errorf("VIDEO_MAX_PARTICIPANTS must be between 1 and %d", video.RoomSize)
	}
	return nil
}

// Database returns the repository settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
