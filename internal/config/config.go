package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	SessionFile    string        `yaml:"session_file"`
	SessionKey     string        `yaml:"session_key"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
	ReportsDir     string        `yaml:"reports_dir"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	NotifyWorkers  int           `yaml:"notify_workers"`
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional; ignore a missing file
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnv("PLACEMENT_ADDR", ":8080"),
		JWTSecret:      getEnv("PLACEMENT_JWT_SECRET", "supersecretkey"),
		APITimeout:     15 * time.Second,
		DatabasePath:   getEnv("PLACEMENT_DATABASE_PATH", "placement.db"),
		TokenDuration:  1 * time.Hour,
		SessionFile:    getEnv("PLACEMENT_SESSION_FILE", "session.enc"),
		SessionKey:     getEnv("PLACEMENT_SESSION_KEY", ""),
		SessionTimeout: 30 * time.Minute,
		ReportsDir:     getEnv("PLACEMENT_REPORTS_DIR", "reports"),
		CacheTTL:       5 * time.Minute,
		NotifyWorkers:  getEnvInt("PLACEMENT_NOTIFY_WORKERS", 2),
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}
