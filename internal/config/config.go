package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	Port            string
	DBConn          string
	Storage         string
	LogLevel        string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	HMACSecret      string
	EncryptionKey   string
	TxTimeout       time.Duration
	LockTimeout     time.Duration

	RedisAddr     string
	RedisPassword string
	CardCacheTTL  time.Duration

	ExpirySweepSchedule string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	AdminEmail   string

	AdminUsername string
	AdminPassword string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		DBConn:              getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=bank sslmode=disable"),
		Storage:             getEnv("STORAGE", StoragePostgres),
		LogLevel:            getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:           getEnv("JWT_SECRET", "secret"),
		HMACSecret:          getEnv("HMAC_SECRET", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		EncryptionKey:       getEnv("ENCRYPTION_KEY", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		ExpirySweepSchedule: getEnv("EXPIRY_SWEEP_SCHEDULE", ""),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getEnv("SMTP_PORT", "587"),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		SenderEmail:         getEnv("SENDER_EMAIL", "noreply@bankcards.local"),
		AdminEmail:          getEnv("ADMIN_EMAIL", ""),
		AdminUsername:       getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
	}

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"ACCESS_TOKEN_TTL", 15 * time.Minute, &cfg.AccessTokenTTL},
		{"REFRESH_TOKEN_TTL", 7 * 24 * time.Hour, &cfg.RefreshTokenTTL},
		{"TX_TIMEOUT", 5 * time.Second, &cfg.TxTimeout},
		{"LOCK_TIMEOUT", 3 * time.Second, &cfg.LockTimeout},
		{"CARD_CACHE_TTL", 30 * time.Second, &cfg.CardCacheTTL},
	}
	for _, d := range durations {
		v, err := getDuration(d.key, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	if cfg.Storage != StoragePostgres && cfg.Storage != StorageMemory {
		return nil, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.Storage)
	}
	if cfg.Storage == StoragePostgres && cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.HMACSecret == "" {
		return nil, fmt.Errorf("HMAC_SECRET is required")
	}
	switch len(cfg.EncryptionKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("ENCRYPTION_KEY must be 16, 24 or 32 bytes, got %d", len(cfg.EncryptionKey))
	}
	if cfg.LockTimeout > cfg.TxTimeout {
		return nil, fmt.Errorf("LOCK_TIMEOUT (%s) must not exceed TX_TIMEOUT (%s)", cfg.LockTimeout, cfg.TxTimeout)
	}

	return cfg, nil
}

// SMTPEnabled reports whether block request notifications can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.AdminEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getDuration accepts Go durations ("5s") or plain seconds ("5").
func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultVal, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
