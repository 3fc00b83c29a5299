// Package config gathers process settings from the environment, after loading
// an optional .env file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultAddress      = ":9090"
	defaultTimeout      = 30
	defaultCacheDB      = 0
	defaultBloomBitSize = 10000000
	defaultJWTHours     = 24
	defaultNotifyBuffer = 1024
)

type Config struct {
	ServerAddress  string
	ContextTimeout time.Duration

	DatabaseDriver string
	DatabaseDSN    string
	DBMaxRetry     int
	DBRetryDelay   time.Duration

	CacheAddr string
	CachePass string
	CacheDB   int

	BloomBitSize uint64

	JWTSecret []byte
	JWTTTL    time.Duration

	MediaRoot string
	MediaURL  string

	NotifyBuffer int

	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

// Load reads .env if present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file loaded: %v", err)
	}

	cfg := Config{
		ServerAddress:  getString("SERVER_ADDRESS", defaultAddress),
		ContextTimeout: time.Duration(getInt("CONTEXT_TIMEOUT", defaultTimeout)) * time.Second,
		DatabaseDriver: getString("DATABASE_DRIVER", "mysql"),
		DBMaxRetry:     getInt("DATABASE_MAX_RETRY", 10),
		DBRetryDelay:   2 * time.Second,
		CacheAddr:      getString("CACHE_HOST", "localhost") + ":" + getString("CACHE_PORT", "6379"),
		CachePass:      os.Getenv("CACHE_PASS"),
		CacheDB:        getInt("CACHE_DB", defaultCacheDB),
		BloomBitSize:   uint64(getInt("BLOOM_FILTER_SIZE", defaultBloomBitSize)),
		JWTSecret:      []byte(os.Getenv("JWT_SECRET")),
		JWTTTL:         time.Duration(getInt("JWT_EXPIRE_HOURS", defaultJWTHours)) * time.Hour,
		MediaRoot:      getString("MEDIA_ROOT", "media"),
		MediaURL:       getString("MEDIA_URL", "/media/"),
		NotifyBuffer:   getInt("NOTIFY_BUFFER", defaultNotifyBuffer),
		LogLevel:       getString("LOG_LEVEL", "info"),
		LogFormat:      getString("LOG_FORMAT", "text"),
		CORSOrigins:    splitList(getString("CORS_ORIGINS", "*")),
	}

	switch cfg.DatabaseDriver {
	case "mysql":
		cfg.DatabaseDSN = mysqlDSN()
	case "sqlite":
		cfg.DatabaseDSN = getString("DATABASE_PATH", "social-blog.db")
	default:
		return Config{}, fmt.Errorf("DATABASE_DRIVER must be mysql or sqlite, got %q", cfg.DatabaseDriver)
	}

	if len(cfg.JWTSecret) == 0 {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	return cfg, nil
}

func mysqlDSN() string {
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
		os.Getenv("DATABASE_USER"),
		os.Getenv("DATABASE_PASS"),
		getString("DATABASE_HOST", "localhost"),
		getString("DATABASE_PORT", "3306"),
		os.Getenv("DATABASE_NAME"),
	)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("charset", "utf8mb4")
	val.Add("loc", getString("DATABASE_LOC", "Local"))
	return fmt.Sprintf("%s?%s", connection, val.Encode())
}

// ConfigureLogging applies LogLevel and LogFormat to the standard logrus logger.
func (c Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("failed to parse %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}
