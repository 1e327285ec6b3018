package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxListLimit caps how many bookings a single list call may return.
const MaxListLimit = 50

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	MongoURI        string
	MongoDB         string
	MongoCollection string
	ConnectTimeout  time.Duration
	OpTimeout       time.Duration

	ListLimit      int
	DefaultPackage string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	ImportWorkers int
	ImportRPS     int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		MongoURI:        env("MONGODB_URI", ""),
		MongoDB:         env("MONGODB_DB", "rohatours"),
		MongoCollection: env("MONGODB_COLLECTION", "bookings"),
		ConnectTimeout:  time.Duration(atoi("MONGODB_CONNECT_TIMEOUT_SECONDS", 5)) * time.Second,
		OpTimeout:       time.Duration(atoi("MONGODB_OP_TIMEOUT_SECONDS", 5)) * time.Second,
		ListLimit:       ClampListLimit(atoi("BOOKINGS_LIST_LIMIT", MaxListLimit)),
		DefaultPackage:  env("DEFAULT_PACKAGE", "Standard Tour Package"),
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 30)) * time.Second,
		KafkaBrokers:    splitList(env("KAFKA_BROKERS", "")),
		KafkaTopic:      env("KAFKA_BOOKINGS_TOPIC", "bookings.created"),
		ImportWorkers:   atoi("IMPORT_WORKERS", 8),
		ImportRPS:       atoi("IMPORT_RPS", 20),
	}
	// Checked again lazily on first connect; this is only an early hint.
	if c.MongoURI == "" {
		log.Warn().Msg("MONGODB_URI is empty")
	}
	return c
}

// ClampListLimit keeps a configured list limit within 1..MaxListLimit.
func ClampListLimit(n int) int {
	if n <= 0 || n > MaxListLimit {
		return MaxListLimit
	}
	return n
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
