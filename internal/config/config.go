package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DBDriver    string
	DatabaseURL string

	SessionSecret []byte
	SessionStore  string
	SessionTTL    time.Duration
	CookieSecure  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	UploadDir   string
	MaxUploadMB int

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	EventsBackend string
	KafkaBrokers  []string
	AMQPURL       string

	AllowAdminSignup bool
	CSRFSameOrigin   bool
}

// Load reads .env (when present) and then the process environment.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("notice: .env not loaded: %v, using process environment", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "supermarket"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 3000),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionStore:  EnvDefault("SESSION_STORE", "db"),
		SessionTTL:    7 * 24 * time.Hour,
		CookieSecure:  EnvBoolDefault("COOKIE_SECURE", false),

		RedisAddr:     EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),

		UploadDir:   EnvDefault("UPLOAD_DIR", "public/images"),
		MaxUploadMB: EnvIntDefault("MAX_UPLOAD_MB", 5),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		EventsBackend: EnvDefault("EVENTS_BACKEND", "none"),
		KafkaBrokers:  CSV(os.Getenv("KAFKA_BROKERS")),
		AMQPURL:       os.Getenv("AMQP_URL"),

		AllowAdminSignup: EnvBoolDefault("ALLOW_ADMIN_SIGNUP", false),
		CSRFSameOrigin:   EnvBoolDefault("CSRF_SAME_ORIGIN", true),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
