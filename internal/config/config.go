package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type MatchAPI struct {
	BaseURL string
	Timeout time.Duration
}

type Pusher struct {
	Key      string
	Cluster  string
	Host     string
	Insecure bool
}

type Realtime struct {
	GraceDelay   time.Duration
	PollInterval time.Duration
}

type HTTPServer struct {
	Host string
	Port string
}

type RedisCache struct {
	Host      string
	Port      string
	Password  string
	KeyPrefix string
	TokenTTL  time.Duration
}

type Credentials struct {
	// Store is "memory" or "redis".
	Store string
	Email string
	Token string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type History struct {
	// Driver is "sqlite3", "postgres" or "none".
	Driver   string
	DSN      string
	Postgres Postgres
}

type Config struct {
	MatchAPI    MatchAPI
	Pusher      Pusher
	Realtime    Realtime
	HTTP        HTTPServer
	Redis       RedisCache
	Credentials Credentials
	History     History
	LogLevel    string
}

const logtag = "[config]"

// Load reads the env file at path (or ./.env when path is empty) and then
// the process environment.
func Load(path string) *Config {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, path)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		MatchAPI:    *newMatchAPI(),
		Pusher:      *newPusher(),
		Realtime:    *newRealtime(),
		HTTP:        *newHTTP(),
		Redis:       *newRedis(),
		Credentials: *newCredentials(),
		History:     *newHistory(),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}

	return cfg
}

func newMatchAPI() *MatchAPI {
	return &MatchAPI{
		BaseURL: getenv("API_BASE_URL", "http://localhost:5000"),
		Timeout: getenvDuration("API_TIMEOUT", 60*time.Second),
	}
}

func newPusher() *Pusher {
	return &Pusher{
		Key:      getenv("PUSHER_KEY", ""),
		Cluster:  getenv("PUSHER_CLUSTER", "us2"),
		Host:     getenv("PUSHER_HOST", ""),
		Insecure: getenvBool("PUSHER_INSECURE", false),
	}
}

func newRealtime() *Realtime {
	return &Realtime{
		GraceDelay:   getenvDuration("REALTIME_GRACE_DELAY", time.Second),
		PollInterval: getenvDuration("REALTIME_POLL_INTERVAL", 2*time.Second),
	}
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:      getenv("REDIS_PORT", "6379"),
		Host:      getenv("REDIS_HOST", "localhost"),
		Password:  getenv("REDIS_PASSWORD", ""),
		KeyPrefix: getenv("REDIS_KEY_PREFIX", "matchclient"),
		TokenTTL:  getenvDuration("TOKEN_TTL", 24*time.Hour),
	}
}

func newCredentials() *Credentials {
	return &Credentials{
		Store: getenv("TOKEN_STORE", "memory"),
		Email: getenv("USER_EMAIL", ""),
		Token: getenv("AUTH_TOKEN", ""),
	}
}

func newHistory() *History {
	return &History{
		Driver: getenv("HISTORY_DRIVER", "sqlite3"),
		DSN:    getenv("HISTORY_DSN", "matchclient.db"),
		Postgres: Postgres{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			User:     getenv("DB_USER", "admin"),
			Password: getenv("DB_PASSWORD", "shared"),
			DBName:   getenv("DB_NAME", "matchclient"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, mask(key, val))
	return val
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	d, err := time.ParseDuration(raw)
	if err != nil {
		fmt.Printf("%s %s = %q is not a duration. Using default value %s\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getenvBool(key string, defaultValue bool) bool {
	raw := getenv(key, strconv.FormatBool(defaultValue))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		fmt.Printf("%s %s = %q is not a bool. Using default value %t\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return b
}

func mask(key, val string) string {
	if strings.Contains(key, "PASSWORD") || strings.Contains(key, "TOKEN") {
		return "***"
	}
	return val
}
