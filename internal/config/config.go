package config

import (
	"os"
	"strconv"
	"strings"
)

// Config NovaGuardian backend (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	JWT    JWTConfig
	CORS   CORSConfig
	MQTT   MQTTConfig
	Notify NotifyConfig
}

// DatabaseConfig Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Database +
		" sslmode=" + c.SSLMode
}

// JWTConfig token signing settings. Expiration is in seconds; 86400 = 24h.
type JWTConfig struct {
	Secret            string
	ExpirationSeconds int
	Issuer            string
	Audience          string
}

// CORSConfig cross-origin settings for the HTTP layer.
type CORSConfig struct {
	AllowedOrigins   []string // "*" allows any origin
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAgeSeconds    int
}

// MQTTConfig device alert ingestion settings (disabled by default).
type MQTTConfig struct {
	Enabled  bool
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
}

// NotifyConfig webhook notifier settings (disabled by default).
type NotifyConfig struct {
	Enabled        bool
	WebhookURL     string
	AuthToken      string
	TimeoutSeconds int
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "novaguardian")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.JWT.Secret = getEnv("JWT_SECRET", "NovaGuardian_2025_UTQ_Secret_Key_Change_In_Production")
	cfg.JWT.ExpirationSeconds = parseInt(getEnv("JWT_EXPIRATION_SECONDS", "86400"), 86400)
	cfg.JWT.Issuer = getEnv("JWT_ISSUER", "novaguardian.com")
	cfg.JWT.Audience = getEnv("JWT_AUDIENCE", "novaguardian-web-panel")

	cfg.CORS.AllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	cfg.CORS.AllowedMethods = splitCSV(getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"))
	cfg.CORS.AllowedHeaders = splitCSV(getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Requested-With"))
	cfg.CORS.ExposedHeaders = splitCSV(getEnv("CORS_EXPOSED_HEADERS", "Content-Length"))
	cfg.CORS.AllowCredentials = getEnv("CORS_ALLOW_CREDENTIALS", "true") == "true"
	cfg.CORS.MaxAgeSeconds = parseInt(getEnv("CORS_MAX_AGE", "3600"), 3600)

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "novaguardian-backend")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "novaguardian/devices/#")

	cfg.Notify.Enabled = getEnv("NOTIFY_ENABLED", "false") == "true"
	cfg.Notify.WebhookURL = getEnv("NOTIFY_WEBHOOK_URL", "")
	cfg.Notify.AuthToken = getEnv("NOTIFY_AUTH_TOKEN", "")
	cfg.Notify.TimeoutSeconds = parseInt(getEnv("NOTIFY_TIMEOUT_SECONDS", "5"), 5)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
