package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()

	cfg := Load()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("Expected HTTP_ADDR default ':8080', got '%s'", cfg.HTTP.Addr)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected DB_HOST default 'localhost', got '%s'", cfg.Database.Host)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("Expected DB_PORT default 5432, got %d", cfg.Database.Port)
	}

	if cfg.Database.Database != "novaguardian" {
		t.Errorf("Expected DB_NAME default 'novaguardian', got '%s'", cfg.Database.Database)
	}

	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Expected REDIS_ADDR default 'localhost:6379', got '%s'", cfg.Redis.Addr)
	}

	if cfg.JWT.ExpirationSeconds != 86400 {
		t.Errorf("Expected JWT_EXPIRATION_SECONDS default 86400, got %d", cfg.JWT.ExpirationSeconds)
	}

	if cfg.JWT.Issuer != "novaguardian.com" {
		t.Errorf("Expected JWT_ISSUER default 'novaguardian.com', got '%s'", cfg.JWT.Issuer)
	}

	if cfg.JWT.Audience != "novaguardian-web-panel" {
		t.Errorf("Expected JWT_AUDIENCE default 'novaguardian-web-panel', got '%s'", cfg.JWT.Audience)
	}

	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("Expected CORS_ALLOWED_ORIGINS default ['*'], got %v", cfg.CORS.AllowedOrigins)
	}

	if cfg.CORS.MaxAgeSeconds != 3600 {
		t.Errorf("Expected CORS_MAX_AGE default 3600, got %d", cfg.CORS.MaxAgeSeconds)
	}

	if cfg.MQTT.Enabled {
		t.Error("Expected MQTT_ENABLED default false")
	}

	if cfg.MQTT.Topic != "novaguardian/devices/#" {
		t.Errorf("Expected MQTT_TOPIC default 'novaguardian/devices/#', got '%s'", cfg.MQTT.Topic)
	}

	if cfg.Notify.Enabled {
		t.Error("Expected NOTIFY_ENABLED default false")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Expected LOG_LEVEL default 'info', got '%s'", cfg.Log.Level)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_PORT", "15432")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("JWT_EXPIRATION_SECONDS", "3600")
	os.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	os.Setenv("MQTT_ENABLED", "true")
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Clearenv()

	cfg := Load()

	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("Expected HTTP_ADDR ':9090', got '%s'", cfg.HTTP.Addr)
	}

	if cfg.Database.Host != "test-host" {
		t.Errorf("Expected DB_HOST 'test-host', got '%s'", cfg.Database.Host)
	}

	if cfg.Database.Port != 15432 {
		t.Errorf("Expected DB_PORT 15432, got %d", cfg.Database.Port)
	}

	if cfg.JWT.Secret != "test-secret" {
		t.Errorf("Expected JWT_SECRET 'test-secret', got '%s'", cfg.JWT.Secret)
	}

	if cfg.JWT.ExpirationSeconds != 3600 {
		t.Errorf("Expected JWT_EXPIRATION_SECONDS 3600, got %d", cfg.JWT.ExpirationSeconds)
	}

	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("Expected two trimmed CORS origins, got %v", cfg.CORS.AllowedOrigins)
	}

	if !cfg.MQTT.Enabled {
		t.Error("Expected MQTT_ENABLED true")
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Expected LOG_LEVEL 'debug', got '%s'", cfg.Log.Level)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PORT", "not-a-number")
	defer os.Clearenv()

	cfg := Load()
	if cfg.Database.Port != 5432 {
		t.Errorf("Expected DB_PORT fallback 5432, got %d", cfg.Database.Port)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "nova",
		Password: "secret",
		Database: "novaguardian",
		SSLMode:  "disable",
	}

	dsn := cfg.GetDSN()
	expected := "host=db port=5432 user=nova password=secret dbname=novaguardian sslmode=disable"
	if dsn != expected {
		t.Errorf("Expected DSN '%s', got '%s'", expected, dsn)
	}
}
