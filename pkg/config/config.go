// Package config reads process settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPPort int

	OTELExporter    string
	OTELHost        string
	OTELSampleRatio float64

	// Purchase sinks are enabled only when their address is set.
	RedisAddr    string
	RedisChannel string
	DatabaseURL  string
	SinkTimeout  time.Duration
}

func Load() Config {
	return Config{
		AppEnv:          getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		OTELExporter:    getEnv("OTEL_EXPORTER", "none"),
		OTELHost:        getEnv("OTEL_HOST", "localhost:4317"),
		OTELSampleRatio: getEnvFloat("OTEL_SAMPLE_RATIO", 1.0),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisChannel:    getEnv("REDIS_CHANNEL", "purchases"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SinkTimeout:     getEnvDuration("SINK_TIMEOUT", 2*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
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

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
