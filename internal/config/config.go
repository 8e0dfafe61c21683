package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Addr  string
	DBDSN string

	// admin sessions
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTLMin int

	// Gemini
	GeminiAPIKey  string
	GeminiBaseURL string

	// usage events (optional; empty RabbitURL disables publishing)
	RabbitURL   string
	RabbitQueue string
}

func Load() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":5000"
	}

	// DSN demo:
	// app:apppass@tcp(127.0.0.1:3306)/consulta?charset=utf8mb4&parseTime=true&loc=Local
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			"app", "apppass", "127.0.0.1", "3306", "consulta",
		)
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	sessionTTL := 120
	if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sessionTTL = n
		}
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_AI_API_KEY")
	}

	geminiBaseURL := os.Getenv("GEMINI_BASE_URL")
	if geminiBaseURL == "" {
		geminiBaseURL = "https://generativelanguage.googleapis.com"
	}

	rabbitQueue := os.Getenv("RABBIT_QUEUE")
	if rabbitQueue == "" {
		rabbitQueue = "usage_events"
	}

	return Config{
		Addr:  addr,
		DBDSN: dsn,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		SessionTTLMin: sessionTTL,

		GeminiAPIKey:  apiKey,
		GeminiBaseURL: geminiBaseURL,

		RabbitURL:   os.Getenv("RABBIT_URL"),
		RabbitQueue: rabbitQueue,
	}
}
