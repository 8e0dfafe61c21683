package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ergolab/consulta/internal/ai"
	"github.com/ergolab/consulta/internal/config"
	"github.com/ergolab/consulta/internal/configcache"
	"github.com/ergolab/consulta/internal/consult"
	"github.com/ergolab/consulta/internal/db"
	"github.com/ergolab/consulta/internal/events"
	"github.com/ergolab/consulta/internal/httpapi"
	"github.com/ergolab/consulta/internal/httpapi/handlers"
	"github.com/ergolab/consulta/internal/session"
	"github.com/ergolab/consulta/internal/store"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	repo := store.NewRepo(gdb)

	cache := configcache.New(repo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cache.Initialize(ctx); err != nil {
		log.Fatalf("cache initialize: %v", err)
	}

	sessionTTL := time.Duration(cfg.SessionTTLMin) * time.Minute
	var sessions session.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		sessions = session.NewRedisStore(client, sessionTTL)
		log.Printf("sessions: redis store addr=%s", cfg.RedisAddr)
	} else {
		sessions = session.NewMemoryStore(sessionTTL)
		log.Printf("sessions: in-memory store")
	}

	var publisher *events.Publisher
	if cfg.RabbitURL != "" {
		var err error
		publisher, err = events.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Fatalf("rabbit publisher: %v", err)
		}
		defer publisher.Close()
		log.Printf("usage events: publishing to queue=%s", cfg.RabbitQueue)
	}

	provider := ai.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey)
	svc := consult.NewService(repo, cache, provider, publisher)

	h := handlers.NewHandler(repo, cache, sessions, svc)
	chatLimiter := httpapi.ChatLimiterFromSettings(ctx, cache)
	router := httpapi.NewRouter(h, sessions, chatLimiter)

	srv := &http.Server{Addr: cfg.Addr, Handler: router}

	go func() {
		log.Printf("server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
