package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/nats-io/nats.go"

	config "github.com/avvvet/arena-services/configs"
	"github.com/avvvet/arena-services/internal/competesvc/broker"
	"github.com/avvvet/arena-services/internal/competesvc/cache"
	svcconfig "github.com/avvvet/arena-services/internal/competesvc/config"
	"github.com/avvvet/arena-services/internal/competesvc/db"
	"github.com/avvvet/arena-services/internal/competesvc/handlers"
	"github.com/avvvet/arena-services/internal/competesvc/service"
	"github.com/avvvet/arena-services/internal/competesvc/store"
	"github.com/avvvet/arena-services/internal/competesvc/ws"
	natscli "github.com/avvvet/arena-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "api"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := svcconfig.Load()
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET_KEY is required")
	}

	ctx := context.Background()

	// pg connection
	dbpool, err := db.Connect(ctx, cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dbpool.Close()
	log.Printf("pg connection established successfully")

	// redis is optional; without it standings are computed on every read
	var standingsCache service.StandingsCache
	if cfg.RedisUrl != "" {
		client, err := cache.Connect(ctx, cfg.RedisUrl, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warnf("redis unavailable, standings cache disabled: %v", err)
		} else {
			defer client.Close()
			standingsCache = cache.NewStandingsCache(client)
			log.Printf("redis connection established successfully %s", client.Options().Addr)
		}
	}

	hub := ws.NewWs()

	userStore := store.NewUserStore(dbpool)
	userService := service.NewUserService(userStore)
	authService := service.NewAuthService(userStore, cfg.JWTSecret, cfg.PasswordPepper, cfg.TokenTTL)

	competitionService := service.NewCompetitionService(
		store.NewCompetitionStore(dbpool), store.NewEnrollmentStore(dbpool))

	resultsService := service.NewResultsService(
		store.NewResultsStore(dbpool), store.NewMatchStore(dbpool), standingsCache, hub)

	// Connect to NATS
	var (
		publisher service.EventPublisher
		subs      []*nats.Subscription
		b         *broker.Broker
	)
	if os.Getenv("NATS_URL") != "" {
		n, err := natscli.Connect(SERVICE_NAME + "_service_" + instanceId)
		if err != nil {
			log.Fatalf("Error: unable to connect to NATS server %v", err)
		}
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)

		b = broker.NewBroker(n.Conn, nil, resultsService)
		publisher = b
	} else {
		log.Warnf("NATS_URL not set, executor events disabled")
	}

	submissionService := service.NewSubmissionService(store.NewSubmissionStore(dbpool), standingsCache, publisher)

	if b != nil {
		b.Submissions = submissionService
		subs, err = b.SubscribeExecutor()
		if err != nil {
			log.Fatalf("Error: unable to subscribe to executor reports %v", err)
		}
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(handlers.Services{
		Auth:         authService,
		Users:        userService,
		Competitions: competitionService,
		Submissions:  submissionService,
		Results:      resultsService,
		Live:         hub,
	}, cfg.UploadMaxBytes, cfg.Port)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	for _, sub := range subs {
		sub.Unsubscribe()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
