package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/social-media-api/internal/auth"
	"github.com/ayush/social-media-api/internal/config"
	"github.com/ayush/social-media-api/internal/gateway"
	"github.com/ayush/social-media-api/internal/logging"
	"github.com/ayush/social-media-api/internal/metrics"
	"github.com/ayush/social-media-api/internal/middleware"
	"github.com/ayush/social-media-api/internal/social"
	"github.com/ayush/social-media-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("logger: %v", err)
	}
	ctx := context.Background()

	// ── Relational store ─────────────────────────────────────
	db, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("%s store: %v", cfg.StoreDriver, err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("%s migrate: %v", cfg.StoreDriver, err)
	}

	passwords, err := auth.NewPasswords(cfg.PasswordHashing)
	if err != nil {
		log.Fatalf("passwords: %v", err)
	}
	opts := []social.Option{social.WithLogger(log)}

	// ── MongoDB ──────────────────────────────────────────────
	if cfg.MongoEnabled() {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("mongo connect: %v", err)
		}
		defer mongoClient.Disconnect(ctx)
		activity := store.NewMongoActivityLog(mongoClient.Database(cfg.MongoDB))
		if err := activity.EnsureIndexes(ctx); err != nil {
			log.Fatalf("mongo indexes: %v", err)
		}
		opts = append(opts, social.WithActivityLog(activity))
	}

	// ── MinIO ────────────────────────────────────────────────
	if cfg.MinioEnabled() {
		minioStore, err := store.NewMinioStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatalf("minio connect: %v", err)
		}
		opts = append(opts, social.WithArchiveStore(minioStore))
	}

	svc := social.NewService(
		gateway.NewAccountGateway(db, passwords),
		gateway.NewMessageGateway(db),
		opts...,
	)

	// ── Redis ────────────────────────────────────────────────
	var (
		sessions    *auth.SessionStore
		authHandler *auth.Handler
		issuer      social.SessionIssuer
	)
	if cfg.RedisEnabled() {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer rdb.Close()
		sessions = auth.NewSessionStore(rdb)
		authHandler = auth.NewHandler(svc, sessions)
		issuer = authHandler
	}

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Metrics)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	social.NewHandler(svc, issuer, log).Routes(r)

	if authHandler != nil {
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth(sessions)).Get("/me", authHandler.Me)
	}

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":   cfg.Port,
			"store":  cfg.StoreDriver,
			"mongo":  cfg.MongoEnabled(),
			"redis":  cfg.RedisEnabled(),
			"minio":  cfg.MinioEnabled(),
			"hashed": cfg.PasswordHashing != auth.PasswordPlain,
		}).Info("backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(pool), nil
	default:
		s, err := store.NewSQLiteStore(cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
