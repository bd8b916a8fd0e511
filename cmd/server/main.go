package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/sustainawatt/internal/auth"
	"github.com/ayush/sustainawatt/internal/config"
	"github.com/ayush/sustainawatt/internal/contact"
	"github.com/ayush/sustainawatt/internal/flash"
	"github.com/ayush/sustainawatt/internal/inference"
	"github.com/ayush/sustainawatt/internal/logging"
	"github.com/ayush/sustainawatt/internal/predict"
	"github.com/ayush/sustainawatt/internal/server"
	"github.com/ayush/sustainawatt/internal/store"
	"github.com/ayush/sustainawatt/internal/web"
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("sustainawatt: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	ctx := context.Background()

	// ── Relational store ─────────────────────────────────────
	db, err := store.Open(ctx, cfg.Database, log.Slog(), cfg.Logging.Level == "debug")
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	log.Info(ctx, "database ready", "driver", cfg.Database.Driver)

	// ── MongoDB (prediction history, optional) ───────────────
	var history predict.History
	if cfg.Mongo.URI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return err
		}
		defer mongoClient.Disconnect(context.Background())
		mongoStore := store.NewMongoStore(mongoClient.Database(cfg.Mongo.Database))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			return err
		}
		history = mongoStore
		log.Info(ctx, "prediction history enabled", "database", cfg.Mongo.Database)
	}

	// ── Redis (flash messages, optional) ─────────────────────
	var flashStore flash.Store = flash.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		flashStore = flash.NewRedisStore(rdb)
		log.Info(ctx, "flash messages in redis", "addr", cfg.Redis.Addr)
	}
	flasher := flash.New(flashStore, log.With("component", "flash"))

	// ── MinIO (model artifacts, optional) ────────────────────
	var objects inference.ObjectSource
	if cfg.Minio.Endpoint != "" {
		minioStore, err := store.NewMinioStore(ctx, cfg.Minio)
		if err != nil {
			return err
		}
		objects = minioStore
	}

	// ── Models ───────────────────────────────────────────────
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	set, err := inference.NewLoader(cfg.Models, objects, nil).LoadSet(loadCtx)
	cancel()
	if err != nil {
		return err
	}
	log.Info(ctx, "models loaded", "source", cfg.Models.Source,
		"power_score", set.PowerScore.Name(), "power_gen", set.PowerGen.Name(),
		"grid_stability", set.GridStability.Name())

	// ── Handlers ─────────────────────────────────────────────
	pages, err := web.NewRenderer(flasher, log.With("component", "web"))
	if err != nil {
		return err
	}
	authSvc := auth.NewService(db, auth.Options{
		BcryptCost:            cfg.Auth.BcryptCost,
		EnforceUsernameFormat: cfg.Auth.EnforceUsernameFormat,
	}, log.With("component", "auth"))
	predictSvc := predict.NewService(set, db, history, log.With("component", "predict"))

	router := server.NewRouter(server.Deps{
		Pages:          pages,
		Auth:           auth.NewHandler(authSvc, pages, flasher, log.With("component", "auth")),
		Contact:        contact.NewHandler(contact.NewService(db, log.With("component", "contact")), pages, flasher),
		Predict:        predict.NewHandler(predictSvc, pages, log.With("component", "predict")),
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log.With("component", "http"),
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info(ctx, "shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
