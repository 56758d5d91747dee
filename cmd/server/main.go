package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oficialia/internal/config"
	"oficialia/internal/infra"
	"oficialia/internal/repository"
	"oficialia/internal/router"
	"oficialia/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Oficialía API
// @version 1.0
// @description Backend del circuito de requisiciones de material.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cargar configuración")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("base de datos")
	}
	rdb, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis")
	}
	storage, err := infra.NewStorage(ctx, infra.StorageConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("storage de adjuntos")
	}

	mailer := infra.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPUser)
	bus := infra.NewEventBus(rdb)
	despacho := worker.NewDispatcher(rdb)

	pool := worker.NewPool(rdb, cfg.WorkerPoolSize, worker.Handlers{
		Notificacion: worker.NewNotificacionHandler(
			repository.NewNotificacionRepository(db),
			repository.NewUsuarioRepository(db),
			mailer,
		),
		Limpieza: worker.NewLimpiezaHandler(storage),
	})
	pool.Start(ctx)

	engine := router.New(router.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Storage:  storage,
		Bus:      bus,
		Despacho: despacho,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("servidor iniciado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("servidor http")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("apagando")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor http")
	}
	pool.Wait()
	log.Info().Msg("apagado completo")
}
