package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"plataforma/pkg/auth"
	"plataforma/pkg/broker"
	"plataforma/pkg/cache"
	"plataforma/pkg/config"
	"plataforma/pkg/consumers"
	"plataforma/pkg/database"
	"plataforma/pkg/handlers"
	"plataforma/pkg/logging"
	"plataforma/pkg/repository"
	"plataforma/pkg/server"
	"plataforma/pkg/services"
)

const (
	servico      = "notification-service"
	subscription = "processador"
)

func main() {
	cfg, err := config.Load(servico, "3003")
	if err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}
	if err := cfg.RequireSharedBroker(); err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}
	if os.Getenv("BROKER_SUBSCRIPTION") == "" {
		cfg.Broker.Subscription = subscription
	}
	logger := logging.New(cfg.Logging, servico)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("erro ao conectar no banco")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, logger); err != nil {
		logger.Fatal().Err(err).Msg("erro nas migrações")
	}

	var lista services.Cache
	if redis, err := cache.New(ctx, cfg.Redis.URL); err != nil {
		logger.Warn().Err(err).Msg("redis indisponível, listagem sem cache")
	} else {
		defer redis.Close()
		lista = redis
	}

	svc := services.NewServicosService(repository.NewServicosRepository(db), lista, logger)

	topic, err := broker.Open(ctx, cfg.Broker, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("transport", cfg.Broker.Transport).Msg("erro ao conectar no broker")
	}
	defer topic.Close()
	go topic.Monitor(ctx)

	processador := consumers.NewProcessador(svc, topic, logger)
	if err := topic.Subscribe(ctx, cfg.Broker.Subscription, processador.Handle); err != nil {
		logger.Fatal().Err(err).Msg("erro ao assinar o tópico")
	}

	verifier := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	app := server.NewApp(servico, cfg.HTTP.CORSOrigins)
	handlers.RotasProcessador(app, handlers.NewServicos(svc, logger), verifier)

	if err := server.Run(ctx, app, cfg.Port, logger); err != nil {
		logger.Fatal().Err(err).Msg("erro no servidor")
	}
}

