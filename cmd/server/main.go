// Command server runs every service of the platform in one process over a
// single topic. Useful for local development with BROKER_TRANSPORT=channel.
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
	"plataforma/pkg/hub"
	"plataforma/pkg/logging"
	"plataforma/pkg/mail"
	"plataforma/pkg/repository"
	"plataforma/pkg/server"
	"plataforma/pkg/services"
)

const servico = "plataforma"

func main() {
	cfg, err := config.Load(servico, "8080")
	if err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}
	logger := logging.New(cfg.Logging, servico)
	logger.Debug().Str("config", cfg.String()).Msg("configuração carregada")

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

	mailer, err := mail.New(cfg.Email, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("configuração de e-mail inválida")
	}

	topic, err := broker.Open(ctx, cfg.Broker, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("transport", cfg.Broker.Transport).Msg("erro ao conectar no broker")
	}
	defer topic.Close()
	go topic.Monitor(ctx)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	authSvc, err := services.NewAuthService(repository.NewUsuariosRepository(db), tokens, cfg.Auth.JWTTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("erro ao iniciar autenticação")
	}
	servicosSvc := services.NewServicosService(repository.NewServicosRepository(db), lista, logger)

	processador := consumers.NewProcessador(servicosSvc, topic, logger)
	if err := topic.Subscribe(ctx, "processador", processador.Handle); err != nil {
		logger.Fatal().Err(err).Msg("erro ao assinar o tópico")
	}
	painel := hub.New(logger)
	notificador := consumers.NewNotificador(mailer, painel, logger)
	if err := topic.Subscribe(ctx, "notificador", notificador.Handle); err != nil {
		logger.Fatal().Err(err).Msg("erro ao assinar o tópico")
	}

	servicosHandler := handlers.NewServicos(servicosSvc, logger)

	app := server.NewApp(servico, cfg.HTTP.CORSOrigins)
	handlers.RotasGateway(app.Group("/gateway"), handlers.NewGateway(topic, logger))
	handlers.RotasAuth(app.Group("/auth"), handlers.NewAuth(authSvc, logger), tokens, cfg.HTTP.LoginMaxPerMinute)
	handlers.RotasCadastro(app.Group("/cadastro"), servicosHandler, tokens)
	handlers.RotasProcessador(app.Group("/processador"), servicosHandler, tokens)
	hub.Rotas(app.Group("/notificacoes"), painel, tokens)

	if err := server.Run(ctx, app, cfg.Port, logger); err != nil {
		logger.Fatal().Err(err).Msg("erro no servidor")
	}
}
