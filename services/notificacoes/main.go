package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"plataforma/pkg/auth"
	"plataforma/pkg/broker"
	"plataforma/pkg/config"
	"plataforma/pkg/consumers"
	"plataforma/pkg/hub"
	"plataforma/pkg/logging"
	"plataforma/pkg/mail"
	"plataforma/pkg/server"
)

const (
	servico      = "email-service"
	subscription = "notificador"
)

func main() {
	cfg, err := config.Load(servico, "3004")
	if err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}
	if err := cfg.RequireSharedBroker(); err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}
	if os.Getenv("BROKER_SUBSCRIPTION") == "" {
		cfg.Broker.Subscription = subscription
	}
	logger := logging.New(cfg.Logging, servico)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	painel := hub.New(logger)
	notificador := consumers.NewNotificador(mailer, painel, logger)
	if err := topic.Subscribe(ctx, cfg.Broker.Subscription, notificador.Handle); err != nil {
		logger.Fatal().Err(err).Msg("erro ao assinar o tópico")
	}

	verifier := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	app := server.NewApp(servico, cfg.HTTP.CORSOrigins)
	hub.Rotas(app, painel, verifier)

	if err := server.Run(ctx, app, cfg.Port, logger); err != nil {
		logger.Fatal().Err(err).Msg("erro no servidor")
	}
}
