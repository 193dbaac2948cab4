package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"plataforma/pkg/broker"
	"plataforma/pkg/config"
	"plataforma/pkg/handlers"
	"plataforma/pkg/logging"
	"plataforma/pkg/server"
)

const servico = "gateway-api"

func main() {
	cfg, err := config.Load(servico, "3000")
	if err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}
	if err := cfg.RequireSharedBroker(); err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}
	logger := logging.New(cfg.Logging, servico)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topic, err := broker.Open(ctx, cfg.Broker, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("transport", cfg.Broker.Transport).Msg("erro ao conectar no broker")
	}
	defer topic.Close()
	go topic.Monitor(ctx)

	app := server.NewApp(servico, cfg.HTTP.CORSOrigins)
	handlers.RotasGateway(app, handlers.NewGateway(topic, logger))

	if err := server.Run(ctx, app, cfg.Port, logger); err != nil {
		logger.Fatal().Err(err).Msg("erro no servidor")
	}
}
