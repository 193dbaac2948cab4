package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"plataforma/pkg/auth"
	"plataforma/pkg/config"
	"plataforma/pkg/database"
	"plataforma/pkg/handlers"
	"plataforma/pkg/logging"
	"plataforma/pkg/repository"
	"plataforma/pkg/server"
	"plataforma/pkg/services"
)

const servico = "auth-service"

func main() {
	cfg, err := config.Load(servico, "3002")
	if err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
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

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	svc, err := services.NewAuthService(repository.NewUsuariosRepository(db), tokens, cfg.Auth.JWTTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("erro ao iniciar autenticação")
	}

	app := server.NewApp(servico, cfg.HTTP.CORSOrigins)
	handlers.RotasAuth(app, handlers.NewAuth(svc, logger), tokens, cfg.HTTP.LoginMaxPerMinute)

	if err := server.Run(ctx, app, cfg.Port, logger); err != nil {
		logger.Fatal().Err(err).Msg("erro no servidor")
	}
}
