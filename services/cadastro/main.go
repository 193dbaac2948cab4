package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"plataforma/pkg/auth"
	"plataforma/pkg/cache"
	"plataforma/pkg/config"
	"plataforma/pkg/database"
	"plataforma/pkg/handlers"
	"plataforma/pkg/logging"
	"plataforma/pkg/repository"
	"plataforma/pkg/server"
	"plataforma/pkg/services"
)

const servico = "cadastro-servicos"

func main() {
	cfg, err := config.Load(servico, "3001")
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

	var lista services.Cache
	if redis, err := cache.New(ctx, cfg.Redis.URL); err != nil {
		logger.Warn().Err(err).Msg("redis indisponível, listagem sem cache")
	} else {
		defer redis.Close()
		lista = redis
	}

	svc := services.NewServicosService(repository.NewServicosRepository(db), lista, logger)
	verifier := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)

	app := server.NewApp(servico, cfg.HTTP.CORSOrigins)
	handlers.RotasCadastro(app, handlers.NewServicos(svc, logger), verifier)

	if err := server.Run(ctx, app, cfg.Port, logger); err != nil {
		logger.Fatal().Err(err).Msg("erro no servidor")
	}
}
