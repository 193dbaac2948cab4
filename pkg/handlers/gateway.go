package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"plataforma/pkg/events"
	"plataforma/pkg/models"
)

type Publicador interface {
	Publish(ctx context.Context, evt events.Event) error
}

// GatewayHandler accepts registrations and forwards them to the topic without
// touching the database.
type GatewayHandler struct {
	topic  Publicador
	logger zerolog.Logger
}

func NewGateway(topic Publicador, logger zerolog.Logger) *GatewayHandler {
	return &GatewayHandler{topic: topic, logger: logger}
}

// POST /servicos
func (g *GatewayHandler) Enviar(c *fiber.Ctx) error {
	var req models.NovoServicoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"erro": "JSON inválido."})
	}

	evt := events.NewNovoServico(
		strings.TrimSpace(req.Nome),
		strings.TrimSpace(req.Descricao),
		strings.TrimSpace(req.Categoria),
		strings.TrimSpace(req.Email),
	)
	if err := evt.Validar(true); err != nil {
		return c.Status(400).JSON(fiber.Map{"erro": "Campos nome, descricao, categoria e email são obrigatórios."})
	}

	if err := g.topic.Publish(c.UserContext(), evt); err != nil {
		g.logger.Error().Err(err).Msg("erro ao publicar no tópico")
		return c.Status(500).JSON(fiber.Map{"erro": "Falha ao enviar mensagem para o tópico."})
	}

	g.logger.Info().Str("nome", evt.Nome).Msg("mensagem enviada para o tópico")
	return c.Status(202).JSON(fiber.Map{
		"mensagem": "Serviço enviado para processamento.",
		"dados":    evt,
	})
}
