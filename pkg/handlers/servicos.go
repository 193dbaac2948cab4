package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"plataforma/pkg/middleware"
	"plataforma/pkg/models"
	"plataforma/pkg/services"
)

type ServicosHandler struct {
	service services.ServicosService
	logger  zerolog.Logger
}

func NewServicos(service services.ServicosService, logger zerolog.Logger) *ServicosHandler {
	return &ServicosHandler{service: service, logger: logger}
}

// GET /servicos
func (h *ServicosHandler) Listar(c *fiber.Ctx) error {
	lista, err := h.service.Listar(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("erro ao listar serviços")
		return c.Status(500).JSON(fiber.Map{"erro": "Erro ao listar serviços."})
	}
	return c.JSON(lista)
}

// GET /servicos on the pipeline processor.
func (h *ServicosHandler) ListarProcessados(c *fiber.Ctx) error {
	lista, err := h.service.Listar(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("erro ao listar serviços")
		return c.Status(500).JSON(fiber.Map{"erro": "Erro interno"})
	}
	return c.JSON(lista)
}

// POST /servicos (prestador, admin)
func (h *ServicosHandler) Criar(c *fiber.Ctx) error {
	p, _ := middleware.Principal(c)

	var req models.ServicoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"erro": "JSON inválido."})
	}

	id, err := h.service.Criar(c.UserContext(), p, req)
	switch {
	case errors.Is(err, services.ErrAcessoNegado):
		return c.Status(403).JSON(fiber.Map{"erro": "Acesso negado para criar serviço."})
	case errors.Is(err, services.ErrValidacao):
		return c.Status(400).JSON(fiber.Map{"erro": "Campos nome, descricao e categoria são obrigatórios."})
	case err != nil:
		h.logger.Error().Err(err).Msg("erro ao criar serviço")
		return c.Status(500).JSON(fiber.Map{"erro": "Erro ao criar serviço."})
	}

	return c.Status(201).JSON(fiber.Map{"mensagem": "Serviço criado com sucesso.", "id": id})
}

// PUT /servicos/:id (dono ou admin)
func (h *ServicosHandler) Atualizar(c *fiber.Ctx) error {
	p, _ := middleware.Principal(c)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"erro": "ID inválido."})
	}

	var req models.ServicoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"erro": "JSON inválido."})
	}

	err = h.service.Atualizar(c.UserContext(), p, id, req)
	switch {
	case errors.Is(err, services.ErrValidacao):
		return c.Status(400).JSON(fiber.Map{"erro": "Campos nome, descricao e categoria são obrigatórios."})
	case errors.Is(err, services.ErrNaoEncontrado):
		return c.Status(404).JSON(fiber.Map{"erro": "Serviço não encontrado."})
	case errors.Is(err, services.ErrAcessoNegado):
		return c.Status(403).JSON(fiber.Map{"erro": "Acesso negado para atualizar este serviço."})
	case err != nil:
		h.logger.Error().Err(err).Int("id", id).Msg("erro ao atualizar serviço")
		return c.Status(500).JSON(fiber.Map{"erro": "Erro ao atualizar serviço."})
	}

	return c.JSON(fiber.Map{"mensagem": "Serviço atualizado com sucesso."})
}

// DELETE /servicos/:id (dono ou admin)
func (h *ServicosHandler) Deletar(c *fiber.Ctx) error {
	p, _ := middleware.Principal(c)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"erro": "ID inválido."})
	}

	err = h.service.Deletar(c.UserContext(), p, id)
	switch {
	case errors.Is(err, services.ErrNaoEncontrado):
		return c.Status(404).JSON(fiber.Map{"erro": "Serviço não encontrado."})
	case errors.Is(err, services.ErrAcessoNegado):
		return c.Status(403).JSON(fiber.Map{"erro": "Acesso negado para excluir este serviço."})
	case err != nil:
		h.logger.Error().Err(err).Int("id", id).Msg("erro ao excluir serviço")
		return c.Status(500).JSON(fiber.Map{"erro": "Erro ao excluir serviço."})
	}

	return c.JSON(fiber.Map{"mensagem": "Serviço excluído com sucesso."})
}
