package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"plataforma/pkg/middleware"
	"plataforma/pkg/models"
	"plataforma/pkg/services"
)

type AuthHandler struct {
	service services.AuthService
	logger  zerolog.Logger
}

func NewAuth(service services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

// POST /usuarios
func (h *AuthHandler) Registrar(c *fiber.Ctx) error {
	var req models.CriarUsuarioRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"erro": "Campos obrigatórios."})
	}

	id, err := h.service.Registrar(c.UserContext(), req)
	if errors.Is(err, services.ErrValidacao) {
		return c.Status(400).JSON(fiber.Map{"erro": "Campos obrigatórios."})
	}
	if err != nil {
		h.logger.Warn().Err(err).Msg("erro ao registrar usuário")
		return c.Status(400).JSON(fiber.Map{"erro": "E-mail já cadastrado ou erro no banco."})
	}

	return c.JSON(fiber.Map{"ok": true, "id": id})
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"erro": "JSON inválido."})
	}

	token, err := h.service.Login(c.UserContext(), req)
	if errors.Is(err, services.ErrCredenciaisInvalidas) {
		return c.Status(401).JSON(fiber.Map{"erro": "Credenciais inválidas."})
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("erro no login")
		return c.Status(500).JSON(fiber.Map{"erro": "Erro no servidor."})
	}

	return c.JSON(fiber.Map{"token": token})
}

// GET /me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, _ := middleware.Principal(c)

	usuario, err := h.service.Me(c.UserContext(), p.ID)
	if errors.Is(err, services.ErrNaoEncontrado) {
		return c.Status(404).JSON(fiber.Map{"erro": "Usuário não encontrado."})
	}
	if err != nil {
		h.logger.Error().Err(err).Int("id", p.ID).Msg("erro ao buscar usuário")
		return c.Status(500).JSON(fiber.Map{"erro": "Erro no servidor."})
	}

	return c.JSON(usuario)
}

// GET /usuarios (admin)
func (h *AuthHandler) ListarUsuarios(c *fiber.Ctx) error {
	lista, err := h.service.ListarUsuarios(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("erro ao listar usuários")
		return c.Status(500).JSON(fiber.Map{"erro": "Erro ao listar usuários."})
	}
	return c.JSON(lista)
}

// GET /admin-somente (admin)
func (h *AuthHandler) AdminSomente(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"mensagem": "Bem-vindo, admin!"})
}
