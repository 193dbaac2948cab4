package handlers

import (
	"github.com/gofiber/fiber/v2"

	"plataforma/pkg/auth"
	"plataforma/pkg/middleware"
)

func RotasGateway(r fiber.Router, h *GatewayHandler) {
	r.Post("/servicos", h.Enviar)
}

func RotasAuth(r fiber.Router, h *AuthHandler, v middleware.Verifier, loginPorMinuto int) {
	somenteAdmin := middleware.AutorizarTipos("Acesso restrito a admin.", auth.TipoAdmin)

	r.Post("/usuarios", h.Registrar)
	r.Post("/login", middleware.LimitarLogin(loginPorMinuto), h.Login)
	r.Get("/me", middleware.Autenticar(v), h.Me)
	r.Get("/usuarios", middleware.Autenticar(v), somenteAdmin, h.ListarUsuarios)
	r.Get("/admin-somente", middleware.Autenticar(v), somenteAdmin, h.AdminSomente)
}

func RotasCadastro(r fiber.Router, h *ServicosHandler, v middleware.Verifier) {
	g := r.Group("/servicos", middleware.Autenticar(v))
	g.Get("/", h.Listar)
	g.Post("/", h.Criar)
	g.Put("/:id", h.Atualizar)
	g.Delete("/:id", h.Deletar)
}

func RotasProcessador(r fiber.Router, h *ServicosHandler, v middleware.Verifier) {
	r.Get("/servicos",
		middleware.Autenticar(v),
		middleware.AutorizarTipos("Acesso negado", auth.TipoAdmin, auth.TipoPrestador),
		h.ListarProcessados,
	)
}
