package hub

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"plataforma/pkg/auth"
	"plataforma/pkg/middleware"
)

const principalKey = "ws_principal"

// Rotas mounts GET /ws and GET /ws/status. The token comes from the "token"
// query parameter since browsers cannot set headers on a websocket upgrade;
// an Authorization header is accepted too.
func Rotas(r fiber.Router, h *Hub, v middleware.Verifier) {
	r.Get("/ws/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"conectados": h.ClientCount()})
	})

	r.Use("/ws", autenticarUpgrade(v))
	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		p, _ := c.Locals(principalKey).(auth.Principal)
		h.HandleConn(c, p)
	}))
}

func autenticarUpgrade(v middleware.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("token")
		if token == "" {
			token, _ = auth.TokenFromHeader(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "Token ausente."})
		}

		p, err := v.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"erro": "Token inválido."})
		}

		c.Locals(principalKey, p)
		return c.Next()
	}
}
