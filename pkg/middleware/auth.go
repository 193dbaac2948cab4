package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"plataforma/pkg/auth"
)

const principalKey = "principal"

// Verifier is satisfied by *auth.JWTManager.
type Verifier interface {
	Verify(token string) (auth.Principal, error)
}

// Autenticar rejects requests without a bearer token (401) or with one that
// does not verify (403), and stores the principal in Locals.
func Autenticar(v Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := auth.TokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "Token ausente."})
		}

		principal, err := v.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "Token ausente."})
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"erro": "Token inválido."})
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// AutorizarTipos must run after Autenticar.
func AutorizarTipos(mensagem string, tipos ...auth.Tipo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := Principal(c)
		if !ok || !p.HasTipo(tipos...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"erro": mensagem})
		}
		return c.Next()
	}
}

func Principal(c *fiber.Ctx) (auth.Principal, bool) {
	p, ok := c.Locals(principalKey).(auth.Principal)
	return p, ok
}
