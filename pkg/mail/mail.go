// Package mail sends transactional e-mail through SMTP, the Resend API, or a
// log-only sink for development.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"

	"plataforma/pkg/config"
)

var ErrDestinatarioInvalido = errors.New("mail: destinatário inválido")

type Mensagem struct {
	Para    string
	Assunto string
	Texto   string
	HTML    string
}

type Mailer interface {
	Enviar(ctx context.Context, m Mensagem) error
}

// New selects the provider named by cfg.Provider ("smtp", "resend" or "log").
func New(cfg config.EmailConfig, logger zerolog.Logger) (Mailer, error) {
	logger = logger.With().Str("component", "mail").Str("provider", cfg.Provider).Logger()

	switch cfg.Provider {
	case "", "log":
		return NewLogMailer(logger), nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("mail: EMAIL_HOST é obrigatório para smtp")
		}
		if err := validarEndereco(cfg.From); err != nil {
			return nil, fmt.Errorf("mail: remetente inválido: %w", err)
		}
		return NewSMTPMailer(cfg, logger), nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("mail: RESEND_API_KEY é obrigatório para resend")
		}
		return NewResendMailer(cfg.ResendAPIKey, cfg.From, logger), nil
	default:
		return nil, fmt.Errorf("mail: provedor desconhecido %q", cfg.Provider)
	}
}

// ConfirmacaoCadastro is sent once a registration has been persisted.
func ConfirmacaoCadastro(para, nome, descricao string) Mensagem {
	return Mensagem{
		Para:    para,
		Assunto: "Seu serviço foi cadastrado!",
		Texto:   fmt.Sprintf("Olá, %s! Seu serviço \"%s\" foi cadastrado com sucesso.", nome, descricao),
	}
}

// validarEndereco rejects malformed addresses and header injection attempts.
func validarEndereco(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDestinatarioInvalido, err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("%w: contém quebra de linha", ErrDestinatarioInvalido)
	}
	return nil
}
