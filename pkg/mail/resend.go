package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

type ResendMailer struct {
	client *resend.Client
	from   string
	logger zerolog.Logger
}

func NewResendMailer(apiKey, from string, logger zerolog.Logger) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from, logger: logger}
}

// Enviar does not retry; a rate limit error is returned like any other.
func (r *ResendMailer) Enviar(ctx context.Context, m Mensagem) error {
	if err := validarEndereco(m.Para); err != nil {
		return err
	}

	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{m.Para},
		Subject: m.Assunto,
		Text:    m.Texto,
		Html:    m.HTML,
	})
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			r.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("reset", rateLimitErr.Reset).
				Msg("limite de envio do resend atingido")
		}
		return fmt.Errorf("resend: %w", err)
	}

	r.logger.Info().Str("email_id", sent.Id).Str("to", m.Para).Msg("e-mail enviado via Resend")
	return nil
}
