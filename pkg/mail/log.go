package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer only logs what would have been sent.
type LogMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (l *LogMailer) Enviar(_ context.Context, m Mensagem) error {
	if err := validarEndereco(m.Para); err != nil {
		return err
	}
	l.logger.Info().
		Str("to", m.Para).
		Str("subject", m.Assunto).
		Str("body", m.Texto).
		Msg("envio de e-mail desativado, mensagem apenas registrada")
	return nil
}
