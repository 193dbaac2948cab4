package consumers

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"plataforma/pkg/broker"
	"plataforma/pkg/events"
	"plataforma/pkg/hub"
	"plataforma/pkg/mail"
	"plataforma/pkg/metrics"
)

// Painel is satisfied by *hub.Hub.
type Painel interface {
	Broadcast(tipo string, dados interface{})
}

// Notificador e-mails the registrant once SERVICO_CADASTRADO arrives and, when
// a painel is attached, pushes the registration to live clients. Every
// delivery is completed; a failed send is only logged.
type Notificador struct {
	mailer mail.Mailer
	painel Painel
	logger zerolog.Logger
}

// NewNotificador accepts a nil painel.
func NewNotificador(mailer mail.Mailer, painel Painel, logger zerolog.Logger) *Notificador {
	return &Notificador{
		mailer: mailer,
		painel: painel,
		logger: logger.With().Str("component", "notificador").Logger(),
	}
}

type aviso struct {
	Nome         string    `json:"nome"`
	Descricao    string    `json:"descricao"`
	Categoria    string    `json:"categoria"`
	DataCadastro time.Time `json:"dataCadastro"`
}

func (n *Notificador) Handle(ctx context.Context, d broker.Delivery) broker.Outcome {
	log := n.logger.With().Str("message_id", d.ID).Logger()

	if d.Err != nil {
		log.Warn().Err(d.Err).Msg("mensagem ignorada")
		return broker.Complete
	}

	cadastrado, ok := d.Event.(events.ServicoCadastrado)
	if !ok {
		return broker.Complete
	}

	if n.painel != nil {
		n.painel.Broadcast(hub.TipoServicoCadastrado, aviso{
			Nome:         cadastrado.Nome,
			Descricao:    cadastrado.Descricao,
			Categoria:    cadastrado.Categoria,
			DataCadastro: cadastrado.DataCadastro,
		})
	}

	if strings.TrimSpace(cadastrado.Email) == "" {
		log.Warn().Str("nome", cadastrado.Nome).Msg("evento sem e-mail, notificação não enviada")
		metrics.EmailsEnviados.WithLabelValues("sem_destinatario").Inc()
		return broker.Complete
	}

	msg := mail.ConfirmacaoCadastro(cadastrado.Email, cadastrado.Nome, cadastrado.Descricao)
	if err := n.mailer.Enviar(ctx, msg); err != nil {
		log.Error().Err(err).Str("para", cadastrado.Email).Msg("erro ao enviar e-mail")
		metrics.EmailsEnviados.WithLabelValues("erro").Inc()
		return broker.Complete
	}

	metrics.EmailsEnviados.WithLabelValues("ok").Inc()
	log.Info().Str("para", cadastrado.Email).Msg("e-mail enviado")
	return broker.Complete
}
