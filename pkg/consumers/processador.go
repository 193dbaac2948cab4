// Package consumers holds the topic handlers run by the pipeline services.
package consumers

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"plataforma/pkg/broker"
	"plataforma/pkg/events"
	"plataforma/pkg/metrics"
)

// Registrador persists a registration and returns the new row id.
type Registrador interface {
	Registrar(ctx context.Context, dados events.Payload) (int, error)
}

type Publicador interface {
	Publish(ctx context.Context, evt events.Event) error
}

// Processador turns NOVO_SERVICO events into servicos rows and announces each
// row with a SERVICO_CADASTRADO event on the same topic. The announcement is
// published after the NOVO_SERVICO message has been acked.
//
// Redelivery of an already persisted event inserts a second row.
type Processador struct {
	store  Registrador
	topic  Publicador
	logger zerolog.Logger
}

func NewProcessador(store Registrador, topic Publicador, logger zerolog.Logger) *Processador {
	return &Processador{
		store:  store,
		topic:  topic,
		logger: logger.With().Str("component", "processador").Logger(),
	}
}

func (p *Processador) Handle(ctx context.Context, d broker.Delivery) broker.Outcome {
	log := p.logger.With().Str("message_id", d.ID).Logger()

	if d.Err != nil {
		if errors.Is(d.Err, events.ErrTipoDesconhecido) {
			log.Warn().Err(d.Err).Msg("tipo de evento rejeitado")
		} else {
			log.Error().Err(d.Err).Msg("payload inválido descartado")
		}
		return broker.Complete
	}

	novo, ok := d.Event.(events.NovoServico)
	if !ok {
		log.Debug().Str("tipo", string(d.Event.Tipo())).Msg("evento ignorado")
		return broker.Complete
	}

	if err := novo.Validar(false); err != nil {
		log.Error().Err(err).Msg("dados incompletos, mensagem descartada")
		return broker.Complete
	}

	id, err := p.store.Registrar(ctx, novo.Payload)
	if err != nil {
		log.Error().Err(err).Msg("erro ao salvar no banco")
		return broker.Abandon
	}
	metrics.ServicosRegistrados.Inc()
	log.Info().Int("id", id).Str("nome", novo.Nome).Msg("serviço salvo no banco")

	d.AfterComplete(func() {
		if err := p.topic.Publish(ctx, events.Confirmar(novo.Payload)); err != nil {
			log.Error().Err(err).Int("id", id).Msg("erro ao publicar confirmação")
		}
	})
	return broker.Complete
}
