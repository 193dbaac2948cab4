// Package broker wraps a watermill publisher/subscriber pair as the shared
// servicos topic.
//
// Publish enqueues exactly one message and never retries. Subscribe hands each
// delivery to a handler that must answer Complete (ack) or Abandon (nack, the
// broker redelivers). A handler that panics is treated as Abandon. Side
// effects registered with Delivery.AfterComplete run only after the ack.
package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"plataforma/pkg/events"
	"plataforma/pkg/metrics"
)

var (
	ErrTransport          = errors.New("broker: falha de transporte")
	ErrSubscriptionClosed = errors.New("broker: assinatura encerrada pelo transporte")
)

const metadataTipo = "tipo"

type Outcome int

const (
	Complete Outcome = iota
	Abandon
)

func (o Outcome) String() string {
	if o == Complete {
		return "complete"
	}
	return "abandon"
}

// Delivery is one message taken from a subscription. Err is set when the
// payload could not be decoded; Event is nil in that case.
type Delivery struct {
	ID    string
	Event events.Event
	Err   error

	after *posConfirmacao
}

type posConfirmacao struct {
	mu  sync.Mutex
	fns []func()
}

// NewDelivery builds a Delivery that holds AfterComplete callbacks until
// RunAfterComplete is called.
func NewDelivery(id string, evt events.Event, err error) Delivery {
	return Delivery{ID: id, Event: evt, Err: err, after: &posConfirmacao{}}
}

// AfterComplete registers fn to run once the message has been acked. The
// callbacks are dropped when the handler answers Abandon. On a Delivery not
// built by NewDelivery fn runs right away.
func (d Delivery) AfterComplete(fn func()) {
	if d.after == nil {
		fn()
		return
	}
	d.after.mu.Lock()
	d.after.fns = append(d.after.fns, fn)
	d.after.mu.Unlock()
}

// RunAfterComplete runs the registered callbacks in order, once.
func (d Delivery) RunAfterComplete() {
	if d.after == nil {
		return
	}
	d.after.mu.Lock()
	fns := d.after.fns
	d.after.fns = nil
	d.after.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type HandlerFunc func(ctx context.Context, d Delivery) Outcome

type Topic struct {
	name        string
	transport   Transport
	concurrency int
	retryDelay  time.Duration
	logger      zerolog.Logger

	errs chan error

	mu     sync.Mutex
	subs   []message.Subscriber
	wg     sync.WaitGroup
	closed bool
}

type Option func(*Topic)

// WithConcurrency bounds how many handlers run at once per subscription.
func WithConcurrency(n int) Option {
	return func(t *Topic) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// WithRetryDelay sets the pause before re-subscribing after the transport
// closed a subscription.
func WithRetryDelay(d time.Duration) Option {
	return func(t *Topic) { t.retryDelay = d }
}

func New(name string, transport Transport, logger zerolog.Logger, opts ...Option) *Topic {
	t := &Topic{
		name:        name,
		transport:   transport,
		concurrency: 1,
		retryDelay:  3 * time.Second,
		logger:      logger.With().Str("component", "broker").Str("topic", name).Logger(),
		errs:        make(chan error, 32),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Topic) Name() string { return t.name }

// Errors reports transport-level failures of the receive loops. Nothing here
// stops the process; reading it is optional.
func (t *Topic) Errors() <-chan error { return t.errs }

// Monitor drains Errors into metrics.FalhasTransporte until ctx is done.
func (t *Topic) Monitor(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-t.errs:
			metrics.FalhasTransporte.WithLabelValues(t.name).Inc()
			t.logger.Debug().Err(err).Msg("falha de transporte contabilizada")
		}
	}
}

func (t *Topic) Publish(ctx context.Context, evt events.Event) error {
	payload, err := events.Marshal(evt)
	if err != nil {
		return err
	}

	msg := message.NewMessage(NewID(), payload)
	msg.Metadata.Set(metadataTipo, string(evt.Tipo()))
	msg.SetContext(ctx)

	if err := t.transport.Publisher.Publish(t.name, msg); err != nil {
		metrics.EventosPublicados.WithLabelValues(string(evt.Tipo()), "erro").Inc()
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	metrics.EventosPublicados.WithLabelValues(string(evt.Tipo()), "ok").Inc()
	t.logger.Debug().Str("message_id", msg.UUID).Str("tipo", string(evt.Tipo())).Msg("evento publicado")
	return nil
}

// Subscribe attaches handler to the named subscription and returns once the
// first receive channel is open. Messages are processed until ctx is done.
func (t *Topic) Subscribe(ctx context.Context, subscription string, handler HandlerFunc) error {
	msgs, err := t.open(ctx, subscription)
	if err != nil {
		return err
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.run(ctx, subscription, msgs, handler)
	}()

	t.logger.Info().Str("subscription", subscription).Msg("ouvindo mensagens do tópico")
	return nil
}

func (t *Topic) open(ctx context.Context, subscription string) (<-chan *message.Message, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, fmt.Errorf("%w: tópico fechado", ErrTransport)
	}
	t.mu.Unlock()

	sub, err := t.transport.NewSubscriber(subscription)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	msgs, err := sub.Subscribe(ctx, t.name)
	if err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	t.mu.Lock()
	t.subs = append(t.subs, sub)
	t.mu.Unlock()
	return msgs, nil
}

func (t *Topic) run(ctx context.Context, subscription string, msgs <-chan *message.Message, handler HandlerFunc) {
	log := t.logger.With().Str("subscription", subscription).Logger()
	sem := make(chan struct{}, t.concurrency)
	var workers sync.WaitGroup
	defer workers.Wait()

	for {
		for msg := range msgs {
			sem <- struct{}{}
			workers.Add(1)
			go func(m *message.Message) {
				defer func() {
					<-sem
					workers.Done()
				}()
				t.dispatch(ctx, log, subscription, m, handler)
			}(msg)
		}

		if ctx.Err() != nil || t.isClosed() {
			return
		}

		t.report(log, fmt.Errorf("%w: %s", ErrSubscriptionClosed, subscription))

		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(t.retryDelay):
			}

			next, err := t.open(ctx, subscription)
			if err == nil {
				msgs = next
				log.Info().Msg("assinatura restabelecida")
				break
			}
			t.report(log, err)
			if errors.Is(err, ErrTransport) && t.isClosed() {
				return
			}
		}
	}
}

func (t *Topic) dispatch(ctx context.Context, log zerolog.Logger, subscription string, msg *message.Message, handler HandlerFunc) {
	evt, err := events.Decode(msg.Payload)
	d := NewDelivery(msg.UUID, evt, err)

	outcome := Abandon
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("message_id", msg.UUID).Interface("panic", r).Msg("handler entrou em pânico, mensagem abandonada")
			outcome = Abandon
		}
		settle(msg, outcome)
		metrics.MensagensProcessadas.WithLabelValues(subscription, outcome.String()).Inc()
		if outcome == Complete {
			afterComplete(log, d)
		}
	}()

	outcome = handler(ctx, d)
}

func afterComplete(log zerolog.Logger, d Delivery) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("message_id", d.ID).Interface("panic", r).Msg("callback pós-confirmação entrou em pânico")
		}
	}()
	d.RunAfterComplete()
}

func settle(msg *message.Message, outcome Outcome) {
	if outcome == Complete {
		msg.Ack()
		return
	}
	msg.Nack()
}

func (t *Topic) report(log zerolog.Logger, err error) {
	log.Error().Err(err).Msg("erro no tópico")
	select {
	case t.errs <- err:
	default:
	}
}

func (t *Topic) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Close stops accepting subscriptions, closes subscribers and the publisher,
// and waits for the receive loops to exit. In-flight messages are not
// drained; the broker redelivers them once their lock expires.
func (t *Topic) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	subs := t.subs
	t.subs = nil
	t.mu.Unlock()

	var errs []error
	for _, sub := range subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := t.transport.Publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	t.wg.Wait()
	return errors.Join(errs...)
}
