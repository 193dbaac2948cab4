package broker

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"plataforma/pkg/config"
	"plataforma/pkg/logging"
)

// Transport is one backend for the topic. Publisher is shared by the process;
// NewSubscriber opens a competing-consumer group named after the subscription.
type Transport struct {
	Publisher     message.Publisher
	NewSubscriber func(subscription string) (message.Subscriber, error)
}

const (
	TransportChannel  = "channel"
	TransportRabbitMQ = "rabbitmq"
	TransportKafka    = "kafka"
	TransportNATS     = "nats"
	TransportAWS      = "aws"
)

// Build picks the transport named by cfg.Transport.
func Build(ctx context.Context, cfg config.BrokerConfig, logger watermill.LoggerAdapter) (Transport, error) {
	switch cfg.Transport {
	case "", TransportChannel:
		return channelTransport(logger), nil
	case TransportRabbitMQ:
		return rabbitTransport(cfg, logger)
	case TransportKafka:
		return kafkaTransport(cfg, logger)
	case TransportNATS:
		return natsTransport(cfg, logger)
	case TransportAWS:
		return awsTransport(ctx, cfg, logger)
	default:
		return Transport{}, fmt.Errorf("broker: transporte desconhecido %q", cfg.Transport)
	}
}

// Open builds the configured transport and wraps it as the shared topic.
func Open(ctx context.Context, cfg config.BrokerConfig, logger zerolog.Logger) (*Topic, error) {
	tr, err := Build(ctx, cfg, logging.Watermill(logger.With().Str("transport", cfg.Transport).Logger()))
	if err != nil {
		return nil, err
	}
	return New(cfg.Topic, tr, logger, WithConcurrency(cfg.Concurrency)), nil
}
