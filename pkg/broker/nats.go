package broker

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"

	"plataforma/pkg/config"
)

var (
	NATSPublisherFactory = func(cfg nats.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
		return nats.NewPublisher(cfg, logger)
	}
	NATSSubscriberFactory = func(cfg nats.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
		return nats.NewSubscriber(cfg, logger)
	}
)

// natsTransport uses the subscription as queue group prefix so replicas of
// one service compete for messages.
func natsTransport(cfg config.BrokerConfig, logger watermill.LoggerAdapter) (Transport, error) {
	marshaler := &nats.NATSMarshaler{}

	publisher, err := NATSPublisherFactory(nats.PublisherConfig{
		URL:       cfg.NATSURL,
		Marshaler: marshaler,
	}, logger)
	if err != nil {
		return Transport{}, err
	}

	return Transport{
		Publisher: publisher,
		NewSubscriber: func(subscription string) (message.Subscriber, error) {
			return NATSSubscriberFactory(nats.SubscriberConfig{
				URL:              cfg.NATSURL,
				Unmarshaler:      marshaler,
				QueueGroupPrefix: subscription,
			}, logger)
		},
	}, nil
}
