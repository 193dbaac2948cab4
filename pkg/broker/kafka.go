package broker

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"

	"plataforma/pkg/config"
)

var (
	KafkaPublisherFactory = func(cfg kafka.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
		return kafka.NewPublisher(cfg, logger)
	}
	KafkaSubscriberFactory = func(cfg kafka.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
		return kafka.NewSubscriber(cfg, logger)
	}
)

// kafkaTransport maps a subscription to a consumer group.
func kafkaTransport(cfg config.BrokerConfig, logger watermill.LoggerAdapter) (Transport, error) {
	publisher, err := KafkaPublisherFactory(kafka.PublisherConfig{
		Brokers:   cfg.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, logger)
	if err != nil {
		return Transport{}, err
	}

	brokers := cfg.KafkaBrokers
	return Transport{
		Publisher: publisher,
		NewSubscriber: func(subscription string) (message.Subscriber, error) {
			return KafkaSubscriberFactory(kafka.SubscriberConfig{
				Brokers:       brokers,
				Unmarshaler:   kafka.DefaultMarshaler{},
				ConsumerGroup: subscription,
			}, logger)
		},
	}, nil
}
