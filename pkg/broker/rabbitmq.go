package broker

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"

	"plataforma/pkg/config"
)

var (
	AmqpConnectionFactory = func(cfg amqp.ConnectionConfig, logger watermill.LoggerAdapter) (*amqp.ConnectionWrapper, error) {
		return amqp.NewConnection(cfg, logger)
	}
	AmqpPublisherFactory = func(cfg amqp.Config, logger watermill.LoggerAdapter, conn *amqp.ConnectionWrapper) (message.Publisher, error) {
		return amqp.NewPublisherWithConnection(cfg, logger, conn)
	}
	AmqpSubscriberFactory = func(cfg amqp.Config, logger watermill.LoggerAdapter, conn *amqp.ConnectionWrapper) (message.Subscriber, error) {
		return amqp.NewSubscriberWithConnection(cfg, logger, conn)
	}
)

// rabbitTransport declares a durable fanout exchange per topic and one queue
// per subscription, named "<topic>_<subscription>".
func rabbitTransport(cfg config.BrokerConfig, logger watermill.LoggerAdapter) (Transport, error) {
	conn, err := AmqpConnectionFactory(amqp.ConnectionConfig{
		AmqpURI:   cfg.RabbitMQURL,
		Reconnect: amqp.DefaultReconnectConfig(),
	}, logger)
	if err != nil {
		return Transport{}, err
	}

	publisher, err := AmqpPublisherFactory(amqpConfig(cfg.RabbitMQURL, cfg.Subscription), logger, conn)
	if err != nil {
		return Transport{}, err
	}

	return Transport{
		Publisher: publisher,
		NewSubscriber: func(subscription string) (message.Subscriber, error) {
			return AmqpSubscriberFactory(amqpConfig(cfg.RabbitMQURL, subscription), logger, conn)
		},
	}, nil
}

func amqpConfig(url, subscription string) amqp.Config {
	return amqp.NewDurablePubSubConfig(url, amqp.GenerateQueueNameTopicNameWithSuffix(subscription))
}
