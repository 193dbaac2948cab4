package broker

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-aws/sns"
	"github.com/ThreeDotsLabs/watermill-aws/sqs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	amazonsns "github.com/aws/aws-sdk-go-v2/service/sns"
	amazonsqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	smithyendpoints "github.com/aws/smithy-go/endpoints"

	"plataforma/pkg/config"
)

var (
	AWSDefaultConfigLoader  = awsconfig.LoadDefaultConfig
	SNSTopicResolverFactory = sns.NewGenerateArnTopicResolver
	SNSPublisherFactory     = func(cfg sns.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
		return sns.NewPublisher(cfg, logger)
	}
	SNSSubscriberFactory = func(cfg sns.SubscriberConfig, sqsCfg sqs.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
		return sns.NewSubscriber(cfg, sqsCfg, logger)
	}
)

// LocalStack accepts any credentials and uses this account id.
const localstackAccountID = "000000000000"

// awsTransport publishes to an SNS topic; each subscription is an SQS queue
// named "<topic>-<subscription>" subscribed to it.
func awsTransport(ctx context.Context, cfg config.BrokerConfig, logger watermill.LoggerAdapter) (Transport, error) {
	endpoint, err := awsEndpoint(cfg.AWSEndpoint)
	if err != nil {
		return Transport{}, err
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("falha ao carregar configuração AWS", err, watermill.LogFields{"region": cfg.AWSRegion})
		return Transport{}, err
	}

	accountID := strings.Trim(cfg.AWSAccountID, "\"' ")
	if accountID == "" && endpoint != nil {
		accountID = localstackAccountID
	}

	resolver, err := SNSTopicResolverFactory(accountID, awsCfg.Region)
	if err != nil {
		return Transport{}, err
	}

	var (
		snsOpts []func(*amazonsns.Options)
		sqsOpts []func(*amazonsqs.Options)
	)
	if endpoint != nil {
		snsOpts = append(snsOpts, amazonsns.WithEndpointResolverV2(sns.OverrideEndpointResolver{
			Endpoint: smithyendpoints.Endpoint{URI: *endpoint},
		}))
		sqsOpts = append(sqsOpts, amazonsqs.WithEndpointResolverV2(sqs.OverrideEndpointResolver{
			Endpoint: smithyendpoints.Endpoint{URI: *endpoint},
		}))
	}

	publisher, err := SNSPublisherFactory(sns.PublisherConfig{
		TopicResolver: resolver,
		AWSConfig:     awsCfg,
		OptFns:        snsOpts,
		Marshaler:     sns.DefaultMarshalerUnmarshaler{},
	}, logger)
	if err != nil {
		return Transport{}, err
	}

	return Transport{
		Publisher: publisher,
		NewSubscriber: func(subscription string) (message.Subscriber, error) {
			return SNSSubscriberFactory(
				sns.SubscriberConfig{
					AWSConfig:            awsCfg,
					OptFns:               snsOpts,
					TopicResolver:        resolver,
					GenerateSqsQueueName: sqsQueueName(subscription),
				},
				sqs.SubscriberConfig{
					AWSConfig: awsCfg,
					OptFns:    sqsOpts,
				},
				logger,
			)
		},
	}, nil
}

func loadAWSConfig(ctx context.Context, cfg config.BrokerConfig) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(staticCredentials(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)))
	}

	awsCfg, err := AWSDefaultConfigLoader(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}
	if cfg.AWSRegion != "" {
		awsCfg.Region = cfg.AWSRegion
	}
	return awsCfg, nil
}

func sqsQueueName(subscription string) func(context.Context, sns.TopicArn) (string, error) {
	return func(_ context.Context, arn sns.TopicArn) (string, error) {
		topic, err := sns.ExtractTopicNameFromTopicArn(arn)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s-%s", topic, subscription), nil
	}
}

func awsEndpoint(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("broker: endpoint AWS inválido: %w", err)
	}
	return u, nil
}

func staticCredentials(accessKeyID, secretAccessKey string) aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
		}, nil
	})
}
