package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rating-engine/internal"
	"rating-engine/internal/config"
	"rating-engine/internal/infra/kafka"
	"rating-engine/internal/infra/rabbitmq"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Consume usage records from the broker and publish charge records",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := loadSettings()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		switch settings.Config.Transport {
		case config.TransportAMQP:
			return serveAMQP(ctx, settings, logger)
		case config.TransportKafka:
			return serveKafka(ctx, settings, logger)
		default:
			return fmt.Errorf("unknown transport %q", settings.Config.Transport)
		}
	},
}

func newRater(settings config.Settings, messenger internal.Messenger, logger *zap.Logger) *internal.Rater {
	return internal.NewRater(
		settings.Preferences,
		settings.Rates,
		settings.Credentials,
		messenger,
		internal.WithLogger(logger),
	)
}

func serveAMQP(ctx context.Context, settings config.Settings, logger *zap.Logger) error {
	cfg := settings.Config.AMQP
	topology := rabbitmq.Topology{
		Queue:             cfg.Queue,
		DispatchExchange:  cfg.DispatchExchange,
		BroadcastExchange: cfg.BroadcastExchange,
	}

	client, err := rabbitmq.NewClient(cfg.URL)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Declare(topology); err != nil {
		return err
	}

	deliveries, err := client.Deliveries(cfg.Queue, cfg.Prefetch)
	if err != nil {
		return err
	}

	rater := newRater(settings, rabbitmq.NewMessenger(client.PublishChannel(), topology), logger)
	consumer := rabbitmq.NewConsumer(deliveries, settings.Config.Workers, logger)

	logger.Info("serving", zap.String("transport", "amqp"), zap.String("queue", cfg.Queue))
	return consumer.Run(ctx, func(ctx context.Context, payload []byte) {
		rater.Consume(ctx, payload)
	})
}

func serveKafka(ctx context.Context, settings config.Settings, logger *zap.Logger) error {
	cfg := settings.Config.Kafka

	reader := kafka.NewReader(cfg.Brokers, cfg.Topic, cfg.GroupID)
	defer reader.Close()

	messenger := kafka.NewMessenger(kafka.NewWriter(cfg.Brokers), cfg.DispatchTopic, cfg.BroadcastTopic)
	defer messenger.Close()

	rater := newRater(settings, messenger, logger)
	consumer := kafka.NewConsumer(reader, settings.Config.Workers, logger)

	logger.Info("serving", zap.String("transport", "kafka"), zap.String("topic", cfg.Topic))
	return consumer.Run(ctx, func(ctx context.Context, payload []byte) {
		rater.Consume(ctx, payload)
	})
}
