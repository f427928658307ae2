package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/maintenance-management/internal/core/events"
	"github.com/frahmantamala/maintenance-management/internal/notifier"
	"github.com/frahmantamala/maintenance-management/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish sample domain events through the event bus and the configured webhook`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a sample event",
	Long: `Publish a sample event to the event bus for testing and debugging.
When notifier.webhook_url is configured the event is also posted to the webhook.

Event types: ` + strings.Join(events.AllTypes, ", "),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(cmd.Context(), args[0])
	},
}

var eventWorkOrderID int64

func sampleEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeWorkOrderCreated:
		return events.NewWorkOrderCreatedEvent(eventWorkOrderID, fmt.Sprintf("OT-%d", eventWorkOrderID), 1, "Medium", nil), nil
	case events.EventTypeWorkOrderValidated:
		return events.NewWorkOrderValidatedEvent(eventWorkOrderID, fmt.Sprintf("OT-%d", eventWorkOrderID), 1), nil
	case events.EventTypeStepRecorded:
		return events.NewStepRecordedEvent(eventWorkOrderID, 1, 1, "InProgress"), nil
	case events.EventTypeInterventionCreated:
		return events.NewInterventionCreatedEvent(1, 1, 1, "High"), nil
	default:
		return nil, fmt.Errorf("unknown event type %q, expected one of: %s", eventType, strings.Join(events.AllTypes, ", "))
	}
}

func publishSampleEvent(ctx context.Context, eventType string) error {
	event, err := sampleEvent(eventType)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.Init(cfg.Environment, cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		lg.Info("event received",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	if cfg.Notifier.WebhookURL != "" {
		n := notifier.New(notifier.Config{
			WebhookURL: cfg.Notifier.WebhookURL,
			Timeout:    cfg.Notifier.Timeout,
			MaxWorkers: 1,
		}, lg)
		defer n.Shutdown()
		eventBus.Subscribe(eventType, n.Send)
	}

	lg.Info("publishing sample event", "event_type", eventType, "event_id", event.EventID())
	if err := eventBus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	lg.Info("sample event published")
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventWorkOrderID, "work-order-id", 1, "work order id carried by work order events")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
