package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"rating-engine/internal/infra"
)

var rateCmd = &cobra.Command{
	Use:   "rate [file|-]",
	Short: "Rate one payload and print the publish calls it produces",
	Long: `rate runs a single payload through the rating pipeline without a broker.

Each publish or broadcast call is printed as one JSON line. A dropped payload
prints a single line naming the reason.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := loadSettings()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		payload, err := readPayload(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		bus := infra.NewBus()
		out := json.NewEncoder(cmd.OutOrStdout())
		var writeErr error
		write := func(line callLine) {
			if err := out.Encode(line); err != nil && writeErr == nil {
				writeErr = err
			}
		}

		bus.Subscribe(infra.ChargeRecordsPublished, func(e infra.Event) {
			published := e.(infra.ChargeRecordsPublishedEvent)
			write(callLine{Call: "publish", RoutingKey: published.RoutingKey, Records: published.Records})
		})
		bus.Subscribe(infra.ChargeRecordsBroadcast, func(e infra.Event) {
			write(callLine{Call: "broadcast", Records: e.(infra.ChargeRecordsBroadcastEvent).Records})
		})
		bus.Subscribe(infra.PayloadDropped, func(e infra.Event) {
			write(callLine{Call: "drop", Reason: e.(infra.PayloadDroppedEvent).Reason.String()})
		})

		infra.NewRatingHandler(bus, newRater(settings, infra.NewBusMessenger(bus), logger))
		bus.Publish(infra.PayloadReceivedEvent{Payload: payload})

		return writeErr
	},
}

type callLine struct {
	Call       string            `json:"call"`
	RoutingKey string            `json:"routingKey,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Records    []json.RawMessage `json:"records,omitempty"`
}

func readPayload(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}
