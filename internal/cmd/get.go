package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
)

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get STREAM",
		Short: "Print one batch of events of a stream",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			session, err := a.session()
			if err != nil {
				return err
			}

			events, err := eventsource.GetBatch(ctx, session, args[0], a.cfg.StartingPosition, a.options()...)
			if err != nil {
				return err
			}

			p, err := newPrinter(cmd.OutOrStdout(), a.output)
			if err != nil {
				return err
			}
			for _, event := range events {
				if err := p.Print(event); err != nil {
					return err
				}
			}

			a.logger.Info("got batch",
				zap.String("stream_name", args[0]),
				zap.Int64("position", a.cfg.StartingPosition),
				zap.Int("count", len(events)))

			return p.Close()
		}),
	}
}
