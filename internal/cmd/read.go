package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
)

func newReadCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "read STREAM",
		Short: "Print every event of a stream from the starting position",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			session, err := a.session()
			if err != nil {
				return err
			}

			p, err := newPrinter(cmd.OutOrStdout(), a.output)
			if err != nil {
				return err
			}

			var printErr error
			printed := 0
			delivered, err := eventsource.Read(ctx, session, args[0], a.cfg.StartingPosition, func(event eventsource.Event) bool {
				if printErr = p.Print(event); printErr != nil {
					return false
				}
				printed++
				return limit <= 0 || printed < limit
			}, a.options()...)

			a.logger.Info("read stream",
				zap.String("stream_name", args[0]),
				zap.Int64("position", a.cfg.StartingPosition),
				zap.Int("delivered", delivered))

			if err != nil {
				return err
			}
			if printErr != nil {
				return printErr
			}
			return p.Close()
		}),
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many events (0 reads to the end)")

	return cmd
}
