package commands

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/sms-scheduler/internal/printers"
	"github.com/Behyna/sms-scheduler/internal/service"
	"github.com/spf13/cobra"
)

const defaultDelay = time.Minute

func addCreate(topLevel *cobra.Command, opts *rootOptions) {
	var toHandle, body, at string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a new message.",
		Long: `Schedule a new message.

--at accepts RFC 3339 with an offset, or a wall-clock time such as
"2030-01-01 09:30" read in the local zone. It defaults to one minute from now.`,
		Example: `
scheduler create --to +15551234567 --body "Your table is ready"
scheduler create --to alice --body hi --at 2030-01-01T09:30
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := service.NewCreateMessageCommand(toHandle, body, time.Now().Add(defaultDelay))
			if at != "" {
				command.ScheduledFor = at
				command.Location = time.Local
			}

			return opts.run(cmd, func(ctx context.Context, rt *Runtime, pp *printers.PrettyPrint) error {
				created, err := rt.Controller.Create(ctx, command)
				if created != nil {
					pp.Message(*created)
				}
				if errors.Is(err, service.ErrSnapshotStale) {
					pp.Notice("created, but the list could not be refreshed: %v", err)
					return nil
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&toHandle, "to", "", "Recipient handle.")
	cmd.Flags().StringVar(&body, "body", "", "Message text.")
	cmd.Flags().StringVar(&at, "at", "", "When to send.")

	topLevel.AddCommand(cmd)
}
