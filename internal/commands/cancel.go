package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/Behyna/sms-scheduler/internal/printers"
	"github.com/Behyna/sms-scheduler/internal/service"
	"github.com/spf13/cobra"
)

var ErrNotCancelable = errors.New("NOT_CANCELABLE")

func addCancel(topLevel *cobra.Command, opts *rootOptions) {
	force := false

	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a QUEUED or ACCEPTED message.",
		Example: `
scheduler cancel 3f0c2b6e-6a0e-4c43-9d0a-1f1b7c1a9e55
scheduler cancel 3f0c2b6e-6a0e-4c43-9d0a-1f1b7c1a9e55 --force
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			return opts.run(cmd, func(ctx context.Context, rt *Runtime, pp *printers.PrettyPrint) error {
				current, err := rt.Controller.Select(ctx, id)
				if err != nil {
					return err
				}
				if !force && !model.IsCancelable(current.Status) {
					return fmt.Errorf("%w: message is %s, use --force to ask the backend anyway",
						ErrNotCancelable, current.Status)
				}

				msg, err := rt.Controller.Cancel(ctx, id)
				switch {
				case err == nil:
					pp.Message(msg)
					return nil
				case errors.Is(err, service.ErrSnapshotStale):
					pp.Message(msg)
					pp.Notice("canceled, but the list could not be refreshed: %v", err)
					return nil
				case errors.Is(err, service.ErrCancelNotApplied):
					pp.Message(msg)
					return err
				default:
					return err
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Send the cancel even if the message looks past cancelable.")

	topLevel.AddCommand(cmd)
}
