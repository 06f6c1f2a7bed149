package commands

import (
	"context"

	"github.com/Behyna/sms-scheduler/internal/printers"
	"github.com/spf13/cobra"
)

func addGet(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a message with its event history.",
		Example: `
scheduler get 3f0c2b6e-6a0e-4c43-9d0a-1f1b7c1a9e55
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, rt *Runtime, pp *printers.PrettyPrint) error {
				msg, err := rt.Controller.Select(ctx, args[0])
				if err != nil {
					return err
				}

				pp.Message(msg)
				return nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}
