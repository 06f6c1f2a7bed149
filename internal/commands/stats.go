package commands

import (
	"context"

	"github.com/Behyna/sms-scheduler/internal/printers"
	"github.com/Behyna/sms-scheduler/internal/stats"
	"github.com/spf13/cobra"
)

func addStats(topLevel *cobra.Command, opts *rootOptions) {
	fo := &filterOptions{}
	local := false

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count messages by status.",
		Long: `Count messages by status.

The backend summary covers every message. Any filter flag implies --local,
which counts the filtered list instead.`,
		Example: `
scheduler stats
scheduler stats --local --to +1555
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := fo.Filter()
			if err != nil {
				return err
			}

			useList := local || !filter.IsZero()

			return opts.run(cmd, func(ctx context.Context, rt *Runtime, pp *printers.PrettyPrint) error {
				var counts stats.Counts
				if useList {
					if err := rt.Controller.SetFilter(filter); err != nil {
						return err
					}
					if _, err := rt.Controller.Refresh(ctx); err != nil {
						return err
					}
					counts = rt.Controller.SnapshotStats()
				} else {
					counts, err = rt.Controller.Stats(ctx)
					if err != nil {
						return err
					}
				}

				pp.Stats(counts)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Count the filtered list instead of asking the backend.")
	fo.addFlags(cmd)

	topLevel.AddCommand(cmd)
}
