package commands

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/sms-scheduler/internal/printers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type watchOptions struct {
	interval time.Duration
	selectID string
	count    int
}

func addWatch(topLevel *cobra.Command, opts *rootOptions) {
	fo := &filterOptions{}
	wo := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh the list periodically.",
		Long: `Refresh the list periodically.

With --select the message is tracked across refreshes; the selection is
dropped once the message leaves the filtered list.`,
		Example: `
scheduler watch --status QUEUED
scheduler watch --interval 2s --select 3f0c2b6e-6a0e-4c43-9d0a-1f1b7c1a9e55
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := fo.Filter()
			if err != nil {
				return err
			}

			return opts.run(cmd, func(ctx context.Context, rt *Runtime, pp *printers.PrettyPrint) error {
				if err := rt.Controller.SetFilter(filter); err != nil {
					return err
				}

				interval := wo.interval
				if interval <= 0 {
					interval = rt.Config.Watch.Interval
				}

				if wo.selectID != "" {
					if _, err := rt.Controller.Select(ctx, wo.selectID); err != nil {
						return err
					}
				}

				return watch(ctx, rt, pp, interval, wo.count)
			})
		},
	}

	fo.addFlags(cmd)
	cmd.Flags().DurationVar(&wo.interval, "interval", 0, "Time between refreshes. Defaults to watch.interval from config.")
	cmd.Flags().StringVar(&wo.selectID, "select", "", "Track this message across refreshes.")
	cmd.Flags().IntVar(&wo.count, "count", 0, "Stop after this many refreshes. 0 runs until interrupted.")

	topLevel.AddCommand(cmd)
}

func watch(ctx context.Context, rt *Runtime, pp *printers.PrettyPrint, interval time.Duration, count int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; count <= 0 || i < count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

		before, hadSelection := rt.Controller.Selected()

		msgs, err := rt.Controller.Refresh(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			rt.Logger.Warn("Refresh failed", zap.Error(err))
			pp.Notice("refresh failed: %v", err)
			continue
		}

		selectedID := ""
		if selected, ok := rt.Controller.Selected(); ok {
			selectedID = selected.ID
		} else if hadSelection {
			pp.Notice("%s left the list, selection cleared", before.ID)
		}

		pp.Notice("%s", time.Now().Format(time.TimeOnly))
		pp.Messages(msgs, selectedID)
	}

	return nil
}
