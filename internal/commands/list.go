package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/Behyna/sms-scheduler/internal/printers"
	"github.com/Behyna/sms-scheduler/internal/query"
	"github.com/spf13/cobra"
)

type filterOptions struct {
	status   string
	toHandle string
	from     string
	to       string
}

func (o *filterOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.status, "status", "", "Only messages in this status.")
	cmd.Flags().StringVar(&o.toHandle, "to", "", "Only recipients containing this fragment.")
	cmd.Flags().StringVar(&o.from, "from", "", "Only messages scheduled at or after this time.")
	cmd.Flags().StringVar(&o.to, "to-time", "", "Only messages scheduled at or before this time.")
}

// Filter reads wall-clock bounds in the local zone.
func (o *filterOptions) Filter() (query.Filter, error) {
	filter := query.Filter{ToHandleContains: o.toHandle}

	if o.status != "" {
		status, err := model.ParseStatus(o.status)
		if err != nil {
			return query.Filter{}, fmt.Errorf("--status %q: %w", o.status, err)
		}
		filter.Status = status
	}

	var err error
	if filter.ScheduledFrom, err = parseBound("--from", o.from); err != nil {
		return query.Filter{}, err
	}
	if filter.ScheduledTo, err = parseBound("--to-time", o.to); err != nil {
		return query.Filter{}, err
	}

	return filter, nil
}

func parseBound(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := model.ParseInstant(value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", flag, value, err)
	}
	return &t, nil
}

func addList(topLevel *cobra.Command, opts *rootOptions) {
	fo := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled messages, newest first.",
		Example: `
scheduler list
scheduler list --status FAILED
scheduler list --to +1555 --from 2030-01-01T00:00 --to-time 2030-01-31T23:59
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

				msgs, err := rt.Controller.Refresh(ctx)
				if err != nil {
					return err
				}

				pp.Messages(msgs, "")
				return nil
			})
		},
	}

	fo.addFlags(cmd)
	topLevel.AddCommand(cmd)
}
