package commands

import (
	"context"

	"github.com/Behyna/sms-scheduler/internal/config"
	"github.com/Behyna/sms-scheduler/internal/printers"
	"github.com/Behyna/sms-scheduler/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Runtime is what a command needs once the dependency graph is built. Stop
// disposes the controller and flushes the logger.
type Runtime struct {
	Controller service.Controller
	Config     *config.Config
	Logger     *zap.Logger
	Stop       func(ctx context.Context) error
}

// Boot builds a Runtime from the config file at path, or from the default
// search locations when path is empty.
type Boot func(ctx context.Context, path string) (*Runtime, error)

type rootOptions struct {
	configPath string
	boot       Boot
}

func New(boot Boot) *cobra.Command {
	opts := &rootOptions{boot: boot}

	cmd := &cobra.Command{
		Use:           "scheduler",
		Short:         "Inspect and manage scheduled outbound messages.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a config file.")

	addCommands(cmd, opts)
	return cmd
}

func addCommands(topLevel *cobra.Command, opts *rootOptions) {
	addList(topLevel, opts)
	addGet(topLevel, opts)
	addCreate(topLevel, opts)
	addCancel(topLevel, opts)
	addStats(topLevel, opts)
	addWatch(topLevel, opts)
	addVersion(topLevel)
}

// run boots a Runtime for the duration of fn.
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, rt *Runtime, pp *printers.PrettyPrint) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := o.boot(ctx, o.configPath)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := rt.Stop(context.Background()); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	return fn(ctx, rt, printers.New(cmd.OutOrStdout()))
}
