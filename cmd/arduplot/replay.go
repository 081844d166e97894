package main

import (
	"context"
	"os/signal"
	"syscall"

	"arduplot/config"
	"arduplot/drivers"
	"arduplot/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newReplayCmd() *cobra.Command {
	var (
		flags       *config.RunFlags
		replayFlags *config.ReplayFlags
	)

	cmd := &cobra.Command{
		Use:   "replay --file logs/PLOTLOG.txt",
		Short: "Send the frames of a recording made with --driver file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.Validate(); err != nil {
				return err
			}
			if err := replayFlags.Validate(); err != nil {
				return err
			}
			if err := logging.Initialize(flags.LogLevel); err != nil {
				return err
			}
			defer logging.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return replay(ctx, flags, replayFlags)
		},
	}
	flags = config.BindSinkFlags(cmd.Flags())
	replayFlags = config.BindReplayFlags(cmd.Flags())
	return cmd
}

func replay(ctx context.Context, flags *config.RunFlags, replayFlags *config.ReplayFlags) error {
	out, err := openOutput(flags)
	if err != nil {
		return err
	}
	defer out.close()

	replayer := drivers.NewReplayer(replayFlags, out.sink, flags.Interval)
	logging.Info("replaying",
		zap.String("driver", string(flags.Driver)),
		zap.String("file", replayFlags.Path),
		zap.Float64("speed", replayFlags.Speed),
		zap.Bool("loop", replayFlags.Loop),
	)

	group, ctx := errgroup.WithContext(ctx)
	// A finished replay stops the mirror server too.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	out.serve(ctx, group, flags.Addr)
	group.Go(func() error {
		defer cancel()
		return replayer.Run(ctx)
	})

	if err := group.Wait(); err != nil {
		return err
	}
	logging.Info("replayed", zap.Int("frames", replayer.Sent()))
	return nil
}
