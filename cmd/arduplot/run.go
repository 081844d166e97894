package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"arduplot/config"
	"arduplot/drivers"
	"arduplot/events"
	"arduplot/logging"
	"arduplot/plotter"
	"arduplot/sources"
	"arduplot/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newRunCmd() *cobra.Command {
	var flags *config.RunFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Emit frames on a fixed interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.Validate(); err != nil {
				return err
			}
			if err := logging.Initialize(flags.LogLevel); err != nil {
				return err
			}
			defer logging.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, flags)
		},
	}
	flags = config.BindFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, flags *config.RunFlags) error {
	layout := config.DefaultLayout()
	if flags.LayoutPath != "" {
		var err error
		layout, err = config.LoadLayout(flags.LayoutPath)
		if err != nil {
			return err
		}
	}
	return plot(ctx, flags, layout)
}

// plot builds layout and emits frames for it until ctx is done.
func plot(ctx context.Context, flags *config.RunFlags, layout *config.Layout) error {
	out, err := openOutput(flags)
	if err != nil {
		return err
	}
	defer out.close()

	// Nothing runs in the background until the layout has been built.
	p := plotter.New(out.sink)
	bank, err := sources.Build(layout, p)
	if err != nil {
		return err
	}
	logging.Info("plotting",
		zap.String("driver", string(flags.Driver)),
		zap.Int("graphs", p.GraphCount()),
		zap.Int("variables", p.TotalVariables()),
		zap.Duration("interval", flags.Interval),
	)

	group, ctx := errgroup.WithContext(ctx)
	out.serve(ctx, group, flags.Addr)
	group.Go(func() error {
		emitLoop(ctx, p, bank, flags.Interval)
		return nil
	})

	return group.Wait()
}

// output is the initialised sink frames are written to, wrapped in a Mirror when --mirror is set.
type output struct {
	sink   drivers.Sink
	server *web.Server
}

func openOutput(flags *config.RunFlags) (*output, error) {
	sink, err := drivers.New(flags)
	if err != nil {
		return nil, err
	}
	if err := sink.Init(); err != nil {
		return nil, fmt.Errorf("couldn't init driver: %w", err)
	}

	out := &output{sink: sink}
	if flags.Mirror {
		eventHub := events.NewHub()
		out.sink = drivers.NewMirror(sink, eventHub)
		out.server = web.NewServer(eventHub)
	}
	return out, nil
}

// serve starts the mirror server on group, if there is one.
func (o *output) serve(ctx context.Context, group *errgroup.Group, addr string) {
	if o.server == nil {
		return
	}
	group.Go(func() error {
		return o.server.Run(ctx, addr)
	})
}

func (o *output) close() {
	if err := o.sink.Close(); err != nil {
		logging.Warn("close driver", zap.Error(err))
	}
}

// emitLoop advances the sources and writes one frame per tick. Sources and plotter are only touched here.
func emitLoop(ctx context.Context, p *plotter.Plotter, bank *sources.Bank, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	frames := 0
	for {
		select {
		case <-ctx.Done():
			logging.Info("stopped", zap.Int("frames", frames))
			return
		case tick := <-ticker.C:
			bank.Update(tick.Sub(start))
			p.Plot()
			if err := p.Err(); err != nil {
				logging.Debug("frame dropped", zap.Error(err))
				continue
			}
			frames++
		}
	}
}
