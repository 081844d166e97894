package drivers

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"arduplot/config"
	"arduplot/logging"

	"go.uber.org/zap"
)

const MAX_REPLAY_FRAME = 1 << 20

var ErrNothingToReplay = errors.New("recording has no frames to replay")

// Replayer sends the frames of a recorded PLOTLOG file to a sink, one per interval. Frames are copied as they are,
// a recording carries no per-frame times so Speed scales the interval.
type Replayer struct {
	*config.ReplayFlags
	sink     Sink
	interval time.Duration
	played   int
	sent     int
	log      *zap.Logger
}

func NewReplayer(replayFlags *config.ReplayFlags, sink Sink, interval time.Duration) *Replayer {
	return &Replayer{
		ReplayFlags: replayFlags,
		sink:        sink,
		interval:    interval,
		log:         logging.Named("replay"),
	}
}

// Run plays the recording, over and over when Loop is set, until it ends or ctx is done.
func (r *Replayer) Run(ctx context.Context) error {
	for {
		played, err := r.playOnce(ctx)
		if err != nil {
			return err
		}
		if ctx.Err() != nil || !r.Loop {
			return nil
		}
		if played == 0 {
			return fmt.Errorf("%s: %w", r.Path, ErrNothingToReplay)
		}
	}
}

// Sent is how many frames have gone to the sink without a write error.
func (r *Replayer) Sent() int {
	return r.sent
}

func (r *Replayer) playOnce(ctx context.Context) (int, error) {
	file, err := os.Open(r.Path)
	if err != nil {
		return 0, fmt.Errorf("open recording: %w", err)
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			r.log.Warn("couldn't close recording", zap.Error(err))
		}
	}(file)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), MAX_REPLAY_FRAME)
	scanner.Split(splitFrames)

	delay := r.delay()
	frameIndex, played := 0, 0
	for scanner.Scan() {
		if frameIndex < r.SkipFrames {
			frameIndex++
			continue
		}
		frameIndex++

		if r.played > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return played, nil
			case <-time.After(delay):
			}
		} else if ctx.Err() != nil {
			return played, nil
		}

		played++
		r.played++
		if _, err := r.sink.Write(scanner.Bytes()); err != nil {
			r.log.Debug("frame dropped", zap.Error(err))
			continue
		}
		r.sent++
	}
	if err := scanner.Err(); err != nil {
		return played, fmt.Errorf("read recording: %w", err)
	}
	r.log.Info("end of replay", zap.Int("frames", played))
	return played, nil
}

func (r *Replayer) delay() time.Duration {
	if r.Speed <= 0 {
		return 0
	}
	return time.Duration(float64(r.interval) / r.Speed)
}

// splitFrames is a bufio.SplitFunc yielding whole frames, closing marker included. A cut-off frame at the end of
// a recording is dropped.
func splitFrames(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.Index(data, frameEnd); i >= 0 {
		end := i + len(frameEnd)
		return end, data[:end], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), nil, nil
	}
	return 0, nil, nil
}
