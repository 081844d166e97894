package drivers

import (
	"errors"
	"fmt"
	"io"
	"os"

	"arduplot/config"
)

// Sink is a transport frames are written to. Init must succeed before the first Write.
type Sink interface {
	io.Writer
	Init() error
	Close() error
}

var ErrNotInitialised = errors.New("driver not initialised")

// New creates the sink selected by the run flags. It isn't initialised yet.
func New(flags *config.RunFlags) (Sink, error) {
	switch flags.Driver {
	case config.Serial:
		return NewSerial(flags.Serial), nil
	case config.CAN:
		return NewCAN(flags.CAN), nil
	case config.File:
		return NewFile(flags.File), nil
	case config.Stdout:
		return NewStdout(os.Stdout), nil
	default:
		return nil, fmt.Errorf("driver %q: %w", flags.Driver, config.ErrUnknownDriver)
	}
}

// Stdout writes frames to a terminal or pipe.
type Stdout struct {
	w io.Writer
}

func NewStdout(w io.Writer) *Stdout {
	return &Stdout{w}
}

func (s *Stdout) Init() error {
	return nil
}

func (s *Stdout) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *Stdout) Close() error {
	return nil
}
