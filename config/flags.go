package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

type DriverType string

const (
	Serial DriverType = "serial"
	CAN    DriverType = "can"
	File   DriverType = "file"
	Stdout DriverType = "stdout"
)

var DriverTypes = []DriverType{Serial, CAN, File, Stdout}

type Flags struct {
	Driver     DriverType
	LayoutPath string
	Interval   time.Duration
	LogLevel   string
	// Mirror republishes every frame to the http server at Addr.
	Mirror bool
	Addr   string
}

type SerialFlags struct {
	Port     string
	BaudRate int
}

type CANFlags struct {
	Interface string
	FrameID   uint32
}

type FileFlags struct {
	Dir string
}

// ReplayFlags configure sending a recorded PLOTLOG file instead of live frames.
type ReplayFlags struct {
	Path string
	// Speed divides the frame interval, 0 sends frames as fast as the sink takes them.
	Speed      float64
	Loop       bool
	SkipFrames int
}

const (
	DEFAULT_BAUD_RATE = 115200
	DEFAULT_INTERVAL  = 100 * time.Millisecond
	DEFAULT_CAN_ID    = 0x700
)

// RunFlags holds everything the run command is configured with.
type RunFlags struct {
	*Flags
	Serial *SerialFlags
	CAN    *CANFlags
	File   *FileFlags

	driver string
}

// BindFlags registers the run flags on fs. Call Validate once fs has been parsed.
func BindFlags(fs *pflag.FlagSet) *RunFlags {
	f := BindSinkFlags(fs)
	fs.StringVar(&f.LayoutPath, "layout", "", "yaml graph layout, the built-in demo layout is used when empty")
	return f
}

// BindSinkFlags registers the flags choosing where frames go and how often, without the layout.
func BindSinkFlags(fs *pflag.FlagSet) *RunFlags {
	f := &RunFlags{
		Flags:  &Flags{},
		Serial: &SerialFlags{},
		CAN:    &CANFlags{},
		File:   &FileFlags{},
	}

	fs.StringVar(&f.driver, "driver", string(Serial), "transport to send frames over (serial, can, file, stdout)")
	fs.DurationVar(&f.Interval, "interval", DEFAULT_INTERVAL, "time between frames")
	fs.StringVar(&f.LogLevel, "log-level", "", "debug, info, warn or error (defaults to $ARDUPLOT_LOG_LEVEL, silent when unset)")
	fs.BoolVar(&f.Mirror, "mirror", false, "mirror frames to an http page")
	fs.StringVar(&f.Addr, "addr", ":8080", "http listen address for --mirror")

	fs.StringVar(&f.Serial.Port, "serial-port", "auto", "serial device path or 'auto'")
	fs.IntVar(&f.Serial.BaudRate, "baud", DEFAULT_BAUD_RATE, "baud rate")

	fs.StringVar(&f.CAN.Interface, "can-interface", "can0", "SocketCAN interface")
	fs.Uint32Var(&f.CAN.FrameID, "can-id", DEFAULT_CAN_ID, "CAN id frames are sent with")

	fs.StringVar(&f.File.Dir, "log-dir", "logs", "directory frame recordings are written to")

	return f
}

// Validate checks the parsed flag values.
func (f *RunFlags) Validate() error {
	f.Driver = DriverType(f.driver)
	if !f.Driver.Valid() {
		return fmt.Errorf("driver %q: %w", f.driver, ErrUnknownDriver)
	}
	if f.Interval <= 0 {
		return fmt.Errorf("interval %s: %w", f.Interval, ErrBadInterval)
	}
	if f.Serial.BaudRate <= 0 {
		return fmt.Errorf("baud %d: %w", f.Serial.BaudRate, ErrBadBaudRate)
	}
	if f.CAN.FrameID > 0x7FF {
		return fmt.Errorf("can id 0x%X: %w", f.CAN.FrameID, ErrBadCANID)
	}
	return nil
}

func BindReplayFlags(fs *pflag.FlagSet) *ReplayFlags {
	r := &ReplayFlags{}
	fs.StringVar(&r.Path, "file", "", "recorded PLOTLOG file to replay")
	fs.Float64Var(&r.Speed, "speed", 1.0, "replay speed multiplier (0 = as fast as possible)")
	fs.BoolVar(&r.Loop, "loop", false, "start again from the first frame when the recording ends")
	fs.IntVar(&r.SkipFrames, "skip-frames", 0, "frames to skip at the start of the recording")
	return r
}

func (r *ReplayFlags) Validate() error {
	if r.Path == "" {
		return ErrNoReplayFile
	}
	if r.Speed < 0 {
		return fmt.Errorf("speed %g: %w", r.Speed, ErrBadSpeed)
	}
	if r.SkipFrames < 0 {
		return fmt.Errorf("skip-frames %d: %w", r.SkipFrames, ErrBadSkipFrames)
	}
	return nil
}

func (d DriverType) Valid() bool {
	for _, t := range DriverTypes {
		if d == t {
			return true
		}
	}
	return false
}
