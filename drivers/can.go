package drivers

import (
	"context"
	"fmt"
	"io"
	"time"

	"arduplot/config"
	"arduplot/logging"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
	"go.uber.org/zap"
)

const (
	CAN_PAYLOAD_SIZE = 8
	DIAL_TIMEOUT     = 2 * time.Second
	SEND_TIMEOUT     = 50 * time.Millisecond
)

type frameTransmitter interface {
	TransmitFrame(ctx context.Context, frame can.Frame) error
}

// CAN sends frames as a run of classic CAN data frames on one id, 8 bytes at a time. The last CAN frame of a write
// may be shorter. The listener rebuilds the text by concatenating payloads in arrival order.
type CAN struct {
	*config.CANFlags
	conn io.Closer
	tx   frameTransmitter
	log  *zap.Logger
}

func NewCAN(canFlags *config.CANFlags) *CAN {
	return &CAN{
		canFlags,
		nil,
		nil,
		logging.Named("can"),
	}
}

func (c *CAN) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), DIAL_TIMEOUT)
	defer cancel()

	conn, err := socketcan.DialContext(ctx, "can", c.Interface)
	if err != nil {
		return fmt.Errorf("socketCAN open %s: %w", c.Interface, err)
	}
	c.conn = conn
	c.tx = socketcan.NewTransmitter(conn)
	c.log.Info("connected", zap.String("interface", c.Interface), zap.Uint32("id", c.FrameID))
	return nil
}

func (c *CAN) Write(p []byte) (int, error) {
	if c.tx == nil {
		return 0, ErrNotInitialised
	}

	written := 0
	for _, frame := range chunkFrames(c.FrameID, p) {
		ctx, cancel := context.WithTimeout(context.Background(), SEND_TIMEOUT)
		err := c.tx.TransmitFrame(ctx, frame)
		cancel()
		if err != nil {
			return written, fmt.Errorf("transmit can frame: %w", err)
		}
		written += int(frame.Length)
	}
	return written, nil
}

func (c *CAN) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn, c.tx = nil, nil
	if err != nil {
		return fmt.Errorf("close can: %w", err)
	}
	return nil
}

// chunkFrames splits p into CAN data frames of at most CAN_PAYLOAD_SIZE bytes.
func chunkFrames(id uint32, p []byte) []can.Frame {
	frames := make([]can.Frame, 0, (len(p)+CAN_PAYLOAD_SIZE-1)/CAN_PAYLOAD_SIZE)
	for len(p) > 0 {
		n := min(len(p), CAN_PAYLOAD_SIZE)
		frame := can.Frame{ID: id, Length: uint8(n)}
		copy(frame.Data[:], p[:n])
		frames = append(frames, frame)
		p = p[n:]
	}
	return frames
}
