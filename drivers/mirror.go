package drivers

import (
	"bytes"
	"time"

	"arduplot/events"
	"arduplot/protocol"
)

var frameEnd = []byte(protocol.OUTER_KEY + protocol.LINE_BREAK)

// Mirror passes writes through to another sink and republishes every complete frame on an event hub. Frames are
// published even when the wrapped sink fails, the mirror shows what was sent, not what arrived. A failed write that
// does not finish a frame drops it, the encoder writes nothing more of that frame.
type Mirror struct {
	Sink
	eventHub *events.EventHub
	pending  []byte
	now      func() time.Time
}

func NewMirror(sink Sink, eventHub *events.EventHub) *Mirror {
	return &Mirror{
		Sink:     sink,
		eventHub: eventHub,
		now:      time.Now,
	}
}

func (m *Mirror) Write(p []byte) (int, error) {
	n, err := m.Sink.Write(p)

	m.pending = append(m.pending, p...)
	if bytes.HasSuffix(m.pending, frameEnd) {
		m.eventHub.Broadcast(&events.Event{Timestamp: int(m.now().UnixMilli()), Frame: m.pending})
		m.pending = m.pending[:0]
	} else if err != nil {
		m.pending = m.pending[:0]
	}
	return n, err
}
