package protocol

import (
	"bufio"
	"io"
	"strconv"

	"arduplot/models"
)

// Reserved tokens. Titles, labels and colours must not contain them, nothing is escaped.
const (
	OUTER_KEY  = "dt*"
	INNER_KEY  = "|"
	LINE_BREAK = "\r\n"
)

// VALUE_PRECISION is the number of fractional digits every value is sent with.
const VALUE_PRECISION = 7

// Header is the frame-level summary sent ahead of the graphs.
type Header struct {
	GraphCount         int
	TotalVariables     int
	MaxPointsDisplayed int
	// LastUpdated is milliseconds since the plotter started, at the last structural or colour change.
	LastUpdated int64
}

// Encoder writes frames with layout:
// dt*[graphs]|[variables]|[max points]|[last updated]|
// \r\n[title]|[mode]|[points]|[size]|([label]|[colour]|[value]|)*size   (once per graph)
// dt*\r\n
type Encoder struct {
	sink   io.Writer
	writer *bufio.Writer
	err    error
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{sink: w, writer: bufio.NewWriter(w)}
}

// Encode writes one complete frame and flushes it to the underlying writer.
// The first write error is kept and returned; nothing else is written once it happens.
// A failed frame is dropped, the next Encode starts from a clean buffer.
func (e *Encoder) Encode(header Header, graphs []*models.Graph) error {
	if e.err != nil {
		e.writer.Reset(e.sink)
		e.err = nil
	}

	e.writeString(OUTER_KEY)
	e.writeField(strconv.Itoa(header.GraphCount))
	e.writeField(strconv.Itoa(header.TotalVariables))
	e.writeField(strconv.Itoa(header.MaxPointsDisplayed))
	e.writeField(strconv.FormatInt(header.LastUpdated, 10))

	for _, g := range graphs {
		e.writeString(LINE_BREAK)
		e.WriteGraph(g)
	}

	e.writeString(OUTER_KEY)
	e.writeString(LINE_BREAK)

	if e.err == nil {
		e.err = e.writer.Flush()
	}
	return e.err
}

// WriteGraph writes a graph body without flushing.
func (e *Encoder) WriteGraph(g *models.Graph) {
	e.writeField(g.Title())
	e.writeField(modeFlag(g.Mode()))
	e.writeField(strconv.Itoa(g.PointsDisplayed()))
	e.writeField(strconv.Itoa(g.Size()))

	for _, v := range g.Variables() {
		e.writeField(v.Label())
		e.writeField(v.Colour())
		e.writeField(FormatValue(v.Value()))
	}
}

// Err returns the error from the last Encode, if any.
func (e *Encoder) Err() error {
	return e.err
}

// FormatValue renders v as fixed-point with VALUE_PRECISION fractional digits.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', VALUE_PRECISION, 64)
}

func modeFlag(m models.Mode) string {
	if m == models.XY {
		return "1"
	}
	return "0"
}

func (e *Encoder) writeField(s string) {
	e.writeString(s)
	e.writeString(INNER_KEY)
}

func (e *Encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.writer.WriteString(s)
}
