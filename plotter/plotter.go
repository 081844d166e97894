// Package plotter keeps the graphs a program wants plotted and emits them as frames to a listener.
//
// A Plotter isn't safe for concurrent use. Register graphs and call Plot from the same goroutine, and make sure any
// variable bound to a graph can be read from that goroutine at any time.
package plotter

import (
	"io"
	"slices"
	"time"

	"arduplot/models"
	"arduplot/protocol"
)

// MAX_COLOURS is the most series colours a listener can show for one graph.
const MAX_COLOURS = 6

type Plotter struct {
	encoder *protocol.Encoder
	now     func() time.Time
	start   time.Time

	// graphs in display order, a graph's position is its index for RemoveGraph and SetColours.
	graphs             []*models.Graph
	totalVariables     int
	maxPointsDisplayed int
	lastUpdated        int64
}

type Option func(*Plotter)

// WithClock replaces time.Now, mostly useful for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Plotter) {
		p.now = now
	}
}

// New creates a plotter that writes its frames to sink. The moment it's created is time zero for LastUpdated.
func New(sink io.Writer, opts ...Option) *Plotter {
	p := &Plotter{
		encoder: protocol.NewEncoder(sink),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.start = p.now()
	return p
}

// AddGraph appends a graph holding variables. Negative pointsDisplayed is treated as 0.
func (p *Plotter) AddGraph(title string, mode models.Mode, pointsDisplayed int, variables ...*models.Variable) {
	if pointsDisplayed < 0 {
		pointsDisplayed = 0
	}
	g := models.NewGraph(title, mode, pointsDisplayed, variables)
	p.graphs = append(p.graphs, g)

	p.totalVariables += g.Size()
	if pointsDisplayed > p.maxPointsDisplayed {
		p.maxPointsDisplayed = pointsDisplayed
	}
	p.touch()
}

func (p *Plotter) AddTimeGraph(title string, pointsDisplayed int, variables ...*models.Variable) {
	p.AddGraph(title, models.TimeSeries, pointsDisplayed, variables...)
}

func (p *Plotter) AddXYGraph(title string, pointsDisplayed int, x, y *models.Variable) {
	p.AddGraph(title, models.XY, pointsDisplayed, x, y)
}

// RemoveGraph removes the graph at index, the graphs after it move down by one.
// MaxPointsDisplayed is left as it was, even when the removed graph was the one that set it.
func (p *Plotter) RemoveGraph(index int) bool {
	if !p.inRange(index) {
		return false
	}
	removed := p.graphs[index]
	p.graphs = slices.Delete(p.graphs, index, index+1)

	p.totalVariables -= removed.Size()
	p.touch()
	return true
}

// SetColours recolours the graph at index, see models.Graph.SetColours for how colours are matched to variables.
// Between 1 and MAX_COLOURS colours must be given.
func (p *Plotter) SetColours(index int, colours ...string) bool {
	if len(colours) == 0 || len(colours) > MAX_COLOURS {
		return false
	}
	if !p.inRange(index) {
		return false
	}
	if !p.graphs[index].SetColours(colours) {
		return false
	}
	p.touch()
	return true
}

// Plot writes one frame with the current value of every variable to the sink.
// Sink errors are dropped, the next call tries again with a fresh frame.
func (p *Plotter) Plot() {
	_ = p.encoder.Encode(p.Header(), p.graphs)
}

// WriteFrame writes one frame to w instead of the sink and reports any write error.
func (p *Plotter) WriteFrame(w io.Writer) error {
	return protocol.NewEncoder(w).Encode(p.Header(), p.graphs)
}

// Err returns the sink error from the last Plot, if any.
func (p *Plotter) Err() error {
	return p.encoder.Err()
}

func (p *Plotter) Header() protocol.Header {
	return protocol.Header{
		GraphCount:         len(p.graphs),
		TotalVariables:     p.totalVariables,
		MaxPointsDisplayed: p.maxPointsDisplayed,
		LastUpdated:        p.lastUpdated,
	}
}

// Clear drops every graph and resets all counters.
func (p *Plotter) Clear() {
	clear(p.graphs)
	p.graphs = p.graphs[:0]
	p.totalVariables = 0
	p.maxPointsDisplayed = 0
	p.touch()
}

func (p *Plotter) Graph(index int) (*models.Graph, bool) {
	if !p.inRange(index) {
		return nil, false
	}
	return p.graphs[index], true
}

func (p *Plotter) GraphCount() int {
	return len(p.graphs)
}

func (p *Plotter) TotalVariables() int {
	return p.totalVariables
}

func (p *Plotter) MaxPointsDisplayed() int {
	return p.maxPointsDisplayed
}

// LastUpdated is milliseconds from creation to the last add, remove, recolour or clear.
func (p *Plotter) LastUpdated() int64 {
	return p.lastUpdated
}

func (p *Plotter) inRange(index int) bool {
	return index >= 0 && index < len(p.graphs)
}

func (p *Plotter) touch() {
	p.lastUpdated = p.now().Sub(p.start).Milliseconds()
}
