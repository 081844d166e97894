package models

type Mode uint8

const (
	// TimeSeries plots every variable against elapsed time.
	TimeSeries Mode = iota
	// XY plots the first variable against the second.
	XY
)

func (m Mode) String() string {
	switch m {
	case TimeSeries:
		return "time"
	case XY:
		return "xy"
	default:
		return "unknown"
	}
}

type Graph struct {
	// title is the graph's heading on the listener.
	title string
	// mode determines how the variables are plotted, an XY graph should hold exactly two variables.
	mode Mode
	// pointsDisplayed is how many historical samples the listener keeps for this graph.
	pointsDisplayed int
	// variables are plotted in this order. The slice is owned by the graph and never resized.
	variables []*Variable
}

func NewGraph(
	title string,
	mode Mode,
	pointsDisplayed int,
	variables []*Variable,
) *Graph {
	return &Graph{
		title,
		mode,
		pointsDisplayed,
		variables,
	}
}

func (g *Graph) Title() string {
	return g.title
}

func (g *Graph) Mode() Mode {
	return g.mode
}

func (g *Graph) PointsDisplayed() int {
	return g.pointsDisplayed
}

func (g *Graph) Size() int {
	return len(g.variables)
}

func (g *Graph) Variables() []*Variable {
	return g.variables
}

// SetColours recolours the graph's variables in order.
// A time series graph needs exactly one colour per variable. An XY graph draws a single series, so only the first
// colour is used (for the first variable) and the rest are ignored.
func (g *Graph) SetColours(colours []string) bool {
	if g.mode == XY {
		if len(colours) == 0 || len(g.variables) == 0 {
			return false
		}
		g.variables[0].SetColour(colours[0])
		return true
	}

	if len(colours) != len(g.variables) {
		return false
	}
	for i, v := range g.variables {
		v.SetColour(colours[i])
	}
	return true
}
