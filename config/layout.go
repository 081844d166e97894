package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"arduplot/plotter"
	"arduplot/protocol"

	"gopkg.in/yaml.v3"
)

// Source kinds a variable can be fed by.
const (
	SINE_SOURCE    = "sine"
	COUNTER_SOURCE = "counter"
	WALK_SOURCE    = "walk"
	SQUARE_SOURCE  = "square"
)

var sourceKinds = []string{SINE_SOURCE, COUNTER_SOURCE, WALK_SOURCE, SQUARE_SOURCE}

const (
	TIME_MODE = "time"
	XY_MODE   = "xy"
)

// reserved tokens would break the frame if they appeared in any text field.
var reserved = []string{protocol.INNER_KEY, protocol.OUTER_KEY, "\r", "\n"}

type Layout struct {
	Graphs []GraphLayout `yaml:"graphs"`
}

type GraphLayout struct {
	Title string `yaml:"title"`
	// Mode is "time" (default) or "xy".
	Mode   string `yaml:"mode"`
	Points int    `yaml:"points"`
	// Colours are applied after the graph is added, following the plotter's recolour rules.
	Colours   []string         `yaml:"colours"`
	Variables []VariableLayout `yaml:"variables"`
}

type VariableLayout struct {
	Label  string     `yaml:"label"`
	Colour string     `yaml:"colour"`
	Source SourceSpec `yaml:"source"`
}

// SourceSpec describes the signal feeding a variable. Fields a kind doesn't use are ignored.
type SourceSpec struct {
	Kind string `yaml:"kind"`
	// Period of sine and square sources.
	Period    time.Duration `yaml:"period"`
	Amplitude float64       `yaml:"amplitude"`
	// Offset is the sine midpoint and the walk's starting value.
	Offset float64 `yaml:"offset"`
	// Step is the most a walk moves per update, or what a counter adds per update. Counter steps must be whole numbers.
	Step float64 `yaml:"step"`
	// Limit is where a counter wraps back to 0, it never wraps when not positive.
	Limit int64 `yaml:"limit"`
	Seed  int64 `yaml:"seed"`
}

// DefaultLayout is used when no layout file is given.
func DefaultLayout() *Layout {
	return &Layout{
		Graphs: []GraphLayout{
			{
				Title:  "Waves",
				Mode:   TIME_MODE,
				Points: 200,
				Variables: []VariableLayout{
					{Label: "sine", Colour: "red", Source: SourceSpec{Kind: SINE_SOURCE, Period: 2 * time.Second, Amplitude: 1}},
					{Label: "square", Colour: "blue", Source: SourceSpec{Kind: SQUARE_SOURCE, Period: 3 * time.Second, Amplitude: 1}},
				},
			},
			{
				Title:  "Walk",
				Mode:   TIME_MODE,
				Points: 500,
				Variables: []VariableLayout{
					{Label: "walk", Colour: "green", Source: SourceSpec{Kind: WALK_SOURCE, Step: 0.5, Seed: 1}},
					{Label: "count", Colour: "orange", Source: SourceSpec{Kind: COUNTER_SOURCE, Step: 1, Limit: 100}},
				},
			},
			{
				Title:  "Lissajous",
				Mode:   XY_MODE,
				Points: 100,
				Variables: []VariableLayout{
					{Label: "x", Colour: "pink", Source: SourceSpec{Kind: SINE_SOURCE, Period: 3 * time.Second, Amplitude: 1}},
					{Label: "y", Source: SourceSpec{Kind: SINE_SOURCE, Period: 2 * time.Second, Amplitude: 1}},
				},
			},
		},
	}
}

func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	layout, err := ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return layout, nil
}

func ParseLayout(data []byte) (*Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &layout, nil
}

// Validate checks every graph and fills in defaults (time mode).
func (l *Layout) Validate() error {
	if len(l.Graphs) == 0 {
		return ErrNoGraphs
	}
	for i := range l.Graphs {
		if err := l.Graphs[i].validate(); err != nil {
			return fmt.Errorf("graph %d (%q): %w", i, l.Graphs[i].Title, err)
		}
	}
	return nil
}

func (g *GraphLayout) validate() error {
	if g.Mode == "" {
		g.Mode = TIME_MODE
	}
	if g.Mode != TIME_MODE && g.Mode != XY_MODE {
		return fmt.Errorf("%q: %w", g.Mode, ErrBadMode)
	}
	if len(g.Variables) == 0 {
		return ErrNoVariables
	}
	if g.Mode == XY_MODE && len(g.Variables) != 2 {
		return ErrBadXYSize
	}
	if g.Points < 0 {
		return ErrBadPoints
	}
	if len(g.Colours) > plotter.MAX_COLOURS {
		return ErrTooManyColours
	}
	if g.Mode == TIME_MODE && len(g.Colours) > 0 && len(g.Colours) != len(g.Variables) {
		return ErrColourCount
	}
	if err := checkReserved("title", g.Title); err != nil {
		return err
	}
	for _, c := range g.Colours {
		if err := checkReserved("colour", c); err != nil {
			return err
		}
	}

	for i, v := range g.Variables {
		if err := checkReserved("label", v.Label); err != nil {
			return fmt.Errorf("variable %d: %w", i, err)
		}
		if err := checkReserved("colour", v.Colour); err != nil {
			return fmt.Errorf("variable %d: %w", i, err)
		}
		if !validSourceKind(v.Source.Kind) {
			return fmt.Errorf("variable %d (%q) source %q: %w", i, v.Label, v.Source.Kind, ErrBadSource)
		}
		if v.Source.Kind == COUNTER_SOURCE && v.Source.Step != math.Trunc(v.Source.Step) {
			return fmt.Errorf("variable %d (%q) step %g: %w", i, v.Label, v.Source.Step, ErrBadStep)
		}
	}
	return nil
}

func checkReserved(field, value string) error {
	for _, token := range reserved {
		if strings.Contains(value, token) {
			return fmt.Errorf("%s %q: %w", field, value, ErrReservedToken)
		}
	}
	return nil
}

func validSourceKind(kind string) bool {
	for _, k := range sourceKinds {
		if kind == k {
			return true
		}
	}
	return false
}
