package sources

import (
	"bytes"
	"testing"
	"time"

	"arduplot/config"
	"arduplot/models"
	"arduplot/plotter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultLayout(t *testing.T) {
	var buf bytes.Buffer
	p := plotter.New(&buf)

	bank, err := Build(config.DefaultLayout(), p)
	require.NoError(t, err)
	assert.Equal(t, 3, p.GraphCount())
	assert.Equal(t, 6, p.TotalVariables())
	assert.Equal(t, 6, bank.Len())
	assert.Equal(t, 500, p.MaxPointsDisplayed())

	xy, ok := p.Graph(2)
	require.True(t, ok)
	assert.Equal(t, models.XY, xy.Mode())
	assert.Equal(t, "pink", xy.Variables()[0].Colour())
}

func TestBuildAppliesGraphColours(t *testing.T) {
	layout := &config.Layout{Graphs: []config.GraphLayout{{
		Title:   "c",
		Mode:    config.TIME_MODE,
		Points:  10,
		Colours: []string{"red", "blue"},
		Variables: []config.VariableLayout{
			{Label: "a", Colour: "white", Source: config.SourceSpec{Kind: config.COUNTER_SOURCE}},
			{Label: "b", Source: config.SourceSpec{Kind: config.COUNTER_SOURCE, Step: 5}},
		},
	}}}

	var buf bytes.Buffer
	p := plotter.New(&buf)
	bank, err := Build(layout, p)
	require.NoError(t, err)

	bank.Update(time.Millisecond)
	p.Plot()
	require.NoError(t, p.Err())
	assert.Contains(t, buf.String(), "c|0|10|2|a|red|1.0000000|b|blue|5.0000000|")
}

func TestBuildRejectsUnknownSource(t *testing.T) {
	layout := &config.Layout{Graphs: []config.GraphLayout{{
		Title:     "bad",
		Variables: []config.VariableLayout{{Label: "v", Source: config.SourceSpec{Kind: "noise"}}},
	}}}
	_, err := Build(layout, plotter.New(&bytes.Buffer{}))
	assert.ErrorIs(t, err, config.ErrBadSource)
}

func TestBuildRejectsMismatchedColours(t *testing.T) {
	layout := &config.Layout{Graphs: []config.GraphLayout{{
		Title:     "bad",
		Mode:      config.TIME_MODE,
		Colours:   []string{"red", "blue"},
		Variables: []config.VariableLayout{{Label: "v", Source: config.SourceSpec{Kind: config.SINE_SOURCE}}},
	}}}
	_, err := Build(layout, plotter.New(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestBuildLeavesPlotterUntouchedOnError(t *testing.T) {
	layout := &config.Layout{Graphs: []config.GraphLayout{
		{
			Title:     "good",
			Points:    40,
			Variables: []config.VariableLayout{{Label: "v", Source: config.SourceSpec{Kind: config.SINE_SOURCE}}},
		},
		{
			Title:     "bad",
			Mode:      config.TIME_MODE,
			Colours:   []string{"red", "blue"},
			Variables: []config.VariableLayout{{Label: "w", Source: config.SourceSpec{Kind: config.SINE_SOURCE}}},
		},
	}}

	var buf bytes.Buffer
	p := plotter.New(&buf)
	_, err := Build(layout, p)
	require.Error(t, err)

	assert.Equal(t, 0, p.GraphCount())
	assert.Equal(t, 0, p.TotalVariables())
	assert.Equal(t, 0, p.MaxPointsDisplayed())
	assert.Equal(t, int64(0), p.LastUpdated())
}
