package sources

import (
	"fmt"

	"arduplot/config"
	"arduplot/models"
	"arduplot/plotter"
)

type builtGraph struct {
	layout    *config.GraphLayout
	mode      models.Mode
	variables []*models.Variable
}

// Build adds every graph in layout to p, each variable fed by a new source. The returned bank drives those sources.
// Every graph is checked before the first one is added, so p is left untouched when Build fails.
func Build(layout *config.Layout, p *plotter.Plotter) (*Bank, error) {
	bank := &Bank{}
	graphs := make([]builtGraph, 0, len(layout.Graphs))

	for gi := range layout.Graphs {
		graph := &layout.Graphs[gi]
		variables := make([]*models.Variable, 0, len(graph.Variables))
		for vi, v := range graph.Variables {
			source, err := FromSpec(v.Source)
			if err != nil {
				return nil, fmt.Errorf("graph %d variable %d: %w", gi, vi, err)
			}
			bank.Add(source)
			variables = append(variables, models.NewVariable(v.Label, source.Reader(), v.Colour))
		}

		mode := models.TimeSeries
		if graph.Mode == config.XY_MODE {
			mode = models.XY
		}
		if !coloursFit(mode, len(graph.Colours), len(variables)) {
			return nil, fmt.Errorf("graph %d (%q): colours rejected", gi, graph.Title)
		}
		graphs = append(graphs, builtGraph{graph, mode, variables})
	}

	for _, g := range graphs {
		p.AddGraph(g.layout.Title, g.mode, g.layout.Points, g.variables...)
		if len(g.layout.Colours) > 0 {
			p.SetColours(p.GraphCount()-1, g.layout.Colours...)
		}
	}
	return bank, nil
}

// coloursFit mirrors the plotter's recolour rules: up to MAX_COLOURS, one per variable unless the graph is XY.
func coloursFit(mode models.Mode, colours, variables int) bool {
	if colours == 0 {
		return true
	}
	if colours > plotter.MAX_COLOURS {
		return false
	}
	return mode == models.XY || colours == variables
}
