//go:build pathdebug

package planner

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rcssl/trajectory/trajectory"
)

// DumpCandidates renders the endpoints of a sampler tick's candidates to an
// image at path, the pathdebug-build-tagged equivalent of the original's
// "$type,X,Y" CSV trace: only linked in when built with -tags pathdebug, so
// a normal build carries no plotting dependency cost at runtime.
func DumpCandidates(path string, candidates []trajectory.Trajectory) error {
	p := plot.New()
	p.Title.Text = "standard sampler candidate endpoints"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	pts := make(plotter.XYs, len(candidates))
	for i, c := range candidates {
		end := c.EndPosition()
		pts[i].X = float64(end.X)
		pts[i].Y = float64(end.Y)
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "debugplot: new scatter")
	}
	p.Add(scatter)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrap(err, "debugplot: save")
	}
	return nil
}
