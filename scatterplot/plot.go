/*
 * plot.go, part of goscatter
 *
 * Copyright 2021 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

//Package scatterplot draws the curves produced by the analysis engines
//(structure factors, radial distribution functions, MSD curves) to PNG files,
//using the gonum plot library.
package scatterplot

import (
	"fmt"

	"github.com/rmera/goscatter/diffraction"
	"github.com/rmera/goscatter/msd"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// Curve plots y against x as a line and saves it to plotname.png. x and y
// must have the same length.
func Curve(x, y []float64, title, xlabel, ylabel, plotname string) error {
	if len(x) != len(y) {
		return fmt.Errorf("goscatter/scatterplot: x and y must have the same length, got %d and %d", len(x), len(y))
	}
	p := basicPlot(title, xlabel, ylabel)
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(5*vg.Inch, 5*vg.Inch, filename)
}

// SK plots the structure factor from the last Compute call of sf.
func SK(sf *diffraction.StaticStructureFactor, title, plotname string) error {
	y := sf.Sk()
	if y == nil {
		return fmt.Errorf("goscatter/scatterplot: the structure factor has not been computed yet")
	}
	return Curve(sf.BinCenters(), y, title, "k", "S(k)", plotname)
}

// MSDCurve plots the MSD accumulated in m so far against time, where dt is
// the time between frames.
func MSDCurve(m *msd.MSD, dt float64, title, plotname string) error {
	y := m.MSD()
	if y == nil {
		return fmt.Errorf("goscatter/scatterplot: the accumulator is empty")
	}
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i) * dt
	}
	return Curve(x, y, title, "t", "MSD(t)", plotname)
}
