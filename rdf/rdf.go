/*
 * rdf.go, part of goscatter
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

//Package rdf computes radial distribution functions g(r) for periodic
//systems of particles. The pair distances are binned up to a maximum radius
//rMax, which must be below half the smallest box edge so no pair is counted
//through more than one periodic image, and the counts are normalized against
//an ideal gas at the same density.
package rdf

import (
	"fmt"
	"math"

	scatter "github.com/rmera/goscatter"
	"gonum.org/v1/gonum/mat"
)

// RDF computes and holds a radial distribution function. The zero value is
// not usable; use New. Compute replaces any previously held result.
type RDF struct {
	bins       int
	rMax       float64
	binCenters []float64
	gr         []float64
}

// New returns an RDF engine with the given number of bins and maximum radius.
func New(bins int, rMax float64) (*RDF, error) {
	if bins <= 0 {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("the number of bins must be positive, got %d", bins), []string{"New"}}
	}
	if rMax <= 0 {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("rMax must be positive, got %f", rMax), []string{"New"}}
	}
	R := new(RDF)
	R.bins = bins
	R.rMax = rMax
	dr := rMax / float64(bins)
	R.binCenters = make([]float64, bins)
	for i := range R.binCenters {
		R.binCenters[i] = (float64(i) + 0.5) * dr
	}
	return R, nil
}

// Compute bins the minimum-image distances of every ordered pair (i!=j) of
// coords into g(r) and stores the normalized result, replacing any previous
// one. coords must be an Nx3 matrix with N>=1; it is never written to. With a
// single particle there are no pairs and g(r) is zero everywhere.
func (R *RDF) Compute(coords *mat.Dense, box *scatter.Box) error {
	n, c := coords.Dims()
	if c != 3 {
		return Error{scatter.ShapeMismatch, fmt.Sprintf("coordinates must have 3 columns, got %d", c), []string{"Compute"}}
	}
	if n < 1 {
		return Error{scatter.ShapeMismatch, "cannot compute the RDF of an empty system", []string{"Compute"}}
	}
	if box.Volume() <= 0 {
		return Error{scatter.NumericalDegeneracy, "box volume must be positive", []string{"Compute"}}
	}
	if R.rMax >= box.MinL()/2 {
		return Error{scatter.InvalidConfiguration, fmt.Sprintf("rMax (%f) must be below half the smallest box edge (%f)", R.rMax, box.MinL()/2), []string{"Compute"}}
	}
	R.gr = make([]float64, R.bins)
	if n < 2 {
		return nil
	}
	distances, err := box.ComputeAllDistances(coords, coords)
	if err != nil {
		return errDecorate(err, "Compute")
	}
	dr := R.rMax / float64(R.bins)
	hist := make([]float64, R.bins)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue //self pairs don't enter g(r)
			}
			b := int(distances[i*n+j] / dr)
			if b < R.bins {
				hist[b]++
			}
		}
	}
	//Ideal-gas normalization: the expected count for a bin at radius r is
	//N(N-1)/V times the volume of the spherical shell 4 pi r^2 dr.
	pref := box.Volume() / (float64(n) * float64(n-1) * 4 * math.Pi * dr)
	for i, v := range hist {
		r := R.binCenters[i]
		R.gr[i] = v * pref / (r * r)
	}
	return nil
}

// BinCenters returns a copy of the centers of the distance bins, aligned
// one-to-one with RDF().
func (R *RDF) BinCenters() []float64 {
	ret := make([]float64, len(R.binCenters))
	copy(ret, R.binCenters)
	return ret
}

// RDF returns a copy of the g(r) values from the last Compute call, or nil if
// Compute has not been called.
func (R *RDF) RDF() []float64 {
	if R.gr == nil {
		return nil
	}
	ret := make([]float64, len(R.gr))
	copy(ret, R.gr)
	return ret
}

// RMax returns the maximum radius considered.
func (R *RDF) RMax() float64 {
	return R.rMax
}

//Errors

//errDecorate asserts that the error implements scatter.Error and decorates it
//with the caller's name before returning it. Calling it on any other error
//type is a programming mistake and panics.
func errDecorate(err error, caller string) error {
	err2 := err.(scatter.Error)
	err2.Decorate(caller)
	return err2
}

// Error is the concrete scatter.Error implementation of this package.
type Error struct {
	kind    string
	message string
	deco    []string
}

func (err Error) Error() string {
	return fmt.Sprintf("goscatter/rdf: %s: %s", err.kind, err.message)
}

// Kind returns the kind of the error, one of the scatter kind constants.
func (err Error) Kind() string { return err.kind }

// Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}
