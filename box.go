/*
 * box.go, part of goscatter
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

package scatter

import (
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

// Box is an orthorhombic periodic simulation box. It answers minimum-image
// distance queries for coordinate sets and exposes the volume and per-axis
// edge lengths. A Box is immutable after creation except for the number of
// gorutines it uses, so a single Box can serve concurrent read-only queries.
type Box struct {
	l      [3]float64
	volume float64
	cpus   int
}

// NewBox returns a periodic box with the given edge lengths.
// It fails if any edge, and thus the volume, is not positive.
func NewBox(lx, ly, lz float64) (*Box, error) {
	if lx <= 0 || ly <= 0 || lz <= 0 {
		return nil, NewError(NumericalDegeneracy, fmt.Sprintf("box edges must be positive, got %4.2f %4.2f %4.2f", lx, ly, lz), "NewBox")
	}
	B := new(Box)
	B.l = [3]float64{lx, ly, lz}
	B.volume = lx * ly * lz
	B.cpus = runtime.NumCPU()
	return B, nil
}

// L returns the per-axis edge lengths of the box.
func (B *Box) L() [3]float64 {
	return B.l
}

// Volume returns the volume of the box.
func (B *Box) Volume() float64 {
	return B.volume
}

// MinL returns the smallest edge length of the box.
func (B *Box) MinL() float64 {
	return math.Min(B.l[0], math.Min(B.l[1], B.l[2]))
}

// Cpus returns the number of gorutines used for the distance-matrix
// computation and sets it, if a valid value is given.
func (B *Box) Cpus(cpus ...int) int {
	ret := B.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		B.cpus = cpus[0]
	}
	return ret
}

// MinImageDist returns the minimum-image distance between the points a and b,
// each a 3-element slice, under the periodic boundary conditions of the box.
func (B *Box) MinImageDist(a, b []float64) float64 {
	var d, sum float64
	for k := 0; k < 3; k++ {
		d = a[k] - b[k]
		d -= B.l[k] * math.Round(d/B.l[k])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// ComputeAllDistances returns the flattened len(p) x len(q) matrix of
// minimum-image distances between every vector of p and every vector of q,
// in row-major order (element i*len(q)+j holds the distance between the ith
// vector of p and the jth of q). p and q must have exactly 3 columns and at
// least one row each. They are never written to. The rows of p are split
// among as many gorutines as the Cpus option says, each writing to a disjoint
// block of the returned slice.
func (B *Box) ComputeAllDistances(p, q *mat.Dense) ([]float64, error) {
	pr, pc := p.Dims()
	qr, qc := q.Dims()
	if pc != 3 || qc != 3 {
		return nil, NewError(ShapeMismatch, fmt.Sprintf("coordinate matrices must have 3 columns, got %d and %d", pc, qc), "ComputeAllDistances")
	}
	if pr < 1 || qr < 1 {
		return nil, NewError(ShapeMismatch, "coordinate matrices must have at least one row", "ComputeAllDistances")
	}
	dst := make([]float64, pr*qr)
	cpus := B.cpus
	if cpus > pr {
		cpus = pr
	}
	chunk := pr / cpus
	ended := make(chan bool, cpus)
	for w := 0; w < cpus; w++ {
		begin := w * chunk
		end := begin + chunk
		if w == cpus-1 {
			end = pr //the last worker takes the remainder rows
		}
		go func(begin, end int) {
			for i := begin; i < end; i++ {
				a := p.RawRowView(i)
				row := dst[i*qr : (i+1)*qr]
				for j := 0; j < qr; j++ {
					row[j] = B.MinImageDist(a, q.RawRowView(j))
				}
			}
			ended <- true
		}(begin, end)
	}
	for w := 0; w < cpus; w++ {
		<-ended
	}
	return dst, nil
}
