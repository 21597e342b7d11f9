/*
 * diffraction.go, part of goscatter
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

//Package diffraction computes static structure factors S(k) for periodic
//systems of particles. Two methods are available, selected when the engine is
//built: Direct sums sinc(k r_ij) over every particle pair, while RDFFT
//Fourier-transforms a radial distribution function. The RDFFT method is a
//cheaper proxy for Direct at large particle counts; it carries discretization
//and truncation error, so the two methods agree only approximately.
package diffraction

import (
	"fmt"
	"math"
	"runtime"
	"strings"

	scatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/rdf"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
)

// Method selects the algorithm used to obtain S(k), fixed when the engine is
// built.
type Method int

const (
	//Direct is the brute-force pairwise summation, O(N^2 B) for N particles
	//and B bins.
	Direct Method = iota
	//RDFFT obtains S(k) by numerical Fourier transform of the radial
	//distribution function. Approximate by construction.
	RDFFT
)

// MethodFromString returns the Method named by s ("direct" or "rdf_ft",
// case-insensitive), or an InvalidConfiguration error for anything else.
func MethodFromString(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "direct":
		return Direct, nil
	case "rdf_ft", "rdfft":
		return RDFFT, nil
	}
	return 0, Error{scatter.InvalidConfiguration, fmt.Sprintf("unknown structure factor method %q", s), []string{"MethodFromString"}}
}

func (m Method) String() string {
	if m == Direct {
		return "direct"
	}
	return "rdf_ft"
}

//The number of bins used for the intermediate RDF of the RDFFT method. It
//must be odd, so the composite Simpson quadrature over the bin centers has an
//even number of intervals.
const rdfBins int = 1001

// KBinCenters returns the centers of bins wavenumber bins uniformly covering
// [kMin,kMax): each center sits half a bin width above the lower bin edge, so
// the sequence is strictly increasing, starts at kMin+(kMax-kMin)/(2*bins) and
// stays below kMax.
func KBinCenters(bins int, kMin, kMax float64) ([]float64, error) {
	if bins <= 0 {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("the number of bins must be positive, got %d", bins), []string{"KBinCenters"}}
	}
	if kMax <= kMin {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("kMax (%f) must be greater than kMin (%f)", kMax, kMin), []string{"KBinCenters"}}
	}
	delta := (kMax - kMin) / float64(bins)
	ret := make([]float64, bins)
	for i := range ret {
		ret[i] = kMin + (float64(i)+0.5)*delta
	}
	return ret, nil
}

// StaticStructureFactor computes and holds the static structure factor of a
// system. The configuration is fixed at construction; Compute fully replaces
// the stored result each time it is called.
type StaticStructureFactor struct {
	method     Method
	binCenters []float64
	sk         []float64
	minValidK  float64
	cpus       int
}

// NewStaticStructureFactor returns an engine that will histogram S(k) on bins
// wavenumber bins between kMin and kMax, computed with the given method.
func NewStaticStructureFactor(bins int, kMax, kMin float64, method Method) (*StaticStructureFactor, error) {
	if kMax <= 0 {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("kMax must be positive, got %f", kMax), []string{"NewStaticStructureFactor"}}
	}
	if kMin < 0 {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("kMin must not be negative, got %f", kMin), []string{"NewStaticStructureFactor"}}
	}
	if method != Direct && method != RDFFT {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("unknown method %d", method), []string{"NewStaticStructureFactor"}}
	}
	centers, err := KBinCenters(bins, kMin, kMax)
	if err != nil {
		return nil, errDecorate(err, "NewStaticStructureFactor")
	}
	S := new(StaticStructureFactor)
	S.method = method
	S.binCenters = centers
	S.minValidK = math.Inf(1)
	S.cpus = runtime.NumCPU()
	return S, nil
}

// Cpus returns the number of gorutines used over the k bins and sets it, if a
// valid value is given.
func (S *StaticStructureFactor) Cpus(cpus ...int) int {
	ret := S.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		S.cpus = cpus[0]
	}
	return ret
}

// Method returns the method the engine was built with.
func (S *StaticStructureFactor) Method() Method {
	return S.method
}

// Compute obtains S(k) for the system given by the Nx3 coordinate matrix and
// its periodic box, replacing any stored result. coords is never written to.
func (S *StaticStructureFactor) Compute(coords *mat.Dense, box *scatter.Box) error {
	n, c := coords.Dims()
	if c != 3 {
		return Error{scatter.ShapeMismatch, fmt.Sprintf("coordinates must have 3 columns, got %d", c), []string{"Compute"}}
	}
	if n < 1 {
		return Error{scatter.ShapeMismatch, "cannot compute the structure factor of an empty system", []string{"Compute"}}
	}
	if box.Volume() <= 0 {
		return Error{scatter.NumericalDegeneracy, "box volume must be positive", []string{"Compute"}}
	}
	var sk []float64
	var err error
	if S.method == Direct {
		sk, err = S.computeDirect(coords, box, n)
	} else {
		sk, err = S.computeRDFFT(coords, box, n)
	}
	if err != nil {
		return errDecorate(err, "Compute")
	}
	S.sk = sk
	return nil
}

//computeDirect evaluates S(q) = (1/N) sum_ij sinc(q r_ij) over all particle
//pairs, self pairs included (they contribute sinc(0)=1 each). The O(N^2)
//distance matrix is computed once and shared, read-only, by the workers, each
//of which owns a disjoint block of k bins.
func (S *StaticStructureFactor) computeDirect(coords *mat.Dense, box *scatter.Box, n int) ([]float64, error) {
	distances, err := box.ComputeAllDistances(coords, coords)
	if err != nil {
		return nil, errDecorate(err, "computeDirect")
	}
	sk := make([]float64, len(S.binCenters))
	S.overKBins(func(begin, end int) {
		for i := begin; i < end; i++ {
			q := S.binCenters[i]
			var sum float64
			for _, r := range distances {
				sum += scatter.Sinc(q * r)
			}
			sk[i] = sum / float64(n)
		}
	})
	return sk, nil
}

//computeRDFFT evaluates S(q) = 1 + (4 pi N/V) times the integral up to r_max
//of r^2 (g(r)-1) sinc(q r), with a composite Simpson quadrature over the RDF
//bin centers. r_max is the largest float64 below half the smallest box edge,
//so no pair is ever counted through more than one periodic image.
func (S *StaticStructureFactor) computeRDFFT(coords *mat.Dense, box *scatter.Box, n int) ([]float64, error) {
	rMax := math.Nextafter(box.MinL()/2, 0)
	g, err := rdf.New(rdfBins, rMax)
	if err != nil {
		return nil, errDecorate(err, "computeRDFFT")
	}
	if err := g.Compute(coords, box); err != nil {
		return nil, errDecorate(err, "computeRDFFT")
	}
	r := g.BinCenters()
	gr := g.RDF()
	norm := 4 * math.Pi * float64(n) / box.Volume()
	//Below 2 pi/r_max the method has no information; we record the bound
	//so callers can discard the bins under it.
	if b := 2 * math.Pi / rMax; b < S.minValidK {
		S.minValidK = b
	}
	sk := make([]float64, len(S.binCenters))
	S.overKBins(func(begin, end int) {
		integrand := make([]float64, len(r))
		for i := begin; i < end; i++ {
			q := S.binCenters[i]
			for j, rj := range r {
				integrand[j] = rj * rj * (gr[j] - 1) * scatter.Sinc(q*rj)
			}
			sk[i] = 1 + norm*integrate.Simpsons(r, integrand)
		}
	})
	return sk, nil
}

//overKBins splits the k bins among the workers. Each worker writes only to
//its own block of the result, so no synchronization is needed beyond waiting
//for all of them.
func (S *StaticStructureFactor) overKBins(f func(begin, end int)) {
	bins := len(S.binCenters)
	cpus := S.cpus
	if cpus > bins {
		cpus = bins
	}
	chunk := bins / cpus
	ended := make(chan bool, cpus)
	for w := 0; w < cpus; w++ {
		begin := w * chunk
		end := begin + chunk
		if w == cpus-1 {
			end = bins
		}
		go func(begin, end int) {
			f(begin, end)
			ended <- true
		}(begin, end)
	}
	for w := 0; w < cpus; w++ {
		<-ended
	}
}

// BinCenters returns a copy of the wavenumber bin centers.
func (S *StaticStructureFactor) BinCenters() []float64 {
	ret := make([]float64, len(S.binCenters))
	copy(ret, S.binCenters)
	return ret
}

// Sk returns a copy of the structure factor from the last Compute call,
// aligned one-to-one with BinCenters, or nil if Compute has not been called.
func (S *StaticStructureFactor) Sk() []float64 {
	if S.sk == nil {
		return nil
	}
	ret := make([]float64, len(S.sk))
	copy(ret, S.sk)
	return ret
}

// MinValidK returns the smallest wavenumber for which the results of the
// RDFFT method are meaningful, 2 pi/r_max, taken over every Compute call so
// far. For the Direct method, or before any RDFFT Compute, it returns +Inf.
func (S *StaticStructureFactor) MinValidK() float64 {
	return S.minValidK
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
	return fmt.Sprintf("goscatter/diffraction: %s: %s", err.kind, err.message)
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
