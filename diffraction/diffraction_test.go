/*
 * diffraction_test.go, part of goscatter
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

package diffraction

import (
	"math"
	"math/rand"
	"testing"

	scatter "github.com/rmera/goscatter"
	"gonum.org/v1/gonum/mat"
)

func TestKBinCenters(Te *testing.T) {
	for _, c := range [][3]float64{{1000, 0, 100}, {10, 2, 7}, {1, 0, 1}, {7, 0.5, 0.6}} {
		bins := int(c[0])
		kMin, kMax := c[1], c[2]
		centers, err := KBinCenters(bins, kMin, kMax)
		if err != nil {
			Te.Fatal(err)
		}
		if len(centers) != bins {
			Te.Fatalf("expected %d centers, got %d", bins, len(centers))
		}
		delta := (kMax - kMin) / float64(bins)
		if math.Abs(centers[0]-(kMin+delta/2)) > 1e-12 {
			Te.Errorf("first center: got %v want %v", centers[0], kMin+delta/2)
		}
		if centers[bins-1] >= kMax {
			Te.Errorf("last center %v reaches kMax %v", centers[bins-1], kMax)
		}
		for i := 1; i < bins; i++ {
			if centers[i] <= centers[i-1] {
				Te.Errorf("centers not strictly increasing at %d: %v <= %v", i, centers[i], centers[i-1])
			}
		}
	}
	if _, err := KBinCenters(0, 0, 10); !scatter.IsKind(err, scatter.InvalidConfiguration) {
		Te.Errorf("zero bins should be rejected, got %v", err)
	}
	if _, err := KBinCenters(10, 5, 5); !scatter.IsKind(err, scatter.InvalidConfiguration) {
		Te.Errorf("kMax equal to kMin should be rejected, got %v", err)
	}
}

func TestConstructorValidation(Te *testing.T) {
	if _, err := NewStaticStructureFactor(100, -1, 0, Direct); !scatter.IsKind(err, scatter.InvalidConfiguration) {
		Te.Errorf("negative kMax should be rejected, got %v", err)
	}
	if _, err := NewStaticStructureFactor(100, 10, -1, Direct); !scatter.IsKind(err, scatter.InvalidConfiguration) {
		Te.Errorf("negative kMin should be rejected, got %v", err)
	}
	if _, err := NewStaticStructureFactor(100, 10, 0, Method(42)); !scatter.IsKind(err, scatter.InvalidConfiguration) {
		Te.Errorf("an unknown method should be rejected, got %v", err)
	}
	if _, err := MethodFromString("fourier"); !scatter.IsKind(err, scatter.InvalidConfiguration) {
		Te.Errorf("an unknown method name should be rejected, got %v", err)
	}
	m, err := MethodFromString("rdf_ft")
	if err != nil || m != RDFFT {
		Te.Errorf("rdf_ft should parse to RDFFT, got %v, %v", m, err)
	}
}

//randomSystem fills a box of edge l with n uniformly distributed particles.
func randomSystem(n int, l float64, rnd *rand.Rand) *mat.Dense {
	data := make([]float64, n*3)
	for i := range data {
		data[i] = rnd.Float64() * l
	}
	return mat.NewDense(n, 3, data)
}

//TestDirectReference checks the Direct method against an independent
//brute-force evaluation of (1/N) sum_ij sinc(q r_ij) over the same bin
//centers.
func TestDirectReference(Te *testing.T) {
	B, err := scatter.NewBox(10, 10, 10)
	if err != nil {
		Te.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(10))
	n := 30
	coords := randomSystem(n, 10, rnd)
	bins := 50
	kMax := 30.0
	S, err := NewStaticStructureFactor(bins, kMax, 0, Direct)
	if err != nil {
		Te.Fatal(err)
	}
	if err := S.Compute(coords, B); err != nil {
		Te.Fatal(err)
	}
	centers := S.BinCenters()
	sk := S.Sk()
	for i, q := range centers {
		var want float64
		for a := 0; a < n; a++ {
			for b := 0; b < n; b++ {
				r := B.MinImageDist(coords.RawRowView(a), coords.RawRowView(b))
				x := q * r
				if x == 0 {
					want++
					continue
				}
				want += math.Sin(x) / x
			}
		}
		want /= float64(n)
		if math.Abs(sk[i]-want) > 1e-4+1e-4*math.Abs(want) {
			Te.Errorf("S(%f): got %v want %v", q, sk[i], want)
		}
	}
	//the first bin center is near zero, where every sinc term approaches 1:
	//S must approach N there for any configuration.
	tiny, err := NewStaticStructureFactor(1, 1e-6, 0, Direct)
	if err != nil {
		Te.Fatal(err)
	}
	if err := tiny.Compute(coords, B); err != nil {
		Te.Fatal(err)
	}
	if got := tiny.Sk()[0]; math.Abs(got-float64(n)) > 1e-4 {
		Te.Errorf("S(k->0) should approach N=%d, got %v", n, got)
	}
}

//TestRDFFT runs the RDF Fourier transform method and checks the qualitative
//properties it does guarantee: same bin centers as Direct, finite values, and
//a recorded validity bound of 2 pi/r_max. Numerical agreement with Direct is
//a known open point and is deliberately not asserted here.
func TestRDFFT(Te *testing.T) {
	B, err := scatter.NewBox(10, 10, 10)
	if err != nil {
		Te.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(7))
	coords := randomSystem(60, 10, rnd)
	bins := 40
	S, err := NewStaticStructureFactor(bins, 20, 0, RDFFT)
	if err != nil {
		Te.Fatal(err)
	}
	D, err := NewStaticStructureFactor(bins, 20, 0, Direct)
	if err != nil {
		Te.Fatal(err)
	}
	if err := S.Compute(coords, B); err != nil {
		Te.Fatal(err)
	}
	if err := D.Compute(coords, B); err != nil {
		Te.Fatal(err)
	}
	sc := S.BinCenters()
	dc := D.BinCenters()
	for i := range sc {
		if sc[i] != dc[i] {
			Te.Errorf("bin centers differ between methods at %d: %v vs %v", i, sc[i], dc[i])
		}
	}
	sk := S.Sk()
	if len(sk) != bins {
		Te.Fatalf("expected %d S(k) values, got %d", bins, len(sk))
	}
	for i, v := range sk {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			Te.Errorf("S(%f) is not finite: %v", sc[i], v)
		}
	}
	rMax := math.Nextafter(5, 0)
	if want := 2 * math.Pi / rMax; S.MinValidK() != want {
		Te.Errorf("MinValidK: got %v want %v", S.MinValidK(), want)
	}
	if !math.IsInf(D.MinValidK(), 1) {
		Te.Errorf("the Direct method has no validity bound, got %v", D.MinValidK())
	}
}

//TestRecompute checks that a second Compute with a different system fully
//replaces the stored result.
func TestRecompute(Te *testing.T) {
	B, err := scatter.NewBox(6, 6, 6)
	if err != nil {
		Te.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(3))
	S, err := NewStaticStructureFactor(20, 15, 0, Direct)
	if err != nil {
		Te.Fatal(err)
	}
	if err := S.Compute(randomSystem(10, 6, rnd), B); err != nil {
		Te.Fatal(err)
	}
	first := S.Sk()
	if err := S.Compute(randomSystem(25, 6, rnd), B); err != nil {
		Te.Fatal(err)
	}
	second := S.Sk()
	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	if same {
		Te.Error("recomputing with a different system left the result unchanged")
	}
	var empty mat.Dense
	if err := S.Compute(&empty, B); !scatter.IsKind(err, scatter.ShapeMismatch) {
		Te.Errorf("an empty system should be rejected, got %v", err)
	}
}
