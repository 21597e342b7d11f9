/*
 * msd.go, part of goscatter
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

//Package msd computes mean-squared displacements of particle trajectories.
//Trajectories can be fed to the accumulator in chunks; the result over the
//chunks is the same as over their concatenation. Two algorithms are
//available, selected when the accumulator is built: Direct averages the
//squared displacement over every pair of frames, O(F^2) in the number of
//frames, while Window obtains the same quantity through FFT autocorrelations
//in O(F log F). Window agrees with Direct to within floating-point
//accumulation differences, not bit by bit.
package msd

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"strings"

	scatter "github.com/rmera/goscatter"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// Mode selects the algorithm used to obtain the MSD, fixed when the
// accumulator is built.
type Mode int

const (
	//Window is the FFT-based algorithm, O(F log F) per particle.
	Window Mode = iota
	//Direct is the plain O(F^2) average over frame pairs.
	Direct
)

// ModeFromString returns the Mode named by s ("window" or "direct",
// case-insensitive), or an InvalidConfiguration error for anything else.
func ModeFromString(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "window":
		return Window, nil
	case "direct":
		return Direct, nil
	}
	return 0, Error{scatter.InvalidConfiguration, fmt.Sprintf("unknown MSD mode %q", s), []string{"ModeFromString"}}
}

func (m Mode) String() string {
	if m == Window {
		return "window"
	}
	return "direct"
}

// MSD accumulates trajectory chunks and computes the mean-squared
// displacement over everything accumulated so far, as if the chunks had been
// one contiguous trajectory. The accumulator owns its state exclusively:
// chunks are copied in, so callers may pass read-only buffers and reuse or
// discard them afterwards. A single instance must not be mutated
// concurrently; independent instances are fully independent.
type MSD struct {
	mode   Mode
	nat    int         //particles per frame, 0 while empty
	frames [][]float64 //owned copies, one flat nat*3 slice per frame
	res    []float64
	dirty  bool
	cpus   int
}

// New returns an empty accumulator. If no mode is given, Window is used.
func New(mode ...Mode) (*MSD, error) {
	m := Window
	if len(mode) > 0 {
		m = mode[0]
	}
	if m != Window && m != Direct {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("unknown mode %d", m), []string{"New"}}
	}
	M := new(MSD)
	M.mode = m
	M.cpus = runtime.NumCPU()
	return M, nil
}

// Mode returns the mode the accumulator was built with.
func (M *MSD) Mode() Mode {
	return M.mode
}

// Cpus returns the number of gorutines used by the Direct algorithm and sets
// it, if a valid value is given.
func (M *MSD) Cpus(cpus ...int) int {
	ret := M.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		M.cpus = cpus[0]
	}
	return ret
}

// Accumulate appends a chunk of frames, each an Mx3 matrix with the same
// particle count M as every frame accumulated before, to the internal
// trajectory. The frames are deep-copied and never written to. On any shape
// problem the accumulator is left exactly as it was.
func (M *MSD) Accumulate(chunk []*mat.Dense) error {
	if len(chunk) == 0 {
		return Error{scatter.ShapeMismatch, "a chunk needs at least one frame", []string{"Accumulate"}}
	}
	//Validate everything upfront: no state is touched until the whole
	//chunk is known to be well-formed. The expected particle count comes
	//from earlier chunks or, on an empty accumulator, from the first frame
	//once it has passed its own checks.
	nat := M.nat
	for i, frame := range chunk {
		if frame == nil {
			return Error{scatter.ShapeMismatch, fmt.Sprintf("frame %d is nil", i), []string{"Accumulate"}}
		}
		r, c := frame.Dims()
		if c != 3 {
			return Error{scatter.ShapeMismatch, fmt.Sprintf("frame %d has %d columns, must have 3", i, c), []string{"Accumulate"}}
		}
		if r < 1 {
			return Error{scatter.ShapeMismatch, fmt.Sprintf("frame %d has no particles", i), []string{"Accumulate"}}
		}
		if nat == 0 {
			nat = r
		}
		if r != nat {
			return Error{scatter.ShapeMismatch, fmt.Sprintf("frame %d has %d particles, expected %d", i, r, nat), []string{"Accumulate"}}
		}
	}
	for _, frame := range chunk {
		flat := make([]float64, nat*3)
		for p := 0; p < nat; p++ {
			copy(flat[p*3:p*3+3], frame.RawRowView(p))
		}
		M.frames = append(M.frames, flat)
	}
	M.nat = nat
	M.dirty = true
	return nil
}

// Compute resets the accumulator and accumulates the given chunk, i.e. it
// computes the MSD of that chunk alone.
func (M *MSD) Compute(chunk []*mat.Dense) error {
	M.Reset()
	err := M.Accumulate(chunk)
	if err != nil {
		return errDecorate(err, "Compute")
	}
	return nil
}

// Reset discards all accumulated state, returning the accumulator to the
// state of a freshly built one with the same mode.
func (M *MSD) Reset() {
	M.nat = 0
	M.frames = nil
	M.res = nil
	M.dirty = false
}

// NFrames returns the total number of frames accumulated so far.
func (M *MSD) NFrames() int {
	return len(M.frames)
}

// MSD returns the mean-squared displacement per lag, over all frames
// accumulated so far, averaged over particles and time origins. The slice has
// one element per accumulated frame, and the zero-lag element is identically
// zero. The accumulator state is not affected, so repeated calls between
// Accumulates return the same values. On an empty accumulator it returns nil.
func (M *MSD) MSD() []float64 {
	if len(M.frames) == 0 {
		return nil
	}
	if M.dirty {
		if M.mode == Direct {
			M.res = M.direct()
		} else {
			M.res = M.window()
		}
		M.res[0] = 0 //held exactly, whatever the accumulation path
		M.dirty = false
	}
	ret := make([]float64, len(M.res))
	copy(ret, M.res)
	return ret
}

//direct evaluates, for every lag m, the squared displacement averaged over
//all valid time origins and all particles. The lags are split among workers,
//each writing only to its own slots of the result.
func (M *MSD) direct() []float64 {
	f := len(M.frames)
	res := make([]float64, f)
	cpus := M.cpus
	if cpus > f {
		cpus = f
	}
	chunk := f / cpus
	ended := make(chan bool, cpus)
	for w := 0; w < cpus; w++ {
		begin := w * chunk
		end := begin + chunk
		if w == cpus-1 {
			end = f
		}
		go func(begin, end int) {
			for m := begin; m < end; m++ {
				if m == 0 {
					continue
				}
				var sum float64
				for t := 0; t+m < f; t++ {
					a := M.frames[t]
					b := M.frames[t+m]
					for i, v := range a {
						d := b[i] - v
						sum += d * d
					}
				}
				res[m] = sum / float64((f-m)*M.nat)
			}
			ended <- true
		}(begin, end)
	}
	for w := 0; w < cpus; w++ {
		<-ended
	}
	return res
}

//window evaluates the same average through the two-term decomposition
//MSD(m) = S1(m) - 2 S2(m), where S1 comes from a running sum over the squared
//norms and S2 is the position autocorrelation, computed with zero-padded FFTs
//so the cyclic transform yields the linear correlation. Everything operates
//on buffers owned by the accumulator.
func (M *MSD) window() []float64 {
	f := len(M.frames)
	res := make([]float64, f)
	if f == 1 {
		return res
	}
	fft := fourier.NewCmplxFFT(2 * f)
	pad := make([]complex128, 2*f)
	acc := make([]complex128, 2*f)
	d := make([]float64, f)
	for p := 0; p < M.nat; p++ {
		for i := range acc {
			acc[i] = 0
		}
		for t, frame := range M.frames {
			x := frame[p*3]
			y := frame[p*3+1]
			z := frame[p*3+2]
			d[t] = x*x + y*y + z*z
		}
		//One zero-padded transform per axis; the conjugate products add up
		//to the autocorrelation of the position vector.
		for k := 0; k < 3; k++ {
			for t := 0; t < f; t++ {
				pad[t] = complex(M.frames[t][p*3+k], 0)
			}
			for t := f; t < 2*f; t++ {
				pad[t] = 0
			}
			fft.Coefficients(pad, pad)
			for i, v := range pad {
				acc[i] += v * cmplx.Conj(v)
			}
		}
		fft.Sequence(acc, acc)
		norm := 1 / float64(2*f) //the inverse transform is unnormalized
		var q float64
		for _, v := range d {
			q += 2 * v
		}
		for m := 0; m < f; m++ {
			if m > 0 {
				q -= d[m-1] + d[f-m]
			}
			origins := float64(f - m)
			s1 := q / origins
			s2 := real(acc[m]) * norm / origins
			res[m] += s1 - 2*s2
		}
	}
	for m := range res {
		res[m] /= float64(M.nat)
	}
	return res
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
	return fmt.Sprintf("goscatter/msd: %s: %s", err.kind, err.message)
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
