/*
 * ctj.go, part of goscatter
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

//Package ctj reads and writes the ctj ("compressed trajectory") format: a
//zstd-compressed text stream with a small key=value header ending in a
//"** natoms" line, one "x y z" line per particle per frame, and a "*" line
//closing each frame. If the system is periodic the box edges are stored in
//the header as box=lx ly lz. The format exists so long trajectories can be
//streamed into the analysis engines chunk by chunk without holding everything
//in memory.
package ctj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	scatter "github.com/rmera/goscatter"
	"gonum.org/v1/gonum/mat"
)

//Write!

// CtjW writes a ctj trajectory. Use NewWriter.
type CtjW struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
}

// NewWriter creates the file name and returns a handle that will accept
// frames of natoms particles. box may be nil for a non-periodic trajectory.
func NewWriter(name string, natoms int, box *scatter.Box) (*CtjW, error) {
	if natoms <= 0 {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("natoms must be positive, got %d", natoms), name, []string{"NewWriter"}, true}
	}
	S := new(CtjW)
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{scatter.InvalidConfiguration, err.Error(), name, []string{"NewWriter"}, true}
	}
	S.h, err = zstd.NewWriter(S.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		S.f.Close()
		return nil, Error{scatter.InvalidConfiguration, "can't build the compressor: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.natoms = natoms
	S.filename = name
	S.writeable = true
	if box != nil {
		l := box.L()
		fmt.Fprintf(S.h, "box=%g %g %g\n", l[0], l[1], l[2])
	}
	fmt.Fprintf(S.h, "** %d\n", S.natoms)
	return S, nil
}

// WNext writes the next frame of the trajectory. coord must be natoms x 3 and
// is never written to.
func (S *CtjW) WNext(coord *mat.Dense) error {
	if !S.writeable {
		return Error{scatter.InvalidConfiguration, "trajectory not open for writing", S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{scatter.ShapeMismatch, "given nil coordinates", S.filename, []string{"WNext"}, true}
	}
	r, c := coord.Dims()
	if r != S.natoms || c != 3 {
		return Error{scatter.ShapeMismatch, fmt.Sprintf("%dx%d coordinates given, %dx3 expected", r, c, S.natoms), S.filename, []string{"WNext"}, true}
	}
	for i := 0; i < r; i++ {
		v := coord.RawRowView(i)
		fmt.Fprintf(S.h, "%g %g %g\n", v[0], v[1], v[2])
	}
	S.h.Write([]byte("*\n"))
	return nil
}

// Len returns the number of atoms in each frame of the trajectory.
func (S *CtjW) Len() int {
	return S.natoms
}

// Close flushes and closes the trajectory. The handle cannot be used after
// this call.
func (S *CtjW) Close() {
	if S == nil || !S.writeable {
		return
	}
	S.h.Close()
	S.f.Close()
	S.writeable = false
}

//Read!

// CtjR reads a ctj trajectory. Use New.
type CtjR struct {
	f        *os.File
	dec      *zstd.Decoder
	h        *bufio.Reader
	natoms   int
	box      *scatter.Box
	filename string
	readable bool
}

// New opens a ctj trajectory for reading, parsing the header up to and
// including the atom count line.
func New(name string) (*CtjR, error) {
	S := new(CtjR)
	S.natoms = -1 //just so we know if things don't work
	S.filename = name
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, Error{scatter.InvalidConfiguration, err.Error(), name, []string{"New"}, true}
	}
	S.dec, err = zstd.NewReader(bufio.NewReader(S.f))
	if err != nil {
		S.f.Close()
		return nil, Error{scatter.InvalidConfiguration, "can't build the decompressor: " + err.Error(), name, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.Close()
			return nil, Error{scatter.InvalidConfiguration, "can't read header: " + err.Error(), name, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			fields := strings.Fields(str)
			if len(fields) < 2 {
				S.Close()
				return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("can't read atom number from %q", str), name, []string{"New"}, true}
			}
			S.natoms, err = strconv.Atoi(fields[1])
			if err != nil {
				S.Close()
				return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("can't read atom number from %q: %s", fields[1], err.Error()), name, []string{"New"}, true}
			}
			if S.natoms < 1 {
				S.Close()
				return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("the trajectory declares %d atoms, need at least 1", S.natoms), name, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			S.Close()
			return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("malformed header line %q", str), name, []string{"New"}, true}
		}
		if kv[0] == "box" {
			S.box, err = parseBox(kv[1])
			if err != nil {
				S.Close()
				return nil, errDecorate(err, "New "+name)
			}
		}
		//unknown keys are allowed, for forward compatibility
	}
	S.readable = true
	return S, nil
}

func parseBox(s string) (*scatter.Box, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("a box needs 3 edges, got %q", s), "", []string{"parseBox"}, true}
	}
	var l [3]float64
	for i, v := range fields {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("can't parse box edge %q: %s", v, err.Error()), "", []string{"parseBox"}, true}
		}
		l[i] = f
	}
	box, err := scatter.NewBox(l[0], l[1], l[2])
	if err != nil {
		return nil, errDecorate(err, "parseBox")
	}
	return box, nil
}

// Readable returns true if it is possible to call Next on the handle.
func (S *CtjR) Readable() bool {
	return S.readable
}

// Len returns the number of atoms in each frame of the trajectory.
func (S *CtjR) Len() int {
	return S.natoms
}

// Box returns the periodic box from the trajectory header, or nil if the
// header carried none.
func (S *CtjR) Box() *scatter.Box {
	return S.box
}

// Next puts the coordinates of the next frame in c, which must be natoms x 3.
// A nil c skips the frame, still checking it for correctness. At the end of
// the trajectory Next closes the handle and returns a LastFrameError.
func (S *CtjR) Next(c *mat.Dense) error {
	if !S.readable {
		return Error{scatter.InvalidConfiguration, "trajectory not open for reading", S.filename, []string{"Next"}, true}
	}
	if c != nil {
		r, cols := c.Dims()
		if r != S.natoms || cols != 3 {
			return Error{scatter.ShapeMismatch, fmt.Sprintf("%dx%d destination given, %dx3 needed", r, cols, S.natoms), S.filename, []string{"Next"}, true}
		}
	}
	for i := 0; i < S.natoms; i++ {
		str, err := S.h.ReadString('\n')
		if err != nil {
			//EOF can only legitimately happen before the first atom.
			if err == io.EOF && i == 0 {
				S.Close()
				return newLastFrameError(S.filename, "Next")
			}
			return Error{scatter.ShapeMismatch, "truncated frame: " + err.Error(), S.filename, []string{"Next"}, true}
		}
		fields := strings.Fields(str)
		if len(fields) != 3 {
			return Error{scatter.ShapeMismatch, fmt.Sprintf("ill-formed coordinate line %q", strings.TrimSuffix(str, "\n")), S.filename, []string{"Next"}, true}
		}
		for j, v := range fields {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Error{scatter.ShapeMismatch, fmt.Sprintf("can't parse coordinate %q: %s", v, err.Error()), S.filename, []string{"Next"}, true}
			}
			if c != nil {
				c.Set(i, j, f)
			}
		}
	}
	str, err := S.h.ReadString('\n')
	if err != nil || !strings.HasPrefix(str, "*") {
		return Error{scatter.ShapeMismatch, "missing frame termination mark", S.filename, []string{"Next"}, true}
	}
	return nil
}

// NextChunk reads up to frames frames and returns them as freshly allocated
// matrices, ready for msd.MSD.Accumulate. If the trajectory ends first, the
// frames read so far are returned together with the LastFrameError; a caller
// accumulating chunk by chunk should keep whatever it got and then stop.
func (S *CtjR) NextChunk(frames int) ([]*mat.Dense, error) {
	if frames <= 0 {
		return nil, Error{scatter.InvalidConfiguration, fmt.Sprintf("chunk size must be positive, got %d", frames), S.filename, []string{"NextChunk"}, true}
	}
	var ret []*mat.Dense
	for i := 0; i < frames; i++ {
		c := mat.NewDense(S.natoms, 3, nil)
		if err := S.Next(c); err != nil {
			if _, ok := err.(scatter.LastFrameError); ok {
				return ret, err
			}
			return nil, errDecorate(err, "NextChunk")
		}
		ret = append(ret, c)
	}
	return ret, nil
}

// Close closes the handle and marks it unreadable.
func (S *CtjR) Close() {
	if S == nil || S.f == nil {
		return
	}
	if S.dec != nil {
		S.dec.Close() //zstd decoders don't return a Close error
	}
	S.f.Close()
	S.readable = false
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

// Error is the general structure for ctj trajectory errors. It fulfills
// scatter.Error and scatter.TrajError.
type Error struct {
	kind     string
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("ctj file %s: %s: %s", err.filename, err.kind, err.message)
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

// FileName returns the file to which the failing trajectory was associated.
func (err Error) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

//lastFrameError implements scatter.LastFrameError.
type lastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing, it only marks the type.
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Kind() string { return "" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newLastFrameError(filename, caller string) lastFrameError {
	return lastFrameError{fileName: filename, deco: []string{caller}}
}
