/*
 * ctj_test.go, part of goscatter
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

package ctj

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	scatter "github.com/rmera/goscatter"
	"gonum.org/v1/gonum/mat"
)

func TestReadWrite(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "sample.ctj")
	box, err := scatter.NewBox(12, 12, 24)
	if err != nil {
		Te.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(2))
	nframes, natoms := 7, 5
	written := make([]*mat.Dense, nframes)
	w, err := NewWriter(name, natoms, box)
	if err != nil {
		Te.Fatal(err)
	}
	for i := range written {
		data := make([]float64, natoms*3)
		for j := range data {
			data[j] = rnd.Float64() * 12
		}
		written[i] = mat.NewDense(natoms, 3, data)
		if err := w.WNext(written[i]); err != nil {
			Te.Fatal(err)
		}
	}
	w.Close()

	r, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	if r.Len() != natoms {
		Te.Fatalf("expected %d atoms, got %d", natoms, r.Len())
	}
	if r.Box() == nil || r.Box().Volume() != box.Volume() {
		Te.Fatalf("box not recovered from the header: %v", r.Box())
	}
	got := mat.NewDense(natoms, 3, nil)
	for i := 0; i < nframes; i++ {
		if err := r.Next(got); err != nil {
			Te.Fatalf("frame %d: %v", i, err)
		}
		for p := 0; p < natoms; p++ {
			for k := 0; k < 3; k++ {
				if math.Abs(got.At(p, k)-written[i].At(p, k)) > 1e-12 {
					Te.Errorf("frame %d atom %d: got %v want %v", i, p, got.At(p, k), written[i].At(p, k))
				}
			}
		}
	}
	err = r.Next(got)
	if _, ok := err.(scatter.LastFrameError); !ok {
		Te.Errorf("expected a LastFrameError at the end, got %v", err)
	}
	if r.Readable() {
		Te.Error("the handle should be closed after the last frame")
	}
}

func TestNextChunk(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "chunks.ctj")
	natoms, nframes := 3, 10
	w, err := NewWriter(name, natoms, nil)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < nframes; i++ {
		data := make([]float64, natoms*3)
		for j := range data {
			data[j] = float64(i)
		}
		if err := w.WNext(mat.NewDense(natoms, 3, data)); err != nil {
			Te.Fatal(err)
		}
	}
	w.Close()
	r, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	if r.Box() != nil {
		Te.Error("this trajectory should not carry a box")
	}
	total := 0
	for {
		chunk, err := r.NextChunk(4)
		total += len(chunk)
		if err != nil {
			if _, ok := err.(scatter.LastFrameError); !ok {
				Te.Fatal(err)
			}
			break
		}
	}
	if total != nframes {
		Te.Errorf("read %d frames in chunks, expected %d", total, nframes)
	}
}

func TestWriteValidation(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bad.ctj")
	w, err := NewWriter(name, 4, nil)
	if err != nil {
		Te.Fatal(err)
	}
	defer w.Close()
	wrong := mat.NewDense(3, 3, nil)
	if err := w.WNext(wrong); !scatter.IsKind(err, scatter.ShapeMismatch) {
		Te.Errorf("a frame with the wrong atom count should be rejected, got %v", err)
	}
	if err := w.WNext(nil); !scatter.IsKind(err, scatter.ShapeMismatch) {
		Te.Errorf("a nil frame should be rejected, got %v", err)
	}
	if _, err := NewWriter(filepath.Join(Te.TempDir(), "zero.ctj"), 0, nil); !scatter.IsKind(err, scatter.InvalidConfiguration) {
		Te.Errorf("zero atoms should be rejected, got %v", err)
	}
}

//writeRawCtj writes a compressed file with the given header lines, bypassing
//the writer's own validation, to exercise the reader against corrupt input.
func writeRawCtj(Te *testing.T, name string, header string) {
	f, err := os.Create(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	enc, err := zstd.NewWriter(f)
	if err != nil {
		Te.Fatal(err)
	}
	defer enc.Close()
	if _, err := enc.Write([]byte(header)); err != nil {
		Te.Fatal(err)
	}
}

func TestCorruptHeader(Te *testing.T) {
	for _, header := range []string{"** 0\n", "** -2\n"} {
		name := filepath.Join(Te.TempDir(), "corrupt.ctj")
		writeRawCtj(Te, name, header)
		if _, err := New(name); !scatter.IsKind(err, scatter.InvalidConfiguration) {
			Te.Errorf("header %q should be rejected on open, got %v", header, err)
		}
	}
}
