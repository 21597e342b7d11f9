/*
 * sq.go, part of goscatter
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

//Computes the static structure factor of frames of a ctj trajectory, averaged
//over the frames read, and writes it as two-column text (and, if asked, a PNG
//plot). The trajectory header must carry the periodic box.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	scatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/diffraction"
	"github.com/rmera/goscatter/scatterplot"
	"github.com/rmera/goscatter/traj/ctj"
	"gonum.org/v1/gonum/mat"
)

func main() {
	bins := flag.Int("bins", 1000, "number of wavenumber bins")
	kMax := flag.Float64("kmax", 100, "largest wavenumber")
	kMin := flag.Float64("kmin", 0, "smallest wavenumber")
	method := flag.String("method", "direct", "structure factor method: direct or rdf_ft")
	nframes := flag.Int("frames", 1, "number of frames to average over")
	out := flag.String("out", "sq.dat", "output file for the S(k) curve")
	plotname := flag.String("plot", "", "if given, also write a PNG plot with this base name")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("the path of the ctj trajectory must be given as the only argument")
	}
	name := flag.Arg(0)

	me, err := diffraction.MethodFromString(*method)
	if err != nil {
		log.Fatal(err)
	}
	sf, err := diffraction.NewStaticStructureFactor(*bins, *kMax, *kMin, me)
	if err != nil {
		log.Fatal(err)
	}
	traj, err := ctj.New(name)
	if err != nil {
		log.Fatal(err)
	}
	box := traj.Box()
	if box == nil {
		log.Fatalf("the trajectory %s carries no box information", name)
	}
	coords := mat.NewDense(traj.Len(), 3, nil)
	avg := make([]float64, *bins)
	read := 0
	for i := 0; i < *nframes; i++ {
		if err := traj.Next(coords); err != nil {
			if _, ok := err.(scatter.LastFrameError); ok {
				break
			}
			log.Fatal(err)
		}
		if err := sf.Compute(coords, box); err != nil {
			log.Fatal(err)
		}
		for j, v := range sf.Sk() {
			avg[j] += v
		}
		read++
	}
	if read == 0 {
		log.Fatal("the trajectory contained no frames")
	}
	for j := range avg {
		avg[j] /= float64(read)
	}
	log.Printf("S(k) of `%s` averaged over %d frame(s), %s method\n", name, read, me)
	centers := sf.BinCenters()
	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	for i, v := range avg {
		fmt.Fprintln(f, centers[i], v)
	}
	f.Close()
	if *plotname != "" {
		if err := scatterplot.Curve(centers, avg, "Static structure factor", "k", "S(k)", *plotname); err != nil {
			log.Fatal(err)
		}
	}
	log.Println("Done")
}
