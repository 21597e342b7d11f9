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

//Computes the mean-squared displacement of a ctj trajectory, accumulating it
//chunk by chunk so arbitrarily long trajectories fit in memory, and writes
//the curve as two-column text (and, if asked, a PNG plot).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	scatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/msd"
	"github.com/rmera/goscatter/scatterplot"
	"github.com/rmera/goscatter/traj/ctj"
)

func main() {
	mode := flag.String("mode", "window", "MSD algorithm: window or direct")
	chunk := flag.Int("chunk", 100, "frames accumulated per read")
	dt := flag.Float64("dt", 1.0, "time between frames, in whatever unit the output should use")
	out := flag.String("out", "msd.dat", "output file for the MSD curve")
	plotname := flag.String("plot", "", "if given, also write a PNG plot with this base name")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("the path of the ctj trajectory must be given as the only argument")
	}
	name := flag.Arg(0)

	m, err := msd.ModeFromString(*mode)
	if err != nil {
		log.Fatal(err)
	}
	acc, err := msd.New(m)
	if err != nil {
		log.Fatal(err)
	}
	traj, err := ctj.New(name)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Reading `%s` (%d atoms) in chunks of %d frames\n", name, traj.Len(), *chunk)
	for {
		frames, err := traj.NextChunk(*chunk)
		if len(frames) > 0 {
			if err2 := acc.Accumulate(frames); err2 != nil {
				log.Fatal(err2)
			}
		}
		if err != nil {
			if _, ok := err.(scatter.LastFrameError); ok {
				break
			}
			log.Fatal(err)
		}
	}
	log.Printf("Accumulated %d frames, computing the %s MSD\n", acc.NFrames(), acc.Mode())
	res := acc.MSD()
	if res == nil {
		log.Fatal("the trajectory contained no frames")
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	for i, v := range res {
		fmt.Fprintln(f, float64(i)*(*dt), v)
	}
	f.Close()
	if *plotname != "" {
		if err := scatterplot.MSDCurve(acc, *dt, "Mean-squared displacement", *plotname); err != nil {
			log.Fatal(err)
		}
	}
	log.Println("Done")
}
