/*
 * doc.go, part of goscatter
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

/*Package scatter is the main package of the goscatter library. It provides the
periodic simulation box with minimum-image distance queries, plus the numeric
helpers and the error conventions shared by the analysis engines in the
subpackages.


	**goscatter capabilities**

    Computes the static structure factor S(k) of a periodic system of
	particles, either by brute-force pairwise summation or by Fourier
	transform of the radial distribution function (package diffraction).

    Computes radial distribution functions g(r) for periodic systems
	(package rdf).

    Computes the mean-squared displacement of a trajectory, with an O(F^2)
	direct algorithm and an FFT-based windowed algorithm, and accumulates
	trajectories chunk by chunk (package msd).

    Reads and writes a simple zstd-compressed trajectory format, so long
	trajectories can be streamed into the MSD engine in chunks
	(package traj/ctj).

    Plots the resulting curves to PNG files (package scatterplot).

Coordinates are given as gonum mat.Dense matrices with one row per particle
and exactly 3 columns, and trajectories as slices of such matrices, one per
frame. The engines never write to the coordinate matrices they are given, so
callers may share one set of input matrices among several engines. Each engine
instance, on the other hand, is a single-writer object: concurrent calls on
the same instance must be serialized by the caller, while different instances
are fully independent.
*/
package scatter
