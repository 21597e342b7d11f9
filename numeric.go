/*
 * numeric.go, part of goscatter
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

import "math"

// Sinc returns sin(x)/x, i.e. the normalized sinc function sinc(y)=sin(πy)/(πy)
// evaluated at y=x/π, which is the convention the structure-factor kernels
// need: they call Sinc(k*r) directly. Near zero the quotient is replaced by
// its series expansion to avoid the 0/0 indetermination and the loss of
// precision of the direct division.
func Sinc(x float64) float64 {
	if math.Abs(x) < 1e-4 {
		x2 := x * x
		return 1 - x2/6 + (x2*x2)/120
	}
	return math.Sin(x) / x
}
