/*
 * errors.go, part of goscatter
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

import "fmt"

//The kinds of failure that the engines in this library report. Every error
//produced by goscatter carries exactly one of these.
const (
	//InvalidConfiguration covers non-positive bin counts, k_max<=k_min,
	//an r_max of at least half the smallest box edge, and unrecognized
	//method or mode names.
	InvalidConfiguration = "invalid configuration"
	//ShapeMismatch covers coordinate matrices without exactly 3 columns,
	//accumulating chunks whose particle count disagrees with previously
	//accumulated ones, and computing on systems with no particles.
	ShapeMismatch = "shape mismatch"
	//NumericalDegeneracy covers boxes with non-positive volume and other
	//situations that leave a method's denominator ill-defined.
	NumericalDegeneracy = "numerical degeneracy"
)

// Error is the interface for errors that all packages in this library implement.
// The Decorate method allows to add and retrieve info from the error, without
// changing its type or wrapping it around something else. Kind returns one of
// the kind constants defined in this package, so callers can tell configuration
// problems from malformed data without parsing messages.
type Error interface {
	Error() string
	Kind() string
	Decorate(string) []string //Adds information when passing the error up. Each call returns the current "decoration" slice of strings. If passed an empty string, it just returns the current value without adding anything.
}

// TrajError is the interface for errors in trajectories.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
}

// LastFrameError has a useless function to distinguish the harmless errors
// (i.e. last frame) so they can be filtered in a typeswitch that looks for
// this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}

// CError implements the Error interface and is the concrete error used by the
// root package. The subpackages define their own equivalents.
type CError struct {
	kind    string
	message string
	deco    []string
}

// NewError returns a CError with the given kind (one of the kind constants of
// this package), message, and the name of the caller as the first decoration.
func NewError(kind, message, caller string) *CError {
	return &CError{kind: kind, message: message, deco: []string{caller}}
}

func (err *CError) Error() string {
	return fmt.Sprintf("goscatter: %s: %s", err.kind, err.message)
}

// Kind returns the kind of the error, one of the kind constants of this package.
func (err *CError) Kind() string { return err.kind }

// Decorate adds new information to the error.
func (err *CError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// IsKind returns true if err implements the Error interface of this library
// and carries the given kind.
func IsKind(err error, kind string) bool {
	e, ok := err.(Error)
	return ok && e.Kind() == kind
}
