// Package angle implements circular-domain arithmetic for backbone
// torsion and bond angles.
//
// Every angle in the diffusion core lives on [-pi, pi). Arithmetic that
// leaves the domain (noise addition, posterior updates, interpolation)
// must be wrapped back through Wrap before the value is stored or
// compared; the rest of the codebase never reasons about unwrapped
// reals.
package angle

import (
	"fmt"
	"math"
)

// Sentinel is the value stored at padded or undefined positions
// (the first phi and the last psi/omega of a chain have no defining
// atoms). It matches the zero-fill the angle exchange format uses.
const Sentinel = 0.0

// Wrap reduces x onto the canonical circular domain [-pi, pi).
// Wrap(pi) == -pi, so the domain is half-open.
func Wrap(x float64) float64 {
	r := math.Mod(x+math.Pi, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r - math.Pi
}

// WrapSlice wraps every element of xs in place and returns xs.
func WrapSlice(xs []float64) []float64 {
	for i, v := range xs {
		xs[i] = Wrap(v)
	}
	return xs
}

// Dist returns the shortest signed circular distance from b to a,
// in [-pi, pi).
func Dist(a, b float64) float64 {
	return Wrap(a - b)
}

// Set identifies which per-residue angle features a model diffuses over.
type Set int

// Supported angle sets.
const (
	// Torsions is the three backbone dihedrals phi, psi, omega.
	Torsions Set = iota
	// Full adds the three backbone bond angles tau (N-CA-C),
	// CA-C-1N and C-1N-1CA, letting reconstruction override the
	// idealized values.
	Full
)

var (
	torsionNames = []string{"phi", "psi", "omega"}
	fullNames    = []string{"phi", "psi", "omega", "tau", "ca_c_1n", "c_1n_1ca"}
)

// Size returns the number of angle features per residue.
func (s Set) Size() int {
	if s == Full {
		return 6
	}
	return 3
}

// Names returns the per-feature column names, in feature order.
func (s Set) Names() []string {
	if s == Full {
		return fullNames
	}
	return torsionNames
}

// String returns the canonical name of the set.
func (s Set) String() string {
	switch s {
	case Torsions:
		return "torsions"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// ParseSet parses a canonical set name as produced by String.
func ParseSet(name string) (Set, error) {
	switch name {
	case "torsions":
		return Torsions, nil
	case "full":
		return Full, nil
	default:
		return 0, fmt.Errorf("unknown angle set %q", name)
	}
}

// Feature indices shared by both sets.
const (
	Phi = iota
	Psi
	Omega
	Tau
	CaC1N
	C1N1Ca
)
