// Package geometry converts between backbone internal coordinates
// (torsion and bond angles) and 3D Cartesian coordinates.
//
// The two kernels are Dihedral, which measures the torsion defined by
// four consecutive atoms, and PlaceDihedral, which inverts it: given
// three placed atoms plus a bond length, bond angle and torsion it
// returns the position of the fourth atom (NeRF placement). Both are
// deterministic; there is no randomness anywhere in this package.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Dihedral returns the torsion angle of the bond b-c, defined by the
// four atoms a, b, c, d. The result lies in [-pi, pi) and is the exact
// inverse of PlaceDihedral: placing d from (a, b, c) with torsion phi
// and measuring Dihedral(a, b, c, d) recovers phi.
func Dihedral(a, b, c, d r3.Vec) float64 {
	b0 := r3.Sub(a, b)
	b1 := r3.Unit(r3.Sub(c, b))
	b2 := r3.Sub(d, c)

	// Project b0 and b2 onto the plane perpendicular to b1.
	v := r3.Sub(b0, r3.Scale(r3.Dot(b0, b1), b1))
	w := r3.Sub(b2, r3.Scale(r3.Dot(b2, b1), b1))

	x := r3.Dot(v, w)
	y := r3.Dot(r3.Cross(b1, v), w)
	return math.Atan2(y, x)
}

// BondAngle returns the angle at b formed by atoms a, b, c, in [0, pi].
func BondAngle(a, b, c r3.Vec) float64 {
	u := r3.Unit(r3.Sub(a, b))
	w := r3.Unit(r3.Sub(c, b))
	cos := r3.Dot(u, w)
	// Guard against rounding slightly past the acos domain.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// PlaceDihedral returns the position of atom d such that the series
// a, b, c, d satisfies the given bond angle (at c), bond length (c-d)
// and torsion angle (around b-c).
func PlaceDihedral(a, b, c r3.Vec, bondAngle, bondLength, torsion float64) r3.Vec {
	ab := r3.Sub(b, a)
	bc := r3.Unit(r3.Sub(c, b))
	n := r3.Unit(r3.Cross(ab, bc))
	nbc := r3.Cross(n, bc)

	d := r3.Scale(-bondLength*math.Cos(bondAngle), bc)
	d = r3.Add(d, r3.Scale(bondLength*math.Cos(torsion)*math.Sin(bondAngle), nbc))
	d = r3.Add(d, r3.Scale(bondLength*math.Sin(torsion)*math.Sin(bondAngle), n))
	return r3.Add(c, d)
}
