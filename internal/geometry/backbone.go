package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/amrhamedp/foldingdiff/internal/angle"
)

// Geometry holds the fixed bond lengths and idealized bond angles used
// during NeRF reconstruction. Torsions always come from the angle
// sequence; bond angles come from the sequence only when it carries
// the full angle set, otherwise the idealized values below apply.
type Geometry struct {
	// Backbone bond lengths, in angstroms.
	BondCN  float64 // C(i-1)-N(i)
	BondNCA float64 // N-CA
	BondCAC float64 // CA-C

	// Idealized backbone bond angles, in radians.
	AngleCACN float64 // CA-C-N, at the carbonyl carbon
	AngleCNCA float64 // C-N-CA, at the amide nitrogen
	AngleNCAC float64 // N-CA-C, at the alpha carbon (tau)

	// Carbonyl oxygen placement.
	BondCO    float64 // C-O
	AngleCACO float64 // CA-C-O

	// Init seeds the first residue's N, CA, C positions. Defaults to
	// the corresponding atoms of residue 1 of 1CRN.
	Init [3]r3.Vec
}

// Default returns the canonical idealized backbone geometry.
func Default() *Geometry {
	return &Geometry{
		BondCN:    1.34,
		BondNCA:   1.46,
		BondCAC:   1.54,
		AngleCACN: 115.0 / 180.0 * math.Pi,
		AngleCNCA: 121.0 / 180.0 * math.Pi,
		AngleNCAC: 109.0 / 180.0 * math.Pi,
		BondCO:    1.23,
		AngleCACO: 120.5 / 180.0 * math.Pi,
		Init: [3]r3.Vec{
			{X: 17.047, Y: 14.099, Z: 3.625},
			{X: 16.967, Y: 12.784, Z: 4.338},
			{X: 15.685, Y: 12.755, Z: 5.133},
		},
	}
}

// Backbone holds the reconstructed backbone atom positions, one entry
// per residue in each slice.
type Backbone struct {
	N  []r3.Vec
	CA []r3.Vec
	C  []r3.Vec
	O  []r3.Vec
}

// Len returns the number of residues.
func (b *Backbone) Len() int { return len(b.CA) }

// AnglesToBackbone reconstructs Cartesian backbone coordinates from an
// angle sequence by sequential NeRF placement. Only the leading valid
// positions of the sequence are built; padding never reaches geometry.
//
// The first residue sits at g.Init. Residue r (r >= 1) is then placed
// atom by atom: N from psi(r-1), CA from omega(r-1), C from phi(r).
// The carbonyl oxygen of residue r is placed off psi(r) + pi.
//
// A zero-length sequence returns an empty backbone. Any NaN among the
// used angles fails with a *GeometryError before anything is placed.
func AnglesToBackbone(seq *angle.Sequence, g *Geometry) (*Backbone, error) {
	if g == nil {
		g = Default()
	}
	n := seq.ValidLen()
	if n == 0 {
		return &Backbone{}, nil
	}

	k := seq.Set().Size()
	for r := 0; r < n; r++ {
		for f := 0; f < k; f++ {
			if math.IsNaN(seq.At(r, f)) {
				return nil, &GeometryError{Op: "AnglesToBackbone", Residue: r, Err: ErrNaNInput}
			}
		}
	}

	bb := &Backbone{
		N:  make([]r3.Vec, n),
		CA: make([]r3.Vec, n),
		C:  make([]r3.Vec, n),
		O:  make([]r3.Vec, n),
	}
	bb.N[0], bb.CA[0], bb.C[0] = g.Init[0], g.Init[1], g.Init[2]

	full := seq.Set() == angle.Full
	for r := 1; r < n; r++ {
		caCN, cNCA, tau := g.AngleCACN, g.AngleCNCA, g.AngleNCAC
		if full {
			caCN = seq.At(r-1, angle.CaC1N)
			cNCA = seq.At(r-1, angle.C1N1Ca)
			tau = seq.At(r, angle.Tau)
		}
		bb.N[r] = PlaceDihedral(bb.N[r-1], bb.CA[r-1], bb.C[r-1], caCN, g.BondCN, seq.At(r-1, angle.Psi))
		bb.CA[r] = PlaceDihedral(bb.CA[r-1], bb.C[r-1], bb.N[r], cNCA, g.BondNCA, seq.At(r-1, angle.Omega))
		bb.C[r] = PlaceDihedral(bb.C[r-1], bb.N[r], bb.CA[r], tau, g.BondCAC, seq.At(r, angle.Phi))
	}
	for r := 0; r < n; r++ {
		// O-C-CA-N dihedral is psi rotated half a turn. The final
		// residue has no psi; its sentinel yields a trans carbonyl.
		torsion := angle.Wrap(seq.At(r, angle.Psi) + math.Pi)
		bb.O[r] = PlaceDihedral(bb.N[r], bb.CA[r], bb.C[r], g.AngleCACO, g.BondCO, torsion)
	}
	return bb, nil
}

// BackboneToAngles measures torsion (and, for the full set, bond)
// angles from backbone coordinates. Positions outside the mask, and
// positions whose defining atoms fall outside it, hold angle.Sentinel.
// A nil mask marks every residue valid.
//
// Fails with *GeometryError when fewer than two residues are present
// (no dihedral can be defined from fewer than four atoms) or when any
// coordinate is NaN.
func BackboneToAngles(bb *Backbone, set angle.Set, mask []bool) (*angle.Sequence, error) {
	n := bb.Len()
	if n < 2 {
		return nil, &GeometryError{Op: "BackboneToAngles", Residue: -1, Err: ErrInsufficientAtoms}
	}
	if mask == nil {
		mask = make([]bool, n)
		for i := range mask {
			mask[i] = true
		}
	} else if len(mask) != n {
		return nil, &GeometryError{Op: "BackboneToAngles", Residue: -1, Err: ErrMaskLength}
	}
	for r := 0; r < n; r++ {
		if !mask[r] {
			continue
		}
		for _, v := range []r3.Vec{bb.N[r], bb.CA[r], bb.C[r]} {
			if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
				return nil, &GeometryError{Op: "BackboneToAngles", Residue: r, Err: ErrNaNInput}
			}
		}
	}

	seq := angle.NewSequence(set, n)
	copy(seq.Mask(), mask)
	full := set == angle.Full
	for r := 0; r < n; r++ {
		if !mask[r] {
			continue
		}
		if r > 0 && mask[r-1] {
			seq.SetAt(Dihedral(bb.C[r-1], bb.N[r], bb.CA[r], bb.C[r]), r, angle.Phi)
		}
		if r < n-1 && mask[r+1] {
			seq.SetAt(Dihedral(bb.N[r], bb.CA[r], bb.C[r], bb.N[r+1]), r, angle.Psi)
			seq.SetAt(Dihedral(bb.CA[r], bb.C[r], bb.N[r+1], bb.CA[r+1]), r, angle.Omega)
		}
		if full {
			seq.SetAt(BondAngle(bb.N[r], bb.CA[r], bb.C[r]), r, angle.Tau)
			if r < n-1 && mask[r+1] {
				seq.SetAt(BondAngle(bb.CA[r], bb.C[r], bb.N[r+1]), r, angle.CaC1N)
				seq.SetAt(BondAngle(bb.C[r], bb.N[r+1], bb.CA[r+1]), r, angle.C1N1Ca)
			}
		}
	}
	return seq, nil
}
