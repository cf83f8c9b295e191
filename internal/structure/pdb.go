package structure

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/amrhamedp/foldingdiff/internal/geometry"
)

// Residue name placeholder. Generated backbones have no sequence yet;
// downstream inverse-folding tools assign one.
const placeholderResidue = "ALA"

// WritePDB emits the record in standard PDB ATOM convention: four
// backbone atoms per residue, one chain, placeholder residue names.
// The output is consumed verbatim by external visualization and
// folding tools.
func WritePDB(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "REMARK 250 GENERATED BACKBONE SEQ %d TIMESTEP %d\n", rec.Sequence, rec.Timestep)

	serial := 1
	writeAtom := func(name string, pos r3.Vec, resSeq int) {
		element := name[:1]
		fmt.Fprintf(bw, "ATOM  %5d  %-3s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			serial, name, placeholderResidue, rec.Chain, resSeq, pos.X, pos.Y, pos.Z, 1.0, 0.0, element)
		serial++
	}
	for i, res := range rec.Residues {
		resSeq := i + 1
		writeAtom("N", res.N, resSeq)
		writeAtom("CA", res.CA, resSeq)
		writeAtom("C", res.C, resSeq)
		writeAtom("O", res.O, resSeq)
	}
	fmt.Fprintf(bw, "TER   %5d      %3s %1s%4d\n", serial, placeholderResidue, rec.Chain, len(rec.Residues))
	fmt.Fprintln(bw, "END")
	return bw.Flush()
}

// ReadPDB parses backbone atoms (N, CA, C, O) out of PDB ATOM records.
// Other atoms and record types are skipped. Residues are keyed by
// residue sequence number in order of first appearance.
func ReadPDB(r io.Reader) (*Record, error) {
	rec := &Record{Chain: "A"}
	index := make(map[int]int) // resSeq -> position in rec.Residues

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if !strings.HasPrefix(text, "ATOM") {
			continue
		}
		if len(text) < 54 {
			return nil, fmt.Errorf("pdb: line %d: truncated ATOM record", line)
		}
		name := strings.TrimSpace(text[12:16])
		switch name {
		case "N", "CA", "C", "O":
		default:
			continue
		}
		resSeq, err := strconv.Atoi(strings.TrimSpace(text[22:26]))
		if err != nil {
			return nil, fmt.Errorf("pdb: line %d: bad residue number: %w", line, err)
		}
		var pos r3.Vec
		for off, dst := range map[int]*float64{30: &pos.X, 38: &pos.Y, 46: &pos.Z} {
			v, err := strconv.ParseFloat(strings.TrimSpace(text[off:off+8]), 64)
			if err != nil {
				return nil, fmt.Errorf("pdb: line %d: bad coordinate: %w", line, err)
			}
			*dst = v
		}
		if chain := strings.TrimSpace(text[21:22]); chain != "" {
			rec.Chain = chain
		}

		i, ok := index[resSeq]
		if !ok {
			i = len(rec.Residues)
			index[resSeq] = i
			rec.Residues = append(rec.Residues, Residue{})
		}
		switch name {
		case "N":
			rec.Residues[i].N = pos
		case "CA":
			rec.Residues[i].CA = pos
		case "C":
			rec.Residues[i].C = pos
		case "O":
			rec.Residues[i].O = pos
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("pdb: %w", err)
	}
	return rec, nil
}

// Backbone converts the record back to coordinate slices for angle
// measurement (the training-data path: structure file in, angles out).
func (r *Record) Backbone() *geometry.Backbone {
	n := len(r.Residues)
	bb := &geometry.Backbone{
		N:  make([]r3.Vec, n),
		CA: make([]r3.Vec, n),
		C:  make([]r3.Vec, n),
		O:  make([]r3.Vec, n),
	}
	for i, res := range r.Residues {
		bb.N[i], bb.CA[i], bb.C[i], bb.O[i] = res.N, res.CA, res.C, res.O
	}
	return bb
}
