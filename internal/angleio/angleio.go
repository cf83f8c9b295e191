// Package angleio reads and writes the tabular angle exchange format:
// one row per residue, one column per angle feature, plus sequence and
// timestep identifiers. Files are gzip-compressed CSV; both training
// data and sampling output travel through this boundary.
package angleio

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/diffusion"
)

// fixed leading columns before the per-feature angle columns.
var idColumns = []string{"sequence_id", "timestep", "residue"}

// SequenceRecord pairs an angle sequence with its identifiers.
type SequenceRecord struct {
	ID       uuid.UUID
	Timestep int
	Angles   *angle.Sequence
}

// Write emits the records as gzip-compressed CSV. Only valid positions
// are written; padding never reaches disk.
func Write(w io.Writer, set angle.Set, records []SequenceRecord) error {
	gz := gzip.NewWriter(w)
	cw := csv.NewWriter(gz)

	header := append(append([]string{}, idColumns...), set.Names()...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("angleio: write header: %w", err)
	}

	k := set.Size()
	row := make([]string, len(header))
	for _, rec := range records {
		if rec.Angles.Set() != set {
			return fmt.Errorf("angleio: record %s carries angle set %s, file is %s", rec.ID, rec.Angles.Set(), set)
		}
		for r := 0; r < rec.Angles.Len(); r++ {
			if !rec.Angles.Valid(r) {
				continue
			}
			row[0] = rec.ID.String()
			row[1] = strconv.Itoa(rec.Timestep)
			row[2] = strconv.Itoa(r)
			for f := 0; f < k; f++ {
				row[3+f] = strconv.FormatFloat(rec.Angles.At(r, f), 'g', -1, 64)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("angleio: write row: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("angleio: flush: %w", err)
	}
	return gz.Close()
}

// Read parses a file written by Write. The angle set is inferred from
// the header columns; rows belonging to the same (sequence, timestep)
// pair are grouped, in file order, into one record each.
func Read(r io.Reader) (angle.Set, []SequenceRecord, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return 0, nil, fmt.Errorf("angleio: open gzip: %w", err)
	}
	defer gz.Close()
	cr := csv.NewReader(gz)

	header, err := cr.Read()
	if err != nil {
		return 0, nil, fmt.Errorf("angleio: read header: %w", err)
	}
	set, err := setFromHeader(header)
	if err != nil {
		return 0, nil, err
	}
	k := set.Size()

	type key struct {
		id       uuid.UUID
		timestep int
	}
	var order []key
	rows := make(map[key][][]float64)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, nil, fmt.Errorf("angleio: read row: %w", err)
		}
		id, err := uuid.Parse(row[0])
		if err != nil {
			return 0, nil, fmt.Errorf("angleio: bad sequence id %q: %w", row[0], err)
		}
		timestep, err := strconv.Atoi(row[1])
		if err != nil {
			return 0, nil, fmt.Errorf("angleio: bad timestep %q: %w", row[1], err)
		}
		vals := make([]float64, k)
		for f := 0; f < k; f++ {
			if vals[f], err = strconv.ParseFloat(row[3+f], 64); err != nil {
				return 0, nil, fmt.Errorf("angleio: bad angle %q: %w", row[3+f], err)
			}
		}
		kk := key{id, timestep}
		if _, seen := rows[kk]; !seen {
			order = append(order, kk)
		}
		rows[kk] = append(rows[kk], vals)
	}

	records := make([]SequenceRecord, 0, len(order))
	for _, kk := range order {
		seq := angle.NewSequence(set, len(rows[kk]))
		for r, vals := range rows[kk] {
			for f, v := range vals {
				seq.SetAt(v, r, f)
			}
		}
		records = append(records, SequenceRecord{ID: kk.id, Timestep: kk.timestep, Angles: seq})
	}
	return set, records, nil
}

func setFromHeader(header []string) (angle.Set, error) {
	if len(header) < len(idColumns) {
		return 0, fmt.Errorf("angleio: header too short: %v", header)
	}
	for i, want := range idColumns {
		if header[i] != want {
			return 0, fmt.Errorf("angleio: header column %d is %q, want %q", i, header[i], want)
		}
	}
	for _, set := range []angle.Set{angle.Torsions, angle.Full} {
		names := set.Names()
		if len(header)-len(idColumns) != len(names) {
			continue
		}
		ok := true
		for i, want := range names {
			if header[len(idColumns)+i] != want {
				ok = false
				break
			}
		}
		if ok {
			return set, nil
		}
	}
	return 0, fmt.Errorf("angleio: unrecognized angle columns in header %v", header)
}

// FromTrajectories flattens sampling output into exchange records, one
// per retained snapshot.
func FromTrajectories(trajs []*diffusion.Trajectory) []SequenceRecord {
	var out []SequenceRecord
	for _, tr := range trajs {
		for j, snap := range tr.Snapshots {
			out = append(out, SequenceRecord{ID: tr.ID, Timestep: tr.Timesteps[j], Angles: snap})
		}
	}
	return out
}
