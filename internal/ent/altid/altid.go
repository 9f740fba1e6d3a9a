// Package altid converts a wide table of participant IDs across studies
// into alternative ID records.
package altid

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gnames/aliquotdb/internal/ent/ingerr"
	"github.com/gnames/aliquotdb/internal/ent/norm"
	"github.com/gnames/aliquotdb/pkg/ent/model"
	"github.com/gnames/gnfmt"
)

// Options describe the layout of the alternative IDs table.
type Options struct {
	// InitStudy is the study of the key column IDs.
	InitStudy string

	// KeyColumn is the name of the column with InitStudy IDs.
	KeyColumn string

	// Suffix is removed from other column names to get study names.
	Suffix string
}

type entry struct {
	id       string
	altStudy string
	altID    string
}

// Map converts rows of a table to AltID records, the first row is the
// header. Empty cells are ignored. Records are ordered by participant ID,
// and the first value wins when a participant has several IDs in the
// same study.
func Map(path string, records [][]string, opts Options) ([]model.AltID, error) {
	if len(records) == 0 {
		return nil, &ingerr.SchemaMismatchError{File: path, Missing: []string{opts.KeyColumn}}
	}
	header := make([]string, len(records[0]))
	keyIdx := -1
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.ReplaceAll(h, "\ufeff", ""))
		if keyIdx < 0 && header[i] == opts.KeyColumn {
			keyIdx = i
		}
	}
	if keyIdx < 0 {
		return nil, &ingerr.SchemaMismatchError{File: path, Missing: []string{opts.KeyColumn}}
	}

	var long []entry
	for _, row := range records[1:] {
		if keyIdx >= len(row) || norm.IsMissing(row[keyIdx]) {
			continue
		}
		id := strings.TrimSpace(row[keyIdx])
		for j, col := range header {
			if j == keyIdx || col == "" || j >= len(row) || norm.IsMissing(row[j]) {
				continue
			}
			long = append(long, entry{
				id:       id,
				altStudy: strings.TrimSuffix(col, opts.Suffix),
				altID:    strings.TrimSpace(row[j]),
			})
		}
	}
	slices.SortStableFunc(long, func(a, b entry) int {
		return cmp.Compare(a.id, b.id)
	})

	ids := make(map[string]map[string]string)
	for _, e := range long {
		if _, ok := ids[e.id]; !ok {
			ids[e.id] = make(map[string]string)
		}
		if _, ok := ids[e.id][e.altStudy]; !ok {
			ids[e.id][e.altStudy] = e.altID
		}
	}

	enc := gnfmt.GNjson{}
	jsons := make(map[string]string, len(ids))
	for id, m := range ids {
		bs, err := enc.Encode(m)
		if err != nil {
			return nil, err
		}
		jsons[id] = string(bs)
	}

	type key struct{ id, altStudy string }
	seen := make(map[key]struct{})
	var res []model.AltID
	for _, e := range long {
		k := key{e.id, e.altStudy}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		res = append(res, model.AltID{
			InitStudy:         opts.InitStudy,
			InitParticipantID: e.id,
			AltIDsJSON:        jsons[e.id],
			AltStudy:          e.altStudy,
			AltParticipantID:  e.altID,
		})
	}
	return res, nil
}
