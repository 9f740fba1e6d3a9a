// Package classifier maps participant classifier tables to records.
package classifier

import (
	"strings"

	"github.com/gnames/aliquotdb/internal/ent/ingerr"
	"github.com/gnames/aliquotdb/internal/ent/norm"
	"github.com/gnames/aliquotdb/pkg/ent/model"
	"gopkg.in/guregu/null.v3"
)

var required = []string{"study", "participant_id"}

// Ternary converts Y/N flags to true, false or NULL. The second value is
// false for unexpected flags.
func Ternary(s string) (null.Bool, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "YES", "TRUE":
		return null.BoolFrom(true), true
	case "N", "NO", "FALSE":
		return null.BoolFrom(false), true
	case "":
		return null.Bool{}, true
	}
	if norm.IsMissing(s) {
		return null.Bool{}, true
	}
	return null.Bool{}, false
}

// Map converts rows of a classifier table to records, the first row is
// the header with canonical column names. The first row of a participant
// wins.
func Map(
	path string,
	records [][]string,
) ([]model.GeneralClassifier, []ingerr.NormalizationWarning, error) {
	if len(records) == 0 {
		return nil, nil, &ingerr.SchemaMismatchError{File: path, Missing: required}
	}
	cols := make(map[string]int)
	for i, h := range records[0] {
		k := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(h, "\ufeff", "")))
		if _, ok := cols[k]; !ok {
			cols[k] = i
		}
	}
	var missing []string
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &ingerr.SchemaMismatchError{File: path, Missing: missing}
	}

	var warns []ingerr.NormalizationWarning
	type key struct{ study, id string }
	seen := make(map[key]struct{})
	var res []model.GeneralClassifier
	for i, row := range records[1:] {
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		str := func(name string) null.String {
			v := cell(name)
			if norm.IsMissing(v) {
				return null.String{}
			}
			return null.StringFrom(v)
		}

		k := key{cell("study"), cell("participant_id")}
		if norm.IsMissing(k.study) || norm.IsMissing(k.id) {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}

		thai, ok := Ternary(cell("is_thai"))
		if !ok {
			warns = append(warns, ingerr.NormalizationWarning{
				File:    path,
				Line:    i + 2,
				Field:   "is_thai",
				Raw:     cell("is_thai"),
				Message: "unknown flag, saved as NULL",
			})
		}
		res = append(res, model.GeneralClassifier{
			Study:           k.study,
			ParticipantID:   k.id,
			Gender:          str("gender"),
			HIVSubtype:      str("hiv_subtype"),
			FiebigStage:     str("fiebig_stage"),
			FourthGenStage:  str("fourth_gen_stage"),
			IsThai:          thai,
			Risk:            str("risk"),
			FirstARVRegimen: str("first_arv_regimen"),
		})
	}
	return res, warns, nil
}
