// Package extract projects normalized inventory rows onto entity tables.
// Each projection keeps the first row of every natural key, the order of
// the result follows the order of the rows.
package extract

import (
	"github.com/gnames/aliquotdb/internal/ent/sheet"
	"github.com/gnames/aliquotdb/pkg/ent/model"
	"gopkg.in/guregu/null.v3"
)

// Studies returns distinct studies. All of them are open and belong to
// the root study, the root study itself has no parent.
func Studies(rows []sheet.Row, root string) []model.Study {
	return uniq(rows,
		func(r sheet.Row) string { return r.Study },
		func(r sheet.Row) model.Study {
			res := model.Study{Study: r.Study, IsOpen: true}
			if r.Study != root {
				res.ParentStudy = null.StringFrom(root)
			}
			return res
		},
	)
}

type participantKey struct {
	study, id string
}

// Participants returns distinct participants of studies.
func Participants(rows []sheet.Row) []model.Participant {
	return uniq(rows,
		func(r sheet.Row) participantKey {
			return participantKey{r.Study, r.ParticipantID}
		},
		func(r sheet.Row) model.Participant {
			return model.Participant{Study: r.Study, ParticipantID: r.ParticipantID}
		},
	)
}

type visitKey struct {
	study, id, visit string
}

// Visits returns distinct visits of participants.
func Visits(rows []sheet.Row) []model.Visit {
	return uniq(rows,
		func(r sheet.Row) visitKey {
			return visitKey{r.Study, r.ParticipantID, r.Visit}
		},
		func(r sheet.Row) model.Visit {
			return model.Visit{
				Study:         r.Study,
				ParticipantID: r.ParticipantID,
				Visit:         r.Visit,
				VisitWeek:     r.VisitWeek,
			}
		},
	)
}

type specimenKey struct {
	study, id, date, kind, volume string
}

// Specimens returns distinct specimens. Visit does not take part in the
// key, a specimen gets the visit of its first row.
func Specimens(rows []sheet.Row) []model.Specimen {
	return uniq(rows,
		func(r sheet.Row) specimenKey {
			return specimenKey{r.Study, r.ParticipantID, r.DrawDate, r.AliquotType, r.Volume}
		},
		func(r sheet.Row) model.Specimen {
			return model.Specimen{
				Study:         r.Study,
				ParticipantID: r.ParticipantID,
				Visit:         r.Visit,
				DrawDate:      r.DrawDate,
				AliquotType:   r.AliquotType,
				Volume:        r.Volume,
				Unit:          r.Unit,
			}
		},
	)
}

// Aliquots returns distinct aliquots by GUID.
func Aliquots(rows []sheet.Row) []model.Aliquot {
	return uniq(rows,
		func(r sheet.Row) string { return r.GUID },
		func(r sheet.Row) model.Aliquot {
			return model.Aliquot{
				Study:         r.Study,
				ParticipantID: r.ParticipantID,
				DrawDate:      r.DrawDate,
				GUID:          r.GUID,
				AliquotType:   r.AliquotType,
				Volume:        r.Volume,
				Unit:          r.Unit,
			}
		},
	)
}

// Batches returns projections of rows in the order they have to be
// inserted.
func Batches(rows []sheet.Row, root string) []model.Batch {
	return []model.Batch{
		model.NewBatch(model.StudyKind, Studies(rows, root)),
		model.NewBatch(model.ParticipantKind, Participants(rows)),
		model.NewBatch(model.VisitKind, Visits(rows)),
		model.NewBatch(model.SpecimenKind, Specimens(rows)),
		model.NewBatch(model.AliquotKind, Aliquots(rows)),
	}
}

func uniq[K comparable, T any](
	rows []sheet.Row,
	key func(sheet.Row) K,
	build func(sheet.Row) T,
) []T {
	seen := make(map[K]struct{})
	var res []T
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		res = append(res, build(r))
	}
	return res
}
