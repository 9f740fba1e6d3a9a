package pgio

import (
	"context"
	"fmt"
	"log/slog"
)

type foreignKey struct {
	name    string
	table   string
	columns string
	refs    string
}

// foreignKeys connect inventory tables, each child references the natural
// key of its parent.
var foreignKeys = []foreignKey{
	{
		name:    "participant_study_fk",
		table:   "participant",
		columns: "study",
		refs:    "study (study)",
	},
	{
		name:    "visit_participant_fk",
		table:   "visit",
		columns: "study, participant_id",
		refs:    "participant (study, participant_id)",
	},
	{
		name:    "specimen_visit_fk",
		table:   "specimen",
		columns: "study, participant_id, visit",
		refs:    "visit (study, participant_id, visit)",
	},
	{
		name:    "aliquot_specimen_fk",
		table:   "aliquot",
		columns: "study, participant_id, draw_date, aliquot_type, volume",
		refs:    "specimen (study, participant_id, draw_date, aliquot_type, volume)",
	},
}

// addForeignKeys creates missing foreign keys.
func (p *pgio) addForeignKeys(ctx context.Context) error {
	for _, fk := range foreignKeys {
		var exists bool
		err := p.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = $1)",
			fk.name,
		).Scan(&exists)
		if err != nil {
			slog.Error("Cannot check foreign key", "key", fk.name, "error", err)
			return err
		}
		if exists {
			continue
		}

		q := fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s",
			fk.table, fk.name, fk.columns, fk.refs,
		)
		if _, err = p.db.Exec(ctx, q); err != nil {
			slog.Error("Cannot create foreign key", "key", fk.name, "error", err)
			return err
		}
	}
	return nil
}
