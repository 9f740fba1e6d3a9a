package model

// Kind is a type of entity saved to the relational store.
type Kind int

// Entity kinds in the order they have to be saved: a child table
// always comes after its parent.
const (
	UnknownKind Kind = iota
	StudyKind
	ParticipantKind
	VisitKind
	SpecimenKind
	AliquotKind
	AltIDKind
	GeneralClassifierKind
)

type kindData struct {
	table       string
	columns     []string
	conflictKey []string
}

// kinds describe the insert contract of every table. Column lists and
// conflict keys are used verbatim in the upsert statements.
var kinds = map[Kind]kindData{
	StudyKind: {
		table:       "study",
		columns:     []string{"study", "is_open", "parent_study"},
		conflictKey: []string{"study"},
	},
	ParticipantKind: {
		table:       "participant",
		columns:     []string{"study", "participant_id"},
		conflictKey: []string{"study", "participant_id"},
	},
	VisitKind: {
		table:       "visit",
		columns:     []string{"study", "participant_id", "visit", "visit_week"},
		conflictKey: []string{"study", "participant_id", "visit"},
	},
	SpecimenKind: {
		table: "specimen",
		columns: []string{
			"study", "participant_id", "visit", "draw_date",
			"aliquot_type", "volume", "unit",
		},
		conflictKey: []string{
			"study", "participant_id", "draw_date", "aliquot_type", "volume",
		},
	},
	AliquotKind: {
		table: "aliquot",
		columns: []string{
			"study", "participant_id", "draw_date", "guid",
			"aliquot_type", "volume", "unit",
		},
		conflictKey: []string{"guid"},
	},
	AltIDKind: {
		table: "alt_id",
		columns: []string{
			"init_study", "init_participant_id", "alt_ids_json",
			"alt_study", "alt_participant_id",
		},
		conflictKey: []string{"init_study", "init_participant_id", "alt_study"},
	},
	GeneralClassifierKind: {
		table: "general_classifier",
		columns: []string{
			"study", "participant_id", "gender", "hiv_subtype", "fiebig_stage",
			"fourth_gen_stage", "is_thai", "risk", "first_arv_regimen",
		},
		conflictKey: []string{"study", "participant_id"},
	},
}

// InventoryKinds are the entities created from aliquot inventories in
// the order of their insertion.
var InventoryKinds = []Kind{
	StudyKind, ParticipantKind, VisitKind, SpecimenKind, AliquotKind,
}

// Table returns the name of the database table for the kind.
func (k Kind) Table() string {
	return kinds[k].table
}

// Columns returns the insert columns of the kind.
func (k Kind) Columns() []string {
	return kinds[k].columns
}

// ConflictKey returns the natural key used to skip existing records.
func (k Kind) ConflictKey() []string {
	return kinds[k].conflictKey
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == UnknownKind {
		return "unknown"
	}
	return k.Table()
}
