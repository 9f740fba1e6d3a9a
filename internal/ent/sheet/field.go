package sheet

// Field is a canonical inventory column.
type Field int

const (
	GUID Field = iota
	ParticipantID
	Study
	Visit
	VisitWeek
	DrawDate
	AliquotType
	Volume
	Unit
)

// Fields lists all canonical columns.
var Fields = []Field{
	GUID, ParticipantID, Study, Visit, VisitWeek,
	DrawDate, AliquotType, Volume, Unit,
}

// Required are the columns every inventory file must have.
var Required = []Field{
	GUID, ParticipantID, Visit, DrawDate, AliquotType, Volume, Unit,
}

var fieldNames = map[Field]string{
	GUID:          "guid",
	ParticipantID: "participant_id",
	Study:         "study",
	Visit:         "visit",
	VisitWeek:     "visit_week",
	DrawDate:      "draw_date",
	AliquotType:   "aliquot_type",
	Volume:        "volume",
	Unit:          "unit",
}

// Synonyms are header spellings used by laboratory exports. Canonical
// names are always accepted as well.
var Synonyms = map[Field][]string{
	GUID:          {"Globally Unique Aliquot ID"},
	ParticipantID: {"Study Number"},
	Study:         {"Protocol Number"},
	Visit:         {"Visit"},
	VisitWeek:     {"Visit week"},
	DrawDate:      {"Date Collected"},
	AliquotType:   {"Aliquot Type"},
	Volume:        {"Current Amount", "Aliquot Volume"},
	Unit:          {"Aliquot Units"},
}

// String returns the canonical column name.
func (f Field) String() string {
	if s, ok := fieldNames[f]; ok {
		return s
	}
	return "unknown"
}
