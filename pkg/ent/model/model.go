package model

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

// Study is a research protocol. All studies but the root one are children
// of the root study.
type Study struct {
	// Study is the protocol identifier, for example 'RV254'.
	Study string `gorm:"column:study;type:varchar(255);primary_key;auto_increment:false"`

	// IsOpen is true while the study accepts new specimens.
	IsOpen bool `gorm:"column:is_open;type:bool"`

	// ParentStudy is the root study identifier, it is NULL for the root
	// study itself.
	ParentStudy null.String `gorm:"column:parent_study;type:varchar(255);default:null"`

	// CreateDate is set by the database on insert.
	CreateDate time.Time `gorm:"column:create_date;type:date;not null;default:CURRENT_DATE"`
}

// Participant is a person enrolled in a study.
type Participant struct {
	Study string `gorm:"column:study;type:varchar(255);primary_key;auto_increment:false"`

	// ParticipantID is a normalized ID: a cohort marker followed by
	// 4 digits, for example 'P0123'.
	ParticipantID string `gorm:"column:participant_id;type:varchar(255);primary_key;auto_increment:false"`

	CreateDate time.Time `gorm:"column:create_date;type:date;not null;default:CURRENT_DATE"`
}

// Visit is a participant's visit to a clinic site.
type Visit struct {
	Study         string `gorm:"column:study;type:varchar(255);primary_key;auto_increment:false"`
	ParticipantID string `gorm:"column:participant_id;type:varchar(255);primary_key;auto_increment:false"`

	// Visit is a two-digit visit code, for example '03'.
	Visit string `gorm:"column:visit;type:varchar(50);primary_key;auto_increment:false"`

	// VisitWeek is a three-digit week code, for example '004'. When the
	// source has no week, it repeats the Visit value.
	VisitWeek string `gorm:"column:visit_week;type:varchar(50)"`

	CreateDate time.Time `gorm:"column:create_date;type:date;not null;default:CURRENT_DATE"`
}

// Specimen is a biological sample draw. Visit is not a part of the
// natural key, so draws of the same type and volume on the same date
// collapse into one specimen.
type Specimen struct {
	Study         string `gorm:"column:study;type:varchar(255);unique_index:specimen_natural_key"`
	ParticipantID string `gorm:"column:participant_id;type:varchar(255);unique_index:specimen_natural_key"`
	Visit         string `gorm:"column:visit;type:varchar(50)"`

	// DrawDate is the collection date in 'YYYY-MM-DD' format.
	DrawDate string `gorm:"column:draw_date;type:date;unique_index:specimen_natural_key"`

	// AliquotType is a kind of sample, for example 'Plasma'.
	AliquotType string `gorm:"column:aliquot_type;type:varchar(255);unique_index:specimen_natural_key"`

	// Volume is a decimal amount, for example '2.0'.
	Volume string `gorm:"column:volume;type:numeric;unique_index:specimen_natural_key"`

	// Unit is a unit of the volume, for example 'mL'.
	Unit string `gorm:"column:unit;type:varchar(50)"`

	CreateDate time.Time `gorm:"column:create_date;type:date;not null;default:CURRENT_DATE"`
}

// Aliquot is a portion of a specimen with its own globally unique ID.
type Aliquot struct {
	Study         string `gorm:"column:study;type:varchar(255)"`
	ParticipantID string `gorm:"column:participant_id;type:varchar(255)"`
	DrawDate      string `gorm:"column:draw_date;type:date"`

	// GUID is assigned by the laboratory system.
	GUID string `gorm:"column:guid;type:varchar(255);primary_key;auto_increment:false"`

	AliquotType string `gorm:"column:aliquot_type;type:varchar(255)"`
	Volume      string `gorm:"column:volume;type:numeric"`
	Unit        string `gorm:"column:unit;type:varchar(50)"`

	CreateDate time.Time `gorm:"column:create_date;type:date;not null;default:CURRENT_DATE"`
}

// AltID links a participant of the root study to the participant's ID in
// another study.
type AltID struct {
	InitStudy         string `gorm:"column:init_study;type:varchar(255);unique_index:alt_id_natural_key"`
	InitParticipantID string `gorm:"column:init_participant_id;type:varchar(255);unique_index:alt_id_natural_key"`

	// AltIDsJSON is a JSON object of all known alternative IDs of the
	// participant, keyed by study. It is the same for all rows of the
	// participant.
	AltIDsJSON string `gorm:"column:alt_ids_json;type:jsonb"`

	AltStudy         string `gorm:"column:alt_study;type:varchar(255);unique_index:alt_id_natural_key"`
	AltParticipantID string `gorm:"column:alt_participant_id;type:varchar(255)"`

	CreateDate time.Time `gorm:"column:create_date;type:date;not null;default:CURRENT_DATE"`
}

// GeneralClassifier keeps categorical attributes of a participant.
type GeneralClassifier struct {
	Study          string      `gorm:"column:study;type:varchar(255);unique_index:general_classifier_natural_key"`
	ParticipantID  string      `gorm:"column:participant_id;type:varchar(255);unique_index:general_classifier_natural_key"`
	Gender         null.String `gorm:"column:gender;type:varchar(50)"`
	HIVSubtype     null.String `gorm:"column:hiv_subtype;type:varchar(50)"`
	FiebigStage    null.String `gorm:"column:fiebig_stage;type:varchar(50)"`
	FourthGenStage null.String `gorm:"column:fourth_gen_stage;type:varchar(50)"`

	// IsThai is NULL when the source does not know.
	IsThai          null.Bool   `gorm:"column:is_thai;type:bool"`
	Risk            null.String `gorm:"column:risk;type:varchar(255)"`
	FirstARVRegimen null.String `gorm:"column:first_arv_regimen;type:varchar(255)"`
	CreateDate      time.Time   `gorm:"column:create_date;type:date;not null;default:CURRENT_DATE"`
}

func (Study) TableName() string             { return StudyKind.Table() }
func (Participant) TableName() string       { return ParticipantKind.Table() }
func (Visit) TableName() string             { return VisitKind.Table() }
func (Specimen) TableName() string          { return SpecimenKind.Table() }
func (Aliquot) TableName() string           { return AliquotKind.Table() }
func (AltID) TableName() string             { return AltIDKind.Table() }
func (GeneralClassifier) TableName() string { return GeneralClassifierKind.Table() }

// Values returns the study fields in the order of StudyKind.Columns().
func (s Study) Values() []any {
	return []any{s.Study, s.IsOpen, s.ParentStudy}
}

func (p Participant) Values() []any {
	return []any{p.Study, p.ParticipantID}
}

func (v Visit) Values() []any {
	return []any{v.Study, v.ParticipantID, v.Visit, v.VisitWeek}
}

func (s Specimen) Values() []any {
	return []any{
		s.Study, s.ParticipantID, s.Visit, s.DrawDate,
		s.AliquotType, s.Volume, s.Unit,
	}
}

func (a Aliquot) Values() []any {
	return []any{
		a.Study, a.ParticipantID, a.DrawDate, a.GUID,
		a.AliquotType, a.Volume, a.Unit,
	}
}

func (a AltID) Values() []any {
	return []any{
		a.InitStudy, a.InitParticipantID, a.AltIDsJSON,
		a.AltStudy, a.AltParticipantID,
	}
}

func (g GeneralClassifier) Values() []any {
	return []any{
		g.Study, g.ParticipantID, g.Gender, g.HIVSubtype, g.FiebigStage,
		g.FourthGenStage, g.IsThai, g.Risk, g.FirstARVRegimen,
	}
}
