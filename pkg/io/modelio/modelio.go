package modelio

import (
	"github.com/gnames/aliquotdb/pkg/ent/model"
	"github.com/jinzhu/gorm"
)

type modelio struct {
	db *gorm.DB
}

// New returns a new instance of Migrator
func New(db *gorm.DB) model.Migrator {
	res := modelio{db: db}
	return &res
}

// Migrate creates tables in the database in the order of their
// dependencies.
func (m *modelio) Migrate() error {
	return m.db.AutoMigrate(
		&model.Study{},
		&model.Participant{},
		&model.Visit{},
		&model.Specimen{},
		&model.Aliquot{},
		&model.AltID{},
		&model.GeneralClassifier{},
	).Error
}
