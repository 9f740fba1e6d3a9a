package model

// Migrator creates database tables for the models.
type Migrator interface {
	// Migrate creates missing tables, columns and indices. It does not
	// drop or change existing ones.
	Migrate() error
}
