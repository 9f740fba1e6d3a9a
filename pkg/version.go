package aliquotdb

var (
	// Version of aliquotdb.
	Version = "v0.1.0"

	// Build timestamp.
	Build = "n/a"
)
