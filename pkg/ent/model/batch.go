package model

// Record is an entity that can be saved to the store.
type Record interface {
	// Values returns fields of the record in the order of the kind's
	// columns.
	Values() []any
}

// Batch is a set of records of one kind prepared for an upsert.
type Batch struct {
	// Kind of records in the batch.
	Kind Kind

	// Rows contain values of records in the order of Kind.Columns().
	Rows [][]any
}

// NewBatch converts records to a Batch.
func NewBatch[T Record](k Kind, recs []T) Batch {
	rows := make([][]any, len(recs))
	for i := range recs {
		rows[i] = recs[i].Values()
	}
	return Batch{Kind: k, Rows: rows}
}

// Len returns the number of records in the batch.
func (b Batch) Len() int {
	return len(b.Rows)
}

// Chunks splits the batch into batches of at most size rows. It keeps
// the order of rows.
func (b Batch) Chunks(size int) []Batch {
	if size <= 0 || len(b.Rows) <= size {
		return []Batch{b}
	}
	res := make([]Batch, 0, len(b.Rows)/size+1)
	for i := 0; i < len(b.Rows); i += size {
		end := min(i+size, len(b.Rows))
		res = append(res, Batch{Kind: b.Kind, Rows: b.Rows[i:end]})
	}
	return res
}
