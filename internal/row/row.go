// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package row

// Row is a single record from a tabular dataset: column names mapped to text
// values, with column order preserved from the source. Column sets may differ
// row to row within the same dataset. Rows are treated as immutable once they
// leave the reader that built them.
type Row struct {
	columns []string
	values  map[string]string
}

// New returns an empty Row ready for Set calls.
func New() *Row {
	return &Row{values: make(map[string]string)}
}

// FromPairs builds a Row from alternating column/value arguments. A trailing
// unpaired argument is ignored.
func FromPairs(pairs ...string) Row {
	r := New()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return *r
}

// FromRecord builds a Row from a header and a matching record slice, the shape
// encoding/csv produces. A record shorter than the header pads with empty
// values; extra record fields are dropped.
func FromRecord(header, record []string) Row {
	r := New()
	for i, col := range header {
		val := ""
		if i < len(record) {
			val = record[i]
		}
		r.Set(col, val)
	}
	return *r
}

// Set stores the value for a column, appending the column to the order on
// first sight.
func (r *Row) Set(column, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the value for a column and whether the column is present.
func (r Row) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Value returns the value for a column, or the empty string when the column
// is absent.
func (r Row) Value(column string) string {
	return r.values[column]
}

// Has reports whether the column is present.
func (r Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Columns returns the column names in source order. The returned slice is a
// copy.
func (r Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.columns)
}

// Map returns a copy of the column/value mapping. Order is not carried; use
// Columns for ordered traversal.
func (r Row) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
