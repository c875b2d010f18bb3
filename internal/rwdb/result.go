package rwdb

import "github.com/joestump/rwdb/internal/driver"

// Row maps column names to values.
type Row map[string]any

// Result is the buffered outcome of one statement. Row-returning statements
// expose their rows through Next/Values/Row; other statements report
// AffectedRows and InsertID.
type Result struct {
	columns  []string
	rows     [][]any
	affected int64
	insertID int64
	cursor   int
	freed    bool
}

func newResult(out *driver.Outcome) *Result {
	if out == nil {
		return &Result{cursor: -1}
	}
	return &Result{
		columns:  out.Columns,
		rows:     out.Rows,
		affected: out.Affected,
		insertID: out.InsertID,
		cursor:   -1,
	}
}

// HasRows reports whether the statement returned a row set, possibly empty.
func (r *Result) HasRows() bool { return r.columns != nil }

// Columns returns the column names in select order.
func (r *Result) Columns() []string { return r.columns }

// NumRows returns the number of rows in the set.
func (r *Result) NumRows() int { return len(r.rows) }

// AffectedRows returns the number of rows a write changed. For INSERT ...
// RETURNING it is the number of rows returned.
func (r *Result) AffectedRows() int64 { return r.affected }

// InsertID returns the id generated by an insert, if the driver reports one.
func (r *Result) InsertID() int64 { return r.insertID }

// Next advances to the next row and reports whether there is one.
func (r *Result) Next() bool {
	if r.freed || r.cursor+1 >= len(r.rows) {
		return false
	}
	r.cursor++
	return true
}

// Values returns the current row's values in column order.
func (r *Result) Values() []any {
	if r.cursor < 0 || r.cursor >= len(r.rows) {
		return nil
	}
	return r.rows[r.cursor]
}

// Row returns the current row as a Row.
func (r *Result) Row() Row {
	if v := r.Values(); v != nil {
		return r.row(v)
	}
	return nil
}

// Rows returns every row.
func (r *Result) Rows() []Row {
	rows := make([]Row, len(r.rows))
	for i, v := range r.rows {
		rows[i] = r.row(v)
	}
	return rows
}

// Flat returns every value of every row in row-major order.
func (r *Result) Flat() []any {
	flat := make([]any, 0, len(r.rows)*len(r.columns))
	for _, v := range r.rows {
		flat = append(flat, v...)
	}
	return flat
}

// Free releases the buffered rows. A freed Result is empty.
func (r *Result) Free() {
	r.rows = nil
	r.cursor = -1
	r.freed = true
}

func (r *Result) row(v []any) Row {
	row := make(Row, len(r.columns))
	for i, col := range r.columns {
		if i < len(v) {
			row[col] = v[i]
		}
	}
	return row
}
