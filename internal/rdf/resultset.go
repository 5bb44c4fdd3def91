package rdf

import (
	"iter"
	"slices"
)

// ResultSet is the tabular result of a query: ordered rows, 0-indexed,
// with columns addressed by variable name. A cell is either a string or absent.
type ResultSet struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// Row is a single solution.
type Row struct {
	index  map[string]int
	values []string
	bound  []bool
}

func newResultSet(columns []string, solutions []binding) *ResultSet {
	rs := &ResultSet{
		columns: columns,
		index:   make(map[string]int, len(columns)),
		rows:    make([]Row, 0, len(solutions)),
	}
	for i, c := range columns {
		rs.index[c] = i
	}
	for _, sol := range solutions {
		row := Row{
			index:  rs.index,
			values: make([]string, len(columns)),
			bound:  make([]bool, len(columns)),
		}
		for i, c := range columns {
			if n, ok := sol[c]; ok {
				row.values[i] = n.value
				row.bound[i] = true
			}
		}
		rs.rows = append(rs.rows, row)
	}
	return rs
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rows)
}

// Columns returns the column names in select order.
func (rs *ResultSet) Columns() []string {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.columns)
}

// Get returns the value at row and column, and whether it is bound.
// Out-of-range rows and unknown columns report absent.
func (rs *ResultSet) Get(row int, col string) (string, bool) {
	if rs == nil || row < 0 || row >= len(rs.rows) {
		return "", false
	}
	return rs.rows[row].Get(col)
}

// Value returns the value at row and column, or "" when absent.
func (rs *ResultSet) Value(row int, col string) string {
	v, _ := rs.Get(row, col)
	return v
}

// Column returns the bound values of col in row order.
func (rs *ResultSet) Column(col string) []string {
	var out []string
	for _, row := range rs.Rows() {
		if v, ok := row.Get(col); ok {
			out = append(out, v)
		}
	}
	return out
}

// Rows iterates over the rows with their 0-based index.
func (rs *ResultSet) Rows() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		if rs == nil {
			return
		}
		for i, row := range rs.rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// Get returns the value of col in this row and whether it is bound.
func (r Row) Get(col string) (string, bool) {
	i, ok := r.index[col]
	if !ok || !r.bound[i] {
		return "", false
	}
	return r.values[i], true
}

// Value returns the value of col in this row, or "" when absent.
func (r Row) Value(col string) string {
	v, _ := r.Get(col)
	return v
}
