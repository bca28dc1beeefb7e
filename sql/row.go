package sql

import (
	"sort"
	"strings"
)

// Row maps column names to values. Rows are not checked against the columns declared by their
// table: a row may have fewer, more, or different columns.
type Row map[string]Value

// Get returns the value of column col, or Absent if the row does not have that column.
func (r Row) Get(col string) Value {
	v, ok := r[col]
	if !ok {
		return Absent
	}
	return v
}

func (r Row) Copy() Row {
	r2 := make(Row, len(r))
	for col, v := range r {
		r2[col] = v
	}
	return r2
}

// Project returns a new row containing exactly cols; columns the row does not have are Absent.
func (r Row) Project(cols []string) Row {
	r2 := make(Row, len(cols))
	for _, col := range cols {
		r2[col] = r.Get(col)
	}
	return r2
}

func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for col := range r {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func (r Row) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	for cdx, col := range r.Columns() {
		if cdx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(col)
		buf.WriteByte(':')
		buf.WriteString(Format(r[col]))
	}
	buf.WriteByte('}')
	return buf.String()
}
