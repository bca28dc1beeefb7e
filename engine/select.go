package engine

import (
	"sort"

	"github.com/leftmike/tinydb/parser"
	"github.com/leftmike/tinydb/sql"
	"github.com/leftmike/tinydb/storage"
)

// selectRows projects every row to cols. With a where clause, the matching rows are returned
// whole, with all of their stored columns, and cols is not used for projection.
func (e *Engine) selectRows(stmt, cols, tblname, where string, hasWhere bool) (*Result,
	error) {

	tbl, err := e.lookupTable(stmt, tblname)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Kind:         parser.Select,
		Rows:         []sql.Row{},
		RowsAffected: -1,
	}

	if hasWhere {
		col, val, err := splitWhere(where, e.strict())
		if err != nil {
			return nil, malformedClause(stmt, "where clause %q: %s", where, err)
		}

		tbl.Scan(
			func(row sql.Row) bool {
				if row.Get(col).Equal(val) {
					res.Rows = append(res.Rows, row.Copy())
				}
				return true
			})
		res.Columns = rowColumns(tbl, res.Rows)
		return res, nil
	}

	res.Columns = splitList(cols)
	tbl.Scan(
		func(row sql.Row) bool {
			res.Rows = append(res.Rows, row.Project(res.Columns))
			return true
		})
	return res, nil
}

// rowColumns returns the declared columns of tbl followed, in sorted order, by any other
// columns which appear in rows.
func rowColumns(tbl *storage.Table, rows []sql.Row) []string {
	var cols []string
	for _, cd := range tbl.Columns() {
		cols = append(cols, cd.Name)
	}

	extra := map[string]struct{}{}
	for _, row := range rows {
		for col := range row {
			if _, ok := tbl.ColumnType(col); !ok {
				extra[col] = struct{}{}
			}
		}
	}

	var more []string
	for col := range extra {
		more = append(more, col)
	}
	sort.Strings(more)
	return append(cols, more...)
}
