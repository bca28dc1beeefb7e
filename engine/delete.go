package engine

import (
	"github.com/leftmike/tinydb/parser"
	"github.com/leftmike/tinydb/sql"
)

// delete removes the rows matching the where clause, or all of the rows if there is no where
// clause. The rows which remain keep their order.
func (e *Engine) delete(stmt, tblname, where string, hasWhere bool) (*Result, error) {
	tbl, err := e.lookupTable(stmt, tblname)
	if err != nil {
		return nil, err
	}

	var n int
	if hasWhere {
		col, val, err := splitWhere(where, e.strict())
		if err != nil {
			return nil, malformedClause(stmt, "where clause %q: %s", where, err)
		}

		n = tbl.DeleteWhere(
			func(row sql.Row) bool {
				return row.Get(col).Equal(val)
			})
	} else {
		n = tbl.Truncate()
	}

	return &Result{
		Kind:         parser.Delete,
		RowsAffected: int64(n),
	}, nil
}
