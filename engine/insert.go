package engine

import (
	"github.com/leftmike/tinydb/parser"
)

func (e *Engine) insert(stmt, tblname, cols, vals string) (*Result, error) {
	tbl, err := e.lookupTable(stmt, tblname)
	if err != nil {
		return nil, err
	}

	tbl.Insert(zipRow(splitList(cols), splitList(vals)))
	return &Result{
		Kind:         parser.Insert,
		RowsAffected: 1,
	}, nil
}
