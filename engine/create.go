package engine

import (
	log "github.com/sirupsen/logrus"

	"github.com/leftmike/tinydb/parser"
)

// createTable replaces any existing table with the same name.
func (e *Engine) createTable(stmt, tblname, coldefs string, entry *log.Entry) (*Result, error) {
	cols, err := parseColumnDefs(coldefs, e.strict())
	if err != nil {
		return nil, malformedClause(stmt, "%s: column definitions %q: %s", tblname, coldefs, err)
	}

	_, replaced := e.db.CreateTable(tblname, cols)
	entry.WithFields(log.Fields{
		"table":    tblname,
		"columns":  len(cols),
		"replaced": replaced,
	}).Info("create table")

	return &Result{
		Kind:         parser.CreateTable,
		RowsAffected: -1,
	}, nil
}
