package engine

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/leftmike/tinydb/flags"
	"github.com/leftmike/tinydb/parser"
	"github.com/leftmike/tinydb/sql"
	"github.com/leftmike/tinydb/storage"
)

// Engine executes statements against the tables it owns. Execute may be called from multiple
// goroutines: each call holds the engine's lock from start to finish, so statements are
// serialized.
type Engine struct {
	mutex sync.Mutex
	flags flags.Flags
	db    *storage.Database
}

type Result struct {
	Kind parser.Kind

	// Columns and Rows are only set for select. Rows are copies; changing them does not change
	// the stored rows.
	Columns []string
	Rows    []sql.Row

	// The number of rows inserted or deleted; -1 for create table and select.
	RowsAffected int64
}

type TableInfo struct {
	Name    string
	Columns []sql.ColumnDef
	Rows    int
}

func NewEngine(flgs flags.Flags) *Engine {
	if flgs == nil {
		flgs = flags.Default()
	}
	return &Engine{
		flags: flgs,
		db:    storage.NewDatabase(),
	}
}

func (e *Engine) strict() bool {
	return e.flags.GetFlag(flags.StrictClauses)
}

// Execute parses and executes a single statement. All failures are returned as a
// *StatementError and leave the tables unchanged.
func (e *Engine) Execute(stmt string) (*Result, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	entry := log.WithField("statement", stmt)

	cmd, ok := parser.Parse(stmt)
	if !ok {
		err := syntaxError(stmt)
		entry.WithField("error", err.Error()).Debug("execute failed")
		return nil, err
	}
	entry = entry.WithField("command", cmd.Kind.String())

	var res *Result
	var err error
	switch cmd.Kind {
	case parser.CreateTable:
		res, err = e.createTable(stmt, cmd.Args[0], cmd.Args[1], entry)
	case parser.Insert:
		res, err = e.insert(stmt, cmd.Args[0], cmd.Args[1], cmd.Args[2])
	case parser.Select:
		res, err = e.selectRows(stmt, cmd.Args[0], cmd.Args[1], cmd.Args[2], cmd.HasWhere())
	case parser.Delete:
		res, err = e.delete(stmt, cmd.Args[0], cmd.Args[1], cmd.HasWhere())
	default:
		panic(fmt.Sprintf("unexpected kind of command: %d", cmd.Kind))
	}

	if err != nil {
		entry.WithField("error", err.Error()).Debug("execute failed")
		return nil, err
	}
	entry.WithField("rows", res.RowsAffected).Debug("execute")
	return res, nil
}

func (e *Engine) lookupTable(stmt, tblname string) (*storage.Table, error) {
	tbl, ok := e.db.LookupTable(tblname)
	if !ok {
		return nil, tableNotFound(stmt, tblname)
	}
	return tbl, nil
}

// Tables describes each of the tables in name order.
func (e *Engine) Tables() []TableInfo {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	var infos []TableInfo
	for _, nam := range e.db.Tables() {
		tbl, _ := e.db.LookupTable(nam)
		infos = append(infos,
			TableInfo{
				Name:    nam,
				Columns: tbl.Columns(),
				Rows:    tbl.Len(),
			})
	}
	return infos
}
