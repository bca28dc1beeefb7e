package storage

import (
	"sort"

	"github.com/leftmike/tinydb/sql"
)

// Database is the collection of tables owned by a single engine. It is not safe for
// concurrent use.
type Database struct {
	tables map[string]*Table
}

func NewDatabase() *Database {
	return &Database{
		tables: map[string]*Table{},
	}
}

// CreateTable installs a new, empty table called name. An existing table with the same name is
// replaced; its rows and columns are not merged into the new table.
func (db *Database) CreateTable(name string, cols []sql.ColumnDef) (*Table, bool) {
	_, replaced := db.tables[name]
	tbl := newTable(name, cols)
	db.tables[name] = tbl
	return tbl, replaced
}

func (db *Database) LookupTable(name string) (*Table, bool) {
	tbl, ok := db.tables[name]
	return tbl, ok
}

// Tables returns the names of all of the tables in sorted order.
func (db *Database) Tables() []string {
	names := make([]string, 0, len(db.tables))
	for nam := range db.tables {
		names = append(names, nam)
	}
	sort.Strings(names)
	return names
}
