package storage

import (
	"github.com/google/btree"

	"github.com/leftmike/tinydb/sql"
)

const btreeDegree = 16

type rowItem struct {
	seq uint64
	row sql.Row
}

func (ri rowItem) Less(item btree.Item) bool {
	return ri.seq < item.(rowItem).seq
}

// Table holds the declared columns and the rows of a table. Rows are kept in insertion order
// keyed by a sequence number which is never reused, so deleting rows never reorders the
// rows which remain.
type Table struct {
	name    string
	columns map[string]string
	order   []string
	rows    *btree.BTree
	nextSeq uint64
}

func newTable(name string, cols []sql.ColumnDef) *Table {
	tbl := &Table{
		name:    name,
		columns: map[string]string{},
		rows:    btree.New(btreeDegree),
	}
	for _, cd := range cols {
		if _, ok := tbl.columns[cd.Name]; !ok {
			tbl.order = append(tbl.order, cd.Name)
		}
		tbl.columns[cd.Name] = cd.Type
	}
	return tbl
}

func (tbl *Table) Name() string {
	return tbl.name
}

// Columns returns the declared columns in the order they were first declared.
func (tbl *Table) Columns() []sql.ColumnDef {
	cols := make([]sql.ColumnDef, 0, len(tbl.order))
	for _, nam := range tbl.order {
		cols = append(cols, sql.ColumnDef{Name: nam, Type: tbl.columns[nam]})
	}
	return cols
}

// ColumnType returns the declared type of column col.
func (tbl *Table) ColumnType(col string) (string, bool) {
	typ, ok := tbl.columns[col]
	return typ, ok
}

func (tbl *Table) Len() int {
	return tbl.rows.Len()
}

// Insert appends row to the table; the table keeps row and it must not be modified afterwards.
func (tbl *Table) Insert(row sql.Row) {
	tbl.rows.ReplaceOrInsert(rowItem{seq: tbl.nextSeq, row: row})
	tbl.nextSeq += 1
}

// Scan calls fn for each row in insertion order until fn returns false.
func (tbl *Table) Scan(fn func(row sql.Row) bool) {
	tbl.rows.Ascend(
		func(item btree.Item) bool {
			return fn(item.(rowItem).row)
		})
}

// DeleteWhere removes every row for which pred returns true and returns the number of rows
// removed.
func (tbl *Table) DeleteWhere(pred func(row sql.Row) bool) int {
	var items []btree.Item
	tbl.rows.Ascend(
		func(item btree.Item) bool {
			if pred(item.(rowItem).row) {
				items = append(items, item)
			}
			return true
		})

	for _, item := range items {
		tbl.rows.Delete(item)
	}
	return len(items)
}

// Truncate removes all of the rows and returns the number of rows removed.
func (tbl *Table) Truncate() int {
	n := tbl.rows.Len()
	tbl.rows = btree.New(btreeDegree)
	return n
}
