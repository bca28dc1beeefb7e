package engine

import (
	"reflect"
	"testing"

	"github.com/leftmike/tinydb/sql"
)

func TestSplitList(t *testing.T) {
	cases := []struct {
		s    string
		list []string
	}{
		{"a", []string{"a"}},
		{"a, b, c", []string{"a", "b", "c"}},
		{"a,b", []string{"a,b"}},
		{"a , b", []string{"a ", "b"}},
		{"a,  b", []string{"a", " b"}},
		{"a, , b", []string{"a", "", "b"}},
	}

	for _, c := range cases {
		list := splitList(c.s)
		if !reflect.DeepEqual(list, c.list) {
			t.Errorf("splitList(%q) got %q want %q", c.s, list, c.list)
		}
	}
}

func TestParseColumnDef(t *testing.T) {
	cases := []struct {
		item   string
		strict bool
		cd     sql.ColumnDef
		fail   bool
	}{
		{item: "id int", strict: true, cd: sql.ColumnDef{Name: "id", Type: "int"}},
		{item: "  id int  ", strict: true, cd: sql.ColumnDef{Name: "id", Type: "int"}},
		{item: "name varchar 10", strict: true, cd: sql.ColumnDef{Name: "name", Type: "varchar"}},
		{item: "id", strict: true, fail: true},
		{item: "", strict: true, fail: true},
		{item: "id  int", strict: true, fail: true},
		{item: "id", cd: sql.ColumnDef{Name: "id"}},
		{item: "", cd: sql.ColumnDef{}},
		{item: "id  int", cd: sql.ColumnDef{Name: "id"}},
		{item: "ID INT", strict: true, cd: sql.ColumnDef{Name: "ID", Type: "INT"}},
	}

	for _, c := range cases {
		cd, err := parseColumnDef(c.item, c.strict)
		if c.fail {
			if err == nil {
				t.Errorf("parseColumnDef(%q, %v) did not fail", c.item, c.strict)
			}
		} else if err != nil {
			t.Errorf("parseColumnDef(%q, %v) failed with %s", c.item, c.strict, err)
		} else if cd != c.cd {
			t.Errorf("parseColumnDef(%q, %v) got %#v want %#v", c.item, c.strict, cd, c.cd)
		}
	}
}

func TestParseColumnDefs(t *testing.T) {
	cols, err := parseColumnDefs("id int, name text,  age number", true)
	if err != nil {
		t.Fatalf("parseColumnDefs() failed with %s", err)
	}
	want := []sql.ColumnDef{{Name: "id", Type: "int"}, {Name: "name", Type: "text"},
		{Name: "age", Type: "number"}}
	if !reflect.DeepEqual(cols, want) {
		t.Errorf("parseColumnDefs() got %v want %v", cols, want)
	}

	_, err = parseColumnDefs("id int, name", true)
	if err == nil {
		t.Errorf("parseColumnDefs(id int, name) did not fail")
	}
}

func TestZipRow(t *testing.T) {
	cases := []struct {
		cols, vals []string
		row        sql.Row
	}{
		{
			cols: []string{"id", "name"},
			vals: []string{"1", "alice"},
			row:  sql.Row{"id": sql.StringValue("1"), "name": sql.StringValue("alice")},
		},
		{
			cols: []string{"id", "name", "age"},
			vals: []string{"1", "alice"},
			row:  sql.Row{"id": sql.StringValue("1"), "name": sql.StringValue("alice")},
		},
		{
			cols: []string{"id"},
			vals: []string{"1", "alice", "42"},
			row:  sql.Row{"id": sql.StringValue("1")},
		},
		{
			cols: []string{"id", "id"},
			vals: []string{"1", "2"},
			row:  sql.Row{"id": sql.StringValue("2")},
		},
		{
			cols: []string{"a"},
			vals: []string{""},
			row:  sql.Row{"a": sql.StringValue("")},
		},
	}

	for _, c := range cases {
		row := zipRow(c.cols, c.vals)
		if !reflect.DeepEqual(row, c.row) {
			t.Errorf("zipRow(%q, %q) got %v want %v", c.cols, c.vals, row, c.row)
		}
	}
}

func TestSplitWhere(t *testing.T) {
	cases := []struct {
		clause string
		strict bool
		col    string
		val    sql.Value
		fail   bool
	}{
		{clause: "id = 1", strict: true, col: "id", val: sql.StringValue("1")},
		{clause: "name = bob smith", strict: true, col: "name",
			val: sql.StringValue("bob smith")},
		{clause: "id =1", strict: true, fail: true},
		{clause: "id=1", strict: true, fail: true},
		{clause: "id", strict: true, fail: true},
		{clause: "a = b = c", strict: true, fail: true},
		{clause: "id = ", strict: true, col: "id", val: sql.StringValue("")},
		{clause: "id", col: "id", val: sql.Absent},
		{clause: "id=1", col: "id=1", val: sql.Absent},
		{clause: "a = b = c", col: "a", val: sql.StringValue("b")},
	}

	for _, c := range cases {
		col, val, err := splitWhere(c.clause, c.strict)
		if c.fail {
			if err == nil {
				t.Errorf("splitWhere(%q, %v) did not fail", c.clause, c.strict)
			}
		} else if err != nil {
			t.Errorf("splitWhere(%q, %v) failed with %s", c.clause, c.strict, err)
		} else if col != c.col || !val.Equal(c.val) {
			t.Errorf("splitWhere(%q, %v) got %q, %v want %q, %v", c.clause, c.strict, col, val,
				c.col, c.val)
		}
	}
}
