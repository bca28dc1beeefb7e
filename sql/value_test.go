package sql_test

import (
	"testing"

	"github.com/leftmike/tinydb/sql"
)

func TestEqual(t *testing.T) {
	cases := []struct {
		v1, v2 sql.Value
		eq     bool
	}{
		{sql.Absent, sql.Absent, true},
		{sql.Absent, sql.StringValue(""), false},
		{sql.StringValue(""), sql.Absent, false},
		{sql.StringValue("abc"), sql.StringValue("abc"), true},
		{sql.StringValue("abc"), sql.StringValue("ABC"), false},
		{sql.StringValue("1"), sql.StringValue("01"), false},
		{sql.StringValue("1"), sql.StringValue("1.0"), false},
	}

	for _, c := range cases {
		eq := c.v1.Equal(c.v2)
		if eq != c.eq {
			t.Errorf("Equal(%v, %v) got %v want %v", c.v1, c.v2, eq, c.eq)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		v   sql.Value
		s   string
		fmt string
	}{
		{sql.Absent, "NULL", "NULL"},
		{sql.StringValue("abc"), "abc", "'abc'"},
		{sql.StringValue(""), "", "''"},
	}

	for _, c := range cases {
		if c.v.String() != c.s {
			t.Errorf("%#v.String() got %q want %q", c.v, c.v.String(), c.s)
		}
		if sql.Format(c.v) != c.fmt {
			t.Errorf("Format(%#v) got %q want %q", c.v, sql.Format(c.v), c.fmt)
		}
	}
}

func TestRow(t *testing.T) {
	r := sql.Row{"id": sql.StringValue("1"), "name": sql.StringValue("alice")}

	if v := r.Get("id"); !v.Equal(sql.StringValue("1")) {
		t.Errorf("Get(id) got %v want 1", v)
	}
	if v := r.Get("age"); !v.IsAbsent() {
		t.Errorf("Get(age) got %v want absent", v)
	}

	p := r.Project([]string{"name", "age"})
	if len(p) != 2 {
		t.Errorf("Project(name, age) got %d columns want 2", len(p))
	}
	if s, ok := p["name"].Str(); !ok || s != "alice" {
		t.Errorf("Project(name, age)[name] got %q, %v want alice", s, ok)
	}
	if v, ok := p["age"]; !ok || !v.IsAbsent() {
		t.Errorf("Project(name, age)[age] got %v, %v want absent", v, ok)
	}

	c := r.Copy()
	c["id"] = sql.StringValue("2")
	if s, _ := r["id"].Str(); s != "1" {
		t.Errorf("Copy() shares storage with original row")
	}

	if s := r.String(); s != "{id:'1', name:'alice'}" {
		t.Errorf("String() got %s want {id:'1', name:'alice'}", s)
	}
}
