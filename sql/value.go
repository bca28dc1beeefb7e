package sql

const (
	NullString = "NULL"
)

// Value is a raw string as stored in a row, or the absent marker for a column that a row
// does not have. Values are never coerced; two present values are equal only if their strings
// are identical.
type Value struct {
	s       string
	present bool
}

var Absent = Value{}

func StringValue(s string) Value {
	return Value{s: s, present: true}
}

func (v Value) Str() (string, bool) {
	return v.s, v.present
}

func (v Value) IsAbsent() bool {
	return !v.present
}

func (v Value) String() string {
	if !v.present {
		return NullString
	}
	return v.s
}

func (v Value) Equal(v2 Value) bool {
	return v.present == v2.present && v.s == v2.s
}

func Format(v Value) string {
	if !v.present {
		return NullString
	}
	return "'" + v.s + "'"
}
