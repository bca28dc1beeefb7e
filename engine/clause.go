package engine

import (
	"errors"
	"strings"

	"github.com/leftmike/tinydb/sql"
)

const (
	listSeparator  = ", "
	whereSeparator = " = "
)

var (
	errMissingType = errors.New("missing type")
	errMissingName = errors.New("missing name")
	errWhereShape  = errors.New("want <column> = <value>")
	errExtraEquals = errors.New("more than one \" = \"")
)

// splitList splits a list of columns, values, or column definitions on ", ". Items are not
// trimmed or checked.
func splitList(s string) []string {
	return strings.Split(s, listSeparator)
}

// parseColumnDef trims item and splits it on the first space into a name and a type. Anything
// after a second space is ignored. If strict is false, a missing name or type is "".
func parseColumnDef(item string, strict bool) (sql.ColumnDef, error) {
	item = strings.TrimSpace(item)

	var cd sql.ColumnDef
	idx := strings.IndexByte(item, ' ')
	if idx < 0 {
		cd.Name = item
	} else {
		cd.Name = item[:idx]
		cd.Type = item[idx+1:]
		if idx = strings.IndexByte(cd.Type, ' '); idx >= 0 {
			cd.Type = cd.Type[:idx]
		}
	}

	if strict {
		if cd.Name == "" {
			return sql.ColumnDef{}, errMissingName
		} else if cd.Type == "" {
			return sql.ColumnDef{}, errMissingType
		}
	}
	return cd, nil
}

func parseColumnDefs(blob string, strict bool) ([]sql.ColumnDef, error) {
	var cols []sql.ColumnDef
	for _, item := range splitList(blob) {
		cd, err := parseColumnDef(item, strict)
		if err != nil {
			return nil, err
		}
		cols = append(cols, cd)
	}
	return cols, nil
}

// zipRow pairs cols and vals by position. The shorter of the two lists bounds the row: extra
// columns or extra values are ignored. A column named more than once takes the last value.
func zipRow(cols, vals []string) sql.Row {
	n := len(cols)
	if len(vals) < n {
		n = len(vals)
	}

	row := make(sql.Row, n)
	for i := 0; i < n; i++ {
		row[cols[i]] = sql.StringValue(vals[i])
	}
	return row
}

// splitWhere splits a where clause on the literal " = " into a column and a value. If strict
// is false, a clause without " = " has an Absent value, which matches rows that do not have
// the column, and anything after a second " = " is ignored.
func splitWhere(clause string, strict bool) (string, sql.Value, error) {
	parts := strings.Split(clause, whereSeparator)
	if strict {
		if len(parts) < 2 {
			return "", sql.Absent, errWhereShape
		} else if len(parts) > 2 {
			return "", sql.Absent, errExtraEquals
		}
	}

	if len(parts) < 2 {
		return parts[0], sql.Absent, nil
	}
	return parts[0], sql.StringValue(parts[1]), nil
}
