package sql

import (
	"fmt"
)

// ColumnDef is a declared column; Type is kept as written and never interpreted.
type ColumnDef struct {
	Name string
	Type string
}

func (cd ColumnDef) String() string {
	if cd.Type == "" {
		return cd.Name
	}
	return fmt.Sprintf("%s %s", cd.Name, cd.Type)
}
