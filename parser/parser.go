package parser

import (
	"fmt"
	"regexp"
)

type Kind int

const (
	CreateTable Kind = iota
	Insert
	Select
	Delete
)

func (k Kind) String() string {
	switch k {
	case CreateTable:
		return "createTable"
	case Insert:
		return "insert"
	case Select:
		return "select"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tag returns the PostgreSQL command tag for the kind of command.
func (k Kind) Tag() string {
	switch k {
	case CreateTable:
		return "CREATE TABLE"
	case Insert:
		return "INSERT"
	case Select:
		return "SELECT"
	case Delete:
		return "DELETE"
	default:
		panic(fmt.Sprintf("unexpected kind of command: %d", int(k)))
	}
}

// Command is a recognized statement: the kind of command and the text captured by its
// grammar, in order.
//
//	CreateTable: name, column definitions
//	Insert:      name, columns, values
//	Select:      columns, name, where clause
//	Delete:      name, where clause
//
// An optional where clause which is not present is captured as "".
type Command struct {
	Kind  Kind
	Args  []string
	where bool
}

func (cmd *Command) HasWhere() bool {
	return cmd.where
}

func (cmd *Command) String() string {
	return fmt.Sprintf("%s%q", cmd.Kind, cmd.Args)
}

type grammar struct {
	kind     Kind
	re       *regexp.Regexp
	whereArg int // index of the optional where capture or -1
}

// The grammars are keyword prefixed and so are mutually exclusive; they are tried in order.
var grammars = []grammar{
	{CreateTable, regexp.MustCompile(`^create table ([a-z]+) \((.+)\)$`), -1},
	{Insert, regexp.MustCompile(`^insert into ([a-z]+) \((.+)\) values \((.+)\)$`), -1},
	{Select, regexp.MustCompile(`^select (.+) from ([a-z]+)(?: where (.+))?$`), 2},
	{Delete, regexp.MustCompile(`^delete from ([a-z]+)(?: where (.+))?$`), 1},
}

// Parse recognizes stmt as one of the four commands. It returns false if no grammar matches;
// reporting the syntax error is up to the caller. A grammar must match all of stmt, so
// trailing text, including a terminating ";" or a where keyword with no condition, does not
// match.
func Parse(stmt string) (*Command, bool) {
	for _, g := range grammars {
		m := g.re.FindStringSubmatchIndex(stmt)
		if m == nil {
			continue
		}

		cmd := &Command{
			Kind: g.kind,
		}
		for adx := 1; adx < len(m)/2; adx++ {
			start, end := m[adx*2], m[adx*2+1]
			if start < 0 {
				cmd.Args = append(cmd.Args, "")
				continue
			}
			if adx-1 == g.whereArg {
				cmd.where = true
			}
			cmd.Args = append(cmd.Args, stmt[start:end])
		}
		return cmd, true
	}

	return nil, false
}
