package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/leftmike/tinydb/engine"
	"github.com/leftmike/tinydb/parser"
)

type LineReader interface {
	ReadLine() (string, error)
}

type scanner struct {
	s *bufio.Scanner
}

func (sc scanner) ReadLine() (string, error) {
	if !sc.s.Scan() {
		if err := sc.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return sc.s.Text(), nil
}

// NewScanner reads one statement per line from r.
func NewScanner(r io.Reader) LineReader {
	return scanner{bufio.NewScanner(r)}
}

// Run executes each line from lr as a statement and writes the results to w; it returns when
// lr is exhausted or on \q. Lines starting with \ are meta commands.
func Run(e *engine.Engine, lr LineReader, w io.Writer) {
	for {
		line, err := lr.ReadLine()
		if err == io.EOF {
			return
		} else if err != nil {
			fmt.Fprintln(w, err)
			return
		}

		stmt := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if stmt == "" {
			continue
		}
		if stmt[0] == '\\' {
			if !metaCommand(e, stmt, w) {
				return
			}
			continue
		}

		res, err := e.Execute(stmt)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		printResult(w, res)
	}
}

func printResult(w io.Writer, res *engine.Result) {
	switch res.Kind {
	case parser.CreateTable:
		fmt.Fprintln(w, res.Kind.Tag())
	case parser.Insert, parser.Delete:
		fmt.Fprintf(w, "%d rows updated\n", res.RowsAffected)
	case parser.Select:
		tw := tablewriter.NewWriter(w)
		tw.SetAutoFormatHeaders(false)
		tw.SetHeader(res.Columns)

		row := make([]string, len(res.Columns))
		for _, r := range res.Rows {
			for cdx, col := range res.Columns {
				row[cdx] = r.Get(col).String()
			}
			tw.Append(row)
		}
		tw.Render()
		fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
	default:
		panic(fmt.Sprintf("unexpected kind of result: %s", res.Kind))
	}
}

// metaCommand returns false if the session should end.
func metaCommand(e *engine.Engine, cmd string, w io.Writer) bool {
	switch cmd {
	case `\q`:
		return false
	case `\d`:
		tw := tablewriter.NewWriter(w)
		tw.SetAutoFormatHeaders(false)
		tw.SetHeader([]string{"table", "columns", "rows"})
		for _, ti := range e.Tables() {
			cols := make([]string, 0, len(ti.Columns))
			for _, cd := range ti.Columns {
				cols = append(cols, cd.String())
			}
			tw.Append([]string{ti.Name, strings.Join(cols, ", "), strconv.Itoa(ti.Rows)})
		}
		tw.Render()
	default:
		fmt.Fprintf(w, "unknown command: %s; want \\d or \\q\n", cmd)
	}
	return true
}
