package repl

import (
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
)

const (
	tinydbHistory = ".tinydb_history"
)

// Console reads lines from the terminal with line editing and history.
type Console struct {
	line *liner.State
}

func (con *Console) ReadLine() (string, error) {
	s, err := con.line.Prompt("tinydb> ")
	if err == liner.ErrPromptAborted {
		return "", io.EOF
	} else if err != nil {
		return "", err
	}
	if s != "" {
		con.line.AppendHistory(s)
	}
	return s, nil
}

// Close saves the history and restores the terminal.
func (con *Console) Close() error {
	defer con.line.Close()

	f, err := os.Create(tinydbHistory)
	if err != nil {
		return fmt.Errorf("tinydb: error writing history file, %s: %s", tinydbHistory, err)
	}
	defer f.Close()

	_, err = con.line.WriteHistory(f)
	return err
}

func Interact() *Console {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(tinydbHistory); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	return &Console{line: line}
}
