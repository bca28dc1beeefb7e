package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leftmike/tinydb/repl"
)

var (
	replCmd = &cobra.Command{
		Use:   "repl [file ...]",
		Short: "Run with an interactive console session",
		RunE:  replRun,
	}
)

func init() {
	initServerFlags(replCmd.Flags())

	tinydbCmd.AddCommand(replCmd)
}

func replRun(cmd *cobra.Command, args []string) error {
	svr, err := newServer(args, os.Stdout)
	if err != nil {
		return err
	}

	if len(args) == 0 && len(sqlArgs) == 0 {
		con := repl.Interact()
		defer con.Close()

		svr.Handle(con, os.Stdout, "startup", "console", "")
	}
	return nil
}
