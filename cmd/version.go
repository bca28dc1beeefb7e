package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leftmike/tinydb/sql"
)

func init() {
	tinydbCmd.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number of TinyDB",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(sql.Version())
			},
		})
}
