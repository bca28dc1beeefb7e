package main

import (
	"os"

	"github.com/leftmike/tinydb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
