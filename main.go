package main

import (
	"os"

	"github.com/conneroisu/metac/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
