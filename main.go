package main

import (
	"os"

	"github.com/narvas12/mercor-assessment/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
