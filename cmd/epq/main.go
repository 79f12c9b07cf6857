package main

import (
	"os"

	"github.com/freyjadaisy/EPQ/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
