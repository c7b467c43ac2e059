package main

import (
	"os"

	"github.com/nsxbet/ddl-analyzer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
