package main

import (
	"os"

	"github.com/veilproj/veil/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
