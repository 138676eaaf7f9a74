package main

import (
	"os"

	"github.com/menta2k/image-intake/cmd/image-intake/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
