package main

import (
	"os"

	"github.com/qmorane/tousim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
