package main

import (
	"os"

	"github.com/Carmen-Shannon/oxy-spine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
