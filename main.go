package main

import (
	"os"

	"github.com/vrogeon/repartkey/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
