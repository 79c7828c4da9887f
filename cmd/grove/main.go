package main

import (
	"os"

	"github.com/phanxgames/grove/cmd/grove/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
