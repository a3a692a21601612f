package main

import (
	"os"

	"github.com/envgroom/envgroom/cmd/envgroom/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
