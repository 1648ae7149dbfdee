package main

import (
	"os"

	"trading-journal-go/cmd/journalctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
