package main

import (
	"os"

	"github.com/propdesk/propdesk/cmd/propdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
