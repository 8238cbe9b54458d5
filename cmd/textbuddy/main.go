package main

import (
	"os"

	"textbuddy/cmd/textbuddy/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
