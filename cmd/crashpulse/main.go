// main is the entry point for the crashpulse CLI.
package main

import (
	"os"

	"github.com/crashlab/crashpulse/cmd"
	"github.com/crashlab/crashpulse/internal/contract"
)

func main() {
	err := cmd.Execute()
	cmd.CloseStore()
	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
