// Rollcall - attendance ledger for multi-department clubs.
package main

import (
	"os"

	"github.com/manav03panchal/rollcall/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
