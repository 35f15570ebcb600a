// main holds the entry logic for the covlens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/covlens/covlens/cmd"
	"github.com/covlens/covlens/internal/measurestore"
)

// main is the entry point for the covlens importer.
// It dispatches to the command tree and tears down persistence on exit.
func main() {
	err := cmd.Execute()
	measurestore.CloseStore()
	if err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
