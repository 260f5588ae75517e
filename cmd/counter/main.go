// Command counter drives counter widgets from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/counter/cmd/counter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
