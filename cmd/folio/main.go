package main

import (
	"context"
	"fmt"
	"os"

	"folio/internal/commands"
)

func main() {
	// Execute root command
	if err := commands.Execute(context.Background()); err != nil {
		_, err := fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if err != nil {
			fmt.Println("Error writing to stderr:", err)
			return
		}
		os.Exit(1)
	}
}
