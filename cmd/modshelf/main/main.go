package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/modshelf/cmd/modshelf"
	"github.com/arthur-debert/modshelf/pkg/output/styles"
)

func main() {
	rootCmd := modshelf.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
