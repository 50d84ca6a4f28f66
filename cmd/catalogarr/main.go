package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "catalogarr",
		Short:        "Media catalog kept fresh from TMDB",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newSyncCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
