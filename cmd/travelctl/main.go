// travelctl is the operator's housekeeping tool: it checks the running
// service's status endpoint and cleans up generated images and log files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "travelctl",
		Short:         "Housekeeping for the travel publishing service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newHealthCmd(), newCleanCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
