package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgschema",
	Short: "A property-graph schema inference CLI",
	Long:  `pgschema infers a PG-Schema type system from a property graph instance via Formal Concept Analysis, with pluggable database adapters.`,
	// Run: func(cmd *cobra.Command, args []string) { }, // output help by default
}

// Execute executes the root command
func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Add global flags here if needed
}
