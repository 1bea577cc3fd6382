package cmd

import (
	"fmt"
	"os"

	"github.com/alexanderritik/pgschema/internal/config"
	"github.com/alexanderritik/pgschema/internal/pipeline"

	"github.com/spf13/cobra"
)

var inferConfigPath string

// inferCmd runs the full pipeline: acquire, extract, optional merge, optional
// validate, optional generate, emit.
var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Infer a PG-Schema type system from a property graph instance",
	Long:  `Acquires the instance graph, extracts NODE and EDGE types via FCA, and writes schema.txt plus the other output files configured in the given config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if inferConfigPath == "" {
			fmt.Println("Error: --config flag is required")
			os.Exit(1)
		}

		cfg, err := config.Load(inferConfigPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		result, err := pipeline.New(cfg).Run()
		if err != nil {
			fmt.Printf("Error running pipeline: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Inferred %d node types, %d edge types\n", len(result.NodeTypes), len(result.EdgeTypes))
		if result.ValidationReport != nil && !result.ValidationReport.Valid() {
			fmt.Printf("Validation failed: %d invalid nodes, %d invalid edges (see invalid_elements.json)\n",
				len(result.ValidationReport.InvalidNodes), len(result.ValidationReport.InvalidEdges))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(inferCmd)
	inferCmd.Flags().StringVar(&inferConfigPath, "config", "", "Path to the pipeline config file (YAML)")
}
