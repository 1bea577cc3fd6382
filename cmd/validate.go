package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderritik/pgschema/internal/adapters"
	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/schemalang"
	"github.com/alexanderritik/pgschema/internal/typemodel"
	"github.com/alexanderritik/pgschema/internal/validator"

	"github.com/spf13/cobra"
)

var (
	validateDB         string
	validateSchemaPath string
	validateOutDir     string
)

// validateCmd loads a graph and a schema file, runs the Validator standalone,
// and on failure writes invalid_elements.json into --out when that flag is
// given.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a property graph instance against a PG-Schema document",
	Long:  `Connects to the database, loads the given schema file, and reports every node or edge that conforms to no declared type.`,
	Run: func(cmd *cobra.Command, args []string) {
		if validateDB == "" || validateSchemaPath == "" {
			fmt.Println("Error: --db and --schema flags are required")
			os.Exit(1)
		}

		data, err := os.ReadFile(validateSchemaPath)
		if err != nil {
			fmt.Printf("Error reading schema: %v\n", err)
			os.Exit(1)
		}
		schema, err := schemalang.Parse(string(data))
		if err != nil {
			fmt.Printf("Error parsing schema: %v\n", err)
			os.Exit(1)
		}

		a, err := adapters.NewAdapter(validateDB)
		if err != nil {
			fmt.Printf("Error creating adapter: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()

		if err := a.Connect(validateDB); err != nil {
			fmt.Printf("Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		model := graphmodel.New()
		if err := a.FetchGraph(model); err != nil {
			fmt.Printf("Error fetching graph: %v\n", err)
			os.Exit(1)
		}

		report := validator.Validate(model, typesOf(schema, typemodel.NodeEntity), typesOf(schema, typemodel.EdgeEntity))
		if report.Valid() {
			fmt.Println("Graph is valid against schema")
			return
		}

		fmt.Printf("Found %d invalid nodes, %d invalid edges\n", len(report.InvalidNodes), len(report.InvalidEdges))
		if validateOutDir != "" {
			if err := writeInvalidElements(validateOutDir, report); err != nil {
				fmt.Printf("Error writing invalid_elements.json: %v\n", err)
				os.Exit(1)
			}
		}
		os.Exit(1)
	},
}

func typesOf(schema *schemalang.Schema, entity typemodel.Entity) []*typemodel.Type {
	registry := schema.NodeTypes
	if entity == typemodel.EdgeEntity {
		registry = schema.EdgeTypes
	}
	out := make([]*typemodel.Type, 0, len(registry))
	for _, ty := range registry {
		out = append(out, ty)
	}
	return out
}

func writeInvalidElements(outDir string, report *validator.Report) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "invalid_elements.json"), data, 0o644)
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateDB, "db", "", "Database connection string")
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to the PG-Schema document to validate against")
	validateCmd.Flags().StringVar(&validateOutDir, "out", "", "Directory to write invalid_elements.json into")
}
