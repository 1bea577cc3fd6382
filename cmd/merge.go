package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderritik/pgschema/internal/merger"
	"github.com/alexanderritik/pgschema/internal/schemalang"
	"github.com/alexanderritik/pgschema/internal/typemodel"

	"github.com/spf13/cobra"
)

var (
	mergeOriginalPath  string
	mergeNewPath       string
	mergeThreshold     float64
	mergeOutDir        string
	mergeGraphTypeName string
)

// mergeCmd loads two schema files and combines them via the SchemaMerger.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge two PG-Schema documents",
	Long:  `Combines an original schema with a newly inferred one by similarity matching, writing merged_schema.pgs.`,
	Run: func(cmd *cobra.Command, args []string) {
		if mergeOriginalPath == "" || mergeNewPath == "" {
			fmt.Println("Error: --original and --new flags are required")
			os.Exit(1)
		}

		original, err := loadSchemaFile(mergeOriginalPath)
		if err != nil {
			fmt.Printf("Error reading original schema: %v\n", err)
			os.Exit(1)
		}
		latest, err := loadSchemaFile(mergeNewPath)
		if err != nil {
			fmt.Printf("Error reading new schema: %v\n", err)
			os.Exit(1)
		}

		result := merger.Merge(
			typesOf(original, typemodel.NodeEntity), typesOf(original, typemodel.EdgeEntity),
			typesOf(latest, typemodel.NodeEntity), typesOf(latest, typemodel.EdgeEntity),
			mergeThreshold,
		)

		name := mergeGraphTypeName
		if name == "" {
			name = original.Name
		}
		merged := &schemalang.Schema{
			Name:      name,
			Mode:      original.Mode,
			NodeTypes: make(map[string]*typemodel.Type, len(result.NodeTypes)),
			EdgeTypes: make(map[string]*typemodel.Type, len(result.EdgeTypes)),
		}
		for _, ty := range result.NodeTypes {
			merged.NodeTypes[ty.Name] = ty
			merged.Order = append(merged.Order, ty.Name)
		}
		for _, ty := range result.EdgeTypes {
			merged.EdgeTypes[ty.Name] = ty
			merged.Order = append(merged.Order, ty.Name)
		}

		outDir := mergeOutDir
		if outDir == "" {
			outDir = "."
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		path := filepath.Join(outDir, "merged_schema.pgs")
		if err := os.WriteFile(path, []byte(schemalang.Emit(merged)), 0o644); err != nil {
			fmt.Printf("Error writing merged schema: %v\n", err)
			os.Exit(1)
		}

		renamed := 0
		for from, to := range result.TypeMapping {
			if from != to {
				renamed++
			}
		}
		fmt.Printf("Merged schema written to %s (%d node types, %d edge types, %d renamed)\n",
			path, len(result.NodeTypes), len(result.EdgeTypes), renamed)
	},
}

func loadSchemaFile(path string) (*schemalang.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return schemalang.Parse(string(data))
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().StringVar(&mergeOriginalPath, "original", "", "Path to the original PG-Schema document")
	mergeCmd.Flags().StringVar(&mergeNewPath, "new", "", "Path to the newly inferred PG-Schema document")
	mergeCmd.Flags().Float64Var(&mergeThreshold, "threshold", 0.5, "Jaccard similarity a pairwise type match must exceed")
	mergeCmd.Flags().StringVar(&mergeOutDir, "out", "", "Directory to write merged_schema.pgs into")
	mergeCmd.Flags().StringVar(&mergeGraphTypeName, "name", "", "Graph type name for the merged schema (defaults to the original's)")
}
