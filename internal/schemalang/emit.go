package schemalang

import (
	"fmt"
	"strings"
)

// Emit renders schema back to PG-Schema text (spec.md §6.1), wrapping each
// type's typemodel.Type.ToSchema fragment inside the CREATE GRAPH TYPE
// header.
func Emit(schema *Schema) string {
	defs := make([]string, 0, len(schema.Order))
	for _, ty := range schema.AllTypes() {
		defs = append(defs, ty.ToSchema())
	}
	mode := ""
	if schema.Mode != "" {
		mode = fmt.Sprintf(" %s", schema.Mode)
	}
	return fmt.Sprintf("CREATE GRAPH TYPE %s%s { %s }", schema.Name, mode, strings.Join(defs, ", "))
}
