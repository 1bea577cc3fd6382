// Package adapters is the pluggable instance-graph acquisition collaborator
// spec.md §1/§6 calls out as out-of-core-scope with a fixed, replaceable
// contract. Grounded on the teacher's internal/adapters package (same
// Adapter-interface-plus-scheme-dispatch shape), re-pointed from Postgres
// catalog introspection at a generic property-graph table pair.
package adapters

import (
	"fmt"
	"strings"

	"github.com/alexanderritik/pgschema/internal/graphmodel"
)

// Adapter is the contract every instance-graph source implements.
type Adapter interface {
	Connect(connString string) error
	Close()
	FetchGraph(model *graphmodel.Model) error
}

// NewAdapter selects an Adapter implementation by connection-string scheme.
func NewAdapter(connString string) (Adapter, error) {
	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		return NewPostgresAdapter(), nil
	}
	// Future: additional schemes (mysql://, neo4j://) plug in here the same
	// way the teacher left room for mysql:// in its own dispatch.
	return nil, fmt.Errorf("unsupported database scheme in connection string: %s", connString)
}
