package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/pgerr"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAdapter reads the instance graph from a generic
// graph_nodes(id, labels text[], properties jsonb) /
// graph_edges(id, start_id, end_id, labels text[], properties jsonb)
// table pair. Grounded on the teacher's PostgresAdapter (pgxpool connection
// pool, Connect/Close/query-and-scan shape); the queries themselves are
// rewritten since the teacher's targeted pg_class/pg_depend, which have
// nothing to do with a property-graph instance.
type PostgresAdapter struct {
	Pool *pgxpool.Pool
}

// NewPostgresAdapter creates a new postgres adapter.
func NewPostgresAdapter() *PostgresAdapter {
	return &PostgresAdapter{}
}

// Connect establishes a connection pool to the database.
func (p *PostgresAdapter) Connect(connString string) error {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return pgerr.IO("PostgresAdapter.Connect", err)
	}
	p.Pool = pool
	return nil
}

// Close closes the connection pool.
func (p *PostgresAdapter) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

// FetchGraph populates model from graph_nodes/graph_edges.
func (p *PostgresAdapter) FetchGraph(model *graphmodel.Model) error {
	if p.Pool == nil {
		return pgerr.IO("PostgresAdapter.FetchGraph", fmt.Errorf("database connection not established"))
	}
	ctx := context.Background()

	if err := p.fetchNodes(ctx, model); err != nil {
		return err
	}
	if err := p.fetchEdges(ctx, model); err != nil {
		return err
	}

	model.InferPropertyDatatypes()
	return nil
}

func (p *PostgresAdapter) fetchNodes(ctx context.Context, model *graphmodel.Model) error {
	rows, err := p.Pool.Query(ctx, queryFetchNodes)
	if err != nil {
		return pgerr.IO("PostgresAdapter.FetchGraph: nodes", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var labels []string
		var rawProps []byte
		if err := rows.Scan(&id, &labels, &rawProps); err != nil {
			return pgerr.IO("PostgresAdapter.FetchGraph: scan node", err)
		}
		props, err := decodeProperties(rawProps)
		if err != nil {
			return pgerr.IO("PostgresAdapter.FetchGraph: decode node properties", err)
		}
		model.AddNode(graphmodel.NewNode(id, labels, props))
	}
	if err := rows.Err(); err != nil {
		return pgerr.IO("PostgresAdapter.FetchGraph: nodes", err)
	}
	return nil
}

func (p *PostgresAdapter) fetchEdges(ctx context.Context, model *graphmodel.Model) error {
	rows, err := p.Pool.Query(ctx, queryFetchEdges)
	if err != nil {
		return pgerr.IO("PostgresAdapter.FetchGraph: edges", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, startID, endID string
		var labels []string
		var rawProps []byte
		if err := rows.Scan(&id, &startID, &endID, &labels, &rawProps); err != nil {
			return pgerr.IO("PostgresAdapter.FetchGraph: scan edge", err)
		}
		props, err := decodeProperties(rawProps)
		if err != nil {
			return pgerr.IO("PostgresAdapter.FetchGraph: decode edge properties", err)
		}
		model.AddEdge(graphmodel.NewEdge(id, startID, endID, labels, props))
	}
	if err := rows.Err(); err != nil {
		return pgerr.IO("PostgresAdapter.FetchGraph: edges", err)
	}
	return nil
}

func decodeProperties(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var props map[string]any
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, err
	}
	return props, nil
}
