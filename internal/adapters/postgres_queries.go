package adapters

// These target a generic property-graph table pair rather than Postgres'
// own catalog (pg_class/pg_depend) the teacher's original queries read;
// the table names are the contract any graph_nodes/graph_edges producer
// must honor for this adapter to work.
const (
	queryFetchNodes = `SELECT id, labels, properties FROM graph_nodes`
	queryFetchEdges = `SELECT id, start_id, end_id, labels, properties FROM graph_edges`
)
