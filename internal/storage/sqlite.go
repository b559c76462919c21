// Package storage provides the local SQLite snapshot cache: the last
// fetched graph snapshot plus an FTS5 label index for offline lookup.
// The cache is read-through convenience, rebuildable at any time, and
// never authoritative; durable state lives server-side.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/paperpulse/pulse/internal/graph"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			type TEXT NOT NULL,
			source TEXT,
			category TEXT,
			date TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type);

		CREATE TABLE IF NOT EXISTS edges (
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			type TEXT NOT NULL,
			PRIMARY KEY (source, target, type)
		);

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS nodes_fts USING fts5(
			id,
			label,
			type
		);

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// SaveSnapshot replaces the cached snapshot wholesale. The previous
// contents are cleared first so the cache always mirrors exactly one
// fetch.
func (d *DB) SaveSnapshot(nodes []graph.Node, edges []graph.Edge) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"nodes", "edges", "nodes_fts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	nodeStmt, err := tx.Prepare(`
		INSERT INTO nodes (id, label, type, source, category, date)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO nodes_fts (id, label, type) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, n := range nodes {
		if _, err := nodeStmt.Exec(n.ID, n.Label, n.Type,
			nullable(n.Source), nullable(n.Category), nullable(n.Date)); err != nil {
			return fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
		if _, err := ftsStmt.Exec(n.ID, n.Label, n.Type); err != nil {
			return fmt.Errorf("inserting fts row for %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO edges (source, target, type) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for i := range edges {
		e := &edges[i]
		if _, err := edgeStmt.Exec(e.SourceID(), e.TargetID(), e.Type); err != nil {
			return fmt.Errorf("inserting edge %s->%s: %w", e.SourceID(), e.TargetID(), err)
		}
	}

	savedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES ('saved_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, savedAt); err != nil {
		return fmt.Errorf("recording save time: %w", err)
	}

	return tx.Commit()
}

// LoadSnapshot reads the cached snapshot back. An empty cache returns
// empty slices, not an error.
func (d *DB) LoadSnapshot() ([]graph.Node, []graph.Edge, error) {
	rows, err := d.db.Query(`
		SELECT id, label, type, source, category, date
		FROM nodes
		ORDER BY rowid
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []graph.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	edgeRows, err := d.db.Query(`
		SELECT source, target, type
		FROM edges
		ORDER BY rowid
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying edges: %w", err)
	}
	defer edgeRows.Close()

	var edges []graph.Edge
	for edgeRows.Next() {
		var src, tgt, typ string
		if err := edgeRows.Scan(&src, &tgt, &typ); err != nil {
			return nil, nil, err
		}
		edges = append(edges, graph.Edge{
			Source: graph.EndpointRef(src),
			Target: graph.EndpointRef(tgt),
			Type:   typ,
		})
	}

	return nodes, edges, edgeRows.Err()
}

// SavedAt reports when the cache was last written, or zero time for an
// empty cache.
func (d *DB) SavedAt() (time.Time, error) {
	var value string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'saved_at'").Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}

// Find performs a full-text search over cached node labels.
func (d *DB) Find(query string, limit int) ([]graph.Node, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT n.id, n.label, n.type, n.source, n.category, n.date
		FROM nodes n
		WHERE n.id IN (SELECT id FROM nodes_fts WHERE nodes_fts MATCH ?)
		LIMIT ?
	`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching cache: %w", err)
	}
	defer rows.Close()

	var results []graph.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, n)
	}
	return results, rows.Err()
}

// Counts summarizes the cache contents by node and edge type.
type Counts struct {
	Nodes map[string]int `json:"nodes"`
	Edges map[string]int `json:"edges"`
}

// Count tallies cached nodes and edges by type.
func (d *DB) Count() (*Counts, error) {
	counts := &Counts{
		Nodes: make(map[string]int),
		Edges: make(map[string]int),
	}

	rows, err := d.db.Query("SELECT type, COUNT(*) FROM nodes GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("counting nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		counts.Nodes[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := d.db.Query("SELECT type, COUNT(*) FROM edges GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("counting edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var typ string
		var n int
		if err := edgeRows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		counts.Edges[typ] = n
	}
	return counts, edgeRows.Err()
}

// scanNode reads one node row from nodes or a join over it.
func scanNode(rows *sql.Rows) (graph.Node, error) {
	var n graph.Node
	var source, category, date sql.NullString
	if err := rows.Scan(&n.ID, &n.Label, &n.Type, &source, &category, &date); err != nil {
		return graph.Node{}, fmt.Errorf("scanning node: %w", err)
	}
	n.Source = source.String
	n.Category = category.String
	n.Date = date.String
	return n, nil
}

// nullable converts a Go string to sql.NullString.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery sanitizes a user query for FTS5 MATCH. FTS5 uses
// double quotes for phrase matching; queries with operator characters
// are quoted wholesale.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
