// Package hoststore is the host-side adapter between durable storage and the
// pcst core package: it owns the ID↔dense-index mapping pcst.Input expects,
// free-text prize extraction, and the SQLite schema those live over. None of
// it is reachable from pcst.Solve; it exists so callers with string-keyed
// domain data (notes, entities, concepts) can produce a pcst.Input and
// translate a pcst.Output back.
package hoststore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/kittclouds/pcstengine/pkg/pcst"
)

// Store is the SQLite-backed data store for the PCST host adapter.
// Safe for concurrent use: every method takes mu.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS pcst_nodes (
    id TEXT PRIMARY KEY,
    world_id TEXT NOT NULL,
    prize REAL NOT NULL DEFAULT 0,
    embedding BLOB
);

CREATE INDEX IF NOT EXISTS idx_pcst_nodes_world ON pcst_nodes(world_id);

CREATE TABLE IF NOT EXISTS pcst_edges (
    id TEXT PRIMARY KEY,
    world_id TEXT NOT NULL,
    source_id TEXT NOT NULL,
    target_id TEXT NOT NULL,
    cost REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pcst_edges_world ON pcst_edges(world_id);
CREATE INDEX IF NOT EXISTS idx_pcst_edges_source ON pcst_edges(source_id);
CREATE INDEX IF NOT EXISTS idx_pcst_edges_target ON pcst_edges(target_id);
`

// NewStore opens an in-memory SQLite store.
func NewStore() (*Store, error) {
	return NewStoreWithDSN(":memory:")
}

// NewStoreWithDSN opens a store at dsn. Use ":memory:" for in-memory or a
// file path for persistent storage.
func NewStoreWithDSN(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("hoststore: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("hoststore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// UpsertNode inserts or updates a node's prize and, optionally, its
// embedding (nil leaves the embedding untouched on an existing row).
func (s *Store) UpsertNode(worldID, id string, prize float64, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blob []byte
	if embedding != nil {
		var err error
		blob, err = encodeVector(embedding)
		if err != nil {
			return fmt.Errorf("hoststore: encode embedding for %q: %w", id, err)
		}
	}

	_, err := s.db.Exec(`
		INSERT INTO pcst_nodes (id, world_id, prize, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			prize = excluded.prize,
			embedding = COALESCE(excluded.embedding, pcst_nodes.embedding)
	`, id, worldID, prize, blob)
	return err
}

// UpsertEdge inserts or updates an edge between two node ids.
func (s *Store) UpsertEdge(worldID, id, sourceID, targetID string, cost float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO pcst_edges (id, world_id, source_id, target_id, cost)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			target_id = excluded.target_id,
			cost = excluded.cost
	`, id, worldID, sourceID, targetID, cost)
	return err
}

// Mapping translates between a world's string node ids and the dense
// [0, n) index space pcst.Input and pcst.Output use. Index assignment is
// insertion-ordered by SQL row order rather than Go map iteration, so it
// is reproducible across process restarts given an unchanged table.
type Mapping struct {
	ids   []string
	index map[string]uint32
}

// ID returns the original string id for dense index v.
func (m *Mapping) ID(v uint32) string { return m.ids[v] }

// Index returns the dense index assigned to id, or false if id is unknown
// to this Mapping.
func (m *Mapping) Index(id string) (uint32, bool) {
	v, ok := m.index[id]
	return v, ok
}

// Load reads every node and edge belonging to worldID and assembles a
// pcst.Input over a dense index space, along with the Mapping needed to
// translate a pcst.Output back to the original ids. Node ids are assigned
// in ascending id order so the resulting index assignment is stable across
// calls against an unchanged table.
func (s *Store) Load(ctx context.Context, worldID string) (*Mapping, pcst.Input, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prize FROM pcst_nodes WHERE world_id = ? ORDER BY id
	`, worldID)
	if err != nil {
		return nil, pcst.Input{}, fmt.Errorf("hoststore: query nodes: %w", err)
	}

	m := &Mapping{index: make(map[string]uint32)}
	var prizes []float64
	for rows.Next() {
		var id string
		var prize float64
		if err := rows.Scan(&id, &prize); err != nil {
			rows.Close()
			return nil, pcst.Input{}, fmt.Errorf("hoststore: scan node: %w", err)
		}
		m.index[id] = uint32(len(m.ids))
		m.ids = append(m.ids, id)
		prizes = append(prizes, prize)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, pcst.Input{}, fmt.Errorf("hoststore: iterate nodes: %w", err)
	}
	rows.Close()

	edgeRows, err := s.db.QueryContext(ctx, `
		SELECT source_id, target_id, cost FROM pcst_edges WHERE world_id = ? ORDER BY id
	`, worldID)
	if err != nil {
		return nil, pcst.Input{}, fmt.Errorf("hoststore: query edges: %w", err)
	}
	defer edgeRows.Close()

	var edges [][2]uint32
	var costs []float64
	for edgeRows.Next() {
		var sourceID, targetID string
		var cost float64
		if err := edgeRows.Scan(&sourceID, &targetID, &cost); err != nil {
			return nil, pcst.Input{}, fmt.Errorf("hoststore: scan edge: %w", err)
		}
		a, aok := m.index[sourceID]
		b, bok := m.index[targetID]
		if !aok || !bok || a == b {
			continue // edge touches a node outside this world, or is a self-loop
		}
		edges = append(edges, [2]uint32{a, b})
		costs = append(costs, cost)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, pcst.Input{}, fmt.Errorf("hoststore: iterate edges: %w", err)
	}

	return m, pcst.Input{Edges: edges, Costs: costs, Prizes: prizes}, nil
}

// Embeddings returns every node in worldID that has a stored embedding,
// keyed by its dense index under m, for use with embedindex.CandidateEdges.
func (s *Store) Embeddings(ctx context.Context, worldID string, m *Mapping) (map[uint32][]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, embedding FROM pcst_nodes
		WHERE world_id = ? AND embedding IS NOT NULL
	`, worldID)
	if err != nil {
		return nil, fmt.Errorf("hoststore: query embeddings: %w", err)
	}
	defer rows.Close()

	out := make(map[uint32][]float32)
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("hoststore: scan embedding: %w", err)
		}
		v, ok := m.index[id]
		if !ok {
			continue
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("hoststore: decode embedding for %q: %w", id, err)
		}
		out[v] = vec
	}
	return out, rows.Err()
}

// RootFromInt maps an integer -1-means-unrooted root convention onto
// pcst.Input.Root's nil-means-unrooted one. Negative values (including
// -1) are unrooted; any other value is cast to uint32 and validated by
// pcst.Solve itself.
func RootFromInt(i int) *uint32 {
	if i < 0 {
		return nil
	}
	v := uint32(i)
	return &v
}

// SortedIDs returns m's ids in lexicographic order, mainly useful for
// deterministic CLI/debug output.
func (m *Mapping) SortedIDs() []string {
	out := append([]string(nil), m.ids...)
	sort.Strings(out)
	return out
}
