// Package embedindex builds an approximate k-nearest-neighbor candidate
// graph over node embeddings, for callers of pcst.Solve that have vectors
// instead of an explicit edge list (e.g. semantic-similarity graphs over
// free-text notes). It persists through a hackpadfs.FS so the same code
// runs against the OS filesystem natively and an in-memory or IndexedDB
// filesystem under GOOS=js.
package embedindex

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"sync"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	"github.com/hack-pad/hackpadfs"
	kvector "github.com/kshard/vector"
)

// Index is an HNSW-backed nearest-neighbor index over node embeddings,
// keyed by the same dense node ids pcst.Input uses.
type Index struct {
	hnsw *hnsw.HNSW[vector.VF32]
	fs   hackpadfs.FS
	path string
	mu   sync.RWMutex
}

// Open loads an index previously Saved at path, or starts an empty one
// using cosine distance if it cannot be loaded (missing, unreadable or
// undecodable); it never returns an error.
func Open(fs hackpadfs.FS, path string) (*Index, error) {
	idx := &Index{fs: fs, path: path}
	if err := idx.Load(); err != nil {
		idx.hnsw = hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine()))
	}
	return idx, nil
}

// Add inserts node v's embedding. All vectors in one Index must share a
// dimension.
func (idx *Index) Add(v uint32, embedding []float32) error {
	if idx.hnsw.Size() > 0 {
		if dim := len(idx.hnsw.Head().Vec); dim != len(embedding) {
			return fmt.Errorf("embedindex: dimension mismatch: index is %d, got %d", dim, len(embedding))
		}
	}
	idx.hnsw.Insert(vector.VF32{Key: v, Vec: embedding})
	return nil
}

// neighbors returns the k nearest node ids to query, nearest first,
// excluding self.
func (idx *Index) neighbors(self uint32, query []float32, k int) []uint32 {
	ef := k * 2
	if ef < 100 {
		ef = 100
	}
	hits := idx.hnsw.Search(vector.VF32{Vec: query}, k+1, ef)
	out := make([]uint32, 0, k)
	for _, h := range hits {
		if h.Key == self {
			continue
		}
		out = append(out, h.Key)
		if len(out) == k {
			break
		}
	}
	return out
}

// CandidateEdges builds a pcst.Input-shaped undirected edge set: for each
// node, its k nearest other nodes become candidate edges with
// cost = 1 - cosine_similarity, clamped to [0, 2] (cosine_similarity = 1 -
// cosine_distance, and hnsw's configured surface already reports cosine
// distance, so cost is simply that distance clamped). Duplicate edges
// discovered from both endpoints are collapsed, keeping the lower cost.
func (idx *Index) CandidateEdges(embeddings map[uint32][]float32, k int) ([][2]uint32, []float64) {
	type key struct{ u, v uint32 }
	best := make(map[key]float64)

	for v, vec := range embeddings {
		for _, u := range idx.neighbors(v, vec, k) {
			a, b := v, u
			if a > b {
				a, b = b, a
			}
			cost := idx.costBetween(embeddings[a], embeddings[b])
			if existing, ok := best[key{a, b}]; !ok || cost < existing {
				best[key{a, b}] = cost
			}
		}
	}

	edges := make([][2]uint32, 0, len(best))
	costs := make([]float64, 0, len(best))
	for k, cost := range best {
		edges = append(edges, [2]uint32{k.u, k.v})
		costs = append(costs, cost)
	}
	return edges, costs
}

// costBetween mirrors the cosine distance the index itself was built with
// (vector.SurfaceVF32(kvector.Cosine())), so that a CandidateEdges cost
// always agrees with the ordering hnsw's own search produced.
func (idx *Index) costBetween(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	dist := 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	if dist < 0 {
		dist = 0
	}
	if dist > 2 {
		dist = 2
	}
	return dist
}

// Save persists the index to its backing filesystem.
func (idx *Index) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(idx.hnsw.Nodes()); err != nil {
		return fmt.Errorf("embedindex: encode: %w", err)
	}
	if err := hackpadfs.WriteFullFile(idx.fs, idx.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("embedindex: write: %w", err)
	}
	return nil
}

// Load reads the index back from its backing filesystem.
func (idx *Index) Load() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	content, err := hackpadfs.ReadFile(idx.fs, idx.path)
	if err != nil {
		return err
	}
	var nodes hnsw.Nodes[vector.VF32]
	if err := gob.NewDecoder(bytes.NewReader(content)).Decode(&nodes); err != nil {
		return fmt.Errorf("embedindex: decode: %w", err)
	}
	idx.hnsw = hnsw.FromNodes[vector.VF32](vector.SurfaceVF32(kvector.Cosine()), nodes)
	return nil
}
