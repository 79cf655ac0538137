//go:build js && wasm

// Command pcstwasm exposes pcst.Solve and embedindex.Index to the browser
// under the GoKittPCST global namespace.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/hack-pad/hackpadfs/indexeddb"

	"github.com/kittclouds/pcstengine/pkg/embedindex"
	"github.com/kittclouds/pcstengine/pkg/pcst"
)

var vectorIndex *embedindex.Index

func main() {
	fmt.Println("[pcstwasm] ready")

	js.Global().Set("GoKittPCST", js.ValueOf(map[string]interface{}{
		"solve":          js.FuncOf(solve),
		"initVectors":    js.FuncOf(initVectors),
		"addVector":      js.FuncOf(addVector),
		"saveVectors":    js.FuncOf(saveVectors),
		"candidateGraph": js.FuncOf(candidateGraph),
	}))

	select {}
}

// solveRequest mirrors pcst.Input in a JSON-friendly shape: Root is a
// pointer so omission (rather than 0) means unrooted.
type solveRequest struct {
	Edges                   [][2]uint32 `json:"edges"`
	Costs                   []float64   `json:"costs"`
	Prizes                  []float64   `json:"prizes"`
	Root                    *uint32     `json:"root,omitempty"`
	TargetNumActiveClusters uint32      `json:"targetNumActiveClusters,omitempty"`
	Pruning                 string      `json:"pruning,omitempty"`
}

type solveResponse struct {
	NodeIDs []uint32 `json:"nodeIds"`
	EdgeIDs []uint32 `json:"edgeIds"`
}

// solve: [jsonInput string]
// Returns: JSON {nodeIds, edgeIds} or {error: {kind, message}}
func solve(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("UsageError", "solve requires 1 argument: jsonInput")
	}

	var req solveRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return errorResult("UsageError", "invalid json: "+err.Error())
	}

	pruning, err := parsePruning(req.Pruning)
	if err != nil {
		return errorResult("UsageError", err.Error())
	}

	out, err := pcst.Solve(pcst.Input{
		Edges:                   req.Edges,
		Costs:                   req.Costs,
		Prizes:                  req.Prizes,
		Root:                    req.Root,
		TargetNumActiveClusters: req.TargetNumActiveClusters,
		Pruning:                 pruning,
	})
	if err != nil {
		if perr, ok := err.(*pcst.Error); ok {
			return errorResult(perr.Kind.String(), perr.Message)
		}
		return errorResult("AlgorithmFailure", err.Error())
	}

	resp := solveResponse{NodeIDs: out.NodeIDs, EdgeIDs: out.EdgeIDs}
	bytes, _ := json.Marshal(resp)
	return string(bytes)
}

func parsePruning(s string) (pcst.Pruning, error) {
	switch s {
	case "", "none":
		return pcst.PruneNone, nil
	case "simple":
		return pcst.PruneSimple, nil
	case "gw":
		return pcst.PruneGW, nil
	case "strong":
		return pcst.PruneStrong, nil
	default:
		return 0, fmt.Errorf("unknown pruning %q", s)
	}
}

// initVectors: [] (uses a fixed IndexedDB database/path)
func initVectors(this js.Value, args []js.Value) interface{} {
	fs, err := indexeddb.NewFS(context.Background(), "gokitt-pcst", indexeddb.Options{})
	if err != nil {
		return errorResult("StorageError", "failed to create idb fs: "+err.Error())
	}

	vectorIndex, err = embedindex.Open(fs, "embedindex.bin")
	if err != nil {
		return errorResult("StorageError", "failed to open index: "+err.Error())
	}
	return successResult("vector index initialized")
}

// addVector: [id uint32, vectorJSON string]
func addVector(this js.Value, args []js.Value) interface{} {
	if vectorIndex == nil {
		return errorResult("UsageError", "vector index not initialized")
	}
	if len(args) < 2 {
		return errorResult("UsageError", "addVector requires 2 args: id, vectorJSON")
	}

	var vec []float32
	if err := json.Unmarshal([]byte(args[1].String()), &vec); err != nil {
		return errorResult("UsageError", "invalid vector json: "+err.Error())
	}

	id := uint32(args[0].Int())
	if err := vectorIndex.Add(id, vec); err != nil {
		return errorResult("UsageError", err.Error())
	}
	return successResult("added")
}

// saveVectors persists the index to IndexedDB.
func saveVectors(this js.Value, args []js.Value) interface{} {
	if vectorIndex == nil {
		return errorResult("UsageError", "vector index not initialized")
	}
	if err := vectorIndex.Save(); err != nil {
		return errorResult("StorageError", err.Error())
	}
	return successResult("saved")
}

// candidateGraph: [embeddingsJSON string, k int]
// embeddingsJSON: {"<uint32 id>": [f32, ...], ...}
// Returns: JSON {edges: [[u,v],...], costs: [...]}
func candidateGraph(this js.Value, args []js.Value) interface{} {
	if vectorIndex == nil {
		return errorResult("UsageError", "vector index not initialized")
	}
	if len(args) < 2 {
		return errorResult("UsageError", "candidateGraph requires 2 args: embeddingsJSON, k")
	}

	var raw map[string][]float32
	if err := json.Unmarshal([]byte(args[0].String()), &raw); err != nil {
		return errorResult("UsageError", "invalid embeddings json: "+err.Error())
	}
	embeddings := make(map[uint32][]float32, len(raw))
	for key, v := range raw {
		var id uint32
		if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
			return errorResult("UsageError", "invalid node id key "+key)
		}
		embeddings[id] = v
	}

	k := args[1].Int()
	edges, costs := vectorIndex.CandidateEdges(embeddings, k)

	bytes, _ := json.Marshal(struct {
		Edges [][2]uint32 `json:"edges"`
		Costs []float64   `json:"costs"`
	}{edges, costs})
	return string(bytes)
}

func errorResult(kind, message string) interface{} {
	bytes, _ := json.Marshal(map[string]interface{}{
		"error": map[string]string{"kind": kind, "message": message},
	})
	return string(bytes)
}

func successResult(msg string) interface{} {
	bytes, _ := json.Marshal(map[string]interface{}{"success": msg})
	return string(bytes)
}
