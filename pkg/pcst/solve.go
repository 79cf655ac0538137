// Package pcst implements a Goemans-Williamson moat-growth 2-approximation
// solver for the Prize-Collecting Steiner Tree/Forest problem on
// undirected weighted graphs. It is a pure value-in, value-out package:
// node and edge identity is a dense [0,n)/[0,m) index space owned entirely
// by the caller, with no IDs, persistence, or I/O of its own. Callers that
// work with application-shaped identifiers (strings, UUIDs, database rows)
// go through a host adapter such as internal/hoststore, which maps to and
// from this index space.
package pcst

import (
	"fmt"
	"math"
)

// Pruning selects the post-processing strategy applied to the growth
// trace before the result is assembled.
type Pruning int

const (
	PruneNone Pruning = iota
	PruneSimple
	PruneGW
	PruneStrong
)

func (p Pruning) String() string {
	switch p {
	case PruneNone:
		return "none"
	case PruneSimple:
		return "simple"
	case PruneGW:
		return "gw"
	case PruneStrong:
		return "strong"
	default:
		return "unknown"
	}
}

// Input is the solve's entire configuration surface; there is no config
// file or package-level state to consult alongside it.
type Input struct {
	// Edges lists undirected edges as (u, v) node index pairs, u != v.
	Edges [][2]uint32
	// Costs[i] is the cost of Edges[i]; must be >= 0 and finite.
	Costs []float64
	// Prizes[v] is node v's prize; must be >= 0 and finite. len(Prizes)
	// determines n, the number of nodes.
	Prizes []float64
	// Root, if set, pins the result to a single tree containing this
	// node and requires TargetNumActiveClusters == 0.
	Root *uint32
	// TargetNumActiveClusters stops unrooted growth once this many
	// top-level clusters remain active. Must be 0 when Root is set.
	TargetNumActiveClusters uint32
	Pruning                 Pruning
	Verbosity               uint8
	// LogSink, if non-nil, receives diagnostic lines during the solve.
	// The package never logs through a global logger.
	LogSink func(string)
}

// Output is the selected subgraph: NodeIDs and EdgeIDs are each sorted and
// distinct, and interpreted as a subgraph they form a forest over Edges.
type Output struct {
	NodeIDs []uint32
	EdgeIDs []uint32
}

func (in *Input) log(format string, args ...any) {
	if in.LogSink != nil {
		in.LogSink(fmt.Sprintf(format, args...))
	}
}

// Solve runs the solver to completion on in and returns the selected
// forest. It never mutates in.Edges, in.Costs, or in.Prizes. Validation
// errors are returned before any allocation for growth; an internal
// invariant violation is recovered at this boundary and returned as
// Error{Kind: ErrAlgorithmFailure} rather than propagated as a panic.
func Solve(in Input) (out Output, err error) {
	if verr := validate(in); verr != nil {
		return Output{}, verr
	}

	defer func() {
		if r := recover(); r != nil {
			err = algorithmFailure(fmt.Sprintf("%v", r), map[string]any{
				"n":                          len(in.Prizes),
				"m":                          len(in.Edges),
				"root":                       in.Root,
				"target_num_active_clusters": in.TargetNumActiveClusters,
				"pruning":                    in.Pruning.String(),
			})
		}
	}()

	n := len(in.Prizes)
	costs := append([]float64(nil), in.Costs...)
	prizes := append([]float64(nil), in.Prizes...)
	edges := append([][2]uint32(nil), in.Edges...)

	if n == 0 {
		return Output{}, nil
	}

	in.log("pcst: solving n=%d m=%d pruning=%s", n, len(edges), in.Pruning)

	growth, err := runGrowth(n, edges, costs, prizes, in.Root, in.TargetNumActiveClusters)
	if err != nil {
		return Output{}, err
	}
	in.log("pcst: growth finished with %d good edges", len(growth.goodEdges))

	forest := prune(growth.store, edges, costs, prizes, n, growth.goodEdges, in.Pruning, in.Root)
	return assembleResult(forest), nil
}

func validate(in Input) *Error {
	n := len(in.Prizes)
	m := len(in.Edges)
	if len(in.Costs) != m {
		return invalidInput(ErrLengthMismatch, "len(Costs) = %d does not match len(Edges) = %d", len(in.Costs), m)
	}
	for v, p := range in.Prizes {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return invalidInput(ErrNonFinite, "prize at node %d is not finite: %v", v, p)
		}
		if p < 0 {
			return invalidInput(ErrNegativePrize, "prize at node %d is negative: %v", v, p)
		}
	}
	for e, c := range in.Costs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return invalidInput(ErrNonFinite, "cost at edge %d is not finite: %v", e, c)
		}
		if c < 0 {
			return invalidInput(ErrNegativeCost, "cost at edge %d is negative: %v", e, c)
		}
	}
	for e, ends := range in.Edges {
		if int(ends[0]) >= n || int(ends[1]) >= n {
			return invalidInput(ErrEdgeEndpointOutOfRange, "edge %d references node outside [0, %d): %v", e, n, ends)
		}
	}
	if in.Root != nil {
		if int(*in.Root) >= n {
			return invalidInput(ErrRootOutOfRange, "root %d is outside [0, %d)", *in.Root, n)
		}
		if in.TargetNumActiveClusters != 0 {
			return invalidInput(ErrRootConflictsWithClusters, "TargetNumActiveClusters must be 0 when Root is set, got %d", in.TargetNumActiveClusters)
		}
		if in.Pruning == PruneGW {
			return invalidInput(ErrRootConflictsWithClusters, "rooted solves do not support PruneGW; use PruneStrong or PruneSimple")
		}
	}
	return nil
}
