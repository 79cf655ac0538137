package pcst

import "fmt"

// ErrorKind classifies a failure returned by Solve. It is machine-readable;
// Error.Message carries the human-readable detail.
type ErrorKind int

const (
	// ErrNegativeCost: an edge cost was < 0.
	ErrNegativeCost ErrorKind = iota
	// ErrNegativePrize: a node prize was < 0.
	ErrNegativePrize
	// ErrNonFinite: a cost or prize was NaN or +/-Inf.
	ErrNonFinite
	// ErrRootOutOfRange: Root was set but >= n.
	ErrRootOutOfRange
	// ErrRootConflictsWithClusters: TargetNumActiveClusters != 0 while Root
	// is set, or pruning was PruneGW on a rooted solve (GW pruning is only
	// defined for the unrooted case).
	ErrRootConflictsWithClusters
	// ErrEdgeEndpointOutOfRange: an edge referenced a node index >= n.
	ErrEdgeEndpointOutOfRange
	// ErrLengthMismatch: len(Costs) != len(Edges).
	ErrLengthMismatch
	// ErrAlgorithmFailure: an internal invariant was violated. Should never
	// happen on validated input; indicates a bug in the driver or pruning
	// engine. Context carries enough state to reproduce.
	ErrAlgorithmFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNegativeCost:
		return "NegativeCost"
	case ErrNegativePrize:
		return "NegativePrize"
	case ErrNonFinite:
		return "NonFinite"
	case ErrRootOutOfRange:
		return "RootOutOfRange"
	case ErrRootConflictsWithClusters:
		return "RootConflictsWithClusters"
	case ErrEdgeEndpointOutOfRange:
		return "EdgeEndpointOutOfRange"
	case ErrLengthMismatch:
		return "LengthMismatch"
	case ErrAlgorithmFailure:
		return "AlgorithmFailure"
	default:
		return "Unknown"
	}
}

// Error is the structured error type returned by Solve. It is never
// wrapped around a lower-level error; Kind and Message are always enough
// to act on.
type Error struct {
	Kind    ErrorKind
	Message string
	// Context is populated only for ErrAlgorithmFailure and carries enough
	// state (n, m, root, target active clusters, pruning mode) to file a
	// bug report.
	Context map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil pcst.Error>"
	}
	return fmt.Sprintf("pcst: %s: %s", e.Kind, e.Message)
}

func invalidInput(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func algorithmFailure(message string, ctx map[string]any) *Error {
	return &Error{Kind: ErrAlgorithmFailure, Message: message, Context: ctx}
}
