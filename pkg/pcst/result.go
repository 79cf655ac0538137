package pcst

import "sort"

// Component G: result assembly. Turns a prunedForest into the public
// Output, sorting both slices so identical inputs always produce
// byte-identical results regardless of map iteration order upstream.
func assembleResult(f *prunedForest) Output {
	out := Output{
		NodeIDs: make([]uint32, 0, len(f.nodes)),
		EdgeIDs: append([]uint32(nil), f.edges...),
	}
	for node := range f.nodes {
		out.NodeIDs = append(out.NodeIDs, node)
	}
	sort.Slice(out.NodeIDs, func(i, j int) bool { return out.NodeIDs[i] < out.NodeIDs[j] })
	sort.Slice(out.EdgeIDs, func(i, j int) bool { return out.EdgeIDs[i] < out.EdgeIDs[j] })
	return out
}
