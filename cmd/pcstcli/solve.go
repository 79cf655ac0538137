package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/kittclouds/pcstengine/internal/hoststore"
	"github.com/kittclouds/pcstengine/pkg/pcst"
)

var (
	solveDB         string
	solveWorld      string
	solveRoot       string
	solvePrune      string
	solveTarget     uint32
	solveText       string
	solveTextWeight float64
)

func init() {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a world's node/edge table and print the selected subgraph",
		Long: `solve loads every node and edge belonging to --world from --db, runs the
moat-growth solver, and prints the selected node IDs (with --json, also the
selected dense edge indices).

  pcstcli solve --db notes.db --world w1 --root frodo --prune strong
  pcstcli solve --db notes.db --world w1 --text query.txt --target 1`,
		RunE: runSolve,
	}
	cmd.Flags().StringVar(&solveDB, "db", "", "path to the SQLite database (required)")
	cmd.Flags().StringVar(&solveWorld, "world", "", "world ID to load (required)")
	cmd.Flags().StringVar(&solveRoot, "root", "", "node ID to root the solve at (omit for unrooted)")
	cmd.Flags().StringVar(&solvePrune, "prune", "simple", "pruning strategy: none|simple|gw|strong")
	cmd.Flags().Uint32Var(&solveTarget, "target", 0, "target number of active clusters (unrooted solves only)")
	cmd.Flags().StringVar(&solveText, "text", "", "path to a text document to derive node prizes from")
	cmd.Flags().Float64Var(&solveTextWeight, "text-weight", 1.0, "multiplier applied to text occurrence counts before adding to stored prize")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("world")
	rootCmd.AddCommand(cmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	store, err := hoststore.NewStoreWithDSN(solveDB)
	if err != nil {
		log.Fatalf("pcstcli: open %s: %v", solveDB, err)
	}
	defer store.Close()

	ctx := context.Background()

	if solveText != "" {
		if err := applyTextPrizes(ctx, store, solveWorld, solveText, solveTextWeight); err != nil {
			log.Fatalf("pcstcli: apply text prizes: %v", err)
		}
	}

	mapping, in, err := store.Load(ctx, solveWorld)
	if err != nil {
		log.Fatalf("pcstcli: load world %s: %v", solveWorld, err)
	}
	printVerbose("pcstcli: loaded %d nodes, %d edges\n", len(in.Prizes), len(in.Edges))

	pruning, err := parsePruning(solvePrune)
	if err != nil {
		log.Fatalf("pcstcli: %v", err)
	}
	in.Pruning = pruning
	in.Verbosity = 0
	if verbose {
		in.LogSink = func(line string) { fmt.Fprintln(os.Stderr, line) }
	}

	if solveRoot != "" {
		v, ok := mapping.Index(solveRoot)
		if !ok {
			log.Fatalf("pcstcli: root %q is not a node in world %s", solveRoot, solveWorld)
		}
		in.Root = &v
	} else {
		in.TargetNumActiveClusters = solveTarget
	}

	out, err := pcst.Solve(in)
	if err != nil {
		log.Fatalf("pcstcli: solve: %v", err)
	}

	return printResult(mapping, out)
}

func applyTextPrizes(ctx context.Context, store *hoststore.Store, world, path string, weight float64) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	mapping, _, err := store.Load(ctx, world)
	if err != nil {
		return err
	}
	labels := make(map[string]string, len(mapping.SortedIDs()))
	for _, id := range mapping.SortedIDs() {
		labels[id] = id
	}
	prizer := hoststore.NewTextPrizer(labels)
	counts := prizer.Count(string(text))
	return store.ApplyCounts(world, counts, weight)
}

func parsePruning(s string) (pcst.Pruning, error) {
	switch s {
	case "none":
		return pcst.PruneNone, nil
	case "simple":
		return pcst.PruneSimple, nil
	case "gw":
		return pcst.PruneGW, nil
	case "strong":
		return pcst.PruneStrong, nil
	default:
		return 0, fmt.Errorf("unknown --prune value %q (want none|simple|gw|strong)", s)
	}
}

func printResult(mapping *hoststore.Mapping, out pcst.Output) error {
	if jsonOut {
		result := struct {
			Nodes []string `json:"nodes"`
			Edges []uint32 `json:"edges"`
		}{
			Nodes: make([]string, len(out.NodeIDs)),
			Edges: out.EdgeIDs,
		}
		for i, v := range out.NodeIDs {
			result.Nodes[i] = mapping.ID(v)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for _, v := range out.NodeIDs {
		fmt.Println(mapping.ID(v))
	}
	return nil
}
