package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/dd0wney/cluso-beliefprop/pkg/config"
	"github.com/dd0wney/cluso-beliefprop/pkg/diamonds"
	"github.com/dd0wney/cluso-beliefprop/pkg/inference"
	"github.com/dd0wney/cluso-beliefprop/pkg/logging"
	"github.com/dd0wney/cluso-beliefprop/pkg/metrics"
	"github.com/dd0wney/cluso-beliefprop/pkg/network"
	"github.com/dd0wney/cluso-beliefprop/pkg/probability"
)

func main() {
	nodes := flag.Int("nodes", 300, "Number of nodes in the generated DAG")
	layers := flag.Int("layers", 30, "Number of topological layers")
	density := flag.Float64("density", 1.5, "Average outgoing edges per node")
	edgeProb := flag.Float64("edge-prob", 0.9, "Edge transmission probability")
	prior := flag.Float64("prior", 0.95, "Node prior probability")
	seed := flag.Int64("seed", 42, "Random generator seed")
	runs := flag.Int("runs", 3, "Propagation runs (later runs exercise the cache)")
	cfgPath := flag.String("config", "", "Engine config file (YAML)")
	flag.Parse()

	fmt.Printf("🔥 Cluso BeliefProp - Inference Benchmark\n")
	fmt.Printf("=========================================\n\n")

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	fmt.Printf("Configuration:\n")
	fmt.Printf("  Nodes: %d\n", *nodes)
	fmt.Printf("  Layers: %d\n", *layers)
	fmt.Printf("  Density: %.2f\n", *density)
	fmt.Printf("  Workers: %d\n", cfg.Workers)
	fmt.Printf("  Seed: %d\n\n", *seed)

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	registry := metrics.NewRegistry()

	// Generate a layered random DAG
	fmt.Printf("📝 Generating %d-node DAG...\n", *nodes)
	rng := rand.New(rand.NewSource(*seed))
	edges := generateLayeredDAG(rng, *nodes, *layers, *density)
	fmt.Printf("✅ Generated %d edges\n", len(edges))

	// Preprocess
	fmt.Printf("\n📂 Preprocessing graph...\n")
	start := time.Now()
	g, err := network.ProcessGraph(edges)
	if err != nil {
		log.Fatalf("Preprocessing failed: %v", err)
	}
	duration := time.Since(start)
	registry.RecordPreprocess(len(g.Nodes), len(g.EdgeSet), len(g.IterationSets), duration)
	fmt.Printf("✅ Preprocessed in %v\n", duration)
	fmt.Printf("  Iteration sets: %d\n", len(g.IterationSets))
	fmt.Printf("  Forks: %d  Joins: %d  Sources: %d\n",
		len(g.ForkNodes), len(g.JoinNodes), len(g.SourceNodes))

	priors := make(map[uint64]probability.Float64, len(g.Nodes))
	for _, n := range g.Nodes {
		priors[n] = probability.Float64(*prior)
	}
	edgeProbs := make(map[network.Edge]probability.Float64, len(edges))
	for _, e := range edges {
		edgeProbs[e] = probability.Float64(*edgeProb)
	}

	// Benchmark 1: Diamond identification
	fmt.Printf("\n📊 Benchmark 1: Diamond Identification\n")
	start = time.Now()
	bctx := diamonds.NewBuildContext(
		diamonds.WithClearInterval(cfg.CacheClearInterval),
		diamonds.WithConditioningWarnLimit(cfg.ConditioningWarnLimit),
		diamonds.WithLogger(logging.ForComponent(logger, "diamonds")),
	)
	roots := diamonds.IdentifyAndGroupDiamonds(g, nil, bctx)
	duration = time.Since(start)

	totalDiamonds := 0
	for _, dan := range roots {
		totalDiamonds += len(dan.Diamonds)
	}
	fmt.Printf("✅ Identification completed in %v\n", duration)
	fmt.Printf("  Joins with diamonds: %d\n", len(roots))
	fmt.Printf("  Diamonds: %d\n", totalDiamonds)

	// Benchmark 2: Diamond storage build (parallel)
	fmt.Printf("\n📊 Benchmark 2: Diamond Storage Build (%d workers)\n", cfg.Workers)
	start = time.Now()
	storage, err := diamonds.BuildUniqueDiamondStorageParallel(g, roots, bctx, cfg.Workers)
	if err != nil {
		log.Fatalf("Storage build failed: %v", err)
	}
	duration = time.Since(start)
	registry.RecordDiamondBuild(storage.Len(), storage.Stats.HashHits, storage.Stats.NearMisses, duration)
	fmt.Printf("✅ Storage built in %v\n", duration)
	fmt.Printf("  Unique structures: %d\n", storage.Len())
	fmt.Printf("  Hash hits: %d  Near misses: %d\n", storage.Stats.HashHits, storage.Stats.NearMisses)

	meta := diamonds.ClassifyDiamonds(storage)
	maxDepth, maxCond := 0, 0
	for _, m := range meta {
		if m.NestingDepth > maxDepth {
			maxDepth = m.NestingDepth
		}
		if m.ConditioningCount > maxCond {
			maxCond = m.ConditioningCount
		}
	}
	fmt.Printf("  Max nesting depth: %d  Max conditioning set: %d\n", maxDepth, maxCond)

	// Benchmark 3: Belief propagation
	fmt.Printf("\n📊 Benchmark 3: Belief Propagation (%d runs)\n", *runs)
	cache := inference.NewDiamondCache[probability.Float64]()

	var beliefs map[uint64]probability.Float64
	for run := 1; run <= *runs; run++ {
		engine := inference.New(g, storage, priors, edgeProbs,
			inference.WithLogger[probability.Float64](logging.ForComponent(logger, "inference")),
			inference.WithMetrics[probability.Float64](registry),
			inference.WithRetainedCache[probability.Float64](cache),
		)

		start = time.Now()
		beliefs, err = engine.UpdateBeliefsIterative(context.Background())
		if err != nil {
			log.Fatalf("Propagation failed: %v", err)
		}
		duration = time.Since(start)

		stats := engine.Stats()
		fmt.Printf("✅ Run %d completed in %v\n", run, duration)
		fmt.Printf("  Diamonds evaluated: %d  State enumerations: %d\n",
			stats.DiamondsEvaluated, stats.StateEnumerations)
		fmt.Printf("  Cache hits: %d  misses: %d\n", stats.CacheHits, stats.CacheMisses)
	}

	// Report the lowest-belief sinks: the nodes hardest to reach
	fmt.Printf("\n📈 Bottom 5 nodes by belief:\n")
	for i, nb := range bottomNodes(beliefs, 5) {
		fmt.Printf("    %d. Node %d (belief: %.6f)\n", i+1, nb.node, nb.belief)
	}

	fmt.Printf("\n🎉 Benchmark complete!\n")
}

// generateLayeredDAG spreads nodes across layers and draws each edge from a
// node to a uniformly chosen node in a strictly later layer. Acyclic by
// construction.
func generateLayeredDAG(rng *rand.Rand, nodes, layers int, density float64) []network.Edge {
	if layers < 2 {
		layers = 2
	}
	if layers > nodes {
		layers = nodes
	}

	layerOf := make([]int, nodes+1)
	byLayer := make([][]uint64, layers)
	for id := 1; id <= nodes; id++ {
		l := (id - 1) * layers / nodes
		layerOf[id] = l
		byLayer[l] = append(byLayer[l], uint64(id))
	}

	laterCount := make([]int, layers)
	for l := layers - 2; l >= 0; l-- {
		laterCount[l] = laterCount[l+1] + len(byLayer[l+1])
	}

	seen := make(map[network.Edge]struct{})
	edges := make([]network.Edge, 0, int(float64(nodes)*density))
	for id := 1; id <= nodes; id++ {
		l := layerOf[id]
		if laterCount[l] == 0 {
			continue
		}
		out := 1 + rng.Intn(int(density*2))
		for k := 0; k < out; k++ {
			target := pickLater(rng, byLayer, l, laterCount[l])
			e := network.Edge{From: uint64(id), To: target}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

func pickLater(rng *rand.Rand, byLayer [][]uint64, layer, laterCount int) uint64 {
	k := rng.Intn(laterCount)
	for l := layer + 1; l < len(byLayer); l++ {
		if k < len(byLayer[l]) {
			return byLayer[l][k]
		}
		k -= len(byLayer[l])
	}
	// Unreachable while laterCount matches the layer sizes
	return byLayer[len(byLayer)-1][0]
}

type nodeBelief struct {
	node   uint64
	belief float64
}

func bottomNodes(beliefs map[uint64]probability.Float64, n int) []nodeBelief {
	all := make([]nodeBelief, 0, len(beliefs))
	for node, b := range beliefs {
		all = append(all, nodeBelief{node: node, belief: float64(b)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].belief != all[j].belief {
			return all[i].belief < all[j].belief
		}
		return all[i].node < all[j].node
	})
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}
