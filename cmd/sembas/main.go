// Command sembas explores the performance boundary of a function under
// test. It finds an initial in/out pair by Monte-Carlo search, refines it
// to a root halfspace, and walks the surface with the mesh explorer,
// optionally persisting the result to sqlite and rendering plots.
//
// The function under test is either a built-in synthetic geometry
// (-mode sphere) or an external process served over TCP (-mode remote).
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/banshee-data/sembas/internal/boundary"
	"github.com/banshee-data/sembas/internal/boundary/remote"
	"github.com/banshee-data/sembas/internal/boundarydb"
	"github.com/banshee-data/sembas/internal/config"
	"github.com/banshee-data/sembas/internal/geom"
	"github.com/banshee-data/sembas/internal/monitor"
)

func main() {
	var (
		mode       = flag.String("mode", "sphere", "function under test: 'sphere' (synthetic) or 'remote' (TCP)")
		listenAddr = flag.String("listen", "127.0.0.1:2000", "listen address for -mode remote")
		configPath = flag.String("config", "", "optional JSON tuning config")
		dims       = flag.Int("dims", 0, "dimensionality (overrides config)")
		jump       = flag.Float64("jump", 0, "jump distance d (overrides config)")
		margin     = flag.Float64("margin", 0, "pruning margin (overrides config)")
		maxPoints  = flag.Int("max-points", 0, "boundary point budget (overrides config)")
		maxSamples = flag.Int("max-samples", 0, "classification budget (overrides config)")
		seed       = flag.Int64("seed", 0, "global search seed (overrides config)")
		dbPath     = flag.String("db", "", "sqlite path to record the run")
		plotPath   = flag.String("plot", "", "PNG path for a boundary projection plot")
		reportPath = flag.String("report", "", "HTML path for an interactive boundary report")
	)
	flag.Parse()

	cfg, err := config.LoadExploreConfig(*configPath)
	if err != nil {
		log.Fatalf("[sembas] %v", err)
	}
	applyFlagOverrides(cfg, *dims, *jump, *margin, *maxPoints, *maxSamples, *seed, *dbPath, *plotPath, *reportPath)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[sembas] invalid configuration: %v", err)
	}

	if err := run(*mode, *listenAddr, cfg); err != nil {
		log.Fatalf("[sembas] %v", err)
	}
}

func applyFlagOverrides(cfg *config.ExploreConfig, dims int, jump, margin float64, maxPoints, maxSamples int, seed int64, dbPath, plotPath, reportPath string) {
	if dims > 0 {
		cfg.Dims = &dims
	}
	if jump > 0 {
		cfg.JumpDistance = &jump
	}
	if margin > 0 {
		cfg.Margin = &margin
	}
	if maxPoints > 0 {
		cfg.MaxBoundaryPoints = &maxPoints
	}
	if maxSamples > 0 {
		cfg.MaxSamples = &maxSamples
	}
	if seed != 0 {
		cfg.Seed = &seed
	}
	if dbPath != "" {
		cfg.DatabasePath = &dbPath
	}
	if plotPath != "" {
		cfg.PlotPath = &plotPath
	}
	if reportPath != "" {
		cfg.ReportPath = &reportPath
	}
}

func run(mode, listenAddr string, cfg *config.ExploreConfig) error {
	n := *cfg.Dims
	domain := geom.UnitDomain(n)

	var classifier boundary.Classifier
	switch mode {
	case "sphere":
		sphere, err := boundary.NewSphere(geom.Repeat(n, 0.5), 0.25, &domain)
		if err != nil {
			return err
		}
		classifier = sphere
	case "remote":
		rc, err := remote.Listen(listenAddr, n, domain, remote.Config{})
		if err != nil {
			return err
		}
		defer rc.Close()
		classifier = rc
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	factory, err := buildFactory(cfg)
	if err != nil {
		return err
	}

	log.Printf("[sembas] Searching for an initial boundary pair (budget %d)", *cfg.GlobalSearchBudget)
	search := boundary.NewMonteCarloSearch(domain, uint64(*cfg.Seed))
	pair, err := boundary.FindInitialBoundaryPair(classifier, search, *cfg.GlobalSearchBudget)
	if err != nil {
		return fmt.Errorf("global search: %w", err)
	}

	root, err := boundary.BinarySurfaceSearch(*cfg.JumpDistance, pair, *cfg.MaxSamples, classifier)
	if err != nil {
		return fmt.Errorf("surfacing: %w", err)
	}
	log.Printf("[sembas] Root halfspace at %v", root.B)

	explorer, err := boundary.NewMeshExplorer(*cfg.JumpDistance, root, *cfg.Margin, factory)
	if err != nil {
		return err
	}

	var store *boundarydb.Store
	var runID string
	if cfg.DatabasePath != nil && *cfg.DatabasePath != "" {
		store, err = boundarydb.Open(*cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("open run store: %w", err)
		}
		defer store.Close()
		runID, err = store.BeginRun(n, *cfg.JumpDistance, *cfg.Margin, *cfg.Adherer, "cli run, mode="+mode)
		if err != nil {
			return err
		}
	}

	if err := explore(explorer, classifier, *cfg.MaxBoundaryPoints, *cfg.MaxSamples); err != nil {
		return err
	}

	nodes := explorer.Nodes()
	stats := explorer.Stats()
	log.Printf("[sembas] Explored %d boundary points with %d samples (%d BLE, %d OOB)",
		len(nodes), stats.Samples, stats.BoundaryLost, stats.OutOfBounds)

	if store != nil {
		if err := store.InsertBoundary(runID, nodes); err != nil {
			return err
		}
		if err := store.FinishRun(runID, stats, len(nodes)); err != nil {
			return err
		}
	}
	if cfg.PlotPath != nil && *cfg.PlotPath != "" {
		if err := monitor.PlotBoundary(nodes, 0, 1, *cfg.PlotPath); err != nil {
			return err
		}
		log.Printf("[sembas] Wrote plot to %s", *cfg.PlotPath)
	}
	if cfg.ReportPath != nil && *cfg.ReportPath != "" {
		if err := monitor.WriteBoundaryReport(nodes, 0, 1, *cfg.ReportPath); err != nil {
			return err
		}
		log.Printf("[sembas] Wrote report to %s", *cfg.ReportPath)
	}
	return nil
}

func buildFactory(cfg *config.ExploreConfig) (boundary.AdhererFactory, error) {
	switch *cfg.Adherer {
	case "const":
		return boundary.NewConstantAdhererFactory(
			*cfg.DeltaAngleDeg*math.Pi/180,
			*cfg.MaxRotationDeg*math.Pi/180,
		)
	case "bsearch":
		return boundary.NewBinarySearchAdhererFactory(
			*cfg.InitAngleDeg*math.Pi/180,
			*cfg.BinarySearchDepth,
		)
	default:
		return nil, fmt.Errorf("unknown adherer %q", *cfg.Adherer)
	}
}

// explore drives the explorer until the surface is exhausted or a budget
// runs out. Transport failures abort the run.
func explore(explorer *boundary.MeshExplorer, classifier boundary.Classifier, maxPoints, maxSamples int) error {
	lastLogged := 0
	for explorer.Stats().Samples < maxSamples && explorer.BoundaryCount() < maxPoints {
		outcome, err := explorer.Step(classifier)
		if err != nil {
			if errors.Is(err, boundary.ErrRemoteDisconnected) || errors.Is(err, boundary.ErrProtocol) {
				return fmt.Errorf("classifier transport failed mid-exploration: %w", err)
			}
			return err
		}
		if outcome.Kind == boundary.StepComplete {
			log.Printf("[sembas] Surface exhausted")
			return nil
		}
		if count := explorer.BoundaryCount(); count >= lastLogged+100 {
			lastLogged = count
			log.Printf("[sembas] %d boundary points, %d samples", count, explorer.Stats().Samples)
		}
	}
	log.Printf("[sembas] Budget reached")
	return nil
}
