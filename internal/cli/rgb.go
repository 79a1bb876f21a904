package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/graphorder/pkg/bisect"
	"github.com/matzehuels/graphorder/pkg/cache"
	"github.com/matzehuels/graphorder/pkg/errors"
	"github.com/matzehuels/graphorder/pkg/graph"
	"github.com/matzehuels/graphorder/pkg/observability"
	"github.com/matzehuels/graphorder/pkg/perm"
)

// rgbOpts holds the command-line flags for the rgb command.
type rgbOpts struct {
	output      string // permutation output path
	format      string // input format: "bin", "ascii", or "" for auto
	configPath  string // explicit config file path
	strategy    string // gain strategy: "default", "approx-1", "approx-2"
	iterations  int    // local search passes per split
	minPartSize int    // subsets at or below this size become leaves
	maxDepth    int    // recursion depth cutoff
	sortLeaves  bool   // order leaf nodes by ascending original id
	degreeSort  bool   // start from a degree-descending arrangement
	parallelism int    // worker goroutines (0 = GOMAXPROCS)
	refresh     bool   // ignore cached results but store the fresh one
	noCache     bool   // skip the permutation cache
	cacheDir    string // cache directory override
	watch       bool   // live progress TUI
}

// newRGBCmd creates the rgb command, which computes a node permutation for
// a graph via recursive graph bisection and writes it to a file.
func newRGBCmd() *cobra.Command {
	var opts rgbOpts

	cmd := &cobra.Command{
		Use:   "rgb <graph> [output]",
		Short: "Compute a compression-friendly node permutation",
		Long: `Computes a node permutation by recursive graph bisection: nodes are
split into balanced halves, each split is refined by a gain-driven local
search, and the recursion bottoms out in small leaves ordered by original
id. The permutation maps original node ids to new ids and is written as
big-endian 64-bit words.

Results are cached by graph content and settings, so re-running with
identical inputs is instant. Use --no-cache to force recomputation.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidatePath(args[0]); err != nil {
				return err
			}
			if err := errors.ValidateStrategy(opts.strategy); err != nil {
				return err
			}
			if opts.output == "" && len(args) == 2 {
				opts.output = args[1]
			}
			return runRGB(cmd, args[0], &opts)
		},
	}

	registerRGBFlags(cmd.Flags(), &opts)
	return cmd
}

func registerRGBFlags(flags *pflag.FlagSet, opts *rgbOpts) {
	flags.StringVarP(&opts.output, "output", "o", "", "permutation output path (default <graph>.perm)")
	flags.StringVarP(&opts.format, "format", "f", "", "input format: bin or ascii (default: by extension)")
	flags.StringVar(&opts.configPath, "config", "", "config file (default ./graphorder.toml)")
	flags.StringVar(&opts.strategy, "strategy", string(bisect.StrategyDefault), "gain strategy: default, approx-1, approx-2")
	flags.IntVar(&opts.iterations, "iterations", bisect.DefaultMaxIterations, "max local search passes per split")
	flags.IntVar(&opts.minPartSize, "min-partition-size", bisect.DefaultMinPartitionSize, "subsets at or below this size become leaves")
	flags.IntVar(&opts.maxDepth, "max-depth", bisect.DefaultMaxDepth, "recursion depth cutoff")
	flags.BoolVar(&opts.sortLeaves, "sort-leaves", true, "order leaf nodes by ascending original id")
	flags.BoolVar(&opts.degreeSort, "degree-sort", true, "start from a degree-descending arrangement")
	flags.IntVar(&opts.parallelism, "parallelism", 0, "worker goroutines (0 = all CPUs)")
	flags.BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")
	flags.BoolVar(&opts.noCache, "no-cache", false, "skip the permutation cache")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "cache directory")
	flags.BoolVar(&opts.watch, "watch", false, "show live progress while reordering")
}

func runRGB(cmd *cobra.Command, input string, opts *rgbOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if cfgPath != "" {
		logger.Debugf("Loaded config from %s", cfgPath)
	}
	bopts := resolveOptions(cmd.Flags(), opts, cfg)
	if err := bopts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = input + ".perm"
	}

	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeFileNotFound, "graph file not found: %s", input)
		}
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", input)
	}

	prog := newProgress(logger)
	g, err := parseGraph(data, input, opts.format)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d nodes with %d arcs", g.NumNodes(), g.NumArcs()))

	store, err := openCache(cfg, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	key := cache.PermKey(cache.Hash(data), permKeyOpts(bopts))
	if !opts.refresh {
		if cached, hit, err := store.Get(ctx, key); err == nil && hit {
			p, err := perm.Read(bytes.NewReader(cached), g.NumNodes())
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "perm")
				logger.Debugf("Cache hit for %s", input)
				if err := p.WriteFile(output); err != nil {
					return err
				}
				printSuccess("Permutation ready")
				printFile(output)
				printGraphStats(g.NumNodes(), int(g.NumArcs()), true)
				return nil
			}
			// A corrupt entry is recomputed, not fatal.
			printWarning("Discarding unreadable cache entry: %v", err)
			_ = store.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, "perm")
	} else {
		printInfo("Ignoring cached results")
	}

	prog = newProgress(logger)
	var p perm.Permutation
	if opts.watch {
		p, err = reorderWithTUI(ctx, g, bopts)
	} else {
		p, err = bisect.Reorder(ctx, g, bopts)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Reordered %d nodes", g.NumNodes()))

	logCostReport(logger, g, p)

	if err := p.WriteFile(output); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := p.Write(&buf); err == nil {
		ttl := cache.DefaultTTL
		if cfg.Cache.TTLDays > 0 {
			ttl = time.Duration(cfg.Cache.TTLDays) * 24 * time.Hour
		}
		if err := store.Set(ctx, key, buf.Bytes(), ttl); err != nil {
			printWarning("Could not cache permutation: %v", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "perm", buf.Len())
		}
	}

	printSuccess("Permutation ready")
	printFile(output)
	printGraphStats(g.NumNodes(), int(g.NumArcs()), false)
	return nil
}

// resolveOptions layers settings: built-in defaults, then the config file,
// then any flag the user set explicitly.
func resolveOptions(flags *pflag.FlagSet, opts *rgbOpts, cfg config) bisect.Options {
	b := bisect.DefaultOptions()

	if cfg.RGB.Strategy != "" {
		b.Strategy = bisect.Strategy(cfg.RGB.Strategy)
	}
	if cfg.RGB.Iterations > 0 {
		b.MaxIterations = cfg.RGB.Iterations
	}
	if cfg.RGB.MinPartitionSize > 0 {
		b.MinPartitionSize = cfg.RGB.MinPartitionSize
	}
	if cfg.RGB.MaxDepth > 0 {
		b.MaxDepth = cfg.RGB.MaxDepth
	}
	if cfg.RGB.SortLeaves != nil {
		b.SortLeaves = *cfg.RGB.SortLeaves
	}
	if cfg.RGB.DegreeSort != nil {
		b.DegreeSort = *cfg.RGB.DegreeSort
	}
	if cfg.RGB.Parallelism > 0 {
		b.Parallelism = cfg.RGB.Parallelism
	}

	if flags.Changed("strategy") {
		b.Strategy = bisect.Strategy(opts.strategy)
	}
	if flags.Changed("iterations") {
		b.MaxIterations = opts.iterations
	}
	if flags.Changed("min-partition-size") {
		b.MinPartitionSize = opts.minPartSize
	}
	if flags.Changed("max-depth") {
		b.MaxDepth = opts.maxDepth
	}
	if flags.Changed("sort-leaves") {
		b.SortLeaves = opts.sortLeaves
	}
	if flags.Changed("degree-sort") {
		b.DegreeSort = opts.degreeSort
	}
	if flags.Changed("parallelism") {
		b.Parallelism = opts.parallelism
	}
	return b
}

func openCache(cfg config, opts *rgbOpts) (cache.Cache, error) {
	if opts.noCache || cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir := opts.cacheDir
	if dir == "" {
		dir = cfg.Cache.Dir
	}
	if dir == "" {
		dir = defaultCacheDir()
	}
	return cache.NewFileCache(dir)
}

func permKeyOpts(b bisect.Options) cache.PermKeyOpts {
	return cache.PermKeyOpts{
		Strategy:         string(b.Strategy),
		MaxIterations:    b.MaxIterations,
		MinPartitionSize: b.MinPartitionSize,
		MaxDepth:         b.MaxDepth,
		SortLeaves:       b.SortLeaves,
		DegreeSort:       b.DegreeSort,
	}
}

// logCostReport logs the gap-encoding cost before and after reordering.
// Skipped for empty graphs where there is nothing to compare.
func logCostReport(logger interface{ Infof(string, ...any) }, g *graph.Graph, p perm.Permutation) {
	if g.NumArcs() == 0 {
		return
	}
	before, err := bisect.LogGapCost(g, nil)
	if err != nil {
		return
	}
	after, err := bisect.LogGapCost(g, p)
	if err != nil {
		return
	}
	saved := 0.0
	if before > 0 {
		saved = (before - after) / before * 100
	}
	logger.Infof("Encoding cost: %.0f bits %s %.0f bits (%.1f%% saved)", before, iconArrow, after, saved)
}
