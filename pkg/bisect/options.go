package bisect

import (
	"runtime"

	"github.com/matzehuels/graphorder/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library Callers
// =============================================================================

const (
	// DefaultMaxIterations is the swap-pass budget per bisection level.
	// Local search stops early when a full pass applies no swap; the budget
	// bounds worst-case runtime on adversarial inputs, and exhausting it is
	// an accepted approximation, not an error.
	DefaultMaxIterations = 20

	// DefaultMinPartitionSize is the subset size at or below which recursion
	// stops and the node order is fixed directly.
	DefaultMinPartitionSize = 8

	// DefaultMaxDepth caps the recursion depth regardless of subset size.
	DefaultMaxDepth = 100

	// DefaultParallelThreshold is the smallest subset size worth dispatching
	// to another goroutine. Below it, scheduling overhead dominates.
	DefaultParallelThreshold = 4096
)

// Strategy selects the gain model. The choice is resolved once when options
// are validated and never switched per call.
type Strategy string

const (
	// StrategyDefault computes the exact marginal gap-cost delta per
	// neighbor term. Most accurate, slowest.
	StrategyDefault Strategy = "default"

	// StrategyApprox1 uses the same marginal form with a quantized log2
	// lookup, trading a little accuracy for throughput.
	StrategyApprox1 Strategy = "approx-1"

	// StrategyApprox2 scores moves from aggregate term-count imbalance
	// only, with no per-term weighting. Cheapest, least accurate.
	StrategyApprox2 Strategy = "approx-2"
)

// Options configures a bisection run. The zero value is not ready for use;
// call ValidateAndSetDefaults or obtain one from the CLI config layer.
type Options struct {
	// Strategy picks the gain model (default, approx-1, approx-2).
	Strategy Strategy

	// MaxIterations is the swap-pass budget per bisection level.
	MaxIterations int

	// MinPartitionSize is the leaf threshold for recursion.
	MinPartitionSize int

	// MaxDepth caps recursion depth.
	MaxDepth int

	// SortLeaves fixes each leaf's order by ascending original id.
	// When false, leaves keep the order local search left them in.
	SortLeaves bool

	// DegreeSort arranges nodes by descending out-degree before the first
	// split, moving zero-degree nodes to a fixed tail excluded from
	// optimization.
	DegreeSort bool

	// Parallelism bounds the number of concurrently processed subtrees.
	// Zero means GOMAXPROCS.
	Parallelism int

	// ParallelThreshold is the smallest subset dispatched concurrently.
	ParallelThreshold int

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns Options populated with every default.
func DefaultOptions() Options {
	opts := Options{SortLeaves: true, DegreeSort: true}
	_ = opts.ValidateAndSetDefaults()
	return opts
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once. Note that SortLeaves and DegreeSort default to false
// only when the struct is built by hand; DefaultOptions enables both.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Strategy == "" {
		o.Strategy = StrategyDefault
	}
	if err := errors.ValidateStrategy(string(o.Strategy)); err != nil {
		return err
	}
	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max iterations must be >= 0, got %d", o.MaxIterations)
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.MinPartitionSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "min partition size must be >= 0, got %d", o.MinPartitionSize)
	}
	if o.MinPartitionSize == 0 {
		o.MinPartitionSize = DefaultMinPartitionSize
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Parallelism < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "parallelism must be >= 0, got %d", o.Parallelism)
	}
	if o.Parallelism == 0 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	if o.ParallelThreshold <= 0 {
		o.ParallelThreshold = DefaultParallelThreshold
	}
	o.validated = true
	return nil
}
