// Package resolver pre-processes macro-enabled workbooks by resolving a
// constrained subset of formula cells to plain values, producing a
// values-only copy of the workbook for downstream text conversion.
package resolver

// DefaultMaxPasses is the resolution pass budget used when none is set.
// Three passes cover the dependency chains seen in practice; deeper chains
// simply leave their tail cells blank.
const DefaultMaxPasses = 3

// Options configures a resolution run.
type Options struct {
	// MaxPasses caps the number of scheduler passes. Zero or negative
	// falls back to DefaultMaxPasses.
	MaxPasses int
	// OutputPath is the path for the values-only workbook. Empty means a
	// unique file in the OS temp dir, owned by the caller.
	OutputPath string
	// Verbose enables per-pass progress logging.
	Verbose bool
}

// DefaultOptions returns the default resolution options.
func DefaultOptions() Options {
	return Options{MaxPasses: DefaultMaxPasses}
}

func (o Options) passBudget() int {
	if o.MaxPasses <= 0 {
		return DefaultMaxPasses
	}
	return o.MaxPasses
}
