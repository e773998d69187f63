package bvh

// Config holds the tunables spec.md §6 requires the builder to accept. There
// is no CLI flag or environment variable parsing at this layer — that lives
// entirely in cmd/sbvhtool, per the core's "no CLI, environment variables, or
// wire formats" contract.
type Config struct {
	// MaxPrimitivesInLeaf caps how many references a leaf may hold before
	// the SBVH builder stops considering it a forced-leaf candidate. Must
	// be positive.
	MaxPrimitivesInLeaf int

	// BinCount is the number of spatial-split bins evaluated per axis.
	// Must be >= 2; the source's SBVH_BIN_COUNT of 256 is the default.
	BinCount int

	// Alpha gates whether a spatial split is even attempted: it is only
	// evaluated when the object-split children overlap by more than this
	// fraction of the root's surface area. 1 disables spatial splits
	// entirely (degrades to a plain SAH build); 0 enables them
	// unconditionally.
	Alpha float32

	// OverAllocationFactor bounds node_count/N for the SBVH builder. The
	// build aborts with ErrOverAllocation if this bound would be
	// exceeded.
	OverAllocationFactor float32
}

// plainBVHOverAllocation is the fixed bound from spec.md invariant 4:
// node_count <= 2*N for the plain (object-split-only) builder.
const plainBVHOverAllocation = 2

// defaultBinCount used when Config.BinCount is left unset (zero value).
const defaultBinCount = 256

// defaultOverAllocationFactor used when Config.OverAllocationFactor is left
// unset (zero value). Spatial splits can duplicate references, so the SBVH
// builder needs headroom beyond the plain builder's fixed 2x bound.
const defaultOverAllocationFactor = 4

// DefaultConfig returns the configuration used by cmd/sbvhtool when the user
// supplies no overrides.
func DefaultConfig() Config {
	return Config{
		MaxPrimitivesInLeaf: 4,
		BinCount:            defaultBinCount,
		Alpha:               1e-5,
		OverAllocationFactor: defaultOverAllocationFactor,
	}
}

func (c Config) binCount() int {
	if c.BinCount <= 0 {
		return defaultBinCount
	}
	return c.BinCount
}

func (c Config) overAllocationFactor() float32 {
	if c.OverAllocationFactor <= 0 {
		return defaultOverAllocationFactor
	}
	return c.OverAllocationFactor
}

func (c Config) maxPrimitivesInLeaf() int {
	if c.MaxPrimitivesInLeaf <= 0 {
		return 1
	}
	return c.MaxPrimitivesInLeaf
}
