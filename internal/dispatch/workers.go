package dispatch

// Tier is a named category of fan-out used to pick a default concurrency
// cap. The defaults are fixed constants chosen to stay inside external
// API rate limits, not derived dynamically.
type Tier string

const (
	// TierRegion is region-level fan-out (one task per region)
	TierRegion Tier = "region"

	// TierCluster is cluster-level fan-out (one task per cluster)
	TierCluster Tier = "cluster"

	// TierInstance is instance-level fan-out (one task per instance or node)
	TierInstance Tier = "instance"
)

// Default worker counts per tier, sized against provider rate limits.
const (
	DefaultRegionWorkers   = 4
	DefaultClusterWorkers  = 6
	DefaultInstanceWorkers = 10
)

// Workers derives the effective parallelism for a dispatch call.
//
// An override > 0 wins but is still capped at itemCount (never request
// more workers than items). Otherwise the tier default applies, capped
// the same way. An unrecognized tier falls back to the instance default
// rather than failing. Pure function, deterministic for given inputs.
func Workers(tier Tier, itemCount int, override int) int {
	if itemCount < 0 {
		itemCount = 0
	}

	if override > 0 {
		return min(override, itemCount)
	}

	var def int
	switch tier {
	case TierRegion:
		def = DefaultRegionWorkers
	case TierCluster:
		def = DefaultClusterWorkers
	case TierInstance:
		def = DefaultInstanceWorkers
	default:
		def = DefaultInstanceWorkers
	}

	return min(def, itemCount)
}
