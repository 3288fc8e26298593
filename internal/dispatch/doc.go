// Package dispatch provides bounded fan-out/fan-in execution for sets of
// independent, possibly-failing tasks.
//
// The package implements three call shapes over one execution core:
// keyed-map dispatch (one task per region or other caller-chosen key),
// ordered-list dispatch (index-preserving), and transform-map dispatch
// (apply a function to each of N items). All shapes cap concurrency,
// tolerate partial failure without losing results, and can be forced into
// sequential execution for debugging.
//
// # Key Properties
//
//   - Output cardinality always equals input cardinality
//   - Ordered and Map outputs match input order regardless of completion order
//   - A failing task never aborts its siblings (no implicit cancellation)
//   - Task panics are recovered into per-task errors
//   - Empty inputs return immediately with no workers started
//   - Zero goroutine leaks
//
// # Basic Usage
//
// Fan out one task per region and collect results by key:
//
//	d := dispatch.New(false, logger)
//
//	tasks := map[string]dispatch.Task[[]Row]{
//	    "us-phoenix-1": func() ([]Row, error) { return scanRegion("us-phoenix-1") },
//	    "us-ashburn-1": func() ([]Row, error) { return scanRegion("us-ashburn-1") },
//	}
//
//	workers := dispatch.Workers(dispatch.TierRegion, len(tasks), 0)
//	results, _ := dispatch.Keyed(d, tasks, workers, false)
//
//	for region, res := range results {
//	    if res.OK() {
//	        use(res.Value)
//	    } else {
//	        logger.Warn("region failed", "region", region, "error", res.Err)
//	    }
//	}
//
// # Order Preservation
//
// Ordered and Map tag every task with its input index internally, so
// output position i always corresponds to input position i even when a
// later task finishes first:
//
//	results := dispatch.Map(d, fetchImage, imageIDs, 10, nil)
//	for _, r := range results {
//	    // r.Item, r.Value, r.Err in input order
//	}
//
// # Fail-Fast
//
// Keyed accepts a failFast flag. The first failure observed in completion
// order is recorded for its key and returned as the call's error; sibling
// tasks already in flight run to completion but their results are
// discarded. This is best-effort abort, not cancellation: tasks are
// opaque closures with no cancellation hook.
//
// # Worker-Count Policy
//
// Workers derives the effective parallelism from a named tier (region,
// cluster, instance), the item count, and an optional override. Defaults
// are fixed per tier to respect external rate limits.
package dispatch
