package dispatch

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is a zero-argument unit of work that produces a value or fails.
// Tasks are owned by the caller; the dispatcher never inspects or retries
// them, and any I/O deadline is the task's own responsibility.
type Task[R any] func() (R, error)

// Result is the outcome of a single task execution.
// Exactly one of Value/Err is meaningful: Value when Err is nil.
type Result[K comparable, R any] struct {
	// Key identifies which task this result belongs to: a region name,
	// an arbitrary task name, or a positional label.
	Key K

	// Value is the task's return value (zero value if the task failed)
	Value R

	// Err is the task's failure (nil if the task succeeded)
	Err error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// OK reports whether the task succeeded.
func (r Result[K, R]) OK() bool {
	return r.Err == nil
}

// ItemResult pairs an input item with the outcome of applying a function
// to it. Value is meaningful iff Err is nil.
type ItemResult[T, R any] struct {
	Item  T
	Value R
	Err   error
}

// OK reports whether the function application succeeded.
func (r ItemResult[T, R]) OK() bool {
	return r.Err == nil
}

// Dispatcher runs collections of independent tasks with bounded
// concurrency. A fresh worker set is created and torn down inside each
// call; the dispatcher holds no pool, lock, or state across calls, so a
// single Dispatcher is safe for concurrent use.
type Dispatcher struct {
	// sequential forces every dispatch into inline, one-at-a-time
	// execution on the calling goroutine. Intended for debugging and
	// deterministic tests; injected at construction rather than read
	// from the environment here.
	sequential bool

	logger *slog.Logger
}

// New creates a Dispatcher. When sequential is true every dispatch call
// runs its tasks inline on the calling goroutine. A nil logger falls back
// to slog.Default().
func New(sequential bool, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		sequential: sequential,
		logger:     logger,
	}
}

// Sequential reports whether the dispatcher is in forced-sequential mode.
func (d *Dispatcher) Sequential() bool {
	return d.sequential
}

// Keyed executes a map of tasks with at most maxWorkers in flight and
// returns one Result per key. A task failure never aborts its siblings:
// it is captured into that key's Result and execution continues.
//
// With failFast set, the first failure observed in completion order is
// recorded for its key and returned as the error; completions arriving
// after that are drained but not collected. Which of several concurrent
// failures surfaces is inherently nondeterministic. Already-running tasks
// are not interrupted (tasks carry no cancellation hook), so this is
// best-effort, not strict cancellation. Without failFast the returned
// error is always nil.
//
// An empty map returns an empty map immediately with no workers started.
func Keyed[K comparable, R any](d *Dispatcher, tasks map[K]Task[R], maxWorkers int, failFast bool) (map[K]Result[K, R], error) {
	if len(tasks) == 0 {
		return map[K]Result[K, R]{}, nil
	}

	results := make(map[K]Result[K, R], len(tasks))

	if d.sequential || maxWorkers <= 1 {
		d.logger.Debug("running keyed tasks sequentially",
			"tasks", len(tasks),
			"forced", d.sequential)
		for key, task := range tasks {
			res := runOne(key, task)
			results[key] = res
			if res.Err != nil {
				d.logger.Warn("task failed", "key", fmt.Sprint(key), "error", res.Err)
				if failFast {
					return results, res.Err
				}
			}
		}
		return results, nil
	}

	keys := make([]K, 0, len(tasks))
	ordered := make([]Task[R], 0, len(tasks))
	for key, task := range tasks {
		keys = append(keys, key)
		ordered = append(ordered, task)
	}

	workers := clampWorkers(maxWorkers, len(ordered))
	d.logger.Debug("dispatching keyed tasks",
		"tasks", len(ordered),
		"workers", workers)

	var firstErr error
	for out := range runIndexed(workers, ordered) {
		key := keys[out.index]
		res := Result[K, R]{
			Key:      key,
			Value:    out.value,
			Err:      out.err,
			Duration: out.duration,
		}
		if firstErr != nil {
			// Fail-fast already triggered: drain remaining completions
			// without collecting so the workers can finish.
			continue
		}
		results[key] = res
		if res.Err != nil {
			d.logger.Warn("task failed", "key", fmt.Sprint(key), "error", res.Err)
			if failFast {
				firstErr = res.Err
			}
		}
	}

	d.logger.Debug("keyed dispatch complete",
		"tasks", len(tasks),
		"collected", len(results),
		"failed", failedCount(results))

	return results, firstErr
}

// Ordered executes a list of tasks with at most maxWorkers in flight and
// returns one Result per task in input order, regardless of completion
// order. names[i], when provided, is used as the key for result i;
// otherwise a positional label ("task_0", "task_1", ...) is used.
//
// Failures are isolated per task and never escape. An empty task list
// returns an empty slice with no workers started.
func Ordered[R any](d *Dispatcher, tasks []Task[R], maxWorkers int, names []string) []Result[string, R] {
	if len(tasks) == 0 {
		return []Result[string, R]{}
	}

	name := func(i int) string {
		if i < len(names) {
			return names[i]
		}
		return fmt.Sprintf("task_%d", i)
	}

	results := make([]Result[string, R], len(tasks))

	if d.sequential || maxWorkers <= 1 {
		d.logger.Debug("running ordered tasks sequentially",
			"tasks", len(tasks),
			"forced", d.sequential)
		for i, task := range tasks {
			results[i] = runOne(name(i), task)
		}
		return results
	}

	workers := clampWorkers(maxWorkers, len(tasks))
	d.logger.Debug("dispatching ordered tasks",
		"tasks", len(tasks),
		"workers", workers)

	for out := range runIndexed(workers, tasks) {
		results[out.index] = Result[string, R]{
			Key:      name(out.index),
			Value:    out.value,
			Err:      out.err,
			Duration: out.duration,
		}
		if out.err != nil {
			d.logger.Warn("task failed", "task", name(out.index), "error", out.err)
		}
	}

	return results
}

// Map applies fn to each item with at most maxWorkers in flight and
// returns one ItemResult per item in input order. nameFn, when provided,
// labels failures in logs only; it never affects result content or order.
//
// Empty input or maxWorkers <= 1 falls back to direct sequential
// application with the same output contract.
func Map[T, R any](d *Dispatcher, fn func(T) (R, error), items []T, maxWorkers int, nameFn func(T) string) []ItemResult[T, R] {
	if len(items) == 0 {
		return []ItemResult[T, R]{}
	}

	label := func(i int) string {
		if nameFn != nil {
			return nameFn(items[i])
		}
		return fmt.Sprintf("%d", i)
	}

	results := make([]ItemResult[T, R], len(items))

	if d.sequential || maxWorkers <= 1 {
		for i, item := range items {
			value, err := protect(func() (R, error) { return fn(item) })
			results[i] = ItemResult[T, R]{Item: item, Value: value, Err: err}
			if err != nil {
				d.logger.Warn("failed to process item", "item", label(i), "error", err)
			}
		}
		return results
	}

	tasks := make([]Task[R], len(items))
	for i, item := range items {
		tasks[i] = func() (R, error) { return fn(item) }
	}

	workers := clampWorkers(maxWorkers, len(items))
	d.logger.Debug("dispatching map tasks",
		"items", len(items),
		"workers", workers)

	for out := range runIndexed(workers, tasks) {
		results[out.index] = ItemResult[T, R]{
			Item:  items[out.index],
			Value: out.value,
			Err:   out.err,
		}
		if out.err != nil {
			d.logger.Warn("failed to process item", "item", label(out.index), "error", out.err)
		}
	}

	return results
}

// indexedOutcome pairs a task outcome with its original index so callers
// can place results by input position rather than completion order.
type indexedOutcome[R any] struct {
	index    int
	value    R
	err      error
	duration time.Duration
}

// runIndexed executes tasks on a bounded worker set and returns a channel
// of outcomes in completion order. The channel is buffered to the task
// count so workers never block on delivery, and it is closed once every
// task has completed.
func runIndexed[R any](workers int, tasks []Task[R]) <-chan indexedOutcome[R] {
	taskCh := make(chan int, len(tasks))
	outCh := make(chan indexedOutcome[R], len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskCh {
				start := time.Now()
				value, err := protect(tasks[i])
				outCh <- indexedOutcome[R]{
					index:    i,
					value:    value,
					err:      err,
					duration: time.Since(start),
				}
			}
		}()
	}

	for i := range tasks {
		taskCh <- i
	}
	close(taskCh)

	go func() {
		wg.Wait()
		close(outCh)
	}()

	return outCh
}

// runOne executes a single task inline and wraps its outcome.
func runOne[K comparable, R any](key K, task Task[R]) Result[K, R] {
	start := time.Now()
	value, err := protect(task)
	return Result[K, R]{
		Key:      key,
		Value:    value,
		Err:      err,
		Duration: time.Since(start),
	}
}

// protect runs a task, converting a panic into an error so that a
// misbehaving task can never take down the dispatch call.
func protect[R any](task Task[R]) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task()
}

// clampWorkers bounds the worker count to [1, taskCount].
func clampWorkers(maxWorkers, taskCount int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxWorkers > taskCount {
		maxWorkers = taskCount
	}
	return maxWorkers
}

func failedCount[K comparable, R any](results map[K]Result[K, R]) int {
	count := 0
	for _, r := range results {
		if r.Err != nil {
			count++
		}
	}
	return count
}
