package dispatch

import (
	"fmt"
	"strings"
	"time"
)

// CountOK returns the number of successful results.
func CountOK[K comparable, R any](results []Result[K, R]) int {
	count := 0
	for _, r := range results {
		if r.OK() {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results.
func CountFailed[K comparable, R any](results []Result[K, R]) int {
	return len(results) - CountOK(results)
}

// FilterOK returns only the successful results, preserving order.
func FilterOK[K comparable, R any](results []Result[K, R]) []Result[K, R] {
	filtered := make([]Result[K, R], 0, len(results))
	for _, r := range results {
		if r.OK() {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterFailed returns only the failed results, preserving order.
func FilterFailed[K comparable, R any](results []Result[K, R]) []Result[K, R] {
	filtered := make([]Result[K, R], 0)
	for _, r := range results {
		if !r.OK() {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Errs extracts the errors from failed results.
func Errs[K comparable, R any](results []Result[K, R]) []error {
	errs := make([]error, 0)
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Values extracts the values of successful results, preserving order.
func Values[K comparable, R any](results []Result[K, R]) []R {
	values := make([]R, 0, len(results))
	for _, r := range results {
		if r.OK() {
			values = append(values, r.Value)
		}
	}
	return values
}

// OKKeys returns the keys of successful results in a keyed result map.
func OKKeys[K comparable, R any](results map[K]Result[K, R]) []K {
	keys := make([]K, 0, len(results))
	for k, r := range results {
		if r.OK() {
			keys = append(keys, k)
		}
	}
	return keys
}

// FailedKeys returns the keys of failed results in a keyed result map.
func FailedKeys[K comparable, R any](results map[K]Result[K, R]) []K {
	keys := make([]K, 0)
	for k, r := range results {
		if !r.OK() {
			keys = append(keys, k)
		}
	}
	return keys
}

// HasErrors reports whether any result failed.
func HasErrors[K comparable, R any](results []Result[K, R]) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Summary aggregates the outcome of a dispatch call.
type Summary struct {
	Total       int
	OK          int
	Failed      int
	AvgDuration time.Duration
	MaxDuration time.Duration
}

// Summarize builds a Summary from a slice of results.
func Summarize[K comparable, R any](results []Result[K, R]) Summary {
	s := Summary{
		Total: len(results),
		OK:    CountOK(results),
	}
	s.Failed = s.Total - s.OK

	if s.Total == 0 {
		return s
	}

	var total time.Duration
	for _, r := range results {
		total += r.Duration
		if r.Duration > s.MaxDuration {
			s.MaxDuration = r.Duration
		}
	}
	s.AvgDuration = total / time.Duration(s.Total)

	return s
}

// String returns a human-readable one-line summary.
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.OK))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Millisecond)))
	}

	return sb.String()
}
