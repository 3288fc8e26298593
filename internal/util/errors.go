package util

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClusterNotFound indicates a cluster was not found
var ErrClusterNotFound = errors.New("cluster not found")

// RegionError wraps an error with the region it occurred in
type RegionError struct {
	Region string
	Err    error
}

// Error implements the error interface
func (e *RegionError) Error() string {
	return fmt.Sprintf("region %q: %v", e.Region, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *RegionError) Unwrap() error {
	return e.Err
}

// WrapRegionError wraps an error with region context
func WrapRegionError(region string, err error) error {
	if err == nil {
		return nil
	}
	return &RegionError{
		Region: region,
		Err:    err,
	}
}

// ClusterError wraps an error with cluster context
type ClusterError struct {
	ClusterName string
	Err         error
}

// Error implements the error interface
func (e *ClusterError) Error() string {
	return fmt.Sprintf("cluster %q: %v", e.ClusterName, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *ClusterError) Unwrap() error {
	return e.Err
}

// WrapClusterError wraps an error with cluster context
func WrapClusterError(clusterName string, err error) error {
	if err == nil {
		return nil
	}
	return &ClusterError{
		ClusterName: clusterName,
		Err:         err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 { // Limit to first 10 errors in the message
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error, ignoring nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}
