// Package output provides formatters for displaying Armada CLI command
// results.
//
// The package supports multiple output formats (table, JSON, YAML) and
// provides a unified interface for formatting the cluster inventory,
// health check results, and version drift reports.
//
// # Basic Usage
//
//	// Create a table formatter
//	formatter := output.NewFormatter(output.FormatTable)
//
//	// Format the cluster inventory
//	formatter.FormatClusters(os.Stdout, clusters)
//
//	// Format health check results
//	formatter.FormatHealth(os.Stdout, statuses)
//
//	// Format a version drift report
//	formatter.FormatReport(os.Stdout, rep)
//
// # Options
//
// Formatters can be configured with functional options:
//
//	formatter := output.NewFormatter(
//	    output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithWide(true),
//	)
//
// # Formatters
//
// Table Formatter (kubectl-style):
//   - Borderless tables with tab-separated columns
//   - Optional color highlighting for status, drift, and cluster names
//   - Summary line after health and report tables
//   - Wide mode for additional columns
//
// JSON and YAML Formatters:
//   - Clean, indented output suitable for scripting
//   - Consistent structure across commands
//
// Drift reports can additionally be written as CSV with WriteReportCSV
// for spreadsheets and downstream tooling.
//
// # Color Support
//
// Colors are automatically enabled for TTY outputs and can be disabled
// with WithNoColor(true) or by piping the output.
package output
