package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/nkhare/armada/internal/cluster"
	"github.com/nkhare/armada/internal/config"
	"github.com/nkhare/armada/internal/report"
	"github.com/nkhare/armada/internal/util"
)

// TableFormatter formats output as a table (kubectl-style)
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(table, v)
	case []map[string]interface{}:
		return f.formatMapSlice(table, v)
	case string:
		fmt.Fprintln(w, v)
		return nil
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatClusters outputs the cluster inventory as a table
func (f *TableFormatter) FormatClusters(w io.Writer, clusters []config.ClusterInfo) error {
	if len(clusters) == 0 {
		fmt.Fprintln(w, "No clusters found")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"CURRENT", "NAME", "CONTEXT", "REGION"}
	if f.options.Wide {
		headers = append(headers, "SERVER", "USER", "NAMESPACE")
	}
	f.setHeaders(table, headers, colors)

	for _, c := range clusters {
		current := ""
		if c.Current {
			current = "*"
		}

		region := c.Region
		if region == "" {
			region = util.MissingValue
		}

		name := c.Name
		if !colors.Disabled {
			name = colors.ClusterName(name)
		}

		row := []string{current, name, c.Context, region}
		if f.options.Wide {
			namespace := c.Namespace
			if namespace == "" {
				namespace = "default"
			}
			row = append(row, c.Server, c.User, namespace)
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

// FormatHealth outputs per-cluster health statuses as a table
func (f *TableFormatter) FormatHealth(w io.Writer, statuses []cluster.HealthStatus) error {
	if len(statuses) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"CLUSTER", "REGION", "STATUS", "VERSION"}
	if f.options.Wide {
		headers = append(headers, "ERROR")
	}
	f.setHeaders(table, headers, colors)

	healthy := 0
	for _, status := range statuses {
		table.Append(f.healthRow(status, colors))
		if status.Healthy {
			healthy++
		}
	}

	table.Render()

	fmt.Fprintln(w, "")
	healthyText := fmt.Sprintf("%d healthy", healthy)
	if !colors.Disabled {
		healthyText = colors.Success(healthyText)
	}
	unhealthyText := fmt.Sprintf("%d unhealthy", len(statuses)-healthy)
	if !colors.Disabled && len(statuses)-healthy > 0 {
		unhealthyText = colors.Error(unhealthyText)
	}
	fmt.Fprintf(w, "Summary: %s, %s\n", healthyText, unhealthyText)

	return nil
}

// FormatReport outputs a version drift report as a table
func (f *TableFormatter) FormatReport(w io.Writer, rep *report.Report) error {
	colors := NewColorScheme(w, f.options.NoColor)

	if len(rep.Rows) == 0 && len(rep.Failures) == 0 {
		fmt.Fprintln(w, "No hosts found")
		return nil
	}

	table := f.createTable(w)

	headers := []string{"HOST", "REALM", "REGION", "CURRENT", "TARGET", "STATUS"}
	if f.options.Wide {
		headers = append(headers, "CLUSTER", "READY")
	}
	f.setHeaders(table, headers, colors)

	for _, row := range rep.Rows {
		table.Append(f.reportRow(row, colors))
	}

	table.Render()

	for _, failure := range rep.Failures {
		msg := failure.String()
		if !colors.Disabled {
			msg = colors.Error(msg)
		}
		fmt.Fprintf(w, "Failed: %s\n", msg)
	}

	f.printReportSummary(w, rep, colors)
	return nil
}

func (f *TableFormatter) healthRow(status cluster.HealthStatus, colors *ColorScheme) []string {
	name := status.ClusterName
	if !colors.Disabled {
		name = colors.ClusterName(name)
	}

	region := status.Region
	if region == "" {
		region = util.MissingValue
	}

	state := "Healthy"
	if !status.Healthy {
		state = "Unhealthy"
	}
	if !colors.Disabled {
		state = colors.StatusColor(!status.Healthy)(state)
	}

	version := status.ServerVersion
	if version == "" {
		version = util.MissingValue
	}

	row := []string{name, region, state, version}

	if f.options.Wide {
		errText := ""
		if status.Error != nil {
			errText = status.Error.Error()
			if len(errText) > 50 {
				errText = errText[:47] + "..."
			}
		}
		row = append(row, errText)
	}

	return row
}

func (f *TableFormatter) reportRow(row report.Row, colors *ColorScheme) []string {
	state := "OK"
	if row.Drifted {
		state = "Drifted"
	}
	if !colors.Disabled {
		if row.Drifted {
			state = colors.Drift(state)
		} else {
			state = colors.Success(state)
		}
	}

	cells := []string{row.Host, row.Realm, row.Region, row.CurrentVersion, row.TargetVersion, state}

	if f.options.Wide {
		ready := "true"
		if !row.Ready {
			ready = "false"
		}
		cells = append(cells, row.Cluster, ready)
	}

	return cells
}

func (f *TableFormatter) printReportSummary(w io.Writer, rep *report.Report, colors *ColorScheme) {
	summary := rep.Summarize()

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	hostsText := fmt.Sprintf("%d hosts", summary.Hosts)

	driftedText := fmt.Sprintf("%d drifted", summary.Drifted)
	if !colors.Disabled && summary.Drifted > 0 {
		driftedText = colors.Warning(driftedText)
	}

	failedText := fmt.Sprintf("%d clusters failed", summary.Failed)
	if !colors.Disabled && summary.Failed > 0 {
		failedText = colors.Error(failedText)
	}

	fmt.Fprintf(w, "%s, %s, %s\n", hostsText, driftedText, failedText)
}

func (f *TableFormatter) setHeaders(table *tablewriter.Table, headers []string, colors *ColorScheme) {
	if f.options.NoHeaders {
		return
	}

	if colors.Disabled {
		table.SetHeader(headers)
		return
	}

	coloredHeaders := make([]string, len(headers))
	for i, h := range headers {
		coloredHeaders[i] = colors.Header(h)
	}
	table.SetHeader(coloredHeaders)
}

// formatMap formats a map as a two-column table (key-value pairs)
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	for k, v := range data {
		table.Append([]string{k, fmt.Sprintf("%v", v)})
	}

	table.Render()
	return nil
}

// formatMapSlice formats a slice of maps as a table
func (f *TableFormatter) formatMapSlice(table *tablewriter.Table, data []map[string]interface{}) error {
	if len(data) == 0 {
		return nil
	}

	var headers []string
	for k := range data[0] {
		headers = append(headers, strings.ToUpper(k))
	}

	if !f.options.NoHeaders {
		table.SetHeader(headers)
	}

	for _, item := range data {
		var row []string
		for _, h := range headers {
			key := strings.ToLower(h)
			row = append(row, fmt.Sprintf("%v", item[key]))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t") // Tab-separated like kubectl
	table.SetNoWhiteSpace(true)

	return table
}
