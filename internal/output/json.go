package output

import (
	"encoding/json"
	"io"

	"github.com/nkhare/armada/internal/cluster"
	"github.com/nkhare/armada/internal/config"
	"github.com/nkhare/armada/internal/report"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	return f.encode(w, data)
}

// FormatClusters outputs the cluster inventory as JSON
func (f *JSONFormatter) FormatClusters(w io.Writer, clusters []config.ClusterInfo) error {
	return f.encode(w, clusterItems(clusters))
}

// FormatHealth outputs per-cluster health statuses as JSON
func (f *JSONFormatter) FormatHealth(w io.Writer, statuses []cluster.HealthStatus) error {
	return f.encode(w, healthItems(statuses))
}

// FormatReport outputs a version drift report as JSON
func (f *JSONFormatter) FormatReport(w io.Writer, rep *report.Report) error {
	return f.encode(w, reportDoc(rep))
}

func (f *JSONFormatter) encode(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
