package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nkhare/armada/internal/cluster"
	"github.com/nkhare/armada/internal/config"
	"github.com/nkhare/armada/internal/report"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	return f.encode(w, data)
}

// FormatClusters outputs the cluster inventory as YAML
func (f *YAMLFormatter) FormatClusters(w io.Writer, clusters []config.ClusterInfo) error {
	return f.encode(w, clusterItems(clusters))
}

// FormatHealth outputs per-cluster health statuses as YAML
func (f *YAMLFormatter) FormatHealth(w io.Writer, statuses []cluster.HealthStatus) error {
	return f.encode(w, healthItems(statuses))
}

// FormatReport outputs a version drift report as YAML
func (f *YAMLFormatter) FormatReport(w io.Writer, rep *report.Report) error {
	return f.encode(w, reportDoc(rep))
}

func (f *YAMLFormatter) encode(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}
