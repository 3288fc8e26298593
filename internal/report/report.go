package report

import (
	"fmt"
	"sort"
)

// Row is one host in a version report.
type Row struct {
	// Host is the node name
	Host string

	// Realm and Region locate the cluster in the registry
	Realm  string
	Region string

	// Cluster is the kubeconfig context the node was read through
	Cluster string

	// CurrentVersion is the kubelet version running on the host
	CurrentVersion string

	// TargetVersion is the stage's desired version
	TargetVersion string

	// Drifted is true when the host runs something other than the target
	Drifted bool

	// Ready mirrors the node's readiness condition
	Ready bool
}

// Failure records a cluster that could not be inspected.
type Failure struct {
	Realm  string
	Region string
	Err    error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s/%s: %v", f.Realm, f.Region, f.Err)
}

// Report is the outcome of a version sweep across one project stage.
type Report struct {
	Project       string
	Stage         string
	TargetVersion string

	// Rows holds one entry per host, sorted by realm, region, host
	Rows []Row

	// Failures holds clusters that errored; their hosts are absent
	// from Rows
	Failures []Failure
}

// Summary aggregates a report's counts.
type Summary struct {
	Hosts    int
	Drifted  int
	NotReady int
	Failed   int
}

// Summarize computes the report's summary counts.
func (r *Report) Summarize() Summary {
	s := Summary{
		Hosts:  len(r.Rows),
		Failed: len(r.Failures),
	}
	for _, row := range r.Rows {
		if row.Drifted {
			s.Drifted++
		}
		if !row.Ready {
			s.NotReady++
		}
	}
	return s
}

// DriftedRows returns only the hosts not running the target version.
func (r *Report) DriftedRows() []Row {
	var drifted []Row
	for _, row := range r.Rows {
		if row.Drifted {
			drifted = append(drifted, row)
		}
	}
	return drifted
}

func (s Summary) String() string {
	return fmt.Sprintf("%d hosts, %d drifted, %d not ready, %d clusters failed",
		s.Hosts, s.Drifted, s.NotReady, s.Failed)
}

func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Realm != rows[j].Realm {
			return rows[i].Realm < rows[j].Realm
		}
		if rows[i].Region != rows[j].Region {
			return rows[i].Region < rows[j].Region
		}
		return rows[i].Host < rows[j].Host
	})
}

func sortFailures(failures []Failure) {
	sort.Slice(failures, func(i, j int) bool {
		if failures[i].Realm != failures[j].Realm {
			return failures[i].Realm < failures[j].Realm
		}
		return failures[i].Region < failures[j].Region
	})
}
