package output

import (
	"github.com/nkhare/armada/internal/cluster"
	"github.com/nkhare/armada/internal/config"
	"github.com/nkhare/armada/internal/report"
)

// clusterItems converts the cluster inventory to a structure that
// encodes cleanly in both JSON and YAML.
func clusterItems(clusters []config.ClusterInfo) []map[string]interface{} {
	items := make([]map[string]interface{}, len(clusters))
	for i, c := range clusters {
		item := map[string]interface{}{
			"name":    c.Name,
			"context": c.Context,
			"server":  c.Server,
			"current": c.Current,
		}
		if c.Region != "" {
			item["region"] = c.Region
		}
		if len(c.Labels) > 0 {
			item["labels"] = c.Labels
		}
		items[i] = item
	}
	return items
}

func healthItems(statuses []cluster.HealthStatus) []map[string]interface{} {
	items := make([]map[string]interface{}, len(statuses))
	for i, status := range statuses {
		item := map[string]interface{}{
			"cluster": status.ClusterName,
			"healthy": status.Healthy,
		}
		if status.Region != "" {
			item["region"] = status.Region
		}
		if status.ServerVersion != "" {
			item["version"] = status.ServerVersion
		}
		if status.Error != nil {
			item["error"] = status.Error.Error()
		}
		items[i] = item
	}
	return items
}

func reportDoc(rep *report.Report) map[string]interface{} {
	rows := make([]map[string]interface{}, len(rep.Rows))
	for i, row := range rep.Rows {
		rows[i] = map[string]interface{}{
			"host":    row.Host,
			"realm":   row.Realm,
			"region":  row.Region,
			"cluster": row.Cluster,
			"current": row.CurrentVersion,
			"target":  row.TargetVersion,
			"drifted": row.Drifted,
			"ready":   row.Ready,
		}
	}

	failures := make([]map[string]interface{}, len(rep.Failures))
	for i, failure := range rep.Failures {
		failures[i] = map[string]interface{}{
			"realm":  failure.Realm,
			"region": failure.Region,
			"error":  failure.Err.Error(),
		}
	}

	summary := rep.Summarize()

	return map[string]interface{}{
		"project": rep.Project,
		"stage":   rep.Stage,
		"target":  rep.TargetVersion,
		"hosts":   rows,
		"failures": failures,
		"summary": map[string]interface{}{
			"hosts":    summary.Hosts,
			"drifted":  summary.Drifted,
			"notReady": summary.NotReady,
			"failed":   summary.Failed,
		},
	}
}
