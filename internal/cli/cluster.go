package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nkhare/armada/internal/cluster"
	"github.com/nkhare/armada/internal/config"
)

// newClusterCmd creates the cluster command group
func newClusterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Inspect the clusters of the fleet",
		Long: `Inspect the Kubernetes clusters known to your kubeconfig and the
deployment registry.

Subcommands list the cluster inventory and run concurrent health
checks across the fleet.`,
	}

	cmd.AddCommand(newClusterListCmd())
	cmd.AddCommand(newClusterHealthCmd())

	return cmd
}

// newClusterListCmd creates the cluster list command
func newClusterListCmd() *cobra.Command {
	var (
		outputFormat string
		wide         bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all available Kubernetes clusters",
		Long: `List all Kubernetes clusters from your kubeconfig file(s), enriched
with region and label metadata from the deployment registry when a
context matches a registry entry.`,
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClusterList(cmd, outputFormat, wide)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format (table, json, yaml)")
	cmd.Flags().BoolVar(&wide, "wide", false, "show server, user, and namespace columns")

	return cmd
}

func runClusterList(cmd *cobra.Command, outputFormat string, wide bool) error {
	logger := slog.Default()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	loader := newKubeconfigLoader()
	logger.Debug("using kubeconfig paths", "paths", strings.Join(loader.Paths(), ", "))

	clusters, err := loader.Clusters()
	if err != nil {
		return fmt.Errorf("failed to load clusters: %w", err)
	}

	if len(clusters) == 0 {
		fmt.Fprintf(os.Stderr, "No clusters found in kubeconfig\n")
		return nil
	}

	// Enrich from the registry when available
	if registry, err := loadRegistry(); err == nil {
		clusters = enrichClusters(clusters, registry)
	} else {
		logger.Debug("no registry loaded, using kubeconfig only", "error", err)
	}

	// Current context first, then by context name
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Current != clusters[j].Current {
			return clusters[i].Current
		}
		return clusters[i].Context < clusters[j].Context
	})

	format, err := resolveFormat(outputFormat, settings)
	if err != nil {
		return err
	}

	formatter := newFormatter(format, settings, wide)
	return formatter.FormatClusters(os.Stdout, clusters)
}

// enrichClusters annotates kubeconfig contexts with the region and
// labels of any registry entry pointing at them.
func enrichClusters(clusters []config.ClusterInfo, registry *config.Registry) []config.ClusterInfo {
	byContext := make(map[string]config.RegionCluster)
	for _, project := range registry.ProjectNames() {
		for stage := range registry.Projects[project] {
			regionClusters, err := registry.RegionClusters(project, stage)
			if err != nil {
				continue
			}
			for _, rc := range regionClusters {
				if rc.Entry.Context != "" {
					byContext[rc.Entry.Context] = rc
				}
			}
		}
	}

	for i, c := range clusters {
		if rc, ok := byContext[c.Context]; ok {
			clusters[i].Region = rc.Region
			clusters[i].Labels = rc.Entry.Labels
		}
	}

	return clusters
}

// newClusterHealthCmd creates the cluster health command
func newClusterHealthCmd() *cobra.Command {
	var (
		outputFormat string
		wide         bool
		project      string
		stage        string
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the health of every cluster concurrently",
		Long: `Connect to the fleet and check every cluster's API server health
concurrently.

Without flags, every context in the kubeconfig is checked. With
--project and --stage, only the registry clusters of that stage are
checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClusterHealth(cmd, outputFormat, wide, project, stage)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format (table, json, yaml)")
	cmd.Flags().BoolVar(&wide, "wide", false, "show the error column")
	cmd.Flags().StringVar(&project, "project", "", "restrict to a registry project")
	cmd.Flags().StringVar(&stage, "stage", "", "restrict to a project stage")

	return cmd
}

func runClusterHealth(cmd *cobra.Command, outputFormat string, wide bool, project, stage string) error {
	logger := slog.Default()

	if (project == "") != (stage == "") {
		return fmt.Errorf("--project and --stage must be used together")
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	format, err := resolveFormat(outputFormat, settings)
	if err != nil {
		return err
	}

	loader := newKubeconfigLoader()
	manager := cluster.NewManager(loader, newDispatcher(settings), settings.ClusterWorkers, logger)
	defer manager.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), settings.Timeout)
	defer cancel()

	if project != "" {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		targets, err := registryTargets(registry, project, stage)
		if err != nil {
			return err
		}

		// Partial connection failures still produce a usable report,
		// but nothing connected means nothing to check
		if err := manager.Connect(ctx, targets); err != nil {
			if manager.Count() == 0 {
				return err
			}
			logger.Warn("some clusters could not be connected", "error", err)
		}
	} else {
		if err := manager.ConnectAll(ctx); err != nil {
			return err
		}
	}

	statuses := manager.HealthCheck(ctx)

	formatter := newFormatter(format, settings, wide)
	if err := formatter.FormatHealth(os.Stdout, statuses); err != nil {
		return err
	}

	for _, status := range statuses {
		if !status.Healthy {
			return fmt.Errorf("%d of %d clusters unhealthy", countUnhealthy(statuses), len(statuses))
		}
	}
	return nil
}

// registryTargets flattens a project stage into connection targets.
func registryTargets(registry *config.Registry, project, stage string) ([]cluster.Target, error) {
	regionClusters, err := registry.RegionClusters(project, stage)
	if err != nil {
		return nil, err
	}

	targets := make([]cluster.Target, 0, len(regionClusters))
	for _, rc := range regionClusters {
		if rc.Entry.Context == "" {
			slog.Warn("registry entry has no kubeconfig context, skipping",
				"realm", rc.Realm, "region", rc.Region)
			continue
		}
		targets = append(targets, cluster.Target{
			Name:    rc.Entry.Context,
			Region:  rc.Region,
			Context: rc.Entry.Context,
		})
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no connectable clusters in %s/%s", project, stage)
	}

	return targets, nil
}

func countUnhealthy(statuses []cluster.HealthStatus) int {
	n := 0
	for _, status := range statuses {
		if !status.Healthy {
			n++
		}
	}
	return n
}
