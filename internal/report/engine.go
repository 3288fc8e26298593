// Package report builds version drift reports across the clusters of a
// project stage. Regions are swept concurrently, and within each
// cluster the per-host rows are produced through the same dispatcher.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nkhare/armada/internal/cluster"
	"github.com/nkhare/armada/internal/config"
	"github.com/nkhare/armada/internal/dispatch"
	"github.com/nkhare/armada/internal/util"
)

// Source provides the node inventory of a registry cluster. It exists
// so the engine can be tested without live clusters.
type Source interface {
	Nodes(ctx context.Context, rc config.RegionCluster) ([]cluster.NodeInfo, error)
}

// KubeconfigSource reads nodes by connecting through the kubeconfig
// context named in each registry entry.
type KubeconfigSource struct {
	loader *config.KubeconfigLoader
	logger *slog.Logger
}

// NewKubeconfigSource creates a source backed by the given loader.
func NewKubeconfigSource(loader *config.KubeconfigLoader, logger *slog.Logger) *KubeconfigSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &KubeconfigSource{loader: loader, logger: logger}
}

// Nodes connects to the cluster behind the registry entry and lists
// its nodes.
func (s *KubeconfigSource) Nodes(ctx context.Context, rc config.RegionCluster) ([]cluster.NodeInfo, error) {
	if rc.Entry.Context == "" {
		return nil, fmt.Errorf("no kubeconfig context configured for %s/%s", rc.Realm, rc.Region)
	}

	restConfig, err := s.loader.RESTConfig(rc.Entry.Context)
	if err != nil {
		return nil, util.WrapRegionError(rc.Region, err)
	}

	client, err := cluster.NewClient(ctx, rc.Entry.Context, rc.Region, rc.Entry.Context, restConfig, s.logger)
	if err != nil {
		return nil, util.WrapRegionError(rc.Region, err)
	}

	return client.ListNodes(ctx)
}

// Engine runs version sweeps against the deployment registry.
type Engine struct {
	registry   *config.Registry
	source     Source
	dispatcher *dispatch.Dispatcher
	settings   config.Settings
	logger     *slog.Logger
}

// NewEngine creates a report engine.
func NewEngine(registry *config.Registry, source Source, d *dispatch.Dispatcher, settings config.Settings, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if d == nil {
		d = dispatch.New(settings.ParallelDisabled, logger)
	}
	return &Engine{
		registry:   registry,
		source:     source,
		dispatcher: d,
		settings:   settings,
		logger:     logger,
	}
}

// Versions sweeps every cluster of the stage and reports each host's
// kubelet version against the stage's target version. Cluster failures
// are recorded in the report rather than aborting the sweep.
func (e *Engine) Versions(ctx context.Context, project, stage string) (*Report, error) {
	stageCfg, err := e.registry.Stage(project, stage)
	if err != nil {
		return nil, err
	}

	clusters, err := e.registry.RegionClusters(project, stage)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Project:       project,
		Stage:         stage,
		TargetVersion: stageCfg.TargetVersion,
	}

	if len(clusters) == 0 {
		e.logger.Warn("stage has no regions", "project", project, "stage", stage)
		return rep, nil
	}

	e.logger.Info("starting version sweep",
		"project", project,
		"stage", stage,
		"clusters", len(clusters),
		"target", stageCfg.TargetVersion)

	tasks := make(map[string]dispatch.Task[[]Row], len(clusters))
	byKey := make(map[string]config.RegionCluster, len(clusters))
	for _, rc := range clusters {
		rc := rc
		key := rc.Realm + "/" + rc.Region
		byKey[key] = rc
		tasks[key] = func() ([]Row, error) {
			return e.sweepCluster(ctx, rc, stageCfg.TargetVersion)
		}
	}

	workers := dispatch.Workers(dispatch.TierRegion, len(tasks), e.settings.RegionWorkers)
	results, _ := dispatch.Keyed(e.dispatcher, tasks, workers, false)

	if failed := dispatch.FailedKeys(results); len(failed) > 0 {
		e.logger.Warn("clusters failed during sweep", "clusters", failed)
	}

	for key, res := range results {
		rc := byKey[key]
		if !res.OK() {
			e.logger.Error("cluster sweep failed",
				"realm", rc.Realm,
				"region", rc.Region,
				"error", res.Err)
			rep.Failures = append(rep.Failures, Failure{
				Realm:  rc.Realm,
				Region: rc.Region,
				Err:    res.Err,
			})
			continue
		}
		rep.Rows = append(rep.Rows, res.Value...)
	}

	sortRows(rep.Rows)
	sortFailures(rep.Failures)

	summary := rep.Summarize()
	e.logger.Info("version sweep completed",
		"hosts", summary.Hosts,
		"drifted", summary.Drifted,
		"failed", summary.Failed)

	return rep, nil
}

func (e *Engine) sweepCluster(ctx context.Context, rc config.RegionCluster, target string) ([]Row, error) {
	nodes, err := e.source.Nodes(ctx, rc)
	if err != nil {
		return nil, err
	}

	workers := dispatch.Workers(dispatch.TierInstance, len(nodes), e.settings.InstanceWorkers)
	results := dispatch.Map(e.dispatcher,
		func(n cluster.NodeInfo) (Row, error) {
			return buildRow(rc, target, n), nil
		},
		nodes, workers,
		func(n cluster.NodeInfo) string { return n.Name })

	rows := make([]Row, 0, len(results))
	for _, res := range results {
		rows = append(rows, res.Value)
	}
	return rows, nil
}

func buildRow(rc config.RegionCluster, target string, n cluster.NodeInfo) Row {
	current := n.KubeletVersion
	if current == "" {
		current = util.MissingValue
	}

	row := Row{
		Host:           n.Name,
		Realm:          rc.Realm,
		Region:         rc.Region,
		Cluster:        rc.Entry.Context,
		CurrentVersion: current,
		TargetVersion:  target,
		Ready:          n.Ready,
	}

	if target == "" {
		row.TargetVersion = util.MissingValue
	} else if current != util.MissingValue {
		row.Drifted = current != target
	}

	return row
}
