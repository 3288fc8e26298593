package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/nkhare/armada/internal/config"
	"github.com/nkhare/armada/internal/dispatch"
	"github.com/nkhare/armada/internal/util"
)

// Target names one cluster the manager should connect to.
type Target struct {
	// Name is the friendly cluster identifier (defaults to the context)
	Name string

	// Region is the registry region the cluster serves
	Region string

	// Context is the kubeconfig context to connect through
	Context string
}

// Manager manages connections to multiple Kubernetes clusters.
// Connection establishment and health checking fan out through the
// dispatcher with cluster-tier concurrency.
type Manager struct {
	// clients is a map of cluster name to client
	clients map[string]*Client

	// mu protects concurrent access to the clients map
	mu sync.RWMutex

	// loader handles kubeconfig loading and parsing
	loader *config.KubeconfigLoader

	// dispatcher runs the per-cluster fan-out
	dispatcher *dispatch.Dispatcher

	// workers overrides the cluster-tier worker count (0 means the
	// tier default)
	workers int

	// logger for structured logging
	logger *slog.Logger

	// closed indicates if the manager has been closed
	closed bool
}

// NewManager creates a new cluster manager. workers caps the cluster
// fan-out; 0 falls back to the cluster-tier default.
func NewManager(loader *config.KubeconfigLoader, d *dispatch.Dispatcher, workers int, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if d == nil {
		d = dispatch.New(false, logger)
	}

	return &Manager{
		clients:    make(map[string]*Client),
		loader:     loader,
		dispatcher: d,
		workers:    workers,
		logger:     logger,
	}
}

// Connect establishes connections to the given targets. All targets are
// attempted even when some fail; the returned error aggregates the
// failures, and successfully connected clusters remain usable.
func (m *Manager) Connect(ctx context.Context, targets []Target) error {
	if len(targets) == 0 {
		return fmt.Errorf("no cluster targets provided")
	}

	m.logger.Info("connecting to clusters", "count", len(targets))

	tasks := make(map[string]dispatch.Task[*Client], len(targets))
	for _, target := range targets {
		t := target
		if t.Name == "" {
			t.Name = t.Context
		}
		tasks[t.Name] = func() (*Client, error) {
			restConfig, err := m.loader.RESTConfig(t.Context)
			if err != nil {
				return nil, util.WrapClusterError(t.Name, err)
			}
			return NewClient(ctx, t.Name, t.Region, t.Context, restConfig, m.logger)
		}
	}

	workers := dispatch.Workers(dispatch.TierCluster, len(tasks), m.workers)
	results, _ := dispatch.Keyed(m.dispatcher, tasks, workers, false)

	errs := &util.MultiError{}
	for name, res := range results {
		if !res.OK() {
			m.logger.Error("failed to connect to cluster", "cluster", name, "error", res.Err)
			errs.Add(util.WrapClusterError(name, res.Err))
			continue
		}

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			m.logger.Warn("manager is closed, skipping client storage", "cluster", name)
			continue
		}
		m.clients[name] = res.Value
		m.mu.Unlock()

		m.logger.Info("connected to cluster",
			"cluster", name,
			"server", res.Value.RestConfig.Host)
	}

	if err := errs.ErrorOrNil(); err != nil {
		m.logger.Warn("some cluster connections failed",
			"total", len(targets),
			"failed", len(errs.Errors),
			"succeeded", len(targets)-len(errs.Errors))
		return fmt.Errorf("failed to connect to %d/%d clusters: %w", len(errs.Errors), len(targets), err)
	}

	m.logger.Info("successfully connected to all clusters", "count", len(targets))
	return nil
}

// ConnectAll establishes connections to every context in the kubeconfig
func (m *Manager) ConnectAll(ctx context.Context) error {
	m.logger.Debug("discovering all contexts from kubeconfig")

	contexts, err := m.loader.Contexts()
	if err != nil {
		return fmt.Errorf("failed to get contexts: %w", err)
	}

	if len(contexts) == 0 {
		return fmt.Errorf("no contexts found in kubeconfig")
	}

	targets := make([]Target, 0, len(contexts))
	for _, c := range contexts {
		targets = append(targets, Target{Name: c, Context: c})
	}

	m.logger.Info("discovered contexts", "count", len(contexts))
	return m.Connect(ctx, targets)
}

// GetClient returns the client for a specific cluster
// Returns an error if the cluster is not connected
func (m *Manager) GetClient(name string) (*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("manager is closed")
	}

	client, ok := m.clients[name]
	if !ok {
		return nil, util.WrapClusterError(name, util.ErrClusterNotFound)
	}

	return client, nil
}

// Clients returns all connected clients, sorted by name
func (m *Manager) Clients() []*Client {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clients := make([]*Client, 0, len(m.clients))
	for _, client := range m.clients {
		clients = append(clients, client)
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].Name < clients[j].Name
	})

	return clients
}

// ClientNames returns all connected cluster names, sorted
func (m *Manager) ClientNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// HasClient returns true if the cluster is connected
func (m *Manager) HasClient(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.clients[name]
	return ok
}

// Count returns the number of connected clusters
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.clients)
}

// HealthCheck checks every connected cluster and returns one status per
// cluster. A failing cluster never blocks or aborts its siblings.
func (m *Manager) HealthCheck(ctx context.Context) []HealthStatus {
	clients := m.Clients()
	if len(clients) == 0 {
		m.logger.Warn("no clients to health check")
		return []HealthStatus{}
	}

	m.logger.Debug("starting health checks", "clusters", len(clients))

	names := make([]string, len(clients))
	tasks := make([]dispatch.Task[HealthStatus], len(clients))
	for i, client := range clients {
		c := client
		names[i] = c.Name
		tasks[i] = func() (HealthStatus, error) {
			status := HealthStatus{
				ClusterName: c.Name,
				Region:      c.Region,
			}

			if err := c.HealthCheck(ctx); err != nil {
				status.Error = err
				return status, nil
			}

			status.Healthy = true
			if version, err := c.ServerVersion(ctx); err == nil {
				status.ServerVersion = version
			}
			return status, nil
		}
	}

	workers := dispatch.Workers(dispatch.TierCluster, len(tasks), m.workers)
	results := dispatch.Ordered(m.dispatcher, tasks, workers, names)

	statuses := make([]HealthStatus, 0, len(results))
	healthy := 0
	for _, res := range results {
		status := res.Value
		if status.Healthy {
			healthy++
		} else {
			m.logger.Warn("health check failed",
				"cluster", status.ClusterName,
				"error", status.Error)
		}
		statuses = append(statuses, status)
	}

	m.logger.Info("health checks completed",
		"total", len(statuses),
		"healthy", healthy)

	return statuses
}

// Close gracefully closes all cluster connections
// This clears the client map and marks the manager as closed
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		m.logger.Debug("manager already closed")
		return
	}

	m.logger.Info("closing cluster manager", "clients", len(m.clients))

	// kubernetes.Clientset has no explicit Close; dropping the map lets
	// the underlying HTTP clients be garbage collected
	m.clients = make(map[string]*Client)
	m.closed = true
}

// IsClosed returns true if the manager has been closed
func (m *Manager) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
