package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// NewClient creates a new cluster client from a REST config
// This performs the actual connection to the Kubernetes API server
func NewClient(ctx context.Context, name, region, contextName string, restConfig *rest.Config, logger *slog.Logger) (*Client, error) {
	if restConfig == nil {
		return nil, fmt.Errorf("rest config cannot be nil")
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error before connecting to %s: %w", name, err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	client := &Client{
		Name:       name,
		Region:     region,
		Context:    contextName,
		Clientset:  clientset,
		RestConfig: restConfig,
		Healthy:    false, // Will be set by health check
	}

	logger.Debug("created cluster client",
		"cluster", name,
		"region", region,
		"context", contextName,
		"server", restConfig.Host)

	return client, nil
}

// HealthCheck performs a health check on the cluster by pinging the API server
// It uses the Discovery API to get the server version, which is a lightweight operation
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		c.Healthy = false
		return fmt.Errorf("health check aborted: %w", err)
	}

	// Bound the check so an unresponsive cluster cannot hang the caller
	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	type result struct {
		err error
	}
	resultCh := make(chan result, 1)

	// The discovery client has no context-aware version call, so run it
	// in a goroutine and race it against the deadline
	go func() {
		_, err := c.Clientset.Discovery().ServerVersion()
		resultCh <- result{err: err}
	}()

	select {
	case <-healthCtx.Done():
		c.Healthy = false
		return fmt.Errorf("health check timeout: %w", healthCtx.Err())
	case res := <-resultCh:
		if res.err != nil {
			c.Healthy = false
			return fmt.Errorf("failed to get server version: %w", res.err)
		}
		c.Healthy = true
		return nil
	}
}

// ServerVersion returns the Kubernetes server version
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	versionCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	type result struct {
		version string
		err     error
	}
	resultCh := make(chan result, 1)

	go func() {
		version, err := c.Clientset.Discovery().ServerVersion()
		if err != nil {
			resultCh <- result{err: err}
			return
		}
		resultCh <- result{version: version.String(), err: nil}
	}()

	select {
	case <-versionCtx.Done():
		return "", fmt.Errorf("get server version timeout: %w", versionCtx.Err())
	case res := <-resultCh:
		return res.version, res.err
	}
}

// ListNodes returns the cluster's nodes with the fields the drift
// report needs
func (c *Client) ListNodes(ctx context.Context) ([]NodeInfo, error) {
	nodeList, err := c.Clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	nodes := make([]NodeInfo, 0, len(nodeList.Items))
	for _, node := range nodeList.Items {
		nodes = append(nodes, NodeInfo{
			Name:           node.Name,
			KubeletVersion: node.Status.NodeInfo.KubeletVersion,
			Ready:          nodeReady(node),
		})
	}

	return nodes, nil
}

// nodeReady reports the node's Ready condition
func nodeReady(node corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}

// IsHealthy returns the current health status
func (c *Client) IsHealthy() bool {
	return c.Healthy
}

// String returns a string representation of the client
func (c *Client) String() string {
	return fmt.Sprintf("Client{Name: %s, Region: %s, Context: %s, Healthy: %v}", c.Name, c.Region, c.Context, c.Healthy)
}
