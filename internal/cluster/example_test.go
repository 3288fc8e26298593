package cluster_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nkhare/armada/internal/cluster"
	"github.com/nkhare/armada/internal/config"
	"github.com/nkhare/armada/internal/dispatch"
)

// Example demonstrates basic usage of the cluster manager
func Example() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Uses the default ~/.kube/config or KUBECONFIG env var
	loader := config.NewKubeconfigLoader("")

	d := dispatch.New(false, logger)
	manager := cluster.NewManager(loader, d, 0, logger)
	defer manager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect to all clusters in the kubeconfig
	if err := manager.ConnectAll(ctx); err != nil {
		logger.Error("failed to connect to clusters", "error", err)
		return
	}

	fmt.Printf("Connected to %d clusters\n", manager.Count())

	for _, client := range manager.Clients() {
		fmt.Printf("Cluster: %s (Context: %s)\n", client.Name, client.Context)
	}

	// Health checks fan out concurrently, one status per cluster
	for _, status := range manager.HealthCheck(ctx) {
		if status.Healthy {
			fmt.Printf("Cluster %s is healthy (version: %s)\n",
				status.ClusterName, status.ServerVersion)
		} else {
			fmt.Printf("Cluster %s: UNHEALTHY - %v\n", status.ClusterName, status.Error)
		}
	}
}

// Example_registryTargets demonstrates connecting to clusters named in the
// deployment registry
func Example_registryTargets() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	loader := config.NewKubeconfigLoader("")
	manager := cluster.NewManager(loader, dispatch.New(false, logger), 0, logger)
	defer manager.Close()

	ctx := context.Background()

	targets := []cluster.Target{
		{Name: "prod-phoenix", Region: "us-phoenix-1", Context: "prod-phoenix-context"},
		{Name: "prod-ashburn", Region: "us-ashburn-1", Context: "prod-ashburn-context"},
	}
	if err := manager.Connect(ctx, targets); err != nil {
		logger.Error("failed to connect", "error", err)
		return
	}

	client, err := manager.GetClient("prod-phoenix")
	if err != nil {
		logger.Error("failed to get client", "error", err)
		return
	}

	// client.Clientset is ready for Kubernetes operations
	fmt.Printf("Got client for cluster: %s in %s\n", client.Name, client.Region)
}

// Example_contextCancellation demonstrates context cancellation
func Example_contextCancellation() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	loader := config.NewKubeconfigLoader("")
	manager := cluster.NewManager(loader, dispatch.New(false, logger), 0, logger)
	defer manager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// If connection takes too long, it will be cancelled
	if err := manager.ConnectAll(ctx); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			fmt.Println("Connection timed out")
		} else {
			fmt.Printf("Connection failed: %v\n", err)
		}
		return
	}

	fmt.Println("Successfully connected")
}

// Example_healthCheck demonstrates health checking
func Example_healthCheck() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	loader := config.NewKubeconfigLoader("")
	manager := cluster.NewManager(loader, dispatch.New(false, logger), 0, logger)
	defer manager.Close()

	ctx := context.Background()

	// Assumes clusters are already connected via Connect or ConnectAll
	statuses := manager.HealthCheck(ctx)

	healthyCount := 0
	for _, status := range statuses {
		if status.Healthy {
			healthyCount++
			fmt.Printf("%s: %s\n", status.ClusterName, status.ServerVersion)
		} else {
			fmt.Printf("%s: ERROR - %v\n", status.ClusterName, status.Error)
		}
	}

	fmt.Printf("%d/%d clusters are healthy\n", healthyCount, len(statuses))
}
