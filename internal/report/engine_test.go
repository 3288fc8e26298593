package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/nkhare/armada/internal/cluster"
	"github.com/nkhare/armada/internal/config"
	"github.com/nkhare/armada/internal/dispatch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRegistry() *config.Registry {
	return &config.Registry{
		Projects: map[string]config.ProjectConfig{
			"orion": {
				"prod": config.StageConfig{
					TargetVersion: "v1.29.1",
					Realms: map[string]config.RealmConfig{
						"oc1": {
							TenancyOCID: "ocid1.tenancy.oc1..prod",
							Regions: map[string]config.RegionEntry{
								"us-phoenix-1": {
									CompartmentID: "ocid1.compartment.oc1..phx",
									Context:       "orion-phx",
								},
								"us-ashburn-1": {
									CompartmentID: "ocid1.compartment.oc1..iad",
									Context:       "orion-iad",
								},
							},
						},
						"oc16": {
							Regions: map[string]config.RegionEntry{
								"us-dcc-1": {Context: "orion-dcc"},
							},
						},
					},
				},
				"dev": config.StageConfig{
					Realms: map[string]config.RealmConfig{
						"oc1": {
							Regions: map[string]config.RegionEntry{
								"us-phoenix-1": {Context: "orion-dev-phx"},
							},
						},
					},
				},
				"empty": config.StageConfig{
					TargetVersion: "v1.29.1",
					Realms:        map[string]config.RealmConfig{},
				},
			},
		},
	}
}

type fakeSource struct {
	mu    sync.Mutex
	nodes map[string][]cluster.NodeInfo
	errs  map[string]error
	calls []string
}

func (f *fakeSource) Nodes(ctx context.Context, rc config.RegionCluster) ([]cluster.NodeInfo, error) {
	key := rc.Realm + "/" + rc.Region

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.nodes[key], nil
}

func newEngine(t *testing.T, source Source) *Engine {
	t.Helper()
	logger := testLogger()
	return NewEngine(testRegistry(), source, dispatch.New(false, logger), config.Settings{}, logger)
}

func TestEngine_Versions(t *testing.T) {
	source := &fakeSource{
		nodes: map[string][]cluster.NodeInfo{
			"oc1/us-phoenix-1": {
				{Name: "phx-node-2", KubeletVersion: "v1.29.1", Ready: true},
				{Name: "phx-node-1", KubeletVersion: "v1.28.4", Ready: true},
			},
			"oc1/us-ashburn-1": {
				{Name: "iad-node-1", KubeletVersion: "v1.29.1", Ready: false},
			},
			"oc16/us-dcc-1": {
				{Name: "dcc-node-1", KubeletVersion: "v1.29.1", Ready: true},
			},
		},
	}
	engine := newEngine(t, source)

	rep, err := engine.Versions(context.Background(), "orion", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.Project != "orion" || rep.Stage != "prod" {
		t.Errorf("unexpected report identity: %s/%s", rep.Project, rep.Stage)
	}

	if rep.TargetVersion != "v1.29.1" {
		t.Errorf("expected target v1.29.1, got %s", rep.TargetVersion)
	}

	if len(rep.Failures) != 0 {
		t.Fatalf("expected no failures, got %v", rep.Failures)
	}

	if len(rep.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rep.Rows))
	}

	// Sorted by realm, region, host
	wantOrder := []string{"iad-node-1", "phx-node-1", "phx-node-2", "dcc-node-1"}
	for i, row := range rep.Rows {
		if row.Host != wantOrder[i] {
			t.Errorf("position %d: expected host %s, got %s", i, wantOrder[i], row.Host)
		}
	}

	byHost := make(map[string]Row)
	for _, row := range rep.Rows {
		byHost[row.Host] = row
	}

	if !byHost["phx-node-1"].Drifted {
		t.Error("expected phx-node-1 to be drifted")
	}
	if byHost["phx-node-2"].Drifted {
		t.Error("expected phx-node-2 to match target")
	}
	if byHost["iad-node-1"].Ready {
		t.Error("expected iad-node-1 to be not ready")
	}
	if byHost["phx-node-1"].Cluster != "orion-phx" {
		t.Errorf("expected cluster orion-phx, got %s", byHost["phx-node-1"].Cluster)
	}
	if byHost["dcc-node-1"].Realm != "oc16" {
		t.Errorf("expected realm oc16, got %s", byHost["dcc-node-1"].Realm)
	}
}

func TestEngine_Versions_ClusterFailure(t *testing.T) {
	source := &fakeSource{
		nodes: map[string][]cluster.NodeInfo{
			"oc1/us-phoenix-1": {
				{Name: "phx-node-1", KubeletVersion: "v1.29.1", Ready: true},
			},
			"oc16/us-dcc-1": {
				{Name: "dcc-node-1", KubeletVersion: "v1.29.1", Ready: true},
			},
		},
		errs: map[string]error{
			"oc1/us-ashburn-1": fmt.Errorf("connection refused"),
		},
	}
	engine := newEngine(t, source)

	rep, err := engine.Versions(context.Background(), "orion", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(rep.Failures))
	}

	failure := rep.Failures[0]
	if failure.Realm != "oc1" || failure.Region != "us-ashburn-1" {
		t.Errorf("unexpected failure location: %s/%s", failure.Realm, failure.Region)
	}
	if failure.Err == nil {
		t.Error("expected failure error to be recorded")
	}

	// Surviving clusters still report
	if len(rep.Rows) != 2 {
		t.Errorf("expected 2 rows from surviving clusters, got %d", len(rep.Rows))
	}

	summary := rep.Summarize()
	if summary.Failed != 1 {
		t.Errorf("expected 1 failed cluster in summary, got %d", summary.Failed)
	}
}

func TestEngine_Versions_AllClustersSwept(t *testing.T) {
	source := &fakeSource{nodes: map[string][]cluster.NodeInfo{}}
	engine := newEngine(t, source)

	_, err := engine.Versions(context.Background(), "orion", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(source.calls) != 3 {
		t.Fatalf("expected 3 cluster sweeps, got %d: %v", len(source.calls), source.calls)
	}

	seen := make(map[string]bool)
	for _, call := range source.calls {
		seen[call] = true
	}
	for _, want := range []string{"oc1/us-phoenix-1", "oc1/us-ashburn-1", "oc16/us-dcc-1"} {
		if !seen[want] {
			t.Errorf("expected sweep of %s", want)
		}
	}
}

func TestEngine_Versions_UnknownStage(t *testing.T) {
	engine := newEngine(t, &fakeSource{})

	_, err := engine.Versions(context.Background(), "orion", "staging")
	if err == nil {
		t.Fatal("expected error for unknown stage")
	}
	if !config.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}

	_, err = engine.Versions(context.Background(), "nonexistent", "prod")
	if err == nil {
		t.Fatal("expected error for unknown project")
	}
	if !config.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestEngine_Versions_EmptyStage(t *testing.T) {
	source := &fakeSource{}
	engine := newEngine(t, source)

	rep, err := engine.Versions(context.Background(), "orion", "empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.Rows) != 0 || len(rep.Failures) != 0 {
		t.Errorf("expected empty report, got %d rows, %d failures", len(rep.Rows), len(rep.Failures))
	}

	if len(source.calls) != 0 {
		t.Errorf("expected no sweeps for empty stage, got %v", source.calls)
	}
}

func TestEngine_Versions_NoTargetVersion(t *testing.T) {
	source := &fakeSource{
		nodes: map[string][]cluster.NodeInfo{
			"oc1/us-phoenix-1": {
				{Name: "dev-node-1", KubeletVersion: "v1.27.0", Ready: true},
			},
		},
	}
	engine := newEngine(t, source)

	rep, err := engine.Versions(context.Background(), "orion", "dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rep.Rows))
	}

	row := rep.Rows[0]
	if row.TargetVersion != "—" {
		t.Errorf("expected placeholder target, got %q", row.TargetVersion)
	}
	if row.Drifted {
		t.Error("expected no drift verdict without a target version")
	}
}

func TestEngine_Versions_SequentialDispatcher(t *testing.T) {
	source := &fakeSource{
		nodes: map[string][]cluster.NodeInfo{
			"oc1/us-phoenix-1": {
				{Name: "phx-node-1", KubeletVersion: "v1.28.4", Ready: true},
			},
			"oc1/us-ashburn-1": {
				{Name: "iad-node-1", KubeletVersion: "v1.29.1", Ready: true},
			},
			"oc16/us-dcc-1": {
				{Name: "dcc-node-1", KubeletVersion: "v1.29.1", Ready: true},
			},
		},
	}
	logger := testLogger()
	engine := NewEngine(testRegistry(), source, dispatch.New(true, logger),
		config.Settings{ParallelDisabled: true}, logger)

	rep, err := engine.Versions(context.Background(), "orion", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rep.Rows))
	}

	summary := rep.Summarize()
	if summary.Drifted != 1 {
		t.Errorf("expected 1 drifted host, got %d", summary.Drifted)
	}
}

func TestBuildRow_MissingKubeletVersion(t *testing.T) {
	rc := config.RegionCluster{
		Realm:  "oc1",
		Region: "us-phoenix-1",
		Entry:  config.RegionEntry{Context: "orion-phx"},
	}

	row := buildRow(rc, "v1.29.1", cluster.NodeInfo{Name: "node-1", Ready: true})

	if row.CurrentVersion != "—" {
		t.Errorf("expected placeholder current version, got %q", row.CurrentVersion)
	}
	if row.Drifted {
		t.Errorf("unknown version must not carry a drift verdict: %+v", row)
	}
	if row.TargetVersion != "v1.29.1" {
		t.Errorf("expected target version kept, got %q", row.TargetVersion)
	}
}

func TestKubeconfigSource_NoContext(t *testing.T) {
	source := NewKubeconfigSource(config.NewKubeconfigLoader(""), testLogger())

	rc := config.RegionCluster{Realm: "oc1", Region: "us-phoenix-1"}
	_, err := source.Nodes(context.Background(), rc)
	if err == nil {
		t.Fatal("expected error for missing context")
	}
}
