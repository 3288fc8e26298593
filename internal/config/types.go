package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Keys at the realm level that carry tenancy metadata rather than
// naming a region.
const (
	tenancyOCIDKey = "tenancy-ocid"
	tenancyNameKey = "tenancy-name"
)

// Registry is the parsed registry file (meta.yaml). It maps
// projects -> stages -> realms -> regions to the per-region entry used
// to reach that slice of the fleet.
type Registry struct {
	Projects map[string]ProjectConfig `yaml:"projects"`
}

// ProjectConfig maps stage names (dev, staging, prod) to stage configs.
type ProjectConfig map[string]StageConfig

// StageConfig holds the realms of one deployment stage plus
// stage-level defaults.
type StageConfig struct {
	// TargetVersion is the Kubernetes version the stage's nodes are
	// expected to run; the drift report flags nodes behind it.
	TargetVersion string

	// Realms maps realm identifiers (oc1, oc16, ...) to their regions.
	Realms map[string]RealmConfig
}

// RealmConfig holds tenancy metadata and the regions of one realm.
type RealmConfig struct {
	// TenancyOCID identifies the tenancy this realm belongs to
	TenancyOCID string

	// TenancyName is the human-readable tenancy name
	TenancyName string

	// Regions maps region identifiers (us-phoenix-1, ...) to entries
	Regions map[string]RegionEntry
}

// RegionEntry describes how to reach one region of a project stage.
type RegionEntry struct {
	// CompartmentID scopes provider API calls in this region
	CompartmentID string `yaml:"compartment_id,omitempty"`

	// Context is the kubeconfig context for the region's cluster
	Context string `yaml:"context,omitempty"`

	// Labels for organizing regions
	Labels map[string]string `yaml:"labels,omitempty"`
}

// RegionCluster is one flattened (realm, region) pair of a project
// stage, used for region-level fan-out.
type RegionCluster struct {
	Realm  string
	Region string
	Entry  RegionEntry
}

// UnmarshalYAML separates the stage-level target-version key from realm
// entries.
func (s *StageConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("stage config must be a mapping, got %v", value.Kind)
	}

	s.Realms = make(map[string]RealmConfig)

	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		switch keyNode.Value {
		case "target-version":
			if err := valNode.Decode(&s.TargetVersion); err != nil {
				return fmt.Errorf("decoding target-version: %w", err)
			}
		default:
			var realm RealmConfig
			if err := valNode.Decode(&realm); err != nil {
				return fmt.Errorf("decoding realm %q: %w", keyNode.Value, err)
			}
			s.Realms[keyNode.Value] = realm
		}
	}

	return nil
}

// UnmarshalYAML separates the reserved tenancy keys from region entries.
func (r *RealmConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("realm config must be a mapping, got %v", value.Kind)
	}

	r.Regions = make(map[string]RegionEntry)

	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		switch keyNode.Value {
		case tenancyOCIDKey:
			if err := valNode.Decode(&r.TenancyOCID); err != nil {
				return fmt.Errorf("decoding %s: %w", tenancyOCIDKey, err)
			}
		case tenancyNameKey:
			if err := valNode.Decode(&r.TenancyName); err != nil {
				return fmt.Errorf("decoding %s: %w", tenancyNameKey, err)
			}
		default:
			var entry RegionEntry
			if err := valNode.Decode(&entry); err != nil {
				return fmt.Errorf("decoding region %q: %w", keyNode.Value, err)
			}
			r.Regions[keyNode.Value] = entry
		}
	}

	return nil
}

// ClusterInfo describes a cluster discovered from kubeconfig, enriched
// with registry metadata when available.
type ClusterInfo struct {
	// Name is the cluster name from kubeconfig
	Name string `json:"name"`

	// Context is the context name
	Context string `json:"context"`

	// Server is the API server URL
	Server string `json:"server"`

	// Namespace is the default namespace
	Namespace string `json:"namespace"`

	// User is the user for authentication
	User string `json:"user"`

	// Current indicates if this is the current context
	Current bool `json:"current"`

	// Region is the registry region this context serves, if known
	Region string `json:"region,omitempty"`

	// Labels from the registry entry
	Labels map[string]string `json:"labels,omitempty"`
}
