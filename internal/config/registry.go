package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// NotFoundError reports a missing segment in the registry tree, naming
// the path that failed and the keys that were available at that level.
type NotFoundError struct {
	// Path is the registry path up to and including the missing key,
	// e.g. "projects.project-alpha.prod.oc1.us-phoenix-1"
	Path string

	// Missing is the key that was not found
	Missing string

	// Available lists the keys present at the failing level
	Available []string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	avail := "(none)"
	if len(e.Available) > 0 {
		avail = strings.Join(e.Available, ", ")
	}
	return fmt.Sprintf("%q not found at %s. Available: %s", e.Missing, e.Path, avail)
}

// IsNotFound reports whether err is a registry NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// LoadRegistry reads and parses the registry file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %q: %w", path, err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %q: %w", path, err)
	}

	if reg.Projects == nil {
		return nil, &NotFoundError{Path: "registry root", Missing: "projects"}
	}

	return &reg, nil
}

// Stage returns the stage config for a project, with a NotFoundError
// naming the failing level when the path does not exist.
func (r *Registry) Stage(project, stage string) (StageConfig, error) {
	p, ok := r.Projects[project]
	if !ok {
		return StageConfig{}, &NotFoundError{
			Path:      "projects",
			Missing:   project,
			Available: sortedKeys(r.Projects),
		}
	}

	s, ok := p[stage]
	if !ok {
		return StageConfig{}, &NotFoundError{
			Path:      fmt.Sprintf("projects.%s", project),
			Missing:   stage,
			Available: sortedKeys(p),
		}
	}

	return s, nil
}

// Region returns one region entry of a project stage.
func (r *Registry) Region(project, stage, realm, region string) (RegionEntry, error) {
	s, err := r.Stage(project, stage)
	if err != nil {
		return RegionEntry{}, err
	}

	rc, ok := s.Realms[realm]
	if !ok {
		return RegionEntry{}, &NotFoundError{
			Path:      fmt.Sprintf("projects.%s.%s", project, stage),
			Missing:   realm,
			Available: sortedKeys(s.Realms),
		}
	}

	entry, ok := rc.Regions[region]
	if !ok {
		return RegionEntry{}, &NotFoundError{
			Path:      fmt.Sprintf("projects.%s.%s.%s", project, stage, realm),
			Missing:   region,
			Available: sortedKeys(rc.Regions),
		}
	}

	return entry, nil
}

// CompartmentID returns the compartment OCID a region's API calls are
// scoped to.
func (r *Registry) CompartmentID(project, stage, realm, region string) (string, error) {
	entry, err := r.Region(project, stage, realm, region)
	if err != nil {
		return "", err
	}

	if entry.CompartmentID == "" {
		return "", &NotFoundError{
			Path:    fmt.Sprintf("projects.%s.%s.%s.%s", project, stage, realm, region),
			Missing: "compartment_id",
		}
	}

	return entry.CompartmentID, nil
}

// CompartmentIDSafe is like CompartmentID but returns fallback instead
// of an error when the path does not resolve.
func (r *Registry) CompartmentIDSafe(project, stage, realm, region, fallback string) string {
	id, err := r.CompartmentID(project, stage, realm, region)
	if err != nil {
		return fallback
	}
	return id
}

// TenancyInfo returns the tenancy OCID and name configured on a realm.
func (r *Registry) TenancyInfo(project, stage, realm string) (ocid, name string, err error) {
	s, err := r.Stage(project, stage)
	if err != nil {
		return "", "", err
	}

	rc, ok := s.Realms[realm]
	if !ok {
		return "", "", &NotFoundError{
			Path:      fmt.Sprintf("projects.%s.%s", project, stage),
			Missing:   realm,
			Available: sortedKeys(s.Realms),
		}
	}

	return rc.TenancyOCID, rc.TenancyName, nil
}

// RegionClusters flattens a project stage into one entry per (realm,
// region) pair, sorted by realm then region for deterministic fan-out.
func (r *Registry) RegionClusters(project, stage string) ([]RegionCluster, error) {
	s, err := r.Stage(project, stage)
	if err != nil {
		return nil, err
	}

	pairs := make([]RegionCluster, 0)
	for realmName, realm := range s.Realms {
		for regionName, entry := range realm.Regions {
			pairs = append(pairs, RegionCluster{
				Realm:  realmName,
				Region: regionName,
				Entry:  entry,
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Realm != pairs[j].Realm {
			return pairs[i].Realm < pairs[j].Realm
		}
		return pairs[i].Region < pairs[j].Region
	})

	return pairs, nil
}

// ProjectNames returns the project names in the registry, sorted.
func (r *Registry) ProjectNames() []string {
	return sortedKeys(r.Projects)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
