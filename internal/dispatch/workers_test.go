package dispatch

import "testing"

func TestWorkers(t *testing.T) {
	tests := []struct {
		name      string
		tier      Tier
		itemCount int
		override  int
		expected  int
	}{
		{
			name:      "override capped by item count",
			tier:      TierInstance,
			itemCount: 2,
			override:  10,
			expected:  2,
		},
		{
			name:      "override below item count wins",
			tier:      TierRegion,
			itemCount: 10,
			override:  2,
			expected:  2,
		},
		{
			name:      "region default",
			tier:      TierRegion,
			itemCount: 10,
			expected:  DefaultRegionWorkers,
		},
		{
			name:      "cluster default",
			tier:      TierCluster,
			itemCount: 10,
			expected:  DefaultClusterWorkers,
		},
		{
			name:      "instance default",
			tier:      TierInstance,
			itemCount: 20,
			expected:  DefaultInstanceWorkers,
		},
		{
			name:      "default capped by item count",
			tier:      TierRegion,
			itemCount: 2,
			expected:  2,
		},
		{
			name:      "unknown tier falls back to instance default",
			tier:      Tier("nonexistent_tier"),
			itemCount: 20,
			expected:  DefaultInstanceWorkers,
		},
		{
			name:      "zero items",
			tier:      TierCluster,
			itemCount: 0,
			expected:  0,
		},
		{
			name:      "negative items clamp to zero",
			tier:      TierCluster,
			itemCount: -4,
			expected:  0,
		},
		{
			name:      "zero override means unset",
			tier:      TierCluster,
			itemCount: 12,
			override:  0,
			expected:  DefaultClusterWorkers,
		},
		{
			name:      "negative override means unset",
			tier:      TierRegion,
			itemCount: 12,
			override:  -7,
			expected:  DefaultRegionWorkers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Workers(tt.tier, tt.itemCount, tt.override)
			if got != tt.expected {
				t.Errorf("Workers(%q, %d, %d) = %d, want %d",
					tt.tier, tt.itemCount, tt.override, got, tt.expected)
			}
		})
	}
}

func TestWorkers_Deterministic(t *testing.T) {
	first := Workers(TierRegion, 7, 3)
	for i := 0; i < 100; i++ {
		if got := Workers(TierRegion, 7, 3); got != first {
			t.Fatalf("nondeterministic result on call %d: %d != %d", i, got, first)
		}
	}
}
