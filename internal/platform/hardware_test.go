package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTiers() []HardwareTier {
	return []HardwareTier{
		{ID: "small-k8s", Name: "Small"},
		{ID: "medium-k8s", Name: "Medium", IsDefault: true},
		{ID: "large-k8s", Name: "Large"},
		{ID: "gpu-v100", Name: "GPU V100"},
		{ID: "model-api-small", Name: "Small", IsModelAPI: true},
	}
}

func TestResolveHardwareTier(t *testing.T) {
	tiers := sampleTiers()

	tests := []struct {
		name  string
		input string
		tiers []HardwareTier
		want  string
	}{
		{"exact id match", "small-k8s", tiers, "small-k8s"},
		{"exact name match", "Small", tiers, "small-k8s"},
		{"name match skips model api tiers", "Small", []HardwareTier{
			{ID: "model-api-small", Name: "Small", IsModelAPI: true},
			{ID: "small-k8s", Name: "Small"},
		}, "small-k8s"},
		{"case insensitive id", "SMALL-K8S", tiers, "small-k8s"},
		{"case insensitive name", "gpu v100", tiers, "gpu-v100"},
		{"substring tier in input", "the large-k8s tier please", tiers, "large-k8s"},
		{"substring input in tier", "v100", tiers, "gpu-v100"},
		{"shorthand fallback table", "medium", nil, "medium-k8s"},
		{"empty name uses declared default", "", tiers, "medium-k8s"},
		{"empty name skips model api default", "", []HardwareTier{
			{ID: "model-api-small", Name: "Small", IsDefault: true, IsModelAPI: true},
			{ID: "small-k8s", Name: "Small"},
		}, "small-k8s"},
		{"no default falls back to first", "", []HardwareTier{
			{ID: "alpha"}, {ID: "beta"},
		}, "alpha"},
		{"unknown name empty list", "nonexistent", nil, "small-k8s"},
		{"empty name empty list", "", nil, "small-k8s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveHardwareTier(tt.input, tt.tiers))
		})
	}
}

func TestResolveHardwareTierPrefersIDOverName(t *testing.T) {
	tiers := []HardwareTier{
		{ID: "medium-k8s", Name: "small-k8s"},
		{ID: "small-k8s", Name: "Small"},
	}
	// "small-k8s" matches the second tier's ID exactly even though the
	// first tier's display name also matches.
	assert.Equal(t, "small-k8s", ResolveHardwareTier("small-k8s", tiers))
}
