package tier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixvault/api/internal/tier"
)

func basicPolicy() tier.Policy {
	return tier.Policy{Name: "basic", ThumbnailSizes: []int{200}}
}

func enterprisePolicy() tier.Policy {
	return tier.Policy{
		Name:            "enterprise",
		ThumbnailSizes:  []int{200, 400},
		ExposeOriginal:  true,
		ExpiringLinks:   true,
		MinLinkDuration: 300,
		MaxLinkDuration: 30000,
	}
}

func TestNewSet(t *testing.T) {
	tests := []struct {
		name        string
		policies    []tier.Policy
		defaultTier string
		wantErr     string
	}{
		{
			name:        "valid set",
			policies:    []tier.Policy{basicPolicy(), enterprisePolicy()},
			defaultTier: "basic",
		},
		{
			name:        "empty set",
			policies:    nil,
			defaultTier: "basic",
			wantErr:     "no tiers configured",
		},
		{
			name:        "missing default",
			policies:    []tier.Policy{basicPolicy()},
			defaultTier: "premium",
			wantErr:     "default tier premium not configured",
		},
		{
			name:        "duplicate name",
			policies:    []tier.Policy{basicPolicy(), basicPolicy()},
			defaultTier: "basic",
			wantErr:     "duplicate tier basic",
		},
		{
			name: "no thumbnail sizes",
			policies: []tier.Policy{
				{Name: "broken"},
			},
			defaultTier: "broken",
			wantErr:     "at least one thumbnail size",
		},
		{
			name: "non-positive size",
			policies: []tier.Policy{
				{Name: "broken", ThumbnailSizes: []int{200, 0}},
			},
			defaultTier: "broken",
			wantErr:     "must be positive",
		},
		{
			name: "links without min",
			policies: []tier.Policy{
				{Name: "broken", ThumbnailSizes: []int{200}, ExpiringLinks: true, MaxLinkDuration: 100},
			},
			defaultTier: "broken",
			wantErr:     "min link duration must be positive",
		},
		{
			name: "max below min",
			policies: []tier.Policy{
				{Name: "broken", ThumbnailSizes: []int{200}, ExpiringLinks: true, MinLinkDuration: 500, MaxLinkDuration: 100},
			},
			defaultTier: "broken",
			wantErr:     "max link duration 100 below min 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := tier.NewSet(tt.policies, tt.defaultTier)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.defaultTier, set.DefaultName())
		})
	}
}

func TestSetResolve(t *testing.T) {
	set, err := tier.NewSet([]tier.Policy{basicPolicy(), enterprisePolicy()}, "basic")
	require.NoError(t, err)

	p, err := set.Resolve("enterprise")
	require.NoError(t, err)
	assert.Equal(t, []int{200, 400}, p.ThumbnailSizes)
	assert.True(t, p.ExpiringLinks)

	_, err = set.Resolve("gold")
	assert.ErrorIs(t, err, tier.ErrUnknownTier)

	assert.Equal(t, "basic", set.Default().Name)
}

func TestAllowsLinkDuration(t *testing.T) {
	p := enterprisePolicy()

	// Bounds are inclusive on both ends.
	assert.False(t, p.AllowsLinkDuration(299))
	assert.True(t, p.AllowsLinkDuration(300))
	assert.True(t, p.AllowsLinkDuration(3600))
	assert.True(t, p.AllowsLinkDuration(30000))
	assert.False(t, p.AllowsLinkDuration(30001))
	assert.False(t, p.AllowsLinkDuration(-1))
}
