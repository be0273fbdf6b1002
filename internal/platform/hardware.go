package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ListHardwareTiers returns the hardware tiers offered by the platform.
func (c *Client) ListHardwareTiers(ctx context.Context) ([]HardwareTier, error) {
	var tiers []HardwareTier
	if err := c.do(ctx, http.MethodGet, "/v4/hardwareTiers", nil, nil, &tiers); err != nil {
		return nil, fmt.Errorf("failed to list hardware tiers: %w", err)
	}
	return tiers, nil
}

// fallbackTiers maps common shorthand names to the identifiers most
// deployments use. Consulted only after every match against the live tier
// list has failed.
var fallbackTiers = map[string]string{
	"small":  "small-k8s",
	"medium": "medium-k8s",
	"large":  "large-k8s",
}

// defaultFallbackTier is the identifier of last resort when the platform
// reports no tiers at all.
const defaultFallbackTier = "small-k8s"

// ResolveHardwareTier maps a user-supplied tier name onto a canonical tier
// identifier from the given list. Resolution tries, in order:
//
//  1. exact identifier match
//  2. exact display-name match, excluding Model API tiers
//  3. case-insensitive match on identifier or name
//  4. substring match in either direction
//  5. the small/medium/large shorthand table
//  6. the platform's declared default tier (excluding Model API tiers)
//  7. the first non-Model-API tier, then the literal first tier
//
// An empty name skips straight to the default-tier steps. With an empty
// tier list the shorthand table still applies, then defaultFallbackTier.
func ResolveHardwareTier(name string, tiers []HardwareTier) string {
	if name != "" {
		for _, t := range tiers {
			if t.ID == name {
				return t.ID
			}
		}
		for _, t := range tiers {
			if t.Name == name && !t.IsModelAPI {
				return t.ID
			}
		}
		lower := strings.ToLower(name)
		for _, t := range tiers {
			if strings.ToLower(t.ID) == lower || strings.ToLower(t.Name) == lower {
				return t.ID
			}
		}
		for _, t := range tiers {
			tierID := strings.ToLower(t.ID)
			tierName := strings.ToLower(t.Name)
			if strings.Contains(tierID, lower) || strings.Contains(lower, tierID) ||
				(tierName != "" && (strings.Contains(tierName, lower) || strings.Contains(lower, tierName))) {
				return t.ID
			}
		}
		if id, ok := fallbackTiers[lower]; ok {
			return id
		}
	}

	for _, t := range tiers {
		if t.IsDefault && !t.IsModelAPI {
			return t.ID
		}
	}
	for _, t := range tiers {
		if !t.IsModelAPI {
			return t.ID
		}
	}
	if len(tiers) > 0 {
		return tiers[0].ID
	}
	return defaultFallbackTier
}
