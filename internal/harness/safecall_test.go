package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uatharness/internal/config"
	"uatharness/internal/platform"
)

func TestSafeCallSuccess(t *testing.T) {
	result := SafeCall(context.Background(), "list things", config.RestrictedWarn, func(ctx context.Context) (interface{}, error) {
		return []string{"a", "b"}, nil
	})

	assert.Equal(t, StatusPassed, result.Status)
	assert.Equal(t, []string{"a", "b"}, result.Result)
	assert.Empty(t, result.Error)
	assert.GreaterOrEqual(t, result.Duration.Nanoseconds(), int64(0))
}

func TestSafeCallHardFailure(t *testing.T) {
	result := SafeCall(context.Background(), "broken op", config.RestrictedWarn, func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("connection refused")
	})

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.Error, "connection refused")
	assert.Nil(t, result.Result)
}

func TestSafeCallNotFoundBecomesWarning(t *testing.T) {
	notFound := &platform.APIError{StatusCode: 404, Method: "GET", Path: "/v4/models"}

	result := SafeCall(context.Background(), "optional feature", config.RestrictedWarn, func(ctx context.Context) (interface{}, error) {
		return nil, notFound
	})

	assert.Equal(t, StatusWarning, result.Status)
	assert.NotEmpty(t, result.Error)
	assert.NotEmpty(t, result.Guidance)
}

func TestSafeCallRestrictedPolicies(t *testing.T) {
	forbidden := &platform.APIError{StatusCode: 403, Method: "GET", Path: "/v4/admin/nodes"}

	tests := []struct {
		name   string
		policy config.RestrictedPolicy
		want   Status
	}{
		{"warn", config.RestrictedWarn, StatusWarning},
		{"skip", config.RestrictedSkip, StatusSkipped},
		{"fail", config.RestrictedFail, StatusFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := SafeCall(context.Background(), "admin op", tc.policy, func(ctx context.Context) (interface{}, error) {
				return nil, forbidden
			})
			assert.Equal(t, tc.want, result.Status)
		})
	}
}

func TestSafeCallRestrictedGuidanceMentionsPermissions(t *testing.T) {
	forbidden := &platform.APIError{StatusCode: 403, Method: "GET", Path: "/v4/admin/nodes"}

	result := SafeCall(context.Background(), "admin op", config.RestrictedWarn, func(ctx context.Context) (interface{}, error) {
		return nil, forbidden
	})

	require.Equal(t, StatusWarning, result.Status)
	assert.Contains(t, result.Guidance, "permissions")
}

func TestSafeCallRecoversPanic(t *testing.T) {
	result := SafeCall(context.Background(), "panicking op", config.RestrictedWarn, func(ctx context.Context) (interface{}, error) {
		panic("nil map write")
	})

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.Error, "panic")
	assert.Contains(t, result.Error, "nil map write")
}
