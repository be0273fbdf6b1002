package harness

import (
	"context"
	"fmt"
	"time"

	"uatharness/internal/config"
	"uatharness/internal/platform"
	"uatharness/pkg/logging"
)

// Operation is a single platform call executed under SafeCall.
type Operation func(ctx context.Context) (interface{}, error)

// SafeCall executes op and normalizes its outcome into an OperationResult.
// It never lets an error or panic escape: hard failures become FAILED
// results, and restricted or missing platform features (403/404) are
// classified according to policy. The default policy downgrades them to
// WARNING so that one permission gap does not sink a whole scenario.
func SafeCall(ctx context.Context, description string, policy config.RestrictedPolicy, op Operation) (result OperationResult) {
	start := time.Now()
	result = OperationResult{
		Description: description,
		Status:      StatusPassed,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Status = StatusFailed
			result.Error = fmt.Sprintf("panic: %v", r)
			result.Result = nil
		}
		result.Duration = time.Since(start)
		logging.Debug("harness", "operation %q finished: %s (%s)", description, result.Status, result.Duration)
	}()

	value, err := op(ctx)
	if err == nil {
		result.Result = value
		return result
	}

	if platform.IsNotFound(err) || platform.IsRestricted(err) {
		switch policy {
		case config.RestrictedFail:
			result.Status = StatusFailed
			result.Error = err.Error()
		case config.RestrictedSkip:
			result.Status = StatusSkipped
			result.Error = err.Error()
		default:
			result.Status = StatusWarning
			result.Error = err.Error()
			result.Guidance = restrictedGuidance(err)
		}
		return result
	}

	result.Status = StatusFailed
	result.Error = err.Error()
	return result
}

func restrictedGuidance(err error) string {
	if platform.IsRestricted(err) {
		return "this operation requires elevated permissions; re-run with an admin API key or adjust the restricted policy"
	}
	return "the target resource or API endpoint is not available on this deployment; it may be an optional feature"
}
