package ai

import (
	"context"
	"math/rand"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// RetryPolicy bounds retries of a transient-failure-prone call. Backoff is
// randomized exponential: each attempt sleeps a uniform random duration in
// [0, min(MaxBackoff, InitialBackoff*2^attempt)].
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func DefaultEmbedRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    6,
		InitialBackoff: time.Second,
		MaxBackoff:     20 * time.Second,
	}
}

type retryEmbedder struct {
	next   IEmbedder
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

// WrapRetryToEmbedder retries transient embedding failures. Completion calls
// are deliberately not wrapped; their failures stay fatal for the request.
func WrapRetryToEmbedder(e IEmbedder, policy RetryPolicy) IEmbedder {
	if e == nil || policy.MaxAttempts <= 1 {
		return e
	}
	if policy.InitialBackoff <= 0 {
		policy.InitialBackoff = time.Second
	}
	if policy.MaxBackoff < policy.InitialBackoff {
		policy.MaxBackoff = policy.InitialBackoff
	}
	return &retryEmbedder{
		next:   e,
		policy: policy,
		sleep:  sleepContext,
	}
}

func (r *retryEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	var lastErr error
	backoff := r.policy.InitialBackoff
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		res, err := r.next.Embed(ctx, text, taskType)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if attempt == r.policy.MaxAttempts {
			break
		}
		wait := jitter(backoff)
		logutil.GetLogger(ctx).Warn("embedding call failed, backing off",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.policy.MaxAttempts),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
		backoff *= 2
		if backoff > r.policy.MaxBackoff {
			backoff = r.policy.MaxBackoff
		}
	}
	return nil, lastErr
}

func (r *retryEmbedder) ModelName() string {
	return r.next.ModelName()
}

func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
