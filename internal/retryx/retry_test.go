package retryx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

func rateLimitedOnly(err error) bool {
	return errors.Is(err, common.ErrRateLimited)
}

func TestPolicy_StopsAfterMaxAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Retryable: rateLimitedOnly}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return common.ErrRateLimited
	})

	assert.ErrorIs(t, err, common.ErrRateLimited)
	assert.Equal(t, 3, calls)
}

func TestPolicy_NonRetryableSurfacesImmediately(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Retryable: rateLimitedOnly}

	calls := 0
	boom := errors.New("boom")
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestPolicy_SucceedsMidway(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Retryable: rateLimitedOnly}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return common.ErrRateLimited
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPolicy_BackoffDoubles(t *testing.T) {
	base := 20 * time.Millisecond
	p := Policy{MaxAttempts: 3, BaseDelay: base, Retryable: rateLimitedOnly}

	start := time.Now()
	_ = p.Do(context.Background(), func(ctx context.Context) error {
		return common.ErrRateLimited
	})

	// waits are base + 2*base before attempts 2 and 3
	assert.GreaterOrEqual(t, time.Since(start), 3*base)
}

func TestPolicy_ContextCancelInterruptsWait(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Minute, Retryable: rateLimitedOnly}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	err := p.Do(ctx, func(ctx context.Context) error {
		calls++
		return common.ErrRateLimited
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second)
}
