package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCron_InvalidSpec(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler(time.UTC)
	err := s.AddCron("not a cron spec", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add cron job")
}

func TestAddInterval_Validation(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler(time.UTC)
	require.Error(t, s.AddInterval(0, func() {}))
	require.Error(t, s.AddInterval(-5, func() {}))
	require.NoError(t, s.AddInterval(30, func() {}))
}

func TestSchedulerRunsJobs(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler(time.UTC)

	var (
		mu    sync.Mutex
		fired bool
	)
	require.NoError(t, s.AddCron("@every 10ms", func() {
		mu.Lock()
		fired = true
		mu.Unlock()
	}))

	s.Start()
	defer func() { _ = s.Stop(context.Background()) }()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired
	}, time.Second, 10*time.Millisecond)
}

func TestStop_WaitsForCompletion(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler(time.UTC)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
