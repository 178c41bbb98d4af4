package internal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleInvalidSpec(t *testing.T) {
	log, _ := testLogger()
	err := Schedule(context.Background(), "not a schedule", log, func(ctx context.Context) error {
		return nil
	})
	assert.Error(t, err)
}

func TestScheduleRunsJob(t *testing.T) {
	log, buf := testLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- Schedule(ctx, "@every 1s", log, func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		})
	}()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Contains(t, buf.String(), "Scheduler started")
}
