package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pentshop/pentshop/pkg/queue"
)

// ─── Job types ────────────────────────────────────────────────────────────────

var notifyCount atomic.Int32

type notifyJob struct {
	Reference string
}

func (j *notifyJob) Handle() error {
	notifyCount.Add(1)
	return nil
}

var failCount atomic.Int32

type failingJob struct {
	Reference string
}

func (j *failingJob) Handle() error {
	failCount.Add(1)
	return errors.New("smtp unreachable")
}

func init() {
	ctx := context.Background()
	queue.StartWorkers(ctx, 2)

	queue.Register("*queue_test.notifyJob", func() queue.Job { return &notifyJob{} })
	queue.Register("*queue_test.failingJob", func() queue.Job { return &failingJob{} })
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestDispatchAndProcess(t *testing.T) {
	before := notifyCount.Load()

	require.NoError(t, queue.Dispatch(&notifyJob{Reference: "PS-100"}))

	assert.Eventually(t, func() bool {
		return notifyCount.Load() > before
	}, 2*time.Second, 20*time.Millisecond)
}

func TestFailedJobDeadLetters(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	require.NoError(t, queue.Dispatch(&failingJob{Reference: "PS-101"}))

	assert.Eventually(t, func() bool {
		for _, f := range queue.FailedJobs() {
			if f.Err != nil && f.Err.Error() == "smtp unreachable" {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)
	assert.GreaterOrEqual(t, failCount.Load(), int32(1))
}

func TestDispatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			queue.Dispatch(&notifyJob{Reference: "PS-200"}) //nolint:errcheck
		}()
	}
	wg.Wait()
}
