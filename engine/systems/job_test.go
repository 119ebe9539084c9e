package systems

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/voxgrid/engine/renderer/metadata"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemErrors(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	require.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	require.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsEveryJob(t *testing.T) {
	js, err := NewJobSystem(3, 2)
	require.NoError(t, err)

	var sum atomic.Int64
	var failed atomic.Int32
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		js.Submit(metadata.JobTask{
			InputParams: i,
			OnStart: func(params interface{}, results chan interface{}) error {
				n := params.(int)
				if n%5 == 0 {
					return errors.New("multiple of five")
				}
				results <- n
				return nil
			},
			OnComplete: func(results chan interface{}) {
				sum.Add(int64((<-results).(int)))
			},
			OnFailure: func(err error) {
				failed.Add(1)
			},
			OnCompletionCallback: wg.Done,
		})
	}
	wg.Wait()
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	require.Equal(t, int64(210-50), sum.Load())
	require.Equal(t, int32(4), failed.Load())
}

func TestJobSystemSubmitContext(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, js.SubmitContext(context.Background(), metadata.JobTask{
		OnStart: func(interface{}, chan interface{}) error {
			close(started)
			<-release
			return nil
		},
	}))
	<-started

	// The only worker is busy and the queue is unbuffered.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = js.SubmitContext(ctx, metadata.JobTask{
		OnStart: func(interface{}, chan interface{}) error { return nil },
	})
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, js.Shutdown())
}
