package props_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/props-sh/props/pkg/props"
)

func TestSubscriberProxy_MonotonicLastWriterWins(t *testing.T) {
	p := props.NewSubscriberProxy[int](1000, nil) // synchronous dispatch

	var mu sync.Mutex
	var seen []int
	p.Subscribe(func(v int) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	}, func(error) {})

	for i := 1; i <= 5; i++ {
		p.SendUpdate(i)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 5)
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
}

func TestSubscriberProxy_IsolatesPanickingHandler(t *testing.T) {
	p := props.NewSubscriberProxy[int](1000, nil)

	var otherCalled bool
	var gotErr error
	p.Subscribe(func(int) { panic("boom") }, func(err error) { gotErr = err })
	p.Subscribe(func(int) { otherCalled = true }, func(error) {})

	assert.NotPanics(t, func() { p.SendUpdate(1) })
	assert.True(t, otherCalled)
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "boom")
}

func TestSubscriberProxy_HandleErrorSameStalenessProtocol(t *testing.T) {
	p := props.NewSubscriberProxy[string](1000, nil)

	var last error
	p.Subscribe(func(string) {}, func(err error) { last = err })

	p.HandleError(fmt.Errorf("first"))
	assert.EqualError(t, last, "first")
	p.HandleError(fmt.Errorf("second"))
	assert.EqualError(t, last, "second")
}

func TestSubscriberProxy_OffloadsAbovethreshold(t *testing.T) {
	p := props.NewSubscriberProxy[int](0, nil) // every dispatch offloaded

	done := make(chan struct{})
	p.Subscribe(func(int) { close(done) }, func(error) {})
	p.SendUpdate(1)

	select {
	case <-done:
	case <-timeoutChan():
		t.Fatal("offloaded handler was never invoked")
	}
}
