package cache

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eburns009/ephemeris-service/internal/compute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemoteCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeRemoteCache() *fakeRemoteCache {
	return &fakeRemoteCache{store: make(map[string][]byte)}
}

func (f *fakeRemoteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.store[key]
	return v, ok, nil
}

func (f *fakeRemoteCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[key] = value
	return nil
}

func testResult() compute.Result {
	lon := 42.0
	return compute.Result{Bodies: []compute.BodyResult{{Name: compute.Sun, LonDeg: &lon}}}
}

func TestFetchCallsOriginOnceOnMiss(t *testing.T) {
	c := New(Config{L1Size: 10, L1TTL: time.Minute, L2TTL: time.Minute}, nil)
	var calls int32

	fn := func(ctx context.Context) (compute.Result, error) {
		atomic.AddInt32(&calls, 1)
		return testResult(), nil
	}

	res, err := c.Fetch(context.Background(), "k1", fn)
	require.NoError(t, err)
	assert.Equal(t, testResult(), res)

	res2, err := c.Fetch(context.Background(), "k1", fn)
	require.NoError(t, err)
	assert.Equal(t, testResult(), res2)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := New(Config{L1Size: 10, L1TTL: time.Minute}, nil)
	var calls int32
	boom := assert.AnError

	fn := func(ctx context.Context) (compute.Result, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return compute.Result{}, boom
		}
		return testResult(), nil
	}

	_, err := c.Fetch(context.Background(), "k2", fn)
	require.Error(t, err)

	res, err := c.Fetch(context.Background(), "k2", fn)
	require.NoError(t, err)
	assert.Equal(t, testResult(), res)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestFetchPopulatesL2AndReadsItBackAfterL1Eviction(t *testing.T) {
	remote := newFakeRemoteCache()
	c := New(Config{L1Size: 1, L1TTL: time.Minute, L2TTL: time.Minute}, remote)

	_, err := c.Fetch(context.Background(), "a", func(ctx context.Context) (compute.Result, error) {
		return testResult(), nil
	})
	require.NoError(t, err)

	// Evict "a" from L1 by filling past capacity 1.
	_, err = c.Fetch(context.Background(), "b", func(ctx context.Context) (compute.Result, error) {
		return testResult(), nil
	})
	require.NoError(t, err)

	raw, ok, err := remote.Get(context.Background(), "a")
	require.NoError(t, err)
	require.True(t, ok)
	var stored compute.Result
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, testResult(), stored)

	res, err := c.Fetch(context.Background(), "a", func(ctx context.Context) (compute.Result, error) {
		t.Fatal("origin should not be called; L2 has the value")
		return compute.Result{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, testResult(), res)
}

func TestFetchCoalescesConcurrentCallers(t *testing.T) {
	c := New(Config{L1Size: 10, L1TTL: time.Minute}, nil)
	var calls int32
	start := make(chan struct{})
	var wg sync.WaitGroup

	fn := func(ctx context.Context) (compute.Result, error) {
		<-start
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return testResult(), nil
	}

	const n = 20
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := c.Fetch(context.Background(), "shared", fn)
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}
