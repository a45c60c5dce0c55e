package assetcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softpunk/emberfell/internal/testutil"
)

// countingAsset records how many times it was released
type countingAsset struct {
	releases int32
}

func (a *countingAsset) Release() {
	atomic.AddInt32(&a.releases, 1)
}

func TestRequestLoadsOnce(t *testing.T) {
	cache := New(testutil.NopLogger())
	asset := &countingAsset{}
	var calls int32

	got, err := cache.Request(context.Background(), "maleCharacter", func(ctx context.Context) (Asset, error) {
		atomic.AddInt32(&calls, 1)
		return asset, nil
	})
	require.NoError(t, err)
	assert.Same(t, asset, got)

	// Second request returns the cached payload without reloading
	got, err = cache.Request(context.Background(), "maleCharacter", func(ctx context.Context) (Asset, error) {
		atomic.AddInt32(&calls, 1)
		return &countingAsset{}, nil
	})
	require.NoError(t, err)
	assert.Same(t, asset, got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestConcurrentRequestsShareOneLoad(t *testing.T) {
	cache := New(testutil.NopLogger())
	asset := &countingAsset{}
	var calls int32
	gate := make(chan struct{})

	loader := func(ctx context.Context) (Asset, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return asset, nil
	}

	const waiters = 8
	results := make([]Asset, waiters)
	errs := make([]error, waiters)

	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], errs[n] = cache.Request(context.Background(), "maleCharacter", loader)
		}(i)
	}

	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "loader must be invoked exactly once")
	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, asset, results[i], "every waiter must receive the identical payload")
	}
}

func TestFailurePropagatesToAllWaitersAndIsRetryable(t *testing.T) {
	cache := New(testutil.NopLogger())
	loadErr := errors.New("fetch failed")
	gate := make(chan struct{})

	failing := func(ctx context.Context) (Asset, error) {
		<-gate
		return nil, loadErr
	}

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = cache.Request(context.Background(), "femaleCharacter", failing)
		}(i)
	}
	close(gate)
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, loadErr)
	}

	// The failure does not poison the key: a later request retries
	asset := &countingAsset{}
	got, err := cache.Request(context.Background(), "femaleCharacter", func(ctx context.Context) (Asset, error) {
		return asset, nil
	})
	require.NoError(t, err)
	assert.Same(t, asset, got)
}

func TestFailureDoesNotPoisonOtherKeys(t *testing.T) {
	cache := New(testutil.NopLogger())

	_, err := cache.Request(context.Background(), "broken", func(ctx context.Context) (Asset, error) {
		return nil, errors.New("nope")
	})
	require.Error(t, err)

	asset := &countingAsset{}
	got, err := cache.Request(context.Background(), "fine", func(ctx context.Context) (Asset, error) {
		return asset, nil
	})
	require.NoError(t, err)
	assert.Same(t, asset, got)
}

func TestGetDoesNotTriggerLoad(t *testing.T) {
	cache := New(testutil.NopLogger())

	_, ok := cache.Get("maleCharacter")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())

	asset := &countingAsset{}
	_, err := cache.Request(context.Background(), "maleCharacter", func(ctx context.Context) (Asset, error) {
		return asset, nil
	})
	require.NoError(t, err)

	got, ok := cache.Get("maleCharacter")
	assert.True(t, ok)
	assert.Same(t, asset, got)
}

func TestReleaseDisposesAndRemoves(t *testing.T) {
	cache := New(testutil.NopLogger())
	asset := &countingAsset{}
	_, err := cache.Request(context.Background(), "maleCharacter", func(ctx context.Context) (Asset, error) {
		return asset, nil
	})
	require.NoError(t, err)

	cache.Release("maleCharacter")
	assert.Equal(t, int32(1), atomic.LoadInt32(&asset.releases))

	_, ok := cache.Get("maleCharacter")
	assert.False(t, ok)

	// Releasing an absent key is a no-op
	cache.Release("maleCharacter")
	assert.Equal(t, int32(1), atomic.LoadInt32(&asset.releases))
}

func TestReleaseAllDisposesEachExactlyOnce(t *testing.T) {
	cache := New(testutil.NopLogger())
	assets := []*countingAsset{{}, {}, {}}
	keys := []string{"a", "b", "c"}

	for i, key := range keys {
		asset := assets[i]
		_, err := cache.Request(context.Background(), key, func(ctx context.Context) (Asset, error) {
			return asset, nil
		})
		require.NoError(t, err)
	}

	cache.ReleaseAll()
	assert.Equal(t, 0, cache.Len())
	for _, asset := range assets {
		assert.Equal(t, int32(1), atomic.LoadInt32(&asset.releases))
	}

	cache.ReleaseAll()
	for _, asset := range assets {
		assert.Equal(t, int32(1), atomic.LoadInt32(&asset.releases))
	}
}

func TestRequestWaitCancellation(t *testing.T) {
	cache := New(testutil.NopLogger())
	gate := make(chan struct{})
	defer close(gate)
	started := make(chan struct{})

	go func() {
		_, _ = cache.Request(context.Background(), "slow", func(ctx context.Context) (Asset, error) {
			close(started)
			<-gate
			return &countingAsset{}, nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.Request(ctx, "slow", func(ctx context.Context) (Asset, error) {
		t.Error("second loader must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModelAssetRelease(t *testing.T) {
	a := &ModelAsset{Path: "models/male.glb", Data: []byte{0x67, 0x6c, 0x54, 0x46}}
	a.Release()
	assert.Nil(t, a.Data)
}

func TestCatalogPaths(t *testing.T) {
	catalog := NewCatalog()

	path, err := catalog.Path(KeyMaleCharacter)
	require.NoError(t, err)
	assert.Equal(t, "models/male.glb", path)

	_, err = catalog.Path("unknownKey")
	assert.Error(t, err)
}
