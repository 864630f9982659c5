package checkout

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_StartsAt1001(t *testing.T) {
	a := NewAllocator(&memCounter{})

	first, err := a.Next(context.Background())
	require.NoError(t, err)
	second, err := a.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "IG-1001", first)
	assert.Equal(t, "IG-1002", second)
}

func TestAllocator_ContinuesExistingCounter(t *testing.T) {
	a := NewAllocator(&memCounter{values: map[string]int64{"orders": 1500}})

	n, err := a.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "IG-1501", n)
}

func TestAllocator_ConcurrentCallsAreDistinct(t *testing.T) {
	const n = 200
	a := NewAllocator(&memCounter{})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := a.Next(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			v, err := strconv.Atoi(strings.TrimPrefix(s, "IG-"))
			assert.NoError(t, err)
			mu.Lock()
			numbers = append(numbers, v)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, numbers, n)
	sort.Ints(numbers)
	for i, v := range numbers {
		assert.Equal(t, 1001+i, v, "numbers must be contiguous with no duplicates")
	}
}

func TestAllocator_StoreErrorIsReturned(t *testing.T) {
	boom := errors.New("store down")
	a := NewAllocator(&memCounter{err: boom})

	_, err := a.Next(context.Background())
	assert.ErrorIs(t, err, boom)
}
