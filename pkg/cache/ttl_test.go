package cache_test

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/pkg/cache"
	"github.com/jhoicas/farmacia-api/pkg/clock"
)

func TestTTL_GetOrCompute_HitDentroDelTTL(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC))
	c := cache.NewTTL[string, []int](5*time.Minute, clk, cloneInts)

	calls := 0
	compute := func() ([]int, error) {
		calls++
		return []int{calls}, nil
	}

	v1, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)
	clk.Advance(4 * time.Minute)
	v2, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, v1)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls, "la segunda llamada debe servirse desde la caché")
}

func TestTTL_GetOrCompute_RecalculaTrasVencer(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC))
	c := cache.NewTTL[string, int](5*time.Minute, clk, nil)

	n := 0
	compute := func() (int, error) { n++; return n, nil }

	_, _ = c.GetOrCompute("k", compute)
	clk.Advance(5*time.Minute + time.Second)
	v, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len(), "la entrada vencida se sobrescribe")
}

func TestTTL_CopiaDefensiva(t *testing.T) {
	c := cache.NewTTL[int, []string](time.Minute, nil, func(v []string) []string { return slices.Clone(v) })
	c.Set(1, []string{"a", "b"})

	got, ok := c.Get(1)
	require.True(t, ok)
	got[0] = "mutado"

	again, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, again)
}

func TestTTL_ErroresNoSeGuardan(t *testing.T) {
	c := cache.NewTTL[string, int](time.Minute, nil, nil)
	boom := errors.New("boom")

	_, err := c.GetOrCompute("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTL_Concurrente(t *testing.T) {
	c := cache.NewTTL[int, []int](time.Minute, nil, cloneInts)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := i % 5
			v, err := c.GetOrCompute(key, func() ([]int, error) { return []int{key, key}, nil })
			assert.NoError(t, err)
			assert.Equal(t, []int{key, key}, v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, c.Len())
}

func cloneInts(v []int) []int { return slices.Clone(v) }
