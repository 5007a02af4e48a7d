package recipe

import (
	"fmt"
	"sync"
	"testing"

	"servd-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationCache_MissThenHit(t *testing.T) {
	cache := NewRecommendationCache()

	_, ok := cache.Get("u1:egg|flour")
	assert.False(t, ok)

	cache.Set("u1:egg|flour", common.RecommendationResult{Success: true, Message: "cached"})

	entry, ok := cache.Get("u1:egg|flour")
	require.True(t, ok)
	assert.Equal(t, "cached", entry.Message)
}

func TestRecommendationCache_KeysAreIndependent(t *testing.T) {
	cache := NewRecommendationCache()
	cache.Set("u1:egg", common.RecommendationResult{Message: "for u1"})

	_, ok := cache.Get("u2:egg")
	assert.False(t, ok, "different user must not share entries")
}

// TestRecommendationCache_LastWriteWins 同一鍵重複寫入採後寫者勝
func TestRecommendationCache_LastWriteWins(t *testing.T) {
	cache := NewRecommendationCache()
	cache.Set("k", common.RecommendationResult{Message: "first"})
	cache.Set("k", common.RecommendationResult{Message: "second"})

	entry, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, "second", entry.Message)
	assert.Equal(t, 1, cache.Len())
}

// TestRecommendationCache_NoEviction 條目只增不減，沒有淘汰
func TestRecommendationCache_NoEviction(t *testing.T) {
	cache := NewRecommendationCache()
	for i := 0; i < 500; i++ {
		cache.Set(fmt.Sprintf("u:%d", i), common.RecommendationResult{})
	}
	assert.Equal(t, 500, cache.Len())

	_, ok := cache.Get("u:0")
	assert.True(t, ok, "oldest entry must still be present")
}

func TestRecommendationCache_ConcurrentAccess(t *testing.T) {
	cache := NewRecommendationCache()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("u:%d", n%10)
			cache.Set(key, common.RecommendationResult{Success: true})
			cache.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, cache.Len())

	stats := cache.Stats()
	assert.EqualValues(t, 10, stats["size"])
}
