package recipe

import (
	"sync"

	"servd-api/internal/pkg/common"

	"go.uber.org/zap"
)

// RecommendationCache 推薦結果快取。鍵為（使用者, 正規化食材集合），
// 條目存活至程序結束：沒有 TTL、不失效、不淘汰。同一鍵併發未命中時
// 兩邊都會生成、後寫者勝——保證的是「落定後每鍵至多一筆」，
// 不是「每鍵至多一次生成」。
type RecommendationCache struct {
	mu    sync.RWMutex
	store map[string]common.RecommendationResult
	stats cacheStats
}

// cacheStats 快取統計
type cacheStats struct {
	hits   int64
	misses int64
}

// NewRecommendationCache 創建推薦快取
func NewRecommendationCache() *RecommendationCache {
	c := &RecommendationCache{
		store: make(map[string]common.RecommendationResult),
	}

	common.LogInfo("推薦快取已初始化")
	return c
}

// Get 取得快取的推薦結果
func (c *RecommendationCache) Get(key string) (common.RecommendationResult, bool) {
	c.mu.Lock()
	entry, exists := c.store[key]
	if exists {
		c.stats.hits++
	} else {
		c.stats.misses++
	}
	c.mu.Unlock()

	if exists {
		common.LogCacheHit("recommendation", key)
		return entry, true
	}

	common.LogCacheMiss("recommendation", key)
	return common.RecommendationResult{}, false
}

// Set 寫入推薦結果（永久，後寫者勝）
func (c *RecommendationCache) Set(key string, result common.RecommendationResult) {
	c.mu.Lock()
	c.store[key] = result
	size := len(c.store)
	c.mu.Unlock()

	common.LogInfo("快取已儲存",
		zap.String("鍵", key),
		zap.Int("目前容量", size),
	)
}

// Len 目前條目數
func (c *RecommendationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Stats 快取統計信息
func (c *RecommendationCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"size":   len(c.store),
		"hits":   c.stats.hits,
		"misses": c.stats.misses,
	}
}
