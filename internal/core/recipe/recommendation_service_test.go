package recipe

import (
	"context"
	"errors"
	"testing"

	"servd-api/internal/core/gate"
	"servd-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suggestionsJSON = `[
  {"title":"Pancakes","description":"Fluffy.","matchPercentage":85,"missingIngredients":["syrup"],"category":"breakfast","cuisine":"american","prepTime":10,"cookTime":15,"servings":4},
  {"title":"Omelette","description":"Quick.","matchPercentage":95,"missingIngredients":[],"category":"breakfast","cuisine":"french","prepTime":5,"cookTime":5,"servings":1},
  {"title":"Crepes","description":"Thin.","matchPercentage":90,"missingIngredients":["butter"],"category":"dessert","cuisine":"french","prepTime":10,"cookTime":20,"servings":4},
  {"title":"Custard","description":"Sweet.","matchPercentage":75,"missingIngredients":["sugar","vanilla"],"category":"dessert","cuisine":"british","prepTime":10,"cookTime":30,"servings":6},
  {"title":"French Toast","description":"Golden.","matchPercentage":80,"missingIngredients":["bread"],"category":"breakfast","cuisine":"american","prepTime":5,"cookTime":10,"servings":2}
]`

func freeUser() *common.User {
	return &common.User{ID: "user-1", Tier: common.TierFree}
}

func proUser() *common.User {
	return &common.User{ID: "user-1", Tier: common.TierPro}
}

func pantry(names ...string) []common.PantryItem {
	items := make([]common.PantryItem, 0, len(names))
	for i, name := range names {
		items = append(items, common.PantryItem{ID: i + 1, Name: name})
	}
	return items
}

func newRecommendationService(oracle *fakeOracle, g *fakeGate, store *fakeStore) (*RecommendationService, *RecommendationCache) {
	cache := NewRecommendationCache()
	return NewRecommendationService(oracle, g, store, cache, 5), cache
}

func TestGetRecommendations_Unauthenticated(t *testing.T) {
	svc, _ := newRecommendationService(&fakeOracle{}, allowAll(), newFakeStore())

	_, err := svc.GetRecommendations(context.Background(), nil)
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeUnauthenticated, ce.Code)
}

func TestGetRecommendations_QuotaExceededMessages(t *testing.T) {
	denied := &fakeGate{decision: gate.Decision{Allowed: false, Reason: gate.ReasonRateLimit}}
	svc, _ := newRecommendationService(&fakeOracle{}, denied, newFakeStore())

	_, err := svc.GetRecommendations(context.Background(), freeUser())
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeQuotaExceeded, ce.Code)
	assert.Contains(t, ce.Message, "Upgrade to Pro")

	_, err = svc.GetRecommendations(context.Background(), proUser())
	require.Error(t, err)
	ce, ok = common.AsCustomError(err)
	require.True(t, ok)
	assert.Contains(t, ce.Message, "contact support")
}

func TestGetRecommendations_OtherDenialReason(t *testing.T) {
	denied := &fakeGate{decision: gate.Decision{Allowed: false, Reason: gate.ReasonOther}}
	svc, _ := newRecommendationService(&fakeOracle{}, denied, newFakeStore())

	_, err := svc.GetRecommendations(context.Background(), freeUser())
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeRequestDenied, ce.Code)
}

func TestGetRecommendations_PantryFetchFailure(t *testing.T) {
	store := newFakeStore()
	store.pantryErr = errors.New("connection refused")
	svc, _ := newRecommendationService(&fakeOracle{}, allowAll(), store)

	_, err := svc.GetRecommendations(context.Background(), freeUser())
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeUpstreamUnavailable, ce.Code)
}

// TestGetRecommendations_EmptyPantry 空儲藏室是非錯誤結果，使用者可自行修正
func TestGetRecommendations_EmptyPantry(t *testing.T) {
	oracle := &fakeOracle{}
	svc, _ := newRecommendationService(oracle, allowAll(), newFakeStore())

	result, err := svc.GetRecommendations(context.Background(), freeUser())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "pantry is empty")
	assert.Zero(t, oracle.calls, "oracle must not be invoked for an empty pantry")
}

func TestGetRecommendations_GeneratesAndCaches(t *testing.T) {
	oracle := &fakeOracle{response: "```json\n" + suggestionsJSON + "\n```"}
	store := newFakeStore()
	store.pantry = pantry("egg", "flour", "milk")
	svc, cache := newRecommendationService(oracle, allowAll(), store)

	result, err := svc.GetRecommendations(context.Background(), freeUser())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "egg, flour, milk", result.IngredientsUsed)
	assert.Equal(t, 5, result.RecommendationsLimit)
	assert.Equal(t, "Found 5 recipes you can make!", result.Message)
	require.Len(t, result.Recipes, 5)

	// 依 matchPercentage 由高到低
	for i := 1; i < len(result.Recipes); i++ {
		assert.GreaterOrEqual(t, result.Recipes[i-1].MatchPercentage, result.Recipes[i].MatchPercentage)
	}
	// 值域 70-100
	for _, suggestion := range result.Recipes {
		assert.GreaterOrEqual(t, suggestion.MatchPercentage, 70)
		assert.LessOrEqual(t, suggestion.MatchPercentage, 100)
	}

	_, ok := cache.Get("user-1:egg|flour|milk")
	assert.True(t, ok, "result must be cached under the user-scoped key")
}

// TestGetRecommendations_CacheHitSkipsOracle 同樣食材的第二次呼叫回傳
// 快取內容，不再呼叫預言機
func TestGetRecommendations_CacheHitSkipsOracle(t *testing.T) {
	oracle := &fakeOracle{response: suggestionsJSON}
	store := newFakeStore()
	store.pantry = pantry("egg", "flour", "milk")
	svc, _ := newRecommendationService(oracle, allowAll(), store)

	first, err := svc.GetRecommendations(context.Background(), freeUser())
	require.NoError(t, err)

	// 順序打亂也命中同一鍵
	store.pantry = pantry("MILK ", "flour", " Egg")

	second, err := svc.GetRecommendations(context.Background(), freeUser())
	require.NoError(t, err)
	assert.Equal(t, 1, oracle.calls, "second call must not invoke the oracle")
	assert.Equal(t, first.Recipes, second.Recipes)
}

// TestGetRecommendations_TierLabelRecomputedOnHit 快取命中時額度標籤
// 反映當次呼叫的方案，升級立即生效
func TestGetRecommendations_TierLabelRecomputedOnHit(t *testing.T) {
	oracle := &fakeOracle{response: suggestionsJSON}
	store := newFakeStore()
	store.pantry = pantry("egg", "flour", "milk")
	svc, _ := newRecommendationService(oracle, allowAll(), store)

	first, err := svc.GetRecommendations(context.Background(), freeUser())
	require.NoError(t, err)
	assert.Equal(t, 5, first.RecommendationsLimit)

	second, err := svc.GetRecommendations(context.Background(), proUser())
	require.NoError(t, err)
	assert.Equal(t, "unlimited", second.RecommendationsLimit)
	assert.Equal(t, 1, oracle.calls)
}

// TestGetRecommendations_ParseFailureNotCached 解析失敗回報可重試錯誤，
// 不寫入快取
func TestGetRecommendations_ParseFailureNotCached(t *testing.T) {
	oracle := &fakeOracle{response: "Sorry, I can't help with that."}
	store := newFakeStore()
	store.pantry = pantry("egg")
	svc, cache := newRecommendationService(oracle, allowAll(), store)

	_, err := svc.GetRecommendations(context.Background(), freeUser())
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeGenerationParse, ce.Code)
	assert.Zero(t, cache.Len(), "failed parse must not be cached")

	// 修好後的下一次呼叫會重新生成
	oracle.response = suggestionsJSON
	result, err := svc.GetRecommendations(context.Background(), freeUser())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, oracle.calls)
}
