package recipe

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"servd-api/internal/core/gate"
	"servd-api/internal/pkg/common"

	"go.uber.org/zap"
)

// suggestionCount 每次推薦的食譜數量
const suggestionCount = 5

// RecommendationService 食品儲藏室推薦流程：閘道 → 儲藏室讀取 →
// 正規化 → 快取 → 生成 → 快取寫入。
type RecommendationService struct {
	oracle    Oracle
	gate      EntitlementGate
	store     Store
	cache     *RecommendationCache
	freeLimit int
}

// NewRecommendationService 創建推薦服務
func NewRecommendationService(oracle Oracle, entitlementGate EntitlementGate, store Store, cache *RecommendationCache, freeLimit int) *RecommendationService {
	return &RecommendationService{
		oracle:    oracle,
		gate:      entitlementGate,
		store:     store,
		cache:     cache,
		freeLimit: freeLimit,
	}
}

// recommendationsLimit 回應中的額度標籤。不進快取，每次呼叫以當下方案
// 重新計算，升級後即使命中快取也立即生效。
func (s *RecommendationService) recommendationsLimit(user *common.User) interface{} {
	if user.IsPro() {
		return "unlimited"
	}
	return s.freeLimit
}

// GetRecommendations 依使用者儲藏室內容推薦食譜
func (s *RecommendationService) GetRecommendations(ctx context.Context, user *common.User) (*common.RecommendationResult, error) {
	if user == nil {
		return nil, common.ErrUnauthenticated
	}

	// 配額閘道檢查
	decision := s.gate.Check(ctx, user.ID, 1, user.Tier)
	if !decision.Allowed {
		if decision.Reason == gate.ReasonRateLimit {
			err := common.NewQuotaExceededError(user.Tier)
			common.LogWarn("推薦請求超出配額",
				zap.String("user_id", user.ID),
				zap.String("tier", string(user.Tier)),
			)
			return nil, err
		}
		common.LogWarn("推薦請求被拒絕",
			zap.String("user_id", user.ID),
			zap.String("reason", string(decision.Reason)),
		)
		return nil, common.ErrRequestDenied
	}

	// 讀取儲藏室
	items, err := s.store.FetchPantryItems(ctx, user.ID)
	if err != nil {
		common.LogError("儲藏室讀取失敗", zap.Error(err), zap.String("user_id", user.ID))
		return nil, common.NewUpstreamError("Failed to fetch pantry items", err)
	}

	// 空儲藏室是使用者可自行修正的狀態，不是錯誤
	if len(items) == 0 {
		return &common.RecommendationResult{
			Success: false,
			Message: "Your pantry is empty. Add ingredients first!",
		}, nil
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}

	ingredients, fragment := NormalizeIngredients(names)
	key := RecommendationKey(user.ID, fragment)

	common.LogInfo("為食材尋找食譜",
		zap.String("user_id", user.ID),
		zap.String("ingredients", ingredients),
	)

	// 快取命中：食材摘要與額度標籤以當次請求重新計算
	if cached, ok := s.cache.Get(key); ok {
		result := cached
		result.IngredientsUsed = ingredients
		result.RecommendationsLimit = s.recommendationsLimit(user)
		return &result, nil
	}

	// 未命中：請預言機生成
	raw, err := s.oracle.Complete(ctx, buildSuggestionPrompt(ingredients))
	if err != nil {
		return nil, common.NewUpstreamError("Failed to generate recipe suggestions", err)
	}

	var suggestions []common.RecipeSuggestion
	if err := common.ParseJSON(common.ExtractJSONArray(raw), &suggestions); err != nil {
		common.LogError("AI 推薦回應解析失敗",
			zap.Error(err),
			zap.Int("ai_response_length", len(raw)),
		)
		return nil, common.NewError(common.ErrCodeGenerationParse,
			"Failed to generate recipe suggestions. Please try again.", http.StatusBadGateway, err)
	}

	// 回應必須依 matchPercentage 由高到低；模型的排序只當作盡力而為
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MatchPercentage > suggestions[j].MatchPercentage
	})

	result := common.RecommendationResult{
		Success:              true,
		Recipes:              suggestions,
		IngredientsUsed:      ingredients,
		RecommendationsLimit: s.recommendationsLimit(user),
		Message:              fmt.Sprintf("Found %d recipes you can make!", len(suggestions)),
	}

	// 永久寫入快取（解析失敗的回應永遠不進快取）
	s.cache.Set(key, result)

	return &result, nil
}

// buildSuggestionPrompt 組裝推薦提示詞：固定 5 道、matchPercentage 70-100、
// 由高到低排序的 JSON 陣列
func buildSuggestionPrompt(ingredients string) string {
	return fmt.Sprintf(`You are a professional chef. Given these available ingredients: %s

Suggest %d recipes that can be made primarily with these ingredients. It's okay if the recipes need 1-2 common pantry staples (salt, pepper, oil, etc.) that aren't listed.

Return ONLY a valid JSON array (no markdown, no explanations):
[
  {
    "title": "Recipe name",
    "description": "Brief 1-2 sentence description",
    "matchPercentage": 85,
    "missingIngredients": ["ingredient1", "ingredient2"],
    "category": "breakfast|lunch|dinner|snack|dessert",
    "cuisine": "italian|chinese|mexican|etc",
    "prepTime": 20,
    "cookTime": 30,
    "servings": 4
  }
]

Rules:
- matchPercentage should be 70-100%% (how many listed ingredients are used)
- missingIngredients should be common items or optional additions
- Sort by matchPercentage descending
- Make recipes realistic and delicious`, ingredients, suggestionCount)
}
