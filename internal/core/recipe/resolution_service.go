package recipe

import (
	"context"
	"fmt"
	"strings"

	"servd-api/internal/pkg/common"

	"go.uber.org/zap"
)

// ResolutionService 取得或生成單一食譜的流程：存儲查詢 → 生成 →
// 圖片補充 → 持久化。
type ResolutionService struct {
	oracle Oracle
	store  Store
	image  ImageSearcher
}

// NewResolutionService 創建食譜解析服務
func NewResolutionService(oracle Oracle, store Store, image ImageSearcher) *ResolutionService {
	return &ResolutionService{
		oracle: oracle,
		store:  store,
		image:  image,
	}
}

// GetOrGenerateRecipe 以名稱取得食譜，庫裡沒有就生成並保存
func (s *ResolutionService) GetOrGenerateRecipe(ctx context.Context, user *common.User, rawName string) (*common.RecipeResult, error) {
	if user == nil {
		return nil, common.ErrUnauthenticated
	}
	if strings.TrimSpace(rawName) == "" {
		return nil, common.NewInvalidInputError("Recipe name")
	}

	normalizedTitle := NormalizeTitle(rawName)

	// 存儲查詢採寬容讀取：通訊失敗視同未找到，直接走生成。
	// 可用性優先於一致性，代價是可能重複生成同名食譜。
	existing, err := s.store.FindRecipeByTitle(ctx, normalizedTitle)
	if err != nil {
		common.LogWarn("食譜查詢失敗，視同未找到",
			zap.Error(err),
			zap.String("title", normalizedTitle),
		)
		existing = nil
	}

	if existing != nil {
		common.LogInfo("食譜已存在於資料庫",
			zap.Int("recipe_id", existing.ID),
			zap.String("title", existing.Title),
		)

		// 收藏狀態同樣寬容：查詢失敗視同未收藏
		isSaved := false
		if saved, err := s.store.FindSavedRecipe(ctx, user.ID, existing.ID); err == nil && saved != nil {
			isSaved = true
		}

		return &common.RecipeResult{
			Success:      true,
			Recipe:       existing,
			RecipeID:     existing.ID,
			IsSaved:      isSaved,
			FromDatabase: true,
			IsPro:        user.IsPro(),
			Message:      "Recipe loaded from database",
		}, nil
	}

	// 生成
	raw, err := s.oracle.Complete(ctx, buildRecipePrompt(normalizedTitle))
	if err != nil {
		return nil, common.NewUpstreamError("Failed to generate recipe", err)
	}

	var generated common.Recipe
	if err := common.ParseJSON(common.ExtractJSONObject(raw), &generated); err != nil {
		common.LogError("AI 食譜回應解析失敗",
			zap.Error(err),
			zap.Int("ai_response_length", len(raw)),
		)
		return nil, common.NewGenerationParseError(err)
	}

	// 模型回聲的標題只是盡力而為，身份以正規化標題為準
	generated.Title = normalizedTitle
	// 防禦模型大小寫漂移
	generated.Category = strings.ToLower(generated.Category)
	generated.Cuisine = strings.ToLower(generated.Cuisine)

	// 圖片補充是盡力而為，任何失敗都降級為無圖片
	generated.ImageURL = s.image.Search(ctx, normalizedTitle)
	generated.IsPublic = true
	generated.Author = user.ID

	// 已成功生成的食譜寫不進去是硬錯誤，沒有快取可以兜底
	recipeID, err := s.store.CreateRecipe(ctx, &generated)
	if err != nil {
		common.LogError("食譜保存失敗",
			zap.Error(err),
			zap.String("title", normalizedTitle),
		)
		return nil, common.NewPersistenceError(err)
	}

	common.LogInfo("食譜已生成並保存",
		zap.Int("recipe_id", recipeID),
		zap.String("title", normalizedTitle),
	)

	generated.ID = recipeID

	return &common.RecipeResult{
		Success:      true,
		Recipe:       &generated,
		RecipeID:     recipeID,
		IsSaved:      false,
		FromDatabase: false,
		IsPro:        user.IsPro(),
		Message:      "Recipe generated and saved successfully!",
	}, nil
}

// buildRecipePrompt 組裝食譜生成提示詞：標題逐字固定、分類與料理風格
// 為封閉列舉、營養欄位只允許數字或區間
func buildRecipePrompt(normalizedTitle string) string {
	return fmt.Sprintf(`You are a professional chef and recipe expert. Generate a detailed recipe for: "%[1]s"

CRITICAL: The "title" field MUST be EXACTLY: "%[1]s" (no changes, no additions like "Classic" or "Easy")

Return ONLY a valid JSON object with this exact structure (no markdown, no explanations):
{
  "title": "%[1]s",
  "description": "Brief 2-3 sentence description of the dish",
  "category": "Must be ONE of these EXACT values: %[2]s",
  "cuisine": "Must be ONE of these EXACT values: %[3]s",
  "prepTime": 20,
  "cookTime": 30,
  "servings": 4,
  "ingredients": [
    {
      "item": "ingredient name",
      "amount": "quantity with unit",
      "category": "Protein|Vegetable|Spice|Dairy|Grain|Other"
    }
  ],
  "instructions": [
    {
      "step": 1,
      "title": "Brief step title",
      "instruction": "Detailed step instruction",
      "tip": "Optional cooking tip for this step"
    }
  ],
  "nutrition": {
    "calories": "calories per serving (NUMBER ONLY or RANGE like 200-350, NO words)",
    "protein": "grams (NUMBER ONLY or RANGE, NO words)",
    "carbs": "grams (NUMBER ONLY or RANGE, NO words)",
    "fat": "grams (NUMBER ONLY or RANGE, NO words)"
  },
  "tips": [
    "General cooking tip 1",
    "General cooking tip 2",
    "General cooking tip 3"
  ],
  "substitutions": [
    {
      "original": "ingredient name",
      "alternatives": ["substitute 1", "substitute 2"]
    }
  ]
}

IMPORTANT RULES FOR CATEGORY:
- Breakfast items (pancakes, eggs, cereal, etc.) -> "breakfast"
- Main meals for midday (sandwiches, salads, pasta, etc.) -> "lunch"
- Main meals for evening (heavier dishes, roasts, etc.) -> "dinner"
- Light items between meals (chips, crackers, fruit, etc.) -> "snack"
- Sweet treats (cakes, cookies, ice cream, etc.) -> "dessert"

IMPORTANT RULES FOR CUISINE:
- Use lowercase only
- Pick the closest match from the allowed values
- If uncertain, use "other"

IMPORTANT RULES FOR NUTRITION:
- NEVER use words like "approximately", "about", "~", "around"
- ONLY numeric values allowed
- If unsure, return a numeric range (example: 200-350)
- Do NOT include units inside the value

Guidelines:
- Make ingredients realistic and commonly available
- Instructions should be clear and beginner-friendly
- Include 6-10 detailed steps
- Provide practical cooking tips
- Estimate realistic cooking times
- Keep total instructions under 12 steps`,
		normalizedTitle,
		strings.Join(common.AllowedCategories, ", "),
		strings.Join(common.AllowedCuisines, ", "))
}
