package recipe

import (
	"context"

	"servd-api/internal/pkg/common"

	"go.uber.org/zap"
)

// CollectionService 使用者收藏操作：冪等保存、寬容移除、列表
type CollectionService struct {
	store Store
}

// NewCollectionService 創建收藏服務
func NewCollectionService(store Store) *CollectionService {
	return &CollectionService{store: store}
}

// SaveResult 保存操作結果
type SaveResult struct {
	Success      bool   `json:"success"`
	AlreadySaved bool   `json:"alreadySaved"`
	Message      string `json:"message"`
}

// RemoveResult 移除操作結果
type RemoveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListResult 收藏列表結果
type ListResult struct {
	Success bool            `json:"success"`
	Recipes []common.Recipe `json:"recipes"`
	Count   int             `json:"count"`
}

// Save 收藏食譜。已收藏時直接回報，不重複寫入。
// 先查後寫之間沒有交易包覆，併發下可能重複——可接受的競態。
func (s *CollectionService) Save(ctx context.Context, user *common.User, recipeID int) (*SaveResult, error) {
	if user == nil {
		return nil, common.ErrUnauthenticated
	}
	if recipeID <= 0 {
		return nil, common.NewInvalidInputError("Recipe ID")
	}

	existing, err := s.store.FindSavedRecipe(ctx, user.ID, recipeID)
	if err != nil {
		common.LogError("收藏查詢失敗", zap.Error(err), zap.String("user_id", user.ID))
		return nil, common.NewUpstreamError("Failed to check saved recipes", err)
	}
	if existing != nil {
		return &SaveResult{
			Success:      true,
			AlreadySaved: true,
			Message:      "Recipe is already in your collection",
		}, nil
	}

	if err := s.store.CreateSavedRecipe(ctx, user.ID, recipeID); err != nil {
		common.LogError("收藏保存失敗", zap.Error(err), zap.Int("recipe_id", recipeID))
		return nil, common.NewPersistenceError(err)
	}

	common.LogInfo("食譜已加入收藏",
		zap.String("user_id", user.ID),
		zap.Int("recipe_id", recipeID),
	)

	return &SaveResult{
		Success: true,
		Message: "Recipe saved to your collection!",
	}, nil
}

// Remove 取消收藏。本來就沒收藏時回報成功並附帶說明，不算錯誤。
func (s *CollectionService) Remove(ctx context.Context, user *common.User, recipeID int) (*RemoveResult, error) {
	if user == nil {
		return nil, common.ErrUnauthenticated
	}
	if recipeID <= 0 {
		return nil, common.NewInvalidInputError("Recipe ID")
	}

	existing, err := s.store.FindSavedRecipe(ctx, user.ID, recipeID)
	if err != nil {
		common.LogError("收藏查詢失敗", zap.Error(err), zap.String("user_id", user.ID))
		return nil, common.NewUpstreamError("Failed to find saved recipe", err)
	}
	if existing == nil {
		return &RemoveResult{
			Success: true,
			Message: "Recipe was not in your collection",
		}, nil
	}

	if err := s.store.DeleteSavedRecipe(ctx, existing.ID); err != nil {
		common.LogError("收藏移除失敗", zap.Error(err), zap.Int("saved_id", existing.ID))
		return nil, common.NewPersistenceError(err)
	}

	common.LogInfo("食譜已移出收藏",
		zap.String("user_id", user.ID),
		zap.Int("recipe_id", recipeID),
	)

	return &RemoveResult{
		Success: true,
		Message: "Recipe removed from your collection",
	}, nil
}

// List 列出使用者收藏，投影出內嵌食譜並丟棄失效的引用
func (s *CollectionService) List(ctx context.Context, user *common.User) (*ListResult, error) {
	if user == nil {
		return nil, common.ErrUnauthenticated
	}

	saved, err := s.store.ListSavedRecipes(ctx, user.ID)
	if err != nil {
		common.LogError("收藏列表讀取失敗", zap.Error(err), zap.String("user_id", user.ID))
		return nil, common.NewUpstreamError("Failed to fetch saved recipes", err)
	}

	recipes := make([]common.Recipe, 0, len(saved))
	for _, entry := range saved {
		if entry.Recipe == nil {
			continue
		}
		recipes = append(recipes, *entry.Recipe)
	}

	return &ListResult{
		Success: true,
		Recipes: recipes,
		Count:   len(recipes),
	}, nil
}
