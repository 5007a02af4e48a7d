package recipe

import (
	"context"

	"servd-api/internal/core/gate"
	"servd-api/internal/pkg/common"
)

// Oracle 文字補全預言機。回傳原始文字，JSON 與否由提示詞約定。
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// EntitlementGate 配額閘道
type EntitlementGate interface {
	Check(ctx context.Context, userID string, requested int, tier common.SubscriptionTier) gate.Decision
}

// Store 文件存儲的窄介面（recipes、saved-recipes 兩個集合加唯讀 pantry）
type Store interface {
	FetchPantryItems(ctx context.Context, userID string) ([]common.PantryItem, error)
	FindRecipeByTitle(ctx context.Context, title string) (*common.Recipe, error)
	CreateRecipe(ctx context.Context, recipe *common.Recipe) (int, error)
	FindSavedRecipe(ctx context.Context, userID string, recipeID int) (*common.SavedRecipe, error)
	CreateSavedRecipe(ctx context.Context, userID string, recipeID int) error
	DeleteSavedRecipe(ctx context.Context, savedID int) error
	ListSavedRecipes(ctx context.Context, userID string) ([]common.SavedRecipe, error)
}

// ImageSearcher 圖片查詢，查無結果一律回傳空字串
type ImageSearcher interface {
	Search(ctx context.Context, query string) string
}
