package common

// SubscriptionTier 訂閱方案
type SubscriptionTier string

const (
	TierFree SubscriptionTier = "free"
	TierPro  SubscriptionTier = "pro"
)

// User 已解析的使用者（由外部身份層提供，請求期間不可變）
type User struct {
	ID   string           `json:"id"`
	Tier SubscriptionTier `json:"tier"`
}

// IsPro 是否為 Pro 方案
func (u *User) IsPro() bool {
	return u.Tier == TierPro
}

// PantryItem 食品儲藏室項目
type PantryItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RecipeSuggestion AI 推薦的單一食譜
type RecipeSuggestion struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	MatchPercentage    int      `json:"matchPercentage"`
	MissingIngredients []string `json:"missingIngredients"`
	Category           string   `json:"category"`
	Cuisine            string   `json:"cuisine"`
	PrepTime           int      `json:"prepTime"`
	CookTime           int      `json:"cookTime"`
	Servings           int      `json:"servings"`
}

// RecommendationResult 食品儲藏室推薦結果
type RecommendationResult struct {
	Success              bool               `json:"success"`
	Recipes              []RecipeSuggestion `json:"recipes,omitempty"`
	IngredientsUsed      string             `json:"ingredientsUsed,omitempty"`
	RecommendationsLimit interface{}        `json:"recommendationsLimit,omitempty"`
	Message              string             `json:"message"`
}

// RecipeIngredient 食譜食材
type RecipeIngredient struct {
	Item     string `json:"item"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
}

// InstructionStep 食譜步驟
type InstructionStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
	Tip         string `json:"tip,omitempty"`
}

// Nutrition 營養資訊（每個欄位是數字或區間字串，例如 "200-350"）
type Nutrition struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// Substitution 食材替代方案
type Substitution struct {
	Original     string   `json:"original"`
	Alternatives []string `json:"alternatives"`
}

// Recipe 完整食譜（標題為不分大小寫的唯一識別）
type Recipe struct {
	ID            int                `json:"id,omitempty"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Category      string             `json:"category"`
	Cuisine       string             `json:"cuisine"`
	PrepTime      int                `json:"prepTime"`
	CookTime      int                `json:"cookTime"`
	Servings      int                `json:"servings"`
	Ingredients   []RecipeIngredient `json:"ingredients"`
	Instructions  []InstructionStep  `json:"instructions"`
	Nutrition     Nutrition          `json:"nutrition"`
	Tips          []string           `json:"tips"`
	Substitutions []Substitution     `json:"substitutions"`
	ImageURL      string             `json:"imageUrl"`
	IsPublic      bool               `json:"isPublic"`
	Author        string             `json:"author,omitempty"`
}

// RecipeResult 取得或生成食譜的結果
type RecipeResult struct {
	Success      bool    `json:"success"`
	Recipe       *Recipe `json:"recipe"`
	RecipeID     int     `json:"recipeId"`
	IsSaved      bool    `json:"isSaved"`
	FromDatabase bool    `json:"fromDatabase"`
	IsPro        bool    `json:"isPro"`
	Message      string  `json:"message"`
}

// SavedRecipe 使用者收藏的食譜（user + recipe 至多一筆）
type SavedRecipe struct {
	ID      int     `json:"id"`
	UserID  string  `json:"user"`
	Recipe  *Recipe `json:"recipe"`
	SavedAt string  `json:"savedAt"`
}

// AllowedCategories 食譜分類的封閉列舉
var AllowedCategories = []string{"breakfast", "lunch", "dinner", "snack", "dessert"}

// AllowedCuisines 料理風格的封閉列舉（最後為 other）
var AllowedCuisines = []string{
	"italian", "chinese", "mexican", "indian", "american", "thai", "japanese",
	"mediterranean", "french", "korean", "vietnamese", "spanish", "greek",
	"turkish", "moroccan", "brazilian", "caribbean", "middle-eastern",
	"british", "german", "portuguese", "other",
}
