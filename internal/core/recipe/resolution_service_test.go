package recipe

import (
	"context"
	"errors"
	"testing"

	"servd-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipeJSON = `{
  "title": "chicken biryani",
  "description": "Fragrant layered rice with spiced chicken.",
  "category": "Dinner",
  "cuisine": "Indian",
  "prepTime": 30,
  "cookTime": 45,
  "servings": 4,
  "ingredients": [
    {"item": "chicken thighs", "amount": "500g", "category": "Protein"},
    {"item": "basmati rice", "amount": "2 cups", "category": "Grain"}
  ],
  "instructions": [
    {"step": 1, "title": "Marinate", "instruction": "Marinate the chicken.", "tip": "Overnight is best"},
    {"step": 2, "title": "Layer", "instruction": "Layer rice and chicken."}
  ],
  "nutrition": {"calories": "450-550", "protein": "35", "carbs": "60", "fat": "15"},
  "tips": ["Use aged basmati rice."],
  "substitutions": [
    {"original": "chicken thighs", "alternatives": ["chicken breast", "lamb"]}
  ]
}`

func newResolutionService(oracle *fakeOracle, store *fakeStore, image *fakeImage) *ResolutionService {
	return NewResolutionService(oracle, store, image)
}

func TestGetOrGenerateRecipe_Unauthenticated(t *testing.T) {
	svc := newResolutionService(&fakeOracle{}, newFakeStore(), &fakeImage{})

	_, err := svc.GetOrGenerateRecipe(context.Background(), nil, "Pancakes")
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeUnauthenticated, ce.Code)
}

func TestGetOrGenerateRecipe_BlankName(t *testing.T) {
	svc := newResolutionService(&fakeOracle{}, newFakeStore(), &fakeImage{})

	_, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "   ")
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeInvalidInput, ce.Code)
}

func TestGetOrGenerateRecipe_GeneratesAndPersists(t *testing.T) {
	oracle := &fakeOracle{response: "```json\n" + recipeJSON + "\n```"}
	store := newFakeStore()
	image := &fakeImage{url: "https://images.example/biryani.jpg"}
	svc := newResolutionService(oracle, store, image)

	result, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "  chicken BIRYANI ")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.FromDatabase)
	assert.False(t, result.IsSaved)
	assert.Equal(t, "Recipe generated and saved successfully!", result.Message)

	require.NotNil(t, result.Recipe)
	assert.Equal(t, "Chicken Biryani", result.Recipe.Title, "stored title is the normalized form, not the model echo")
	assert.Equal(t, "dinner", result.Recipe.Category)
	assert.Equal(t, "indian", result.Recipe.Cuisine)
	assert.Equal(t, "https://images.example/biryani.jpg", result.Recipe.ImageURL)
	assert.True(t, result.Recipe.IsPublic)
	assert.Equal(t, "user-1", result.Recipe.Author)
	assert.Equal(t, result.Recipe.ID, result.RecipeID)
	assert.Equal(t, 1, store.createCalls)
}

// TestGetOrGenerateRecipe_SecondCallHitsDatabase 名稱變體收斂到同一
// 正規化標題，第二次呼叫直接命中資料庫
func TestGetOrGenerateRecipe_SecondCallHitsDatabase(t *testing.T) {
	oracle := &fakeOracle{response: recipeJSON}
	store := newFakeStore()
	svc := newResolutionService(oracle, store, &fakeImage{})

	_, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "chicken biryani")
	require.NoError(t, err)

	result, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "  CHICKEN biryani ")
	require.NoError(t, err)
	assert.True(t, result.FromDatabase)
	assert.Equal(t, "Recipe loaded from database", result.Message)
	assert.Equal(t, 1, oracle.calls, "database hit must not invoke the oracle")
	assert.Equal(t, 1, store.createCalls)
}

// TestGetOrGenerateRecipe_LenientRead 查詢失敗視同未找到,流程照走生成
func TestGetOrGenerateRecipe_LenientRead(t *testing.T) {
	oracle := &fakeOracle{response: recipeJSON}
	store := newFakeStore()
	store.findErr = errors.New("strapi unreachable")
	svc := newResolutionService(oracle, store, &fakeImage{})

	result, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "chicken biryani")
	require.NoError(t, err)
	assert.False(t, result.FromDatabase)
	assert.Equal(t, 1, oracle.calls)
}

func TestGetOrGenerateRecipe_SavedFlagOnHit(t *testing.T) {
	oracle := &fakeOracle{response: recipeJSON}
	store := newFakeStore()
	svc := newResolutionService(oracle, store, &fakeImage{})

	first, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "chicken biryani")
	require.NoError(t, err)

	require.NoError(t, store.CreateSavedRecipe(context.Background(), "user-1", first.RecipeID))

	result, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "chicken biryani")
	require.NoError(t, err)
	assert.True(t, result.FromDatabase)
	assert.True(t, result.IsSaved)
}

// TestGetOrGenerateRecipe_ImageFailureDegrades 圖片查詢失敗不影響流程，
// 食譜以空圖片 URL 保存
func TestGetOrGenerateRecipe_ImageFailureDegrades(t *testing.T) {
	oracle := &fakeOracle{response: recipeJSON}
	store := newFakeStore()
	svc := newResolutionService(oracle, store, &fakeImage{url: ""})

	result, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "chicken biryani")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "", result.Recipe.ImageURL)
	assert.Equal(t, 1, store.createCalls, "recipe is persisted even without an image")
}

func TestGetOrGenerateRecipe_ParseFailure(t *testing.T) {
	oracle := &fakeOracle{response: "I'm sorry, I cannot produce that recipe."}
	store := newFakeStore()
	svc := newResolutionService(oracle, store, &fakeImage{})

	_, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "chicken biryani")
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeGenerationParse, ce.Code)
	assert.Zero(t, store.createCalls, "nothing is persisted on parse failure")
}

func TestGetOrGenerateRecipe_PersistenceFailure(t *testing.T) {
	oracle := &fakeOracle{response: recipeJSON}
	store := newFakeStore()
	store.createErr = errors.New("strapi 500")
	svc := newResolutionService(oracle, store, &fakeImage{})

	_, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "chicken biryani")
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodePersistence, ce.Code)
}

func TestGetOrGenerateRecipe_OracleFailure(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("gemini timeout")}
	svc := newResolutionService(oracle, newFakeStore(), &fakeImage{})

	_, err := svc.GetOrGenerateRecipe(context.Background(), freeUser(), "chicken biryani")
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeUpstreamUnavailable, ce.Code)
}
