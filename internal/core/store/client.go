package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"servd-api/internal/infrastructure/config"
	"servd-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client 文件存儲客戶端（Strapi CMS）。兩個集合：recipes 與 saved-recipes，
// 外加唯讀的 pantry-items。失敗不帶部分資料。
type Client struct {
	config *config.StrapiConfig
	client *resty.Client
}

// NewClient 創建文件存儲客戶端
func NewClient(cfg *config.StrapiConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIToken)).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// pantryListResponse 儲藏室項目列表回應
type pantryListResponse struct {
	Data []common.PantryItem `json:"data"`
}

// recipeListResponse 食譜列表回應
type recipeListResponse struct {
	Data []common.Recipe `json:"data"`
}

// recipeCreateResponse 食譜建立回應
type recipeCreateResponse struct {
	Data common.Recipe `json:"data"`
}

// savedListResponse 收藏列表回應
type savedListResponse struct {
	Data []common.SavedRecipe `json:"data"`
}

// FetchPantryItems 讀取使用者的儲藏室項目
func (c *Client) FetchPantryItems(ctx context.Context, userID string) ([]common.PantryItem, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("filters[owner][id][$eq]", userID).
		Get("/api/pantry-items")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pantry items: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("pantry items request failed (status %d)", resp.StatusCode())
	}

	var result pantryListResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse pantry items response: %w", err)
	}
	return result.Data, nil
}

// FindRecipeByTitle 以標題（不分大小寫）查詢食譜，找不到時回傳 nil
func (c *Client) FindRecipeByTitle(ctx context.Context, title string) (*common.Recipe, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("filters[title][$eqi]", title).
		SetQueryParam("populate", "*").
		Get("/api/recipes")
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("recipe search failed (status %d)", resp.StatusCode())
	}

	var result recipeListResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse recipe search response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}

// CreateRecipe 寫入新食譜並回傳其 ID
func (c *Client) CreateRecipe(ctx context.Context, recipe *common.Recipe) (int, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"data": recipe}).
		Post("/api/recipes")
	if err != nil {
		return 0, fmt.Errorf("failed to create recipe: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		common.LogError("食譜寫入失敗",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("title", recipe.Title),
		)
		return 0, fmt.Errorf("recipe create failed (status %d): %s", resp.StatusCode(), resp.String())
	}

	var result recipeCreateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return 0, fmt.Errorf("failed to parse recipe create response: %w", err)
	}
	return result.Data.ID, nil
}

// FindSavedRecipe 查詢使用者對某食譜的收藏，找不到時回傳 nil
func (c *Client) FindSavedRecipe(ctx context.Context, userID string, recipeID int) (*common.SavedRecipe, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("filters[user][id][$eq]", userID).
		SetQueryParam("filters[recipe][id][$eq]", fmt.Sprintf("%d", recipeID)).
		Get("/api/saved-recipes")
	if err != nil {
		return nil, fmt.Errorf("failed to search saved recipes: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("saved recipe search failed (status %d)", resp.StatusCode())
	}

	var result savedListResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse saved recipe response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}

// CreateSavedRecipe 建立收藏關聯
func (c *Client) CreateSavedRecipe(ctx context.Context, userID string, recipeID int) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"data": map[string]interface{}{
				"user":    userID,
				"recipe":  recipeID,
				"savedAt": time.Now().UTC().Format(time.RFC3339),
			},
		}).
		Post("/api/saved-recipes")
	if err != nil {
		return fmt.Errorf("failed to create saved recipe: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("saved recipe create failed (status %d)", resp.StatusCode())
	}
	return nil
}

// DeleteSavedRecipe 刪除收藏關聯
func (c *Client) DeleteSavedRecipe(ctx context.Context, savedID int) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/api/saved-recipes/%d", savedID))
	if err != nil {
		return fmt.Errorf("failed to delete saved recipe: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return fmt.Errorf("saved recipe delete failed (status %d)", resp.StatusCode())
	}
	return nil
}

// ListSavedRecipes 列出使用者收藏，依 savedAt 由新到舊
func (c *Client) ListSavedRecipes(ctx context.Context, userID string) ([]common.SavedRecipe, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("filters[user][id][$eq]", userID).
		SetQueryParam("populate[recipe][populate]", "*").
		SetQueryParam("sort", "savedAt:desc").
		Get("/api/saved-recipes")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch saved recipes: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("saved recipes request failed (status %d)", resp.StatusCode())
	}

	var result savedListResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse saved recipes response: %w", err)
	}
	return result.Data, nil
}
