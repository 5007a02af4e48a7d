package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"servd-api/internal/infrastructure/config"
	"servd-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Meal 餐點目錄條目（TheMealDB 原始欄位，直接透傳）
type Meal map[string]interface{}

// Service 餐點目錄瀏覽服務。單純的讀取透傳，無快取策略。
type Service struct {
	config *config.MealDBConfig
	client *resty.Client
}

// NewService 創建餐點目錄服務
func NewService(cfg *config.MealDBConfig) *Service {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Service{
		config: cfg,
		client: client,
	}
}

// mealsResponse 目錄 API 回應
type mealsResponse struct {
	Meals []Meal `json:"meals"`
}

// get 發送查詢並解析 meals 陣列
func (s *Service) get(ctx context.Context, path string, params map[string]string) ([]Meal, error) {
	req := s.client.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, common.NewUpstreamError("Failed to fetch meal catalog", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.NewUpstreamError("Failed to fetch meal catalog", fmt.Errorf("status %d", resp.StatusCode()))
	}

	var result mealsResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, common.NewUpstreamError("Failed to parse meal catalog response", err)
	}
	return result.Meals, nil
}

// RecipeOfTheDay 隨機取得一道餐點
func (s *Service) RecipeOfTheDay(ctx context.Context) (Meal, error) {
	meals, err := s.get(ctx, "/random.php", nil)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, common.NewUpstreamError("Failed to fetch recipe of the day", nil)
	}
	return meals[0], nil
}

// Categories 列出所有分類
func (s *Service) Categories(ctx context.Context) ([]Meal, error) {
	return s.get(ctx, "/list.php", map[string]string{"c": "list"})
}

// Areas 列出所有地區
func (s *Service) Areas(ctx context.Context) ([]Meal, error) {
	return s.get(ctx, "/list.php", map[string]string{"a": "list"})
}

// MealsByCategory 依分類列出餐點
func (s *Service) MealsByCategory(ctx context.Context, category string) ([]Meal, error) {
	return s.get(ctx, "/filter.php", map[string]string{"c": category})
}

// MealsByArea 依地區列出餐點
func (s *Service) MealsByArea(ctx context.Context, area string) ([]Meal, error) {
	return s.get(ctx, "/filter.php", map[string]string{"a": area})
}

// MealByID 依 ID 取得餐點詳情
func (s *Service) MealByID(ctx context.Context, id string) (Meal, error) {
	meals, err := s.get(ctx, "/lookup.php", map[string]string{"i": id})
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, common.ErrNotFound
	}
	return meals[0], nil
}
