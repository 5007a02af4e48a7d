package image

import (
	"context"
	"encoding/json"
	"net/http"

	"servd-api/internal/infrastructure/config"
	"servd-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://api.unsplash.com"

// Service 食譜配圖查詢。查無結果、未設金鑰或任何失敗都回傳空字串，
// 缺圖是正常結果而不是錯誤。
type Service struct {
	config *config.UnsplashConfig
	client *resty.Client
}

// NewService 創建圖片查詢服務
func NewService(cfg *config.UnsplashConfig) *Service {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout)

	return &Service{
		config: cfg,
		client: client,
	}
}

// searchResponse Unsplash 搜尋回應
type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Search 以食譜名稱搜尋一張橫向照片的 URL
func (s *Service) Search(ctx context.Context, query string) string {
	if s.config.AccessKey == "" {
		common.LogWarn("未設定 UNSPLASH_ACCESS_KEY，略過圖片查詢")
		return ""
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Client-ID "+s.config.AccessKey).
		SetQueryParam("query", query).
		SetQueryParam("per_page", "1").
		SetQueryParam("orientation", "landscape").
		Get("/search/photos")
	if err != nil {
		common.LogError("圖片查詢失敗", zap.Error(err), zap.String("query", query))
		return ""
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogError("Unsplash API 回傳錯誤狀態",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("query", query),
		)
		return ""
	}

	var result searchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		common.LogError("圖片查詢回應解析失敗", zap.Error(err))
		return ""
	}

	if len(result.Results) == 0 {
		return ""
	}
	return result.Results[0].URLs.Regular
}
