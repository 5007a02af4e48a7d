package recipe

import (
	"net/http"

	"servd-api/internal/api/middleware"
	recipeService "servd-api/internal/core/recipe"
	"servd-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜處理程序
type Handler struct {
	recommendationService *recipeService.RecommendationService
	resolutionService     *recipeService.ResolutionService
	collectionService     *recipeService.CollectionService
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recommendation *recipeService.RecommendationService, resolution *recipeService.ResolutionService, collection *recipeService.CollectionService) *Handler {
	return &Handler{
		recommendationService: recommendation,
		resolutionService:     resolution,
		collectionService:     collection,
	}
}

// requestID 取出或生成請求 ID
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = common.GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

// respondError 將錯誤映射為 JSON 響應
func respondError(c *gin.Context, err error) {
	if ce, ok := common.AsCustomError(err); ok {
		c.JSON(ce.Status, gin.H{
			"error": ce.Message,
			"code":  ce.Code,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  common.ErrCodeInternalError,
	})
}

// HandleRecommendations 依儲藏室內容推薦食譜
func (h *Handler) HandleRecommendations(c *gin.Context) {
	reqID := requestID(c)
	user := middleware.CurrentUser(c)

	common.LogInfo("開始處理儲藏室推薦請求",
		zap.String("request_id", reqID),
		zap.String("client_ip", c.ClientIP()),
	)

	result, err := h.recommendationService.GetRecommendations(c.Request.Context(), user)
	if err != nil {
		common.LogError("儲藏室推薦失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ResolveRequest 取得或生成食譜的請求
type ResolveRequest struct {
	RecipeName string `json:"recipe_name" binding:"required"` // 欲查詢或生成的食譜名稱
}

// HandleResolve 取得或生成指定名稱的食譜
func (h *Handler) HandleResolve(c *gin.Context) {
	reqID := requestID(c)
	user := middleware.CurrentUser(c)

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	common.LogInfo("開始處理食譜解析請求",
		zap.String("request_id", reqID),
		zap.String("recipe_name", req.RecipeName),
	)

	result, err := h.resolutionService.GetOrGenerateRecipe(c.Request.Context(), user, req.RecipeName)
	if err != nil {
		common.LogError("食譜解析失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
