package meals

import (
	"net/http"

	"servd-api/internal/core/mealdb"
	"servd-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 餐點目錄處理程序
type Handler struct {
	service *mealdb.Service
}

// NewHandler 創建餐點目錄處理程序
func NewHandler(service *mealdb.Service) *Handler {
	return &Handler{service: service}
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

// HandleRecipeOfTheDay 每日隨機餐點
func (h *Handler) HandleRecipeOfTheDay(c *gin.Context) {
	meal, err := h.service.RecipeOfTheDay(c.Request.Context())
	if err != nil {
		common.LogError("每日餐點讀取失敗", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recipe": meal})
}

// HandleCategories 分類列表
func (h *Handler) HandleCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		common.LogError("分類列表讀取失敗", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

// HandleAreas 地區列表
func (h *Handler) HandleAreas(c *gin.Context) {
	areas, err := h.service.Areas(c.Request.Context())
	if err != nil {
		common.LogError("地區列表讀取失敗", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "areas": areas})
}

// HandleMealsByCategory 依分類列出餐點
func (h *Handler) HandleMealsByCategory(c *gin.Context) {
	meals, err := h.service.MealsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		common.LogError("分類餐點讀取失敗", zap.Error(err), zap.String("category", c.Param("category")))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "meals": meals})
}

// HandleMealsByArea 依地區列出餐點
func (h *Handler) HandleMealsByArea(c *gin.Context) {
	meals, err := h.service.MealsByArea(c.Request.Context(), c.Param("area"))
	if err != nil {
		common.LogError("地區餐點讀取失敗", zap.Error(err), zap.String("area", c.Param("area")))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "meals": meals})
}

// HandleMealByID 餐點詳情
func (h *Handler) HandleMealByID(c *gin.Context) {
	meal, err := h.service.MealByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "meal": meal})
}
