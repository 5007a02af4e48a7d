package recipe

import (
	"net/http"
	"strconv"

	"servd-api/internal/api/middleware"
	"servd-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SaveRequest 收藏食譜的請求
type SaveRequest struct {
	RecipeID int `json:"recipe_id" binding:"required"` // 欲收藏的食譜 ID
}

// HandleSave 收藏食譜
func (h *Handler) HandleSave(c *gin.Context) {
	reqID := requestID(c)
	user := middleware.CurrentUser(c)

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.collectionService.Save(c.Request.Context(), user, req.RecipeID)
	if err != nil {
		common.LogError("收藏失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleRemove 取消收藏
func (h *Handler) HandleRemove(c *gin.Context) {
	reqID := requestID(c)
	user := middleware.CurrentUser(c)

	recipeID, err := strconv.Atoi(c.Param("recipeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe id"})
		return
	}

	result, removeErr := h.collectionService.Remove(c.Request.Context(), user, recipeID)
	if removeErr != nil {
		common.LogError("取消收藏失敗",
			zap.Error(removeErr),
			zap.String("request_id", reqID),
		)
		respondError(c, removeErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleList 列出使用者收藏
func (h *Handler) HandleList(c *gin.Context) {
	reqID := requestID(c)
	user := middleware.CurrentUser(c)

	result, err := h.collectionService.List(c.Request.Context(), user)
	if err != nil {
		common.LogError("收藏列表讀取失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
