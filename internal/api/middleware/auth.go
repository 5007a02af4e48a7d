package middleware

import (
	"net/http"

	"servd-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userContextKey = "current_user"

// Identity 身份中間件。身份驗證本身在外部（反向代理），這裡只信任
// 轉發進來的標頭並解析為使用者；沒有可解析的使用者就拒絕。
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			common.LogWarn("請求缺少使用者身份",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "User not authenticated",
				"code":  common.ErrCodeUnauthenticated,
			})
			return
		}

		tier := common.TierFree
		if c.GetHeader("X-User-Tier") == string(common.TierPro) {
			tier = common.TierPro
		}

		c.Set(userContextKey, &common.User{ID: userID, Tier: tier})
		c.Next()
	}
}

// CurrentUser 取出已解析的使用者
func CurrentUser(c *gin.Context) *common.User {
	val, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := val.(*common.User)
	if !ok {
		return nil
	}
	return user
}
