package gate

import (
	"context"
	"fmt"
	"time"

	"servd-api/internal/infrastructure/config"
	"servd-api/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Reason 拒絕原因
type Reason string

const (
	ReasonRateLimit Reason = "rate_limit"
	ReasonOther     Reason = "other"
)

// Decision 閘道決策
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Service 配額閘道。每位使用者每月固定窗口計數，額度依方案而異。
// 計數存在 Redis，多個實例共用同一份額度。
type Service struct {
	config *config.GateConfig
	client *redis.Client
}

// NewService 創建配額閘道
func NewService(cfg *config.GateConfig) (*Service, error) {
	if !cfg.Enabled {
		common.LogInfo("配額閘道已停用")
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("配額閘道已初始化",
		zap.String("redis_addr", cfg.RedisAddr),
		zap.Int("free_monthly_limit", cfg.FreeMonthlyLimit),
		zap.Int("pro_monthly_limit", cfg.ProMonthlyLimit),
	)

	return &Service{
		config: cfg,
		client: client,
	}, nil
}

// Check 檢查使用者是否還有額度可消耗 requested 單位
func (s *Service) Check(ctx context.Context, userID string, requested int, tier common.SubscriptionTier) Decision {
	// 全域拒絕開關（WAF 式封鎖）
	if s.config.DenyAll {
		return Decision{Allowed: false, Reason: ReasonOther}
	}

	if !s.config.Enabled || s.client == nil {
		return Decision{Allowed: true}
	}

	limit := s.config.FreeMonthlyLimit
	if tier == common.TierPro {
		limit = s.config.ProMonthlyLimit
	}

	key := s.quotaKey(userID)
	count, err := s.client.IncrBy(ctx, key, int64(requested)).Result()
	if err != nil {
		// 計數器不可用時放行，額度保護不值得擋下整個功能
		common.LogWarn("配額計數失敗，放行請求",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return Decision{Allowed: true}
	}

	// 首次計數時設定窗口到期
	if count == int64(requested) {
		s.client.Expire(ctx, key, monthWindow())
	}

	if count > int64(limit) {
		common.LogInfo("使用者超出每月配額",
			zap.String("user_id", userID),
			zap.String("tier", string(tier)),
			zap.Int64("count", count),
			zap.Int("limit", limit),
		)
		return Decision{Allowed: false, Reason: ReasonRateLimit}
	}

	return Decision{Allowed: true}
}

// quotaKey 以使用者與年月組成窗口鍵
func (s *Service) quotaKey(userID string) string {
	return fmt.Sprintf("gate:quota:%s:%s", userID, time.Now().UTC().Format("2006-01"))
}

// monthWindow 回傳涵蓋整個月的到期時間
func monthWindow() time.Duration {
	return 32 * 24 * time.Hour
}

// Close 關閉閘道
func (s *Service) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
