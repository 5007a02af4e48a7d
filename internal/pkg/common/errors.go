package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// AsCustomError 取出鏈上的 CustomError
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// 預定義錯誤代碼
const (
	ErrCodeUnauthenticated     = "UNAUTHENTICATED"        // 401
	ErrCodeInvalidInput        = "INVALID_INPUT"          // 400
	ErrCodeQuotaExceeded       = "QUOTA_EXCEEDED"         // 429
	ErrCodeRequestDenied       = "REQUEST_DENIED"         // 403
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"   // 502
	ErrCodeGenerationParse     = "GENERATION_PARSE_ERROR" // 502
	ErrCodePersistence         = "PERSISTENCE_ERROR"      // 500
	ErrCodeInternalError       = "INTERNAL_ERROR"         // 500
	ErrCodeNotFound            = "NOT_FOUND"              // 404
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"      // 429
)

// 預定義錯誤
var (
	ErrUnauthenticated = NewError(ErrCodeUnauthenticated, "User not authenticated", http.StatusUnauthorized, nil)
	ErrRequestDenied   = NewError(ErrCodeRequestDenied, "Request denied", http.StatusForbidden, nil)
	ErrInternalError   = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
)

// NewInvalidInputError 缺少必要欄位
func NewInvalidInputError(field string) *CustomError {
	return NewError(ErrCodeInvalidInput, fmt.Sprintf("%s is required", field), http.StatusBadRequest, nil)
}

// NewQuotaExceededError 超出每月 AI 配額，訊息依方案不同
func NewQuotaExceededError(tier SubscriptionTier) *CustomError {
	msg := "Monthly AI recipe limit reached. Upgrade to Pro!"
	if tier == TierPro {
		msg = "Monthly AI recipe limit reached. Please contact support."
	}
	return NewError(ErrCodeQuotaExceeded, msg, http.StatusTooManyRequests, nil)
}

// NewUpstreamError 上游讀取失敗
func NewUpstreamError(message string, err error) *CustomError {
	return NewError(ErrCodeUpstreamUnavailable, message, http.StatusBadGateway, err)
}

// NewGenerationParseError AI 回應無法解析為預期結構（可重試，不快取、不保存）
func NewGenerationParseError(err error) *CustomError {
	return NewError(ErrCodeGenerationParse, "Failed to generate recipe. Please try again.", http.StatusBadGateway, err)
}

// NewPersistenceError 已生成的食譜寫入失敗
func NewPersistenceError(err error) *CustomError {
	return NewError(ErrCodePersistence, "Failed to save recipe to database", http.StatusInternalServerError, err)
}
