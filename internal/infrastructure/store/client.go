package store

import (
	"fmt"
	"time"

	"resto-manager/internal/infrastructure/config"
	"resto-manager/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Client 託管資料庫服務的 HTTP 客戶端
// 所有持久化都委託給遠端服務，這裡只負責傳輸與錯誤轉換
type Client struct {
	config *config.Config
	http   *resty.Client
}

// apiError 遠端服務的錯誤回應
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// NewClient 創建新的遠端資料庫客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Store.BaseURL).
		SetTimeout(cfg.Store.Timeout).
		SetHeader("apikey", cfg.Store.APIKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Store.APIKey)).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		http:   client,
	}
}

// checkResponse 統一處理非 2xx 回應
func checkResponse(resp *resty.Response, operation string, start time.Time) error {
	if resp.IsError() {
		message := resp.String()
		var apiErr apiError
		if jsonErr := common.ParseJSONBytes(resp.Body(), &apiErr); jsonErr == nil && apiErr.Message != "" {
			message = apiErr.Message
		}
		err := fmt.Errorf("store %s failed: status %d: %s", operation, resp.StatusCode(), message)
		common.LogStoreCall(operation, time.Since(start), err, resp.Header().Get("X-Request-ID"))
		return err
	}
	common.LogStoreCall(operation, time.Since(start), nil, resp.Header().Get("X-Request-ID"))
	return nil
}
