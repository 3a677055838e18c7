package billing

import (
	"context"
	"fmt"
	"time"

	"resto-manager/internal/infrastructure/config"
	"resto-manager/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// CheckoutSession 託管結帳頁面的 session
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PortalSession 託管客戶入口的 session
type PortalSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Subscription 訂閱狀態，僅轉發遠端內容，本服務不碰支付資料
type Subscription struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	PriceID          string    `json:"price_id"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
	CancelAtEnd      bool      `json:"cancel_at_period_end"`
}

// Service 金流服務，託管支付供應商的薄封裝
type Service struct {
	config *config.Config
	client *resty.Client
}

// NewService 創建金流服務
func NewService(cfg *config.Config) *Service {
	client := resty.New().
		SetBaseURL(cfg.Billing.BaseURL).
		SetTimeout(cfg.Billing.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Billing.SecretKey))

	return &Service{
		config: cfg,
		client: client,
	}
}

// CreateCheckoutSession 建立結帳 session，回傳託管結帳頁面的 URL
func (s *Service) CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL string) (*CheckoutSession, error) {
	if priceID == "" {
		return nil, common.NewValidationError("price_id", "price_id 不可為空")
	}

	var session CheckoutSession
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"price_id":    priceID,
			"success_url": successURL,
			"cancel_url":  cancelURL,
		}).
		SetResult(&session).
		Post("/checkout/sessions")
	if err != nil {
		common.LogError("建立結帳 session 失敗", zap.Error(err))
		return nil, common.NewError(common.ErrCodeBillingError, "無法建立結帳 session", common.ErrBillingError.Status, err)
	}
	if resp.IsError() {
		err := fmt.Errorf("billing checkout failed: status %d", resp.StatusCode())
		common.LogError("建立結帳 session 失敗", zap.Int("status", resp.StatusCode()))
		return nil, common.NewError(common.ErrCodeBillingError, "無法建立結帳 session", common.ErrBillingError.Status, err)
	}

	return &session, nil
}

// CreatePortalSession 建立客戶入口 session
func (s *Service) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*PortalSession, error) {
	if customerID == "" {
		return nil, common.NewValidationError("customer_id", "customer_id 不可為空")
	}

	var session PortalSession
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"customer_id": customerID,
			"return_url":  returnURL,
		}).
		SetResult(&session).
		Post("/billing_portal/sessions")
	if err != nil {
		common.LogError("建立客戶入口 session 失敗", zap.Error(err))
		return nil, common.NewError(common.ErrCodeBillingError, "無法建立客戶入口 session", common.ErrBillingError.Status, err)
	}
	if resp.IsError() {
		err := fmt.Errorf("billing portal failed: status %d", resp.StatusCode())
		return nil, common.NewError(common.ErrCodeBillingError, "無法建立客戶入口 session", common.ErrBillingError.Status, err)
	}

	return &session, nil
}

// GetSubscription 取得訂閱狀態
func (s *Service) GetSubscription(ctx context.Context, customerID string) (*Subscription, error) {
	if customerID == "" {
		return nil, common.NewValidationError("customer_id", "customer_id 不可為空")
	}

	var subscription Subscription
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("customer_id", customerID).
		SetResult(&subscription).
		Get("/subscriptions/current")
	if err != nil {
		common.LogError("取得訂閱狀態失敗", zap.Error(err))
		return nil, common.NewError(common.ErrCodeBillingError, "無法取得訂閱狀態", common.ErrBillingError.Status, err)
	}
	if resp.IsError() {
		if resp.StatusCode() == 404 {
			return nil, common.ErrNotFound
		}
		err := fmt.Errorf("billing subscription failed: status %d", resp.StatusCode())
		return nil, common.NewError(common.ErrCodeBillingError, "無法取得訂閱狀態", common.ErrBillingError.Status, err)
	}

	return &subscription, nil
}
