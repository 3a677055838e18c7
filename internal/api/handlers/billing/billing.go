package billing

import (
	"net/http"

	billingService "resto-manager/internal/core/billing"
	"resto-manager/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 金流處理程序
type Handler struct {
	billingService *billingService.Service
}

// NewHandler 創建新的金流處理程序
func NewHandler(service *billingService.Service) *Handler {
	return &Handler{
		billingService: service,
	}
}

// CheckoutRequest 建立結帳 session 的請求
type CheckoutRequest struct {
	PriceID    string `json:"price_id" binding:"required"`
	SuccessURL string `json:"success_url" binding:"required"`
	CancelURL  string `json:"cancel_url" binding:"required"`
}

// PortalRequest 建立客戶入口 session 的請求
type PortalRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	ReturnURL  string `json:"return_url" binding:"required"`
}

// HandleCheckoutSession 建立結帳 session
func (h *Handler) HandleCheckoutSession(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	session, err := h.billingService.CreateCheckoutSession(c.Request.Context(), req.PriceID, req.SuccessURL, req.CancelURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// HandlePortalSession 建立客戶入口 session
func (h *Handler) HandlePortalSession(c *gin.Context) {
	var req PortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	session, err := h.billingService.CreatePortalSession(c.Request.Context(), req.CustomerID, req.ReturnURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// HandleSubscription 取得目前的訂閱狀態
func (h *Handler) HandleSubscription(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "customer_id 不可為空",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	subscription, err := h.billingService.GetSubscription(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscription)
}

// respondError 統一轉換服務層錯誤為 HTTP 回應
func respondError(c *gin.Context, err error) {
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}
	if ce, ok := err.(*common.CustomError); ok {
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
