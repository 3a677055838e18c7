package prefs

import (
	"io"
	"net/http"

	prefsStore "resto-manager/internal/core/prefs"
	"resto-manager/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 偏好設定處理程序
type Handler struct {
	store *prefsStore.Store
}

// NewHandler 創建新的偏好設定處理程序
func NewHandler(store *prefsStore.Store) *Handler {
	return &Handler{
		store: store,
	}
}

// HandleGet 取得偏好 blob
func (h *Handler) HandleGet(c *gin.Context) {
	key := c.Param("key")
	businessID := c.GetString("business_id")

	value, err := h.store.Get(c.Request.Context(), businessID, key)
	if err != nil {
		respondError(c, err)
		return
	}

	if value == "" {
		c.JSON(http.StatusOK, gin.H{"key": key, "value": nil})
		return
	}

	// value 已是 JSON blob，原樣轉發
	c.Data(http.StatusOK, "application/json", []byte(value))
}

// HandleSet 整份覆寫偏好 blob
func (h *Handler) HandleSet(c *gin.Context) {
	key := c.Param("key")
	businessID := c.GetString("business_id")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.LogError("讀取偏好內容失敗", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.store.Set(c.Request.Context(), businessID, key, string(body)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
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
