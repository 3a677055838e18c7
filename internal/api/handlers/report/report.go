package report

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	reportService "resto-manager/internal/core/report"
	"resto-manager/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 報表處理程序
type Handler struct {
	reportService *reportService.Service
}

// NewHandler 創建新的報表處理程序
func NewHandler(service *reportService.Service) *Handler {
	return &Handler{
		reportService: service,
	}
}

// HandleSales 銷售報表：當期指標、前期比較與圖表
func (h *Handler) HandleSales(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	salesReport, err := h.reportService.Sales(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, salesReport)
}

// HandleTopDishes 熱門品項圖表
func (h *Handler) HandleTopDishes(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	chart, err := h.reportService.TopDishes(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, chart)
}

// HandleInventory 庫存報表：狀態分組與緊急預覽
func (h *Handler) HandleInventory(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	inventoryReport, err := h.reportService.Inventory(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inventoryReport)
}

// HandleExportSales 匯出銷售報表 CSV
func (h *Handler) HandleExportSales(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	header, rows, err := h.reportService.ExportSales(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}

	writeCSV(c, "sales", r, header, rows)
}

// HandleExportTopDishes 匯出熱門品項 CSV
func (h *Handler) HandleExportTopDishes(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	header, rows, err := h.reportService.ExportTopDishes(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}

	writeCSV(c, "top-dishes", r, header, rows)
}

// parseRange 解析 from/to 查詢參數，格式為 YYYY-MM-DD
func parseRange(c *gin.Context) (reportService.DateRange, bool) {
	from, errFrom := time.Parse(time.DateOnly, c.Query("from"))
	to, errTo := time.Parse(time.DateOnly, c.Query("to"))
	if errFrom != nil || errTo != nil {
		common.LogWarn("日期範圍無效",
			zap.String("from", c.Query("from")),
			zap.String("to", c.Query("to")),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "from 與 to 必須是 YYYY-MM-DD 格式",
			"code":  common.ErrCodeInvalidDateRange,
		})
		return reportService.DateRange{}, false
	}
	return reportService.DateRange{From: from, To: to}, true
}

// writeCSV 以附件形式回傳 CSV
func writeCSV(c *gin.Context, name string, r reportService.DateRange, header []string, rows [][]string) {
	var buf bytes.Buffer
	if err := reportService.WriteCSV(&buf, header, rows); err != nil {
		common.LogError("CSV 產生失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build export",
			"code":  common.ErrCodeInternalError,
		})
		return
	}

	filename := fmt.Sprintf("%s_%s_%s.csv", name, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// respondError 統一轉換服務層錯誤為 HTTP 回應
func respondError(c *gin.Context, err error) {
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
