package menu

import (
	"net/http"
	"strconv"
	"strings"

	menuService "resto-manager/internal/core/menu"
	"resto-manager/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 菜單處理程序
type Handler struct {
	menuService *menuService.Service
}

// NewHandler 創建新的菜單處理程序
func NewHandler(service *menuService.Service) *Handler {
	return &Handler{
		menuService: service,
	}
}

// ListResponse 品項清單回應
type ListResponse struct {
	Recipes []menuService.Recipe `json:"recipes"`
	Total   int                  `json:"total"`
}

// HandleList 取得過濾、排序後的品項清單
// 查詢參數：archived、search、categories、allergens、min_price、max_price、min_food_cost、max_food_cost
func (h *Handler) HandleList(c *gin.Context) {
	requestID := requestID(c)

	showArchived := c.Query("archived") == "true"
	searchQuery := c.Query("search")

	criteria, err := parseCriteria(c)
	if err != nil {
		common.LogWarn("過濾條件無效",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": common.ErrCodeInvalidRequest})
		return
	}

	recipes, err := h.menuService.VisibleRecipes(c.Request.Context(), showArchived, searchQuery, criteria)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Recipes: recipes,
		Total:   len(recipes),
	})
}

// HandleAdd 新增品項
func (h *Handler) HandleAdd(c *gin.Context) {
	requestID := requestID(c)

	var recipe menuService.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.menuService.AddRecipe(c.Request.Context(), recipe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// HandleUpdate 部分更新品項
func (h *Handler) HandleUpdate(c *gin.Context) {
	requestID := requestID(c)
	id := c.Param("id")

	var update menuService.RecipeUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updated, err := h.menuService.UpdateRecipe(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// HandleDelete 刪除品項
// 被銷售紀錄引用時回傳 409，前端此時只能提供封存選項
func (h *Handler) HandleDelete(c *gin.Context) {
	id := c.Param("id")

	result, err := h.menuService.DeleteRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.HasSalesReferences {
		c.JSON(http.StatusConflict, gin.H{
			"success":              false,
			"has_sales_references": true,
			"code":                 common.ErrCodeRecipeReferenced,
			"message":              "品項已被銷售紀錄引用，請改用封存",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleArchive 封存品項
func (h *Handler) HandleArchive(c *gin.Context) {
	id := c.Param("id")

	if err := h.menuService.ArchiveRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleUnarchive 取消封存
func (h *Handler) HandleUnarchive(c *gin.Context) {
	id := c.Param("id")

	if err := h.menuService.UnarchiveRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// parseCriteria 從查詢參數組出過濾條件
func parseCriteria(c *gin.Context) (menuService.FilterCriteria, error) {
	var criteria menuService.FilterCriteria

	if categories := c.Query("categories"); categories != "" {
		criteria.Categories = splitParam(categories)
	}
	if allergens := c.Query("allergens"); allergens != "" {
		criteria.Allergens = splitParam(allergens)
	}

	var err error
	if criteria.MinPrice, err = parseBound(c.Query("min_price")); err != nil {
		return criteria, common.NewValidationError("min_price", "min_price 必須是數字")
	}
	if criteria.MaxPrice, err = parseBound(c.Query("max_price")); err != nil {
		return criteria, common.NewValidationError("max_price", "max_price 必須是數字")
	}
	if criteria.MinFoodCost, err = parseBound(c.Query("min_food_cost")); err != nil {
		return criteria, common.NewValidationError("min_food_cost", "min_food_cost 必須是數字")
	}
	if criteria.MaxFoodCost, err = parseBound(c.Query("max_food_cost")); err != nil {
		return criteria, common.NewValidationError("max_food_cost", "max_food_cost 必須是數字")
	}

	return criteria, nil
}

// parseBound 解析可選的數字邊界，空字串回傳 nil
func parseBound(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func splitParam(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = common.GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

// respondError 統一轉換服務層錯誤為 HTTP 回應
func respondError(c *gin.Context, err error) {
	if common.IsValidationError(err) {
		ve := err.(*common.ValidationError)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ve.Error(),
			"field": ve.Field,
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
