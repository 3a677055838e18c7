package menu

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleIngredients 取得食材主檔，僅用於前端解析食材名稱
func (h *Handler) HandleIngredients(c *gin.Context) {
	ingredients, err := h.menuService.Ingredients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredients": ingredients,
		"total":       len(ingredients),
	})
}
