package middleware

import (
	"net/http"
	"strings"

	"resto-manager/internal/infrastructure/config"
	"resto-manager/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// 託管認證服務簽發的 JWT 內容
type authClaims struct {
	BusinessID string `json:"business_id"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Auth 認證中間件
// 只驗證託管認證服務簽發的 bearer token，簽發與更新都在外部服務
func Auth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Auth.Enabled {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing bearer token",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			common.LogWarn("Token 驗證失敗",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		// 後續 handler 以 business_id 界定資料範圍
		c.Set("business_id", claims.BusinessID)
		c.Next()
	}
}
