package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractLimitQuery создает middleware для извлечения и валидации числового query-параметра.
// Отсутствующий параметр заменяется на def, значения больше max обрезаются до max.
// Результат сохраняется в контексте Gin под ключом contextKey.
func ExtractLimitQuery(paramName, contextKey string, def, max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.GetQuery(paramName)
		if !ok || raw == "" {
			c.Set(contextKey, def)
			c.Next()
			return
		}

		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			c.Abort()
			return
		}
		if max > 0 && value > max {
			value = max
		}
		c.Set(contextKey, value)
		c.Next()
	}
}
