package middleware

import (
	"log"
	"net/http"

	"github.com/ergolab/consulta/internal/common"
	"github.com/gin-gonic/gin"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
				c.Abort()
			}
		}()
		c.Next()
	}
}
