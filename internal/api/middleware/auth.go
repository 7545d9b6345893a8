package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gabzinnn/av-continua-sub001/pkg/jwt"
	"github.com/gabzinnn/av-continua-sub001/pkg/response"
)

// JWTAuth extracts and verifies the identity token minted by the member
// portal. On success membro_id and is_coordenador are injected into the
// request context.
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "cabeçalho de autenticação ausente")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "cabeçalho de autenticação inválido")
			c.Abort()
			return
		}

		claims, err := jwtMgr.Parse(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token inválido ou expirado")
			c.Abort()
			return
		}

		c.Set("membro_id", claims.MembroID)
		c.Set("is_coordenador", claims.IsCoordenador)

		c.Next()
	}
}

// CoordenadorOnly restricts a route to coordinators.
func CoordenadorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("is_coordenador")
		if !exists {
			response.Unauthorized(c, 10002, "não autenticado")
			c.Abort()
			return
		}
		if isCoord, ok := v.(bool); !ok || !isCoord {
			response.Forbidden(c, 10003, "acesso restrito a coordenadores")
			c.Abort()
			return
		}
		c.Next()
	}
}
