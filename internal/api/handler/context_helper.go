package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gabzinnn/av-continua-sub001/pkg/response"
)

// MustGetMembroID extracts membro_id injected by the JWT middleware.
// Returns false after writing a 401; the caller should return immediately.
func MustGetMembroID(c *gin.Context) (string, bool) {
	v, exists := c.Get("membro_id")
	if !exists {
		response.Unauthorized(c, 10002, "não autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "não autenticado")
		return "", false
	}
	return s, true
}
