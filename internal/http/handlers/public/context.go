package public

import (
	handlershared "github.com/storefront-api/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// optionalUserID 读取可选身份，匿名请求返回 0。
func optionalUserID(c *gin.Context) uint {
	return handlershared.OptionalContextUint(c, "user_id")
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
