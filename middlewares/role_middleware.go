package middlewares

import (
	"net/http"
	"strings"

	"gin-bytemarket/constants"
	"gin-bytemarket/logger"
	"gin-bytemarket/models"

	"github.com/gin-gonic/gin"
)

// RoleBasedAccessControl 指定されたロールのみアクセスを許可するミドルウェア
// AuthMiddlewareの後に使用することを想定（ctxに"user"が設定されている必要がある）
func RoleBasedAccessControl(allowedRoles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, exists := ctx.Get(constants.ContextUserKey)
		if !exists {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		userModel, ok := user.(*models.User)
		if !ok {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// トークンのロールではなく、データベースから取得したroleを使用する
		// 大文字小文字を無視、空白をトリムして比較
		userRole := strings.TrimSpace(strings.ToLower(userModel.Role))
		for _, allowedRole := range allowedRoles {
			if userRole == strings.TrimSpace(strings.ToLower(allowedRole)) {
				ctx.Next()
				return
			}
		}

		logger.FromCtx(ctx.Request.Context()).Warn("access denied",
			"user_id", userModel.ID, "role", userModel.Role, "required", allowedRoles)
		ctx.AbortWithStatus(http.StatusForbidden)
	}
}
