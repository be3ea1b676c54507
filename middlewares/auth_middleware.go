package middlewares

import (
	"net/http"
	"strings"

	"gin-bytemarket/constants"
	"gin-bytemarket/services"

	"github.com/gin-gonic/gin"
)

// TokenFromRequest Authorizationヘッダーのトークンを返す
// ヘッダーがない場合はaccess_tokenクッキーを使用する（HTMLページ用）
func TokenFromRequest(ctx *gin.Context) string {
	if header := ctx.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := ctx.Cookie(constants.AccessCookieName); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware 認証されていないリクエストは401で拒否する
func AuthMiddleware(authService services.IAuthService) gin.HandlerFunc {
	return authenticate(authService, func(ctx *gin.Context) {
		ctx.AbortWithStatus(http.StatusUnauthorized)
	})
}

// PageAuthMiddleware HTMLページ用のAuthMiddleware
// 未ログインの場合は401ではなくトップページへリダイレクトする
func PageAuthMiddleware(authService services.IAuthService) gin.HandlerFunc {
	return authenticate(authService, func(ctx *gin.Context) {
		ctx.Redirect(http.StatusSeeOther, "/")
		ctx.Abort()
	})
}

func authenticate(authService services.IAuthService, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := TokenFromRequest(ctx)
		if token == "" {
			reject(ctx)
			return
		}

		user, err := authService.GetUserFromToken(ctx.Request.Context(), token)
		if err != nil {
			reject(ctx)
			return
		}

		// 後続のハンドラーはctxの"user"からログインユーザーを取得する
		ctx.Set(constants.ContextUserKey, user)
		ctx.Next()
	}
}
