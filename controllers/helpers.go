package controllers

import (
	"net/http"
	"strconv"

	"gin-bytemarket/constants"
	"gin-bytemarket/models"

	"github.com/gin-gonic/gin"
)

// currentUser returns the user set by the auth middleware. It aborts with 401
// when there is none.
func currentUser(ctx *gin.Context) (*models.User, bool) {
	user, exists := ctx.Get(constants.ContextUserKey)
	if !exists {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return nil, false
	}
	u, ok := user.(*models.User)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return nil, false
	}
	return u, true
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
