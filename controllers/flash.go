package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "flash"

// Flash is a one-shot banner carried across a redirect in a short lived cookie.
type Flash struct {
	Kind    string
	Message string
}

func setFlash(ctx *gin.Context, kind, message string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(flashCookieName, kind+"|"+message, 60, "/", "", false, true)
}

// popFlash reads and deletes the pending flash, if any.
func popFlash(ctx *gin.Context) *Flash {
	value, err := ctx.Cookie(flashCookieName)
	if err != nil || value == "" {
		return nil
	}
	ctx.SetCookie(flashCookieName, "", -1, "/", "", false, true)

	kind, message, ok := strings.Cut(value, "|")
	if !ok {
		return &Flash{Kind: "info", Message: value}
	}
	return &Flash{Kind: kind, Message: message}
}
