package controllers

import (
	"errors"
	"net/http"

	"gin-bytemarket/config"
	"gin-bytemarket/constants"
	"gin-bytemarket/dto"
	"gin-bytemarket/logger"
	"gin-bytemarket/middlewares"
	"gin-bytemarket/services"

	"github.com/gin-gonic/gin"
)

type IAuthController interface {
	Signup(ctx *gin.Context)
	Login(ctx *gin.Context)
	RefreshToken(ctx *gin.Context)
	Logout(ctx *gin.Context)
	Account(ctx *gin.Context)
	UpdateAccount(ctx *gin.Context)
}

type AuthController struct {
	service services.IAuthService
}

func NewAuthController(service services.IAuthService) IAuthController {
	return &AuthController{service: service}
}

func (c *AuthController) Signup(ctx *gin.Context) {
	var input dto.SignupInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := c.service.Signup(ctx.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateUser) {
			ctx.JSON(http.StatusConflict, gin.H{"error": constants.ErrDuplicateUser})
			return
		}
		logger.FromCtx(ctx.Request.Context()).Error("signup failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": user})
}

func (c *AuthController) Login(ctx *gin.Context) {
	var input dto.LoginInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenPair, err := c.service.Login(ctx.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": constants.ErrInvalidCredentials})
			return
		}
		logger.FromCtx(ctx.Request.Context()).Error("login failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}

	setAccessCookie(ctx, tokenPair.AccessToken, int(services.AccessTokenTTL.Seconds()))
	ctx.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	})
}

func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var input dto.RefreshTokenInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenPair, err := c.service.RefreshToken(ctx.Request.Context(), input.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) ||
			errors.Is(err, services.ErrTokenBlacklisted) ||
			errors.Is(err, services.ErrUserNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.FromCtx(ctx.Request.Context()).Error("token refresh failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}

	setAccessCookie(ctx, tokenPair.AccessToken, int(services.AccessTokenTTL.Seconds()))
	ctx.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	})
}

func (c *AuthController) Logout(ctx *gin.Context) {
	tokenString := middlewares.TokenFromRequest(ctx)
	if tokenString == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
		return
	}

	// リクエストボディは任意
	var input dto.LogoutInput
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&input); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := c.service.Logout(ctx.Request.Context(), tokenString, input.RefreshToken); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.FromCtx(ctx.Request.Context()).Error("logout failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	setAccessCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (c *AuthController) Account(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": user})
}

func (c *AuthController) UpdateAccount(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.UpdateProfileInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := c.service.UpdateProfile(ctx.Request.Context(), user.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateUser):
			ctx.JSON(http.StatusConflict, gin.H{"error": constants.ErrDuplicateUser})
		case errors.Is(err, services.ErrUserNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": constants.ErrUserNotFound})
		default:
			logger.FromCtx(ctx.Request.Context()).Error("profile update failed", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		}
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": updated})
}

func setAccessCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(constants.AccessCookieName, token, maxAge, "/", "", config.IsProd(), true)
}
