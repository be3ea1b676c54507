package controllers

import (
	"errors"
	"net/http"

	"gin-bytemarket/constants"
	"gin-bytemarket/dto"
	"gin-bytemarket/logger"
	"gin-bytemarket/models"
	"gin-bytemarket/services"

	"github.com/gin-gonic/gin"
)

type ICartController interface {
	Add(ctx *gin.Context)
	List(ctx *gin.Context)
	Update(ctx *gin.Context)
	Remove(ctx *gin.Context)
}

type CartController struct {
	service services.ICartService
}

func NewCartController(service services.ICartService) ICartController {
	return &CartController{service: service}
}

func toCartLineOutputs(lines []models.CartLine) []dto.CartLineOutput {
	out := make([]dto.CartLineOutput, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.CartLineOutput{
			ID:        l.ID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price.InexactFloat64(),
			Quantity:  l.Quantity,
			Total:     l.Total().InexactFloat64(),
			ImageURL:  l.ImageURL,
		})
	}
	return out
}

// cartError writes the {success:false, message} body for a cart service error.
func cartError(ctx *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": services.Message(err)})
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFoundMessage})
	default:
		logger.FromCtx(ctx.Request.Context()).Error("cart operation failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": constants.ErrUnexpected})
	}
}

func (c *CartController) Add(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.AddToCartInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": constants.ErrInvalidInput})
		return
	}
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	if _, err := c.service.AddItem(ctx.Request.Context(), user.ID, input.ProductID, quantity); err != nil {
		cartError(ctx, err, constants.ErrProductNotFound)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Item added to cart"})
}

func (c *CartController) List(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	lines, err := c.service.ListItems(ctx.Request.Context(), user.ID)
	if err != nil {
		cartError(ctx, err, constants.ErrCartItemNotFound)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   toCartLineOutputs(lines),
		"total":   models.CartTotal(lines).InexactFloat64(),
	})
}

func (c *CartController) Update(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	itemID, ok := parseID(ctx, "itemId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": constants.ErrInvalidID})
		return
	}

	var input dto.UpdateCartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": constants.ErrInvalidQuantity})
		return
	}

	if _, err := c.service.UpdateQuantity(ctx.Request.Context(), user.ID, itemID, *input.Quantity); err != nil {
		cartError(ctx, err, constants.ErrCartItemNotFound)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated"})
}

func (c *CartController) Remove(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	itemID, ok := parseID(ctx, "itemId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": constants.ErrInvalidID})
		return
	}

	if err := c.service.RemoveItem(ctx.Request.Context(), user.ID, itemID); err != nil {
		cartError(ctx, err, constants.ErrCartItemNotFound)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart"})
}
