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

type IProductController interface {
	Home(ctx *gin.Context)
	FindAll(ctx *gin.Context)
	FindByID(ctx *gin.Context)
	Search(ctx *gin.Context)
	Create(ctx *gin.Context)
}

type ProductController struct {
	service services.IProductService
}

func NewProductController(service services.IProductService) IProductController {
	return &ProductController{service: service}
}

func toProductOutput(p models.Product) dto.ProductOutput {
	return dto.ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		ImageURL:    p.ImageURL,
		Category:    p.Category,
	}
}

func toProductOutputs(products []models.Product) []dto.ProductOutput {
	out := make([]dto.ProductOutput, 0, len(products))
	for _, p := range products {
		out = append(out, toProductOutput(p))
	}
	return out
}

// Home renders the storefront with the newest products.
func (c *ProductController) Home(ctx *gin.Context) {
	products, err := c.service.FindAll(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		logger.FromCtx(ctx.Request.Context()).Error("list products failed", "error", err)
		ctx.String(http.StatusInternalServerError, constants.ErrUnexpected)
		return
	}
	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"Title":    "Home",
		"Products": toProductOutputs(products),
	})
}

func (c *ProductController) FindAll(ctx *gin.Context) {
	products, err := c.service.FindAll(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		logger.FromCtx(ctx.Request.Context()).Error("list products failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": constants.ErrUnexpected})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "results": toProductOutputs(products)})
}

func (c *ProductController) FindByID(ctx *gin.Context) {
	productID, ok := parseID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": constants.ErrInvalidID})
		return
	}

	product, err := c.service.FindByID(ctx.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": constants.ErrProductNotFound})
			return
		}
		logger.FromCtx(ctx.Request.Context()).Error("get product failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": constants.ErrUnexpected})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "product": toProductOutput(*product)})
}

func (c *ProductController) Search(ctx *gin.Context) {
	products, err := c.service.Search(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": constants.ErrEmptyQuery})
			return
		}
		logger.FromCtx(ctx.Request.Context()).Error("search failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": constants.ErrUnexpected})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "results": toProductOutputs(products)})
}

func (c *ProductController) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.CreateProductInput
	if err := ctx.ShouldBind(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": constants.ErrInvalidInput})
		return
	}

	product, err := c.service.Create(ctx.Request.Context(), input, user.ID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": services.Message(err)})
			return
		}
		logger.FromCtx(ctx.Request.Context()).Error("create product failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": constants.ErrUnexpected})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "product": toProductOutput(*product)})
}
