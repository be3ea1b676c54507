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
	"github.com/shopspring/decimal"
)

type ICheckoutController interface {
	CartPage(ctx *gin.Context)
	PaymentPage(ctx *gin.Context)
	CreateCheckoutSession(ctx *gin.Context)
	ThankYou(ctx *gin.Context)
	ProcessPayment(ctx *gin.Context)
}

type CheckoutController struct {
	service   services.ICheckoutService
	publicKey string
}

func NewCheckoutController(service services.ICheckoutService, publicKey string) ICheckoutController {
	return &CheckoutController{service: service, publicKey: publicKey}
}

type pageData struct {
	Title     string
	Flash     *Flash
	Lines     []models.CartLine
	Total     decimal.Decimal
	PublicKey string
	Form      dto.PaymentForm
	Error     string
	Receipt   *services.Receipt
}

func (c *CheckoutController) CartPage(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	summary, err := c.service.Summary(ctx.Request.Context(), user.ID)
	if err != nil {
		logger.FromCtx(ctx.Request.Context()).Error("load cart failed", "error", err)
		ctx.String(http.StatusInternalServerError, constants.ErrUnexpected)
		return
	}
	ctx.HTML(http.StatusOK, "cart.html", pageData{
		Title: "Cart",
		Flash: popFlash(ctx),
		Lines: summary.Lines,
		Total: summary.Total,
	})
}

func (c *CheckoutController) PaymentPage(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	summary, err := c.service.Summary(ctx.Request.Context(), user.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	if len(summary.Lines) == 0 {
		c.redirectToCart(ctx, "error", constants.ErrEmptyCart)
		return
	}
	ctx.HTML(http.StatusOK, "payment.html", pageData{
		Title:     "Checkout",
		Flash:     popFlash(ctx),
		Lines:     summary.Lines,
		Total:     summary.Total,
		PublicKey: c.publicKey,
		Form:      dto.PaymentForm{Email: user.Email},
	})
}

func (c *CheckoutController) CreateCheckoutSession(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	url, err := c.service.StartCheckout(ctx.Request.Context(), user)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.Redirect(http.StatusSeeOther, url)
}

func (c *CheckoutController) ThankYou(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	receipt, err := c.service.CompleteCheckout(ctx.Request.Context(), user, ctx.Query("session_id"))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "thank_you.html", pageData{Title: "Thank you", Receipt: receipt})
}

func (c *CheckoutController) ProcessPayment(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var form dto.PaymentForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.String(http.StatusBadRequest, constants.ErrInvalidInput)
		return
	}

	receipt, err := c.service.ProcessPayment(ctx.Request.Context(), user, form)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			c.rerenderPayment(ctx, user, form, services.Message(err))
			return
		}
		c.fail(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "thank_you.html", pageData{Title: "Thank you", Receipt: receipt})
}

// rerenderPayment shows the card form again with the previous input. The CVV
// is never echoed back.
func (c *CheckoutController) rerenderPayment(ctx *gin.Context, user *models.User, form dto.PaymentForm, message string) {
	form.CVV = ""
	data := pageData{
		Title:     "Checkout",
		PublicKey: c.publicKey,
		Form:      form,
		Error:     message,
	}
	if summary, err := c.service.Summary(ctx.Request.Context(), user.ID); err == nil {
		data.Lines = summary.Lines
		data.Total = summary.Total
	}
	ctx.HTML(http.StatusBadRequest, "payment.html", data)
}

// fail turns a checkout error into a flash banner on the cart page.
func (c *CheckoutController) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		c.redirectToCart(ctx, "error", constants.ErrEmptyCart)
	case errors.Is(err, services.ErrProviderAuth):
		logger.FromCtx(ctx.Request.Context()).Error("payment provider rejected credentials")
		c.redirectToCart(ctx, "error", constants.ErrProviderAuth)
	case errors.Is(err, services.ErrPaymentNotVerified):
		c.redirectToCart(ctx, "error", constants.ErrPaymentNotVerified)
	default:
		logger.FromCtx(ctx.Request.Context()).Error("checkout failed", "error", err)
		c.redirectToCart(ctx, "error", constants.ErrUnexpected)
	}
}

func (c *CheckoutController) redirectToCart(ctx *gin.Context, kind, message string) {
	setFlash(ctx, kind, message)
	ctx.Redirect(http.StatusSeeOther, "/cart")
}
