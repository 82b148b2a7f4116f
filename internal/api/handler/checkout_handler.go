package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studahub/backend/internal/api/middleware"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/service"
	"github.com/studahub/backend/pkg/response"
)

type checkoutRequest struct {
	PaymentMethod string                 `json:"payment_method" binding:"required,paymentmethod"`
	Items         []service.CheckoutItem `json:"items" binding:"required,min=1,dive"`
	CardToken     string                 `json:"card_token"`
}

// Checkout godoc
// @Summary      Create an order and a payment charge
// @Description  Prices come from the catalog; the request only names products.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body  checkoutRequest  true  "cart"
// @Success      201  {object}  response.Response
// @Security     BearerAuth
// @Router       /api/v1/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.checkout.Checkout(c.Request.Context(), service.CheckoutInput{
		UserID:        middleware.UserID(c),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Items:         req.Items,
		CardToken:     req.CardToken,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, res)
}

func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.checkout.GetOrder(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, o)
}

func (h *Handler) MyOrders(c *gin.Context) {
	page, size := pagination(c)
	orders, err := h.checkout.ListOrders(c.Request.Context(), middleware.UserID(c), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, orders)
}
