package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/pkg/response"
)

// AdminStats godoc
// @Summary      Dashboard snapshot for the admin panel
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response
// @Security     BearerAuth
// @Router       /api/v1/admin/stats [get]
func (h *Handler) AdminStats(c *gin.Context) {
	st, err := h.stats.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, st)
}

func (h *Handler) AdminListOrders(c *gin.Context) {
	page, size := pagination(c)
	status := model.OrderStatus(c.Query("status"))
	orders, err := h.checkout.ListAllOrders(c.Request.Context(), status, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, orders)
}
