package public

import (
	"github.com/storefront-api/internal/http/response"
	"github.com/storefront-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	Shipping service.ShippingInput `json:"shipping" binding:"required"`
}

// CheckoutResult 结算结果
type CheckoutResult struct {
	OrderID       uint   `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// ProcessOrder 结算当前购物车：置为已完成并写入收货地址
func (h *Handler) ProcessOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.CheckoutService.CompleteOrder(uid, req.Shipping)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	response.Success(c, CheckoutResult{
		OrderID:       order.ID,
		TransactionID: order.TransactionID,
		Message:       "Payment submitted..",
	})
}
