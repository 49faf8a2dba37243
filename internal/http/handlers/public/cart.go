package public

import (
	"github.com/storefront-api/internal/http/response"
	"github.com/storefront-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车增减请求
type CartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

// CartItemResult 购物车增减结果
type CartItemResult struct {
	Message   string `json:"message"`
	CartItems int    `json:"cart_items"`
}

// GetCart 获取购物车汇总（匿名返回全零占位）
func (h *Handler) GetCart(c *gin.Context) {
	uid := optionalUserID(c)

	summary, err := h.CartService.Summary(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load cart", err)
		return
	}

	response.Success(c, summary)
}

// UpdateCartItem 增减购物车内单个商品的数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	cartItems, err := h.CartService.UpdateItem(service.UpdateCartItemInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Action:    req.Action,
	})
	if err != nil {
		respondCartUpdateError(c, err)
		return
	}

	response.Success(c, CartItemResult{
		Message:   "Item was updated",
		CartItems: cartItems,
	})
}
