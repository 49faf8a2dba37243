package public

import (
	"strconv"

	"github.com/storefront-api/internal/http/response"
	"github.com/storefront-api/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
// Quantity 不做 required 校验，显式 0 与负数表示移除该订单项
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateOrderRequest 更新订单请求（整单替换订单项）
type UpdateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required"`
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return 0, false
	}
	return uint(id), true
}

// ListOrders 当前调用方的订单列表（匿名返回空集）
func (h *Handler) ListOrders(c *gin.Context) {
	uid := optionalUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// ListOrderHistory 当前调用方的已结算订单
func (h *Handler) ListOrderHistory(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.HistoryByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load order history", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// CreateOrder 获取或创建当前调用方的未结算订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.CreateForUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to create order", err)
		return
	}

	response.Success(c, order)
}

// GetOrder 获取单个订单，仅限归属方
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetByIDForUser(orderID, uid)
	if err != nil {
		respondOrderAccessError(c, err)
		return
	}

	response.Success(c, order)
}

// UpdateOrder 整单替换未结算订单的订单项
func (h *Handler) UpdateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	lines := make([]service.OrderLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.OrderService.ReplaceItemsForUser(orderID, uid, lines)
	if err != nil {
		respondOrderUpdateError(c, err)
		return
	}

	response.Success(c, order)
}

// DeleteOrder 删除订单及其订单项与收货地址
func (h *Handler) DeleteOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	if err := h.OrderService.DeleteForUser(orderID, uid); err != nil {
		respondOrderAccessError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
