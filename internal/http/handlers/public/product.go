package public

import (
	"strconv"
	"strings"

	"github.com/storefront-api/internal/http/response"
	"github.com/storefront-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表（按名称排序，无需登录）
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	category := strings.TrimSpace(c.Query("category"))
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.ProductService.List(service.ProductListInput{
		Page:     page,
		PageSize: pageSize,
		Category: category,
		Search:   search,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetProduct 根据唯一标识获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	product, err := h.ProductService.GetBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
		}, response.CodeInternal, "failed to load product")
		return
	}

	response.Success(c, product)
}
