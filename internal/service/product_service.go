package service

import (
	"strings"

	"github.com/storefront-api/internal/config"
	"github.com/storefront-api/internal/models"
	"github.com/storefront-api/internal/repository"
)

// ProductService 商品服务
type ProductService struct {
	cfg         *config.Config
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(cfg *config.Config, productRepo repository.ProductRepository) *ProductService {
	return &ProductService{
		cfg:         cfg,
		productRepo: productRepo,
	}
}

// ProductListInput 商品列表查询输入
type ProductListInput struct {
	Page     int
	PageSize int
	Category string
	Search   string
}

// List 商品列表（按名称排序，对外公开）
func (s *ProductService) List(input ProductListInput) ([]models.Product, int64, error) {
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.Catalog.PageSize
	}
	if max := s.cfg.Catalog.MaxPageSize; max > 0 && pageSize > max {
		pageSize = max
	}
	return s.productRepo.List(repository.ProductListFilter{
		Page:     input.Page,
		PageSize: pageSize,
		Category: strings.TrimSpace(input.Category),
		Search:   strings.TrimSpace(input.Search),
	})
}

// GetBySlug 根据唯一标识获取商品
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetBySlug(trimmed)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}
