package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/shopeasy/storefront-api/internal/dto"
	"github.com/shopeasy/storefront-api/internal/model"
	"github.com/shopeasy/storefront-api/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrProductHasOrders is returned under the "block" delete policy
	// when the product appears in historical orders.
	ErrProductHasOrders = errors.New("product has existing orders")
)

const (
	productCacheTTL = 60 * time.Second

	DeletePolicyBlock = "block"
	DeletePolicyAllow = "allow"
)

type ProductService struct {
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	redisClient  *redis.Client
	deletePolicy string
}

func NewProductService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, redisClient *redis.Client, deletePolicy string) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		redisClient:  redisClient,
		deletePolicy: deletePolicy,
	}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Highlights:    req.Highlights,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Image:         req.Image,
		Category:      req.Category,
		Stock:         req.Stock,
		Featured:      req.Featured,
		Sizes:         req.Sizes,
	}
	if product.Image == "" {
		product.Image = "default.jpg"
	}
	if product.Category == "" {
		product.Category = "General"
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	cacheKey := "product:" + id.String()

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := toProductResponse(product)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return &resp, nil
}

func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.List(ctx, repository.ProductFilter{
		Category: req.Category,
		Search:   req.Search,
		Featured: req.Featured,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return items, nil
}

func (s *ProductService) Related(ctx context.Context, id uuid.UUID) ([]dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	related, err := s.productRepo.Related(ctx, product.Category, id, 4)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(related))
	for i := range related {
		items = append(items, toProductResponse(&related[i]))
	}
	return items, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Highlights != nil {
		product.Highlights = *req.Highlights
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = req.OriginalPrice
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.Sizes != nil {
		product.Sizes = *req.Sizes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, id)
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deletePolicy == DeletePolicyBlock {
		has, err := s.orderRepo.HasItemsForProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("check orders for product: %w", err)
		}
		if has {
			return ErrProductHasOrders
		}
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "product:"+id.String())
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Highlights:      p.HighlightsList(),
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		DiscountPercent: p.DiscountPercent(),
		Image:           p.Image,
		Category:        p.Category,
		Stock:           p.Stock,
		Featured:        p.Featured,
		Sizes:           p.SizesList(),
		CreatedAt:       p.CreatedAt,
	}
}
