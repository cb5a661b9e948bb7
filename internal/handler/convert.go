package handler

import (
	"github.com/shopspring/decimal"

	"github.com/shopeasy/storefront-api/internal/dto"
	"github.com/shopeasy/storefront-api/internal/model"
)

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

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			Quantity:     item.Quantity,
			Price:        item.Price,
			Size:         item.Size,
		})
	}
	return dto.OrderResponse{
		ID:          order.ID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		PaymentID:   order.PaymentID,
		FullName:    order.FullName,
		Address:     order.Address,
		City:        order.City,
		State:       order.State,
		Zipcode:     order.Zipcode,
		Phone:       order.Phone,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	}
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
