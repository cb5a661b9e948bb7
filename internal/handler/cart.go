package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopeasy/storefront-api/internal/dto"
	"github.com/shopeasy/storefront-api/internal/middleware"
	"github.com/shopeasy/storefront-api/internal/service"
)

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddToCartRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product ID is required"})
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID or quantity"})
		return
	}

	count, err := h.svc.Add(c.Request.Context(), middleware.GetUserID(c), productID, req.Quantity, req.Size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Not enough stock"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.CartMutationResponse{
		Success: true, Message: "Added to cart!", CartCount: count,
	})
}

func (h *CartHandler) Update(c *gin.Context) {
	var req dto.UpdateCartRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Item ID is required"})
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item ID"})
		return
	}

	total, count, err := h.svc.Update(c.Request.Context(), middleware.GetUserID(c), itemID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.CartMutationResponse{Success: true, Total: &total, CartCount: count})
}

func (h *CartHandler) Remove(c *gin.Context) {
	var req dto.RemoveCartRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Item ID is required"})
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item ID"})
		return
	}

	total, count, err := h.svc.Remove(c.Request.Context(), middleware.GetUserID(c), itemID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.CartMutationResponse{Success: true, Total: &total, CartCount: count})
}

// Count reports the badge count; anonymous callers get 0.
func (h *CartHandler) Count(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusOK, dto.CartCountResponse{Count: 0})
		return
	}

	count, err := h.svc.Count(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.CartCountResponse{Count: count})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	items, total, err := h.svc.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		return
	}

	resp := dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(items)), Total: total}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ID:       item.ID,
			Product:  toProductResponse(item.Product),
			Quantity: item.Quantity,
			Size:     item.Size,
			Subtotal: item.Product.Price.Mul(decimalFromInt(item.Quantity)),
		})
	}
	c.JSON(http.StatusOK, resp)
}
