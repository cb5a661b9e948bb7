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

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name and address are required"})
		return
	}

	order, err := h.svc.Checkout(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Your cart is empty"})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Not enough stock"})
		case errors.Is(err, service.ErrCartConflict):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Your cart changed, please try again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		Success: true,
		Message: "Order placed successfully!",
		OrderID: order.ID,
	})
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.svc.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		return
	}

	resp := dto.OrderListResponse{Orders: make([]dto.OrderResponse, 0, len(orders)), Total: len(orders)}
	for i := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order ID"})
		return
	}

	order, err := h.svc.GetByID(c.Request.Context(), orderID, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		case errors.Is(err, service.ErrOrderAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}
