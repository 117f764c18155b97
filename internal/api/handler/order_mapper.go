package handler

import (
	"strconv"

	"github.com/99minutos/commerce-system/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createOrderRequest) ports.CreateOrderInput {
	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return ports.CreateOrderInput{Items: items}
}

// --- Service result → HTTP response ---

func toOrderResponse(v *ports.OrderView) orderResponse {
	items := make([]orderItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
			SubTotal:  it.SubTotal,
		})
	}
	return orderResponse{
		ID:        v.ID,
		CreatedAt: v.CreatedAt,
		Status:    v.Status,
		Client:    clientResponse{ID: v.Client.ID, Name: v.Client.Name},
		Items:     items,
		Total:     v.Total,
		Links:     orderLinks{Self: "/orders/" + strconv.FormatInt(v.ID, 10)},
	}
}
