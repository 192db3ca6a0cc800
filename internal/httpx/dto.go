package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"order-gateway/internal/gateway"
	"order-gateway/internal/inventory"
	"order-gateway/internal/orders"
)

type addressDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type customerDTO struct {
	CustomerID      string     `json:"customer_id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	ShippingAddress addressDTO `json:"shipping_address"`
	BillingAddress  addressDTO `json:"billing_address"`
}

type itemDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type createOrderRequest struct {
	Customer customerDTO `json:"customer"`
	Items    []itemDTO   `json:"items"`
	Notes    string      `json:"notes"`
	Priority bool        `json:"priority"`
}

func (req createOrderRequest) toDraft() orders.Draft {
	items := make([]orders.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, orders.LineItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.TotalPrice,
		})
	}

	return orders.Draft{
		Customer: orders.Customer{
			ID:              req.Customer.CustomerID,
			Name:            req.Customer.Name,
			Email:           req.Customer.Email,
			ShippingAddress: toAddress(req.Customer.ShippingAddress),
			BillingAddress:  toAddress(req.Customer.BillingAddress),
		},
		Items:    items,
		Notes:    req.Notes,
		Priority: req.Priority,
	}
}

func toAddress(a addressDTO) orders.Address {
	return orders.Address{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type reservationLineDTO struct {
	ProductID         string `json:"product_id"`
	RequestedQuantity int    `json:"requested_quantity"`
	ReservedQuantity  int    `json:"reserved_quantity"`
	Status            string `json:"status"`
	Message           string `json:"message"`
}

type createOrderResponse struct {
	Success               bool                 `json:"success"`
	OrderID               string               `json:"order_id,omitempty"`
	Status                string               `json:"status,omitempty"`
	TotalAmount           string               `json:"total_amount,omitempty"`
	CreatedAt             *time.Time           `json:"created_at,omitempty"`
	EstimatedDeliveryDate string               `json:"estimated_delivery_date,omitempty"`
	ReservationID         string               `json:"reservation_id,omitempty"`
	InventoryReserved     bool                 `json:"inventory_reserved"`
	Inventory             []reservationLineDTO `json:"inventory,omitempty"`
	Message               string               `json:"message,omitempty"`
	ErrorCode             string               `json:"error_code,omitempty"`
}

func toCreateOrderResponse(out gateway.Outcome) createOrderResponse {
	resp := createOrderResponse{
		Success:           out.Success,
		ReservationID:     out.ReservationID,
		InventoryReserved: out.InventoryReserved,
		Message:           out.Message,
		ErrorCode:         out.Code,
		Inventory:         toReservationLines(out.Lines),
	}

	if out.Order != nil {
		created := out.Order.CreatedAt
		resp.OrderID = out.Order.ID
		resp.Status = string(out.Order.Status)
		resp.TotalAmount = out.Order.TotalAmount.String()
		resp.CreatedAt = &created
		resp.EstimatedDeliveryDate = out.Order.EstimatedDelivery.Format("2006-01-02")
	}

	return resp
}

func toReservationLines(lines []inventory.LineResult) []reservationLineDTO {
	if len(lines) == 0 {
		return nil
	}

	out := make([]reservationLineDTO, 0, len(lines))
	for _, ln := range lines {
		out = append(out, reservationLineDTO{
			ProductID:         ln.ProductID,
			RequestedQuantity: ln.Requested,
			ReservedQuantity:  ln.Reserved,
			Status:            string(ln.Status),
			Message:           ln.Message,
		})
	}
	return out
}

type orderDetailResponse struct {
	OrderID     string     `json:"order_id"`
	CustomerID  string     `json:"customer_id"`
	Status      string     `json:"status"`
	TotalAmount string     `json:"total_amount"`
	Priority    bool       `json:"priority"`
	Notes       string     `json:"notes,omitempty"`
	Items       []itemDTO  `json:"items"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toOrderDetail(o *orders.Order) orderDetailResponse {
	items := make([]itemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.Total(),
		})
	}

	updated := o.UpdatedAt
	return orderDetailResponse{
		OrderID:     o.ID,
		CustomerID:  o.Customer.ID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.String(),
		Priority:    o.Priority,
		Notes:       o.Notes,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   &updated,
	}
}

type stockDTO struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Available     int    `json:"available_quantity"`
	Reserved      int    `json:"reserved_quantity"`
	FreeToReserve int    `json:"free_to_reserve"`
	Warehouse     string `json:"warehouse_location"`
	UnitPrice     string `json:"unit_price"`
}

func toStockDTOs(recs []inventory.Record) []stockDTO {
	out := make([]stockDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, stockDTO{
			ProductID:     rec.ProductID,
			ProductName:   rec.ProductName,
			Available:     rec.Available,
			Reserved:      rec.Reserved,
			FreeToReserve: rec.FreeToReserve(),
			Warehouse:     rec.Warehouse,
			UnitPrice:     rec.UnitPrice.String(),
		})
	}
	return out
}
