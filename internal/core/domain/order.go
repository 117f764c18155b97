package domain

import "time"

// OrderStatus is the lifecycle state of an order. Only the default is ever
// assigned here; later transitions belong to payment and fulfilment.
type OrderStatus string

const (
	OrderStatusWaitingPayment OrderStatus = "WAITING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCanceled       OrderStatus = "CANCELED"
)

// DefaultOrderStatus is assigned to every new order.
const DefaultOrderStatus = OrderStatusWaitingPayment

// ClientSummary is the owner as shown on an order.
type ClientSummary struct {
	ID   int64
	Name string
}

// OrderItem is a line of an order. UnitPrice is the price quoted in the
// request at assembly time; Name and ImageURL are copied from the product.
type OrderItem struct {
	OrderID   int64
	ProductID int64
	Name      string
	ImageURL  string
	Quantity  int
	UnitPrice float64
}

func (i OrderItem) SubTotal() float64 { return i.UnitPrice * float64(i.Quantity) }

// Order is the aggregate root. ClientID and Items are fixed once saved.
type Order struct {
	ID        int64
	CreatedAt time.Time
	Status    OrderStatus
	ClientID  int64
	Client    ClientSummary
	Items     []OrderItem
}

func (o *Order) Total() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.SubTotal()
	}
	return sum
}
