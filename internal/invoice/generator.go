package invoice

import (
	"fmt"
	"strings"

	"stockroom/internal/model"
)

// Key returns the storage key for an order's invoice artifact. The key is
// stable across regenerations so an edit overwrites the old artifact.
func Key(prefix string, order *model.Order) string {
	return fmt.Sprintf("%s%s.txt", prefix, order.Reference)
}

// Render produces the plain-text invoice for an order. Product names are
// looked up from the given index; unknown products fall back to their id.
func Render(order *model.Order, products map[int64]model.Product) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "INVOICE %s\n", order.Reference)
	fmt.Fprintf(&b, "Date: %s\n\n", order.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName)
	if order.CustomerPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", order.CustomerPhone)
	}
	if order.DeliveryAddress != "" {
		fmt.Fprintf(&b, "Deliver to: %s\n", order.DeliveryAddress)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%-30s %-8s %8s %10s %12s\n", "Item", "Mode", "Qty", "Unit", "Total")
	b.WriteString(strings.Repeat("-", 72) + "\n")

	for _, item := range order.Items {
		name := fmt.Sprintf("product #%d", item.ProductID)
		if p, ok := products[item.ProductID]; ok {
			name = p.Name
		}
		fmt.Fprintf(&b, "%-30s %-8s %8d %10s %12s\n",
			name, item.Mode, item.Quantity,
			item.UnitPrice.StringFixed(2), item.LineTotal.StringFixed(2))
	}

	b.WriteString(strings.Repeat("-", 72) + "\n")
	fmt.Fprintf(&b, "%58s %12s\n", "Subtotal:", order.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "%58s %12s\n", "Delivery:", order.DeliveryCharge.StringFixed(2))
	fmt.Fprintf(&b, "%58s %12s\n", "Total:", order.TotalAmount.StringFixed(2))

	return []byte(b.String())
}
