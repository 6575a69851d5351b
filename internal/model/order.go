package model

// OrderRecord is one purchase from the orders dataset.
type OrderRecord struct {
	ItemPrice      float64
	DiscountAmount float64
	Tax            float64
	Fee            float64
}

// NetRevenue is the revenue contribution of this order.
func (o OrderRecord) NetRevenue() float64 {
	return o.ItemPrice - o.DiscountAmount - o.Tax - o.Fee
}
