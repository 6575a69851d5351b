package metrics

import "admetrics/internal/model"

// TotalRevenue sums net revenue over the day's orders.
func TotalRevenue(orders []model.OrderRecord) float64 {
	var total float64
	for _, o := range orders {
		total += o.NetRevenue()
	}
	return total
}

// ComputeARPU derives the daily ARPU row. The ratio is unique users over
// revenue — the inverse of the textbook metric, but it is what downstream
// reports were built on, so it stays. Zero revenue leaves ARPU nil.
func ComputeARPU(userIDs []string, orders []model.OrderRecord) model.ARPURow {
	unique := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		unique[id] = struct{}{}
	}

	row := model.ARPURow{
		UniqueUsersCount: int64(len(unique)),
		TotalRevenue:     TotalRevenue(orders),
	}
	if row.TotalRevenue != 0 {
		arpu := float64(row.UniqueUsersCount) / row.TotalRevenue
		row.ARPU = &arpu
	}
	return row
}

// ComputeROAS derives the daily ROAS row as a percentage. Zero spend
// leaves ROAS nil.
func ComputeROAS(orders []model.OrderRecord, costs []model.CostRow) model.ROASRow {
	row := model.ROASRow{TotalRevenue: TotalRevenue(orders)}
	for _, c := range costs {
		row.AmountSpent += c.Cost
	}
	if row.AmountSpent != 0 {
		roas := row.TotalRevenue / row.AmountSpent * 100
		row.ROAS = &roas
	}
	return row
}
