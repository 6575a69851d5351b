package metrics

import (
	"math"
	"testing"

	"admetrics/internal/model"
)

func TestTotalRevenue(t *testing.T) {
	orders := []model.OrderRecord{
		{ItemPrice: 100, DiscountAmount: 10, Tax: 5, Fee: 5}, // 80
		{ItemPrice: 50},                                      // 50
	}
	if got := TotalRevenue(orders); math.Abs(got-130) > 1e-9 {
		t.Fatalf("TotalRevenue = %v, want 130", got)
	}
}

func TestComputeARPU(t *testing.T) {
	userIDs := []string{"u1", "u2", "u2", "u1"} // 2 unique
	orders := []model.OrderRecord{{ItemPrice: 100, DiscountAmount: 10, Tax: 5, Fee: 5}}

	row := ComputeARPU(userIDs, orders)
	if row.UniqueUsersCount != 2 {
		t.Errorf("UniqueUsersCount = %d, want 2", row.UniqueUsersCount)
	}
	if math.Abs(row.TotalRevenue-80) > 1e-9 {
		t.Errorf("TotalRevenue = %v, want 80", row.TotalRevenue)
	}
	if row.ARPU == nil {
		t.Fatal("ARPU is nil, want 0.025")
	}
	// Users over revenue: 2 / 80.
	if math.Abs(*row.ARPU-0.025) > 1e-9 {
		t.Errorf("ARPU = %v, want 0.025", *row.ARPU)
	}
}

func TestComputeARPU_ZeroRevenue(t *testing.T) {
	row := ComputeARPU([]string{"u1"}, nil)
	if row.ARPU != nil {
		t.Fatalf("ARPU = %v, want nil on zero revenue", *row.ARPU)
	}
	if row.UniqueUsersCount != 1 {
		t.Errorf("UniqueUsersCount = %d, want 1", row.UniqueUsersCount)
	}
}

func TestComputeROAS(t *testing.T) {
	orders := []model.OrderRecord{{ItemPrice: 100, DiscountAmount: 10, Tax: 5, Fee: 5}}
	costs := []model.CostRow{{Cost: 30}, {Cost: 20}}

	row := ComputeROAS(orders, costs)
	if math.Abs(row.TotalRevenue-80) > 1e-9 {
		t.Errorf("TotalRevenue = %v, want 80", row.TotalRevenue)
	}
	if math.Abs(row.AmountSpent-50) > 1e-9 {
		t.Errorf("AmountSpent = %v, want 50", row.AmountSpent)
	}
	if row.ROAS == nil {
		t.Fatal("ROAS is nil, want 160")
	}
	if math.Abs(*row.ROAS-160) > 1e-9 {
		t.Errorf("ROAS = %v, want 160", *row.ROAS)
	}
}

func TestComputeROAS_ZeroSpend(t *testing.T) {
	row := ComputeROAS([]model.OrderRecord{{ItemPrice: 10}}, nil)
	if row.ROAS != nil {
		t.Fatalf("ROAS = %v, want nil on zero spend", *row.ROAS)
	}
}
