package model

// CPIRow is the cost-per-install figure for one distinct value of an
// attribution dimension. Rows exist only for values observed among installs.
type CPIRow struct {
	Dimension        string
	Value            string
	InstallsCount    int64
	TotalAmountSpent float64
	CPI              float64
}

// ARPURow is the daily average-revenue-per-user figure. ARPU is nil when
// total revenue is zero (ratio undefined, stored as NULL).
type ARPURow struct {
	UniqueUsersCount int64
	TotalRevenue     float64
	ARPU             *float64
}

// ROASRow is the daily return-on-ad-spend figure, as a percentage. ROAS is
// nil when spend is zero.
type ROASRow struct {
	TotalRevenue float64
	AmountSpent  float64
	ROAS         *float64
}
