package domain

// BenchmarkType selects how calculated monthly forecast totals are derived
// from prior actual months.
type BenchmarkType string

const (
	BenchmarkYearOverYear   BenchmarkType = "yoy"
	BenchmarkMonthOverMonth BenchmarkType = "mom"
)

// BenchmarkConfig holds the blend sliders for the calculated monthly total.
type BenchmarkConfig struct {
	Type BenchmarkType `json:"type"`

	// Year-over-year: up to three prior years of the same calendar month,
	// weighted by cumulative percentage split points. One year uses weight
	// 1.0, two years split at Split1, three years split at Split1 and Split2.
	YoYYears  int     `json:"yoy_years"`
	YoYSplit1 float64 `json:"yoy_split1"`
	YoYSplit2 float64 `json:"yoy_split2"`

	// Month-over-month: a trailing window of N months counted backward from
	// the real today, cut into recent/mid/far slices by two percentage cut
	// points over N. Each non-empty slice is averaged and weighted.
	MoMWindowMonths int     `json:"mom_window_months"`
	MoMCut1Pct      float64 `json:"mom_cut1_pct"`
	MoMCut2Pct      float64 `json:"mom_cut2_pct"`
	MoMRecentWeight float64 `json:"mom_recent_weight"`
	MoMMidWeight    float64 `json:"mom_mid_weight"`
	MoMFarWeight    float64 `json:"mom_far_weight"`
}

// PolicyParams are the replenishment policy knobs for one SKU. All horizons
// are calendar months except lead time, which is days.
type PolicyParams struct {
	SafetyStockMonths int     `json:"safety_stock_months"`
	CycleMonths       int     `json:"cycle_months"`
	LeadTimeDays      int     `json:"lead_time_days"`
	MinOrderQty       int     `json:"min_order_qty"`
	OrderUnit         int     `json:"order_unit"`
	RatioAdjustPct    float64 `json:"ratio_adjust_pct"`

	Benchmark BenchmarkConfig `json:"benchmark"`
}

// Normalized returns a copy with out-of-range values coerced to safe
// defaults. Bad configuration degrades to zero-effect values rather than
// erroring, since the engine only derives numbers.
func (p PolicyParams) Normalized() PolicyParams {
	if p.SafetyStockMonths < 0 {
		p.SafetyStockMonths = 0
	}
	if p.CycleMonths < 0 {
		p.CycleMonths = 0
	}
	if p.LeadTimeDays < 0 {
		p.LeadTimeDays = 0
	}
	if p.MinOrderQty < 0 {
		p.MinOrderQty = 0
	}
	if p.OrderUnit < 1 {
		p.OrderUnit = 1
	}
	if p.Benchmark.YoYYears < 1 {
		p.Benchmark.YoYYears = 1
	}
	if p.Benchmark.YoYYears > 3 {
		p.Benchmark.YoYYears = 3
	}
	if p.Benchmark.MoMWindowMonths < 0 {
		p.Benchmark.MoMWindowMonths = 0
	}
	return p
}

// SupplierTier is one price/lead-time tier of the SKU's supplier. Which tier
// is selected is decided upstream; the engine only reads the flag.
type SupplierTier struct {
	ID           int64   `json:"id" db:"id"`
	SupplierName string  `json:"supplier_name" db:"supplier_name"`
	MinQty       int     `json:"min_qty" db:"min_qty"`
	UnitPrice    float64 `json:"unit_price" db:"unit_price"`
	LeadTimeDays int     `json:"lead_time_days" db:"lead_time_days"`
	IsSelected   bool    `json:"is_selected" db:"is_selected"`
}

// LeadTimeFromTiers resolves the lead time for calculations: the selected
// tier's lead time when one exists, otherwise the flat default.
func LeadTimeFromTiers(tiers []SupplierTier, defaultDays int) int {
	for _, tier := range tiers {
		if tier.IsSelected && tier.LeadTimeDays > 0 {
			return tier.LeadTimeDays
		}
	}
	if defaultDays < 0 {
		return 0
	}
	return defaultDays
}
