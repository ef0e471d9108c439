package domain

import "time"

// DailyActual is one recorded sales quantity for one calendar day. Records
// are sparse: a missing day means "no detail recorded", not zero.
type DailyActual struct {
	Date time.Time `json:"date" db:"sales_date"`
	Qty  int       `json:"qty" db:"qty"`
}

// MonthTotal is the authoritative forecast total picked for one month,
// together with a human-readable derivation trace ("override", the benchmark
// blend, or the fallback used).
type MonthTotal struct {
	Value float64 `json:"value"`
	Trace string  `json:"trace"`
}

// DayValue is the resolved demand for one calendar day: the effective
// quantity plus how it was derived.
type DayValue struct {
	Date         time.Time  `json:"date"`
	Value        int        `json:"value"`
	Provenance   Provenance `json:"provenance"`
	MonthTotal   float64    `json:"month_total"`
	Weight       float64    `json:"weight"`
	TotalWeights float64    `json:"total_weights"`
}

// InboundBatch is one externally known in-transit purchase, due on Arrival.
// Overdue batches are treated by the simulation as arriving immediately.
type InboundBatch struct {
	Arrival time.Time `json:"arrival" db:"arrival_date"`
	Qty     int       `json:"qty" db:"qty"`
	Overdue bool      `json:"overdue" db:"overdue"`
}

// KPISnapshot is the current stock position supplied by collaborators. The
// engine reads it, never writes it.
type KPISnapshot struct {
	SKU            string         `json:"sku"`
	AsOf           time.Time      `json:"as_of"`
	OnHand         int            `json:"on_hand"`
	Backlog        int            `json:"backlog"`
	InTransitTotal int            `json:"in_transit_total"`
	Inbound        []InboundBatch `json:"inbound"`
}

// WindowTrace describes one aggregation window of the reorder calculation.
type WindowTrace struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Days   int    `json:"days"`
	Demand int    `json:"demand"`
}

// ReorderTrace is the per-term breakdown behind a ReorderAdvice, consumed by
// tooltips and the audit log.
type ReorderTrace struct {
	SafetyWindow WindowTrace `json:"safety_window"`
	LeadWindow   WindowTrace `json:"lead_window"`
	CycleWindow  WindowTrace `json:"cycle_window"`
	OnHand       int         `json:"on_hand"`
	InTransit    int         `json:"in_transit"`
	Backlog      int         `json:"backlog"`
	Triggered    bool        `json:"triggered"`
	RawGap       int         `json:"raw_gap"`
}

// ReorderAdvice is the headline result of the reorder point calculator.
type ReorderAdvice struct {
	SKU               string       `json:"sku,omitempty"`
	AsOf              time.Time    `json:"as_of"`
	SafetyStock       int          `json:"safety_stock"`
	ReorderPoint      int          `json:"reorder_point"`
	TargetCycleDemand int          `json:"target_cycle_demand"`
	RestockQty        int          `json:"restock_qty"`
	Trace             ReorderTrace `json:"trace"`
}

// DaySnapshot is one simulated day of the rolling projection.
type DaySnapshot struct {
	Date              time.Time  `json:"date"`
	Demand            int        `json:"demand"`
	Provenance        Provenance `json:"provenance"`
	Stock             int        `json:"stock"`
	Backlog           int        `json:"backlog"`
	Fulfilled         int        `json:"fulfilled"`
	SafetyStock       int        `json:"safety_stock"`
	ReorderPoint      int        `json:"reorder_point"`
	TargetCycleDemand int        `json:"target_cycle_demand"`
	InTransitTotal    int        `json:"in_transit_total"`
	InboundExternal   int        `json:"inbound_external"`
	InboundScheduled  int        `json:"inbound_scheduled"`
	RestockQty        int        `json:"restock_qty"`
	RestockIndex      int        `json:"restock_index,omitempty"`
}

// GridMonth is one month column of the demand grid: the selected monthly
// total with its trace plus the resolved per-day values.
type GridMonth struct {
	Month YearMonth  `json:"month"`
	Total MonthTotal `json:"total"`
	Days  []DayValue `json:"days,omitempty"`
}

// DemandGrid is the per-month/per-day demand view for display and export.
type DemandGrid struct {
	SKU    string      `json:"sku"`
	AsOf   time.Time   `json:"as_of"`
	Months []GridMonth `json:"months"`
}
