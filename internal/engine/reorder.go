package engine

import (
	"time"

	"github.com/replenwise/replenish/internal/domain"
)

// StockPosition is the stock situation the reorder decision is made against.
type StockPosition struct {
	OnHand    int
	InTransit int
	Backlog   int
}

// EvaluateReorder derives safety stock, reorder point, the target
// replenishment-cycle demand and a recommended restock quantity, all
// anchored at the given day.
//
// Three windows drive the numbers:
//
//	safety window  [today, today+safetyStockMonths)
//	lead window    [safety end, safety end+leadTimeDays)
//	cycle window   [today, today+cycleMonths)
//
// The cycle window overlaps the safety window on purpose: the overlap is the
// policy that a restock clears the trigger line by a full cycle's buffer,
// not an accounting mistake.
func EvaluateReorder(r *Resolver, today time.Time, p domain.PolicyParams, pos StockPosition) domain.ReorderAdvice {
	p = p.Normalized()
	today = domain.Day(today)

	safetyEnd := AddMonths(today, p.SafetyStockMonths)
	safety := r.SumRange(today, safetyEnd)

	leadEnd := safetyEnd.AddDate(0, 0, p.LeadTimeDays)
	leadDemand := r.SumRange(safetyEnd, leadEnd)

	rop := safety + leadDemand
	if rop < 0 {
		rop = 0
	}

	cycleEnd := AddMonths(today, p.CycleMonths)
	target := r.SumRange(today, cycleEnd)

	advice := domain.ReorderAdvice{
		AsOf:              today,
		SafetyStock:       safety,
		ReorderPoint:      rop,
		TargetCycleDemand: target,
		Trace: domain.ReorderTrace{
			SafetyWindow: windowTrace(today, safetyEnd, safety),
			LeadWindow:   windowTrace(safetyEnd, leadEnd, leadDemand),
			CycleWindow:  windowTrace(today, cycleEnd, target),
			OnHand:       pos.OnHand,
			InTransit:    pos.InTransit,
			Backlog:      pos.Backlog,
		},
	}

	effective := pos.OnHand + pos.InTransit
	threshold := rop + pos.Backlog
	if effective >= threshold {
		return advice
	}

	gap := rop + target + pos.Backlog - pos.OnHand - pos.InTransit
	if gap < 0 {
		gap = 0
	}

	advice.Trace.Triggered = true
	advice.Trace.RawGap = gap
	advice.RestockQty = roundOrderQty(gap, p.MinOrderQty, p.OrderUnit)
	return advice
}

// roundOrderQty applies the supplier constraints: the minimum order quantity
// floor first, then rounding up to the order-unit multiple.
func roundOrderQty(qty, moq, unit int) int {
	if qty < moq {
		qty = moq
	}
	if unit > 1 {
		qty = (qty + unit - 1) / unit * unit
	}
	return qty
}

func windowTrace(start, end time.Time, demand int) domain.WindowTrace {
	return domain.WindowTrace{
		Start:  start.Format(domain.DateLayout),
		End:    end.Format(domain.DateLayout),
		Days:   DaysBetween(start, end),
		Demand: demand,
	}
}
