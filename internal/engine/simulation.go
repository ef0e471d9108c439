package engine

import (
	"github.com/replenwise/replenish/internal/domain"
)

// simHorizonDays is the charted span of a simulation run.
const simHorizonDays = 365

// Simulator rolls the stock position forward day by day over a one-year
// horizon, re-deriving the reorder quantities at every simulated date and
// feeding triggered orders back into the in-transit ledger.
type Simulator struct {
	resolver *Resolver
	policy   domain.PolicyParams
}

// NewSimulator wires a simulator over a resolver and policy. The resolver's
// reference date becomes day zero of the run.
func NewSimulator(r *Resolver, p domain.PolicyParams) *Simulator {
	return &Simulator{resolver: r, policy: p.Normalized()}
}

// simState is the mutable state of one run. It is created per run, advanced
// in strict date order, and discarded with the run.
type simState struct {
	stock     int
	backlog   int
	scheduled map[int]int // arrival day index -> pending quantity
	restocks  int
}

// Run executes the simulation from the resolver's reference date using the
// supplied stock position. Externally known inbound batches arrive on their
// due date; overdue batches are treated as arriving on day zero.
func (s *Simulator) Run(kpi domain.KPISnapshot) []domain.DaySnapshot {
	today := s.resolver.Today()
	p := s.policy

	// The lookahead series is resolved once for the whole horizon plus a
	// buffer wide enough for the forward windows of the final day, so orders
	// scheduled later in the run can never change an earlier day's sums.
	lookMonths := p.SafetyStockMonths
	if p.CycleMonths > lookMonths {
		lookMonths = p.CycleMonths
	}
	buffer := DaysBetween(today, AddMonths(today, lookMonths)) + p.LeadTimeDays
	series := make([]int, simHorizonDays+buffer)
	provenance := make([]domain.Provenance, simHorizonDays)
	for i := range series {
		dv := s.resolver.DayValue(today.AddDate(0, 0, i))
		series[i] = dv.Value
		if i < simHorizonDays {
			provenance[i] = dv.Provenance
		}
	}
	prefix := make([]int, len(series)+1)
	for i, v := range series {
		prefix[i+1] = prefix[i] + v
	}
	sumIdx := func(from, to int) int {
		from, to = clampIdx(from, len(series)), clampIdx(to, len(series))
		if to <= from {
			return 0
		}
		return prefix[to] - prefix[from]
	}

	// External inbound batches bucketed by day index.
	external := make(map[int]int, len(kpi.Inbound))
	for _, batch := range kpi.Inbound {
		idx := DaysBetween(today, batch.Arrival)
		if batch.Overdue || domain.Day(batch.Arrival).Before(today) {
			idx = 0
		}
		external[idx] += batch.Qty
	}

	state := simState{
		stock:     kpi.OnHand,
		backlog:   kpi.Backlog,
		scheduled: map[int]int{},
	}

	out := make([]domain.DaySnapshot, 0, simHorizonDays)
	for i := 0; i < simHorizonDays; i++ {
		date := today.AddDate(0, 0, i)

		// 1. In-transit quantity still on the water: everything arriving
		// strictly after the simulated day.
		inTransit := 0
		for idx, qty := range external {
			if idx > i {
				inTransit += qty
			}
		}
		for idx, qty := range state.scheduled {
			if idx > i {
				inTransit += qty
			}
		}

		// 2. Today's demand joins the backlog.
		demand := series[i]
		state.backlog += demand

		// 3. Arrivals land; consumed ledger entries are removed. Sweeping
		// everything due up to the simulated day also covers zero-lead-time
		// orders scheduled late on the previous day.
		inboundExt := external[i]
		inboundSched := 0
		for idx, qty := range state.scheduled {
			if idx <= i {
				inboundSched += qty
				delete(state.scheduled, idx)
			}
		}
		state.stock += inboundExt + inboundSched

		// 4. Fulfill as much backlog as stock allows.
		fulfilled := min(state.stock, state.backlog)
		state.stock -= fulfilled
		state.backlog -= fulfilled

		// 5. Re-derive the reorder quantities anchored at the simulated day.
		safetyEndIdx := i + DaysBetween(date, AddMonths(date, p.SafetyStockMonths))
		safety := sumIdx(i, safetyEndIdx)
		leadDemand := sumIdx(safetyEndIdx, safetyEndIdx+p.LeadTimeDays)
		rop := safety + leadDemand
		if rop < 0 {
			rop = 0
		}
		target := sumIdx(i, i+DaysBetween(date, AddMonths(date, p.CycleMonths)))

		// 6. Trigger test; a triggered order enters the ledger after lead time.
		restockQty, restockIdx := 0, 0
		if state.stock+inTransit < rop+state.backlog {
			gap := rop + target + state.backlog - state.stock - inTransit
			if gap < 0 {
				gap = 0
			}
			restockQty = roundOrderQty(gap, p.MinOrderQty, p.OrderUnit)
			state.restocks++
			restockIdx = state.restocks
			state.scheduled[i+p.LeadTimeDays] += restockQty
		}

		out = append(out, domain.DaySnapshot{
			Date:              date,
			Demand:            demand,
			Provenance:        provenance[i],
			Stock:             state.stock,
			Backlog:           state.backlog,
			Fulfilled:         fulfilled,
			SafetyStock:       safety,
			ReorderPoint:      rop,
			TargetCycleDemand: target,
			InTransitTotal:    inTransit + restockQty,
			InboundExternal:   inboundExt,
			InboundScheduled:  inboundSched,
			RestockQty:        restockQty,
			RestockIndex:      restockIdx,
		})
	}

	return out
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
