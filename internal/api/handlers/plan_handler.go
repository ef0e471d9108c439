package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/replenwise/replenish/internal/config"
	"github.com/replenwise/replenish/internal/domain"
	"github.com/replenwise/replenish/internal/service"
)

type PlanHandler struct {
	service  *service.PlanService
	defaults config.PolicyConfig
}

func NewPlanHandler(service *service.PlanService, defaults config.PolicyConfig) *PlanHandler {
	return &PlanHandler{service: service, defaults: defaults}
}

// parsePolicy builds the effective policy for one request: the configured
// defaults overridden field by field from query parameters.
func (h *PlanHandler) parsePolicy(c *gin.Context) domain.PolicyParams {
	p := h.defaults.Params()

	queryInt := func(param string, dst *int) {
		if v, err := strconv.Atoi(strings.TrimSpace(c.Query(param))); err == nil {
			*dst = v
		}
	}
	queryFloat := func(param string, dst *float64) {
		if v, err := strconv.ParseFloat(strings.TrimSpace(c.Query(param)), 64); err == nil {
			*dst = v
		}
	}

	queryInt("safety_stock_months", &p.SafetyStockMonths)
	queryInt("cycle_months", &p.CycleMonths)
	queryInt("lead_time_days", &p.LeadTimeDays)
	queryInt("min_order_qty", &p.MinOrderQty)
	queryInt("order_unit", &p.OrderUnit)
	queryFloat("ratio_adjust_pct", &p.RatioAdjustPct)

	if bench := strings.TrimSpace(c.Query("benchmark")); bench != "" {
		p.Benchmark.Type = domain.BenchmarkType(strings.ToLower(bench))
	}
	queryInt("yoy_years", &p.Benchmark.YoYYears)
	queryFloat("yoy_split1", &p.Benchmark.YoYSplit1)
	queryFloat("yoy_split2", &p.Benchmark.YoYSplit2)
	queryInt("mom_window_months", &p.Benchmark.MoMWindowMonths)
	queryFloat("mom_cut1_pct", &p.Benchmark.MoMCut1Pct)
	queryFloat("mom_cut2_pct", &p.Benchmark.MoMCut2Pct)
	queryFloat("mom_recent_weight", &p.Benchmark.MoMRecentWeight)
	queryFloat("mom_mid_weight", &p.Benchmark.MoMMidWeight)
	queryFloat("mom_far_weight", &p.Benchmark.MoMFarWeight)

	return p.Normalized()
}

func (h *PlanHandler) parseRequest(c *gin.Context) (string, time.Time, domain.PolicyParams, bool) {
	sku := strings.TrimSpace(c.Query("sku"))
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku query parameter is required"})
		return "", time.Time{}, domain.PolicyParams{}, false
	}

	today := domain.Day(time.Now())
	if raw := strings.TrimSpace(c.Query("today")); raw != "" {
		parsed, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid today date, expected YYYY-MM-DD"})
			return "", time.Time{}, domain.PolicyParams{}, false
		}
		today = parsed
	}

	return sku, today, h.parsePolicy(c), true
}

func (h *PlanHandler) GetAdvice(c *gin.Context) {
	sku, today, policy, ok := h.parseRequest(c)
	if !ok {
		return
	}

	advice, err := h.service.Advice(c.Request.Context(), sku, today, policy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute advice", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, advice)
}

func (h *PlanHandler) GetGrid(c *gin.Context) {
	sku, today, policy, ok := h.parseRequest(c)
	if !ok {
		return
	}

	months := 12
	if v, err := strconv.Atoi(c.DefaultQuery("months", "12")); err == nil && v > 0 {
		months = v
	}

	grid, err := h.service.Grid(c.Request.Context(), sku, today, policy, months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build demand grid", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, grid)
}

func (h *PlanHandler) GetMonths(c *gin.Context) {
	sku, today, policy, ok := h.parseRequest(c)
	if !ok {
		return
	}

	months := 12
	if v, err := strconv.Atoi(c.DefaultQuery("months", "12")); err == nil && v > 0 {
		months = v
	}

	totals, err := h.service.MonthTotals(c.Request.Context(), sku, today, policy, months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute month totals", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sku": sku, "months": totals})
}

func (h *PlanHandler) GetSimulation(c *gin.Context) {
	sku, today, policy, ok := h.parseRequest(c)
	if !ok {
		return
	}

	days, err := h.service.Simulate(c.Request.Context(), sku, today, policy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run simulation", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sku": sku, "days": days})
}
