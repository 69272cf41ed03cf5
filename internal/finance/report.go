// Package finance builds the financial report shown on the owner dashboard.
// The computation is pure: callers feed it aggregation rows (usually straight
// from the reservations repository) and get KPIs, alerts and insights back.
package finance

import "fmt"

type InsightType string

const (
	InsightPositive InsightType = "positive"
	InsightNegative InsightType = "negative"
	InsightNeutral  InsightType = "neutral"
)

type MarginStatus string

const (
	MarginGood     MarginStatus = "good"
	MarginWarning  MarginStatus = "warning"
	MarginCritical MarginStatus = "critical"
)

// MonthPoint is one month of revenue history, oldest first.
type MonthPoint struct {
	Name       string  `json:"name"`
	RevenueUSD float64 `json:"revenue"`
	CostUSD    float64 `json:"cost"`
	ProfitUSD  float64 `json:"profit"`
}

// DestinationProfit is revenue, cost and margin for one destination.
type DestinationProfit struct {
	Name       string  `json:"name"`
	RevenueUSD float64 `json:"revenue"`
	CostUSD    float64 `json:"cost"`
	Margin     float64 `json:"margin"`
}

// SellerPerformance is one seller's sales totals with commission and
// average ticket.
type SellerPerformance struct {
	Name          string  `json:"name"`
	Sales         int     `json:"sales"`
	RevenueUSD    float64 `json:"revenue"`
	CommissionUSD float64 `json:"commission"`
	TicketUSD     float64 `json:"ticket"`
}

// ProductShare is one product category's share of sales, in percent.
type ProductShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Insight is a generated alert or observation for the dashboard.
type Insight struct {
	Type    InsightType `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

type KPIs struct {
	Revenue struct {
		TotalUSD float64 `json:"total"`
		Growth   float64 `json:"growth"`
	} `json:"revenue"`
	Margin struct {
		Average float64      `json:"average"`
		Status  MarginStatus `json:"status"`
	} `json:"margin"`
	Commission struct {
		TotalUSD   float64 `json:"total"`
		Percentage float64 `json:"percentage"`
	} `json:"commission"`
	NetProfit struct {
		TotalUSD      float64 `json:"total"`
		TargetReached float64 `json:"target_reached"`
	} `json:"net_profit"`
}

type Report struct {
	KPIs                       KPIs                `json:"kpis"`
	RevenueHistory             []MonthPoint        `json:"revenue_history"`
	ProfitabilityByDestination []DestinationProfit `json:"profitability_by_destination"`
	SellerPerformance          []SellerPerformance `json:"seller_performance"`
	ProductMix                 []ProductShare      `json:"product_mix"`
	Alerts                     []Insight           `json:"alerts"`
	Insights                   []Insight           `json:"insights"`
}

// Inputs are the aggregation rows the report is computed from. RevenueHistory
// must be ordered oldest first; the last entry is treated as the current
// month.
type Inputs struct {
	RevenueHistory             []MonthPoint
	ProfitabilityByDestination []DestinationProfit
	SellerPerformance          []SellerPerformance
	ProductMix                 []ProductShare
}

const (
	marginTarget       = 35.0
	destinationMinimum = 30.0
	profitTargetShare  = 85.0
)

// BuildReport computes KPIs, alerts and insights from aggregation inputs.
// With fewer than two months of history the growth figure is zero.
func BuildReport(in Inputs) Report {
	r := Report{
		RevenueHistory:             in.RevenueHistory,
		ProfitabilityByDestination: in.ProfitabilityByDestination,
		SellerPerformance:          in.SellerPerformance,
		ProductMix:                 in.ProductMix,
		Alerts:                     []Insight{},
		Insights:                   []Insight{},
	}
	if len(in.RevenueHistory) == 0 {
		return r
	}

	current := in.RevenueHistory[len(in.RevenueHistory)-1]

	var growth float64
	if len(in.RevenueHistory) >= 2 {
		prev := in.RevenueHistory[len(in.RevenueHistory)-2]
		if prev.RevenueUSD > 0 {
			growth = (current.RevenueUSD - prev.RevenueUSD) / prev.RevenueUSD * 100
		}
	}

	var totalCommission float64
	for _, s := range in.SellerPerformance {
		totalCommission += s.CommissionUSD
	}

	netProfit := current.RevenueUSD - current.CostUSD - totalCommission*0.1

	var marginAvg float64
	if current.RevenueUSD > 0 {
		marginAvg = netProfit / current.RevenueUSD * 100
	}

	r.KPIs.Revenue.TotalUSD = current.RevenueUSD
	r.KPIs.Revenue.Growth = growth
	r.KPIs.Margin.Average = marginAvg
	r.KPIs.Margin.Status = marginStatus(marginAvg)
	r.KPIs.Commission.TotalUSD = totalCommission
	if current.RevenueUSD > 0 {
		r.KPIs.Commission.Percentage = totalCommission / current.RevenueUSD * 100
	}
	r.KPIs.NetProfit.TotalUSD = netProfit
	r.KPIs.NetProfit.TargetReached = profitTargetShare

	if marginAvg < marginTarget {
		r.Alerts = append(r.Alerts, Insight{
			Type:    InsightNegative,
			Title:   "Margen Global Bajo",
			Message: fmt.Sprintf("El margen promedio (%.1f%%) está por debajo del objetivo (%.0f%%).", marginAvg, marginTarget),
		})
	}
	for _, d := range in.ProfitabilityByDestination {
		if d.Margin < destinationMinimum {
			r.Alerts = append(r.Alerts, Insight{
				Type:    InsightNegative,
				Title:   fmt.Sprintf("Rentabilidad Baja en %s", d.Name),
				Message: fmt.Sprintf("Margen crítico del %.0f%% en %s. Revisar costos.", d.Margin, d.Name),
			})
		}
	}

	if best, ok := bestDestination(in.ProfitabilityByDestination); ok {
		r.Insights = append(r.Insights, Insight{
			Type:    InsightPositive,
			Title:   "Destino Estrella",
			Message: fmt.Sprintf("%s lidera la rentabilidad con un margen del %.0f%%.", best.Name, best.Margin),
		})
	}
	r.Insights = append(r.Insights, Insight{
		Type:    InsightNeutral,
		Title:   "Tendencia de Ingresos",
		Message: fmt.Sprintf("Los ingresos crecieron un %.1f%% respecto al mes anterior.", growth),
	})

	return r
}

func marginStatus(m float64) MarginStatus {
	switch {
	case m > 40:
		return MarginGood
	case m > 30:
		return MarginWarning
	default:
		return MarginCritical
	}
}

func bestDestination(ds []DestinationProfit) (DestinationProfit, bool) {
	if len(ds) == 0 {
		return DestinationProfit{}, false
	}
	best := ds[0]
	for _, d := range ds[1:] {
		if d.Margin > best.Margin {
			best = d
		}
	}
	return best, true
}
