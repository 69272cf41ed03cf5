package finance

import (
	"github.com/floripafacil/backend/internal/domain"
)

// Operating baselines for figures the reservation rows do not carry. Cost
// accounting lives with the suppliers, outside this system, so destination
// margins and the product mix are maintained as configuration; the cost
// ratio estimates monthly supplier cost from gross revenue.
type Baselines struct {
	CostRatio                  float64
	CommissionRate             float64
	ProfitabilityByDestination []DestinationProfit
	ProductMix                 []ProductShare
}

func DefaultBaselines() Baselines {
	return Baselines{
		CostRatio:      0.55,
		CommissionRate: 0.10,
		ProfitabilityByDestination: []DestinationProfit{
			{Name: "Florianópolis", RevenueUSD: 85000, CostUSD: 55000, Margin: 35},
			{Name: "Bombinhas", RevenueUSD: 42000, CostUSD: 20000, Margin: 52},
			{Name: "Camboriú", RevenueUSD: 38000, CostUSD: 28000, Margin: 26},
			{Name: "Búzios", RevenueUSD: 15000, CostUSD: 11000, Margin: 26},
		},
		ProductMix: []ProductShare{
			{Name: "Combos (Tour+Traslado)", Value: 45},
			{Name: "Excursiones", Value: 30},
			{Name: "Traslados", Value: 20},
			{Name: "Seguros", Value: 5},
		},
	}
}

var monthNames = [12]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}

// InputsFromAggregates converts live reservation aggregates into report
// inputs, filling cost and commission figures from the baselines.
func InputsFromAggregates(monthly []domain.MonthlyRevenue, sellers []domain.SellerSales, b Baselines) Inputs {
	history := make([]MonthPoint, 0, len(monthly))
	for _, m := range monthly {
		revenue := float64(m.RevenueUSD)
		cost := revenue * b.CostRatio
		history = append(history, MonthPoint{
			Name:       monthNames[m.Month.Month()-1],
			RevenueUSD: revenue,
			CostUSD:    cost,
			ProfitUSD:  revenue - cost,
		})
	}

	perf := make([]SellerPerformance, 0, len(sellers))
	for _, s := range sellers {
		revenue := float64(s.RevenueUSD)
		var ticket float64
		if s.Sales > 0 {
			ticket = revenue / float64(s.Sales)
		}
		perf = append(perf, SellerPerformance{
			Name:          s.SellerName,
			Sales:         s.Sales,
			RevenueUSD:    revenue,
			CommissionUSD: revenue * b.CommissionRate,
			TicketUSD:     ticket,
		})
	}

	return Inputs{
		RevenueHistory:             history,
		ProfitabilityByDestination: b.ProfitabilityByDestination,
		SellerPerformance:          perf,
		ProductMix:                 b.ProductMix,
	}
}
