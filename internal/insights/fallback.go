package insights

import (
	"fmt"
	"sort"

	"github.com/platewise/platewise-backend/internal/analytics"
)

const maxInsights = 7

// fallbackInsights derives insight text straight from the aggregates when the
// model is unavailable.
func fallbackInsights(report *analytics.Report) []string {
	insights := []string{}

	if report.Summary.AvgTransactionValue > 0 {
		insights = append(insights, fmt.Sprintf(
			"Average order value is $%.2f. Consider upselling strategies to increase this metric.",
			report.Summary.AvgTransactionValue))
	}

	if len(report.TopItems) > 0 {
		top := report.TopItems[0]
		insights = append(insights, fmt.Sprintf(
			"Best seller: %s with %d units sold.", top.ItemName, top.TotalQuantity))
	}

	if channel, stats, ok := topChannel(report.SalesByPurchaseType); ok {
		insights = append(insights, fmt.Sprintf(
			"Top sales channel: %s generating %.1f%% of total revenue.", channel, stats.Percentage))
	}

	if len(report.SalesByManager) > 1 {
		manager := topManager(report.SalesByManager)
		insights = append(insights, fmt.Sprintf(
			"Top performing manager: %s. Consider sharing their best practices with the team.", manager))
	}

	if len(report.SalesByCity) > 1 {
		city := topCity(report.SalesByCity)
		insights = append(insights, fmt.Sprintf(
			"Highest revenue location: %s. Analyze success factors for other locations.", city))
	}

	if method, ok := topPayment(report.SalesByPaymentMethod); ok {
		insights = append(insights, fmt.Sprintf(
			"Most popular payment method: %s. Ensure smooth processing for this method.", method))
	}

	if len(insights) == 0 {
		insights = []string{
			"Upload more sales data to generate detailed insights.",
			"Focus on increasing average transaction value through upselling.",
			"Monitor peak hours to optimize staffing levels.",
		}
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

func topChannel(channels map[string]analytics.ChannelStats) (string, analytics.ChannelStats, bool) {
	if len(channels) == 0 {
		return "", analytics.ChannelStats{}, false
	}
	best := maxRevenueKey(channels, func(s analytics.ChannelStats) float64 { return s.TotalRevenue })
	return best, channels[best], true
}

func topManager(managers map[string]analytics.ManagerStats) string {
	return maxRevenueKey(managers, func(s analytics.ManagerStats) float64 { return s.TotalRevenue })
}

func topCity(cities map[string]analytics.CityStats) string {
	return maxRevenueKey(cities, func(s analytics.CityStats) float64 { return s.TotalRevenue })
}

func topPayment(methods map[string]analytics.PaymentMethodStats) (string, bool) {
	if len(methods) == 0 {
		return "", false
	}
	return maxRevenueKey(methods, func(s analytics.PaymentMethodStats) float64 { return s.TotalRevenue }), true
}

// maxRevenueKey returns the lexically-first key holding the maximum revenue,
// so the derived text is stable across runs.
func maxRevenueKey[T any](m map[string]T, revenue func(T) float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if revenue(m[k]) > revenue(m[best]) {
			best = k
		}
	}
	return best
}
