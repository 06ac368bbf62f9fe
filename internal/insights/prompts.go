package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/platewise/platewise-backend/internal/analytics"
)

func buildAnomalyPrompt(report *analytics.Report) string {
	var b strings.Builder
	b.WriteString("Analyze the following restaurant sales data and identify any unusual patterns or outliers:\n\n")
	fmt.Fprintf(&b, "- Total Revenue: $%.2f\n", report.Summary.TotalRevenue)
	fmt.Fprintf(&b, "- Total Transactions: %d\n", report.Summary.TotalTransactions)
	fmt.Fprintf(&b, "- Average Transaction Value: $%.2f\n", report.Summary.AvgTransactionValue)
	fmt.Fprintf(&b, "- Top Items: %s\n", mustJSON(limitItems(report.TopItems, 5)))
	fmt.Fprintf(&b, "- Sales by Day of Week: %s\n", mustJSON(report.SalesByDayOfWeek))
	fmt.Fprintf(&b, "- Sales by Purchase Type (Drive-thru/Online/In-store): %s\n", mustJSON(report.SalesByPurchaseType))
	fmt.Fprintf(&b, "- Sales by Payment Method: %s\n", mustJSON(report.SalesByPaymentMethod))
	fmt.Fprintf(&b, "- Manager Performance: %s\n", mustJSON(report.SalesByManager))
	fmt.Fprintf(&b, "- Sales by City/Location: %s\n", mustJSON(report.SalesByCity))
	b.WriteString(`
Identify anomalies such as:
- Significant revenue drops or spikes
- Unusual patterns in purchase channels
- Manager performance outliers
- Location-based discrepancies
- Payment method irregularities
- Day-of-week anomalies

Return ONLY a valid JSON array of objects. Do not include introductory text.
Structure:
[
    {
        "description": "string describing the anomaly",
        "impact": "string describing business impact (e.g., 'High', 'Medium', 'Low' with context)",
        "explanation": "string with possible explanation and recommendation"
    }
]

Provide 3-5 most significant anomalies.
`)
	return b.String()
}

func buildInsightsPrompt(report *analytics.Report) string {
	var b strings.Builder
	b.WriteString("As a restaurant business consultant, analyze this data and provide 5-7 actionable insights:\n\nSummary:\n")
	fmt.Fprintf(&b, "- Total Revenue: $%.2f\n", report.Summary.TotalRevenue)
	fmt.Fprintf(&b, "- Total Transactions: %d\n", report.Summary.TotalTransactions)
	fmt.Fprintf(&b, "- Average Order Value: $%.2f\n\n", report.Summary.AvgTransactionValue)
	fmt.Fprintf(&b, "- Top Items: %s\n", mustJSON(limitItems(report.TopItems, 5)))
	fmt.Fprintf(&b, "- Sales by Purchase Type: %s\n", mustJSON(report.SalesByPurchaseType))
	fmt.Fprintf(&b, "- Sales by Payment Method: %s\n", mustJSON(report.SalesByPaymentMethod))
	fmt.Fprintf(&b, "- Manager Performance: %s\n", mustJSON(report.SalesByManager))
	fmt.Fprintf(&b, "- Sales by City: %s\n", mustJSON(report.SalesByCity))
	fmt.Fprintf(&b, "- Sales by Day of Week: %s\n", mustJSON(report.SalesByDayOfWeek))
	b.WriteString(`
Focus on:
1. Channel optimization (drive-thru vs online vs in-store)
2. Manager performance comparisons and recommendations
3. Location-specific opportunities
4. Payment method trends
5. Peak day optimization
6. Average order value improvement strategies

Return ONLY a valid JSON array of strings with actionable insights.
Each insight should be specific, data-driven, and actionable.
Example: ["Insight 1 with specific recommendation", "Insight 2 with data point"]
`)
	return b.String()
}

func limitItems(items []analytics.TopItem, n int) []analytics.TopItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
