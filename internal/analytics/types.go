package analytics

// Report is the full analytics payload for one restaurant and date range.
// Map keys marshal in sorted order, so repeated calls over the same dataset
// produce byte-identical JSON.
type Report struct {
	Summary              Summary                       `json:"summary"`
	DailySales           []DailySale                   `json:"daily_sales"`
	TopItems             []TopItem                     `json:"top_items"`
	SalesByCategory      map[string]float64            `json:"sales_by_category"`
	SalesByPaymentMethod map[string]PaymentMethodStats `json:"sales_by_payment_method"`
	SalesByDayOfWeek     map[string]float64            `json:"sales_by_day_of_week"`
	SalesByHour          map[string]HourStats          `json:"sales_by_hour"`
	SalesByPurchaseType  map[string]ChannelStats       `json:"sales_by_purchase_type"`
	SalesByManager       map[string]ManagerStats       `json:"sales_by_manager"`
	SalesByCity          map[string]CityStats          `json:"sales_by_city"`
	Anomalies            []Anomaly                     `json:"anomalies"`
	Insights             []string                      `json:"insights"`
}

type Summary struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalTransactions   int     `json:"total_transactions"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
}

type DailySale struct {
	Date         string  `json:"date"`
	TotalAmount  float64 `json:"total_amount"`
	Transactions int     `json:"transactions"`
}

type TopItem struct {
	ItemName      string  `json:"item_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type PaymentMethodStats struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TransactionCount int     `json:"transaction_count"`
	Percentage       float64 `json:"percentage"`
}

type HourStats struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TransactionCount int     `json:"transaction_count"`
}

type ChannelStats struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TransactionCount int     `json:"transaction_count"`
	TotalItems       int     `json:"total_items"`
	Percentage       float64 `json:"percentage"`
	AvgOrderValue    float64 `json:"avg_order_value"`
}

type ManagerStats struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TransactionCount int     `json:"transaction_count"`
	TotalItems       int     `json:"total_items"`
	Percentage       float64 `json:"percentage"`
	AvgOrderValue    float64 `json:"avg_order_value"`
	BusiestHour      int     `json:"busiest_hour"`
	TopItem          string  `json:"top_item"`
}

type CityStats struct {
	TotalRevenue          float64 `json:"total_revenue"`
	TransactionCount      int     `json:"transaction_count"`
	TotalItems            int     `json:"total_items"`
	Percentage            float64 `json:"percentage"`
	AvgOrderValue         float64 `json:"avg_order_value"`
	PreferredPayment      string  `json:"preferred_payment"`
	PreferredPurchaseType string  `json:"preferred_purchase_type"`
}

// Anomaly is one unusual pattern surfaced by the enrichment layer.
type Anomaly struct {
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Explanation string `json:"explanation"`
	Severity    string `json:"severity"`
}

// EmptyDatasetInsight is returned when the restaurant has no rows in range.
const EmptyDatasetInsight = "Upload sales data to see insights and analytics"

// EmptyReport is the canonical zero-data payload.
func EmptyReport() *Report {
	return &Report{
		Summary:              Summary{},
		DailySales:           []DailySale{},
		TopItems:             []TopItem{},
		SalesByCategory:      map[string]float64{},
		SalesByPaymentMethod: map[string]PaymentMethodStats{},
		SalesByDayOfWeek:     map[string]float64{},
		SalesByHour:          map[string]HourStats{},
		SalesByPurchaseType:  map[string]ChannelStats{},
		SalesByManager:       map[string]ManagerStats{},
		SalesByCity:          map[string]CityStats{},
		Anomalies:            []Anomaly{},
		Insights:             []string{EmptyDatasetInsight},
	}
}
