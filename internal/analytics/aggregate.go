package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/platewise/platewise-backend/pkg/db/models"
)

// Summarize computes the full analytics report from a transaction set. It is
// pure: same rows in, same report out. Revenue math runs on decimals and
// only converts to float at the output boundary.
func Summarize(rows []models.Transaction) *Report {
	if len(rows) == 0 {
		return EmptyReport()
	}

	report := EmptyReport()
	report.Insights = []string{}

	totalRevenue := decimal.Zero
	for _, row := range rows {
		totalRevenue = totalRevenue.Add(row.TotalAmount)
	}

	report.Summary = Summary{
		TotalRevenue:        totalRevenue.InexactFloat64(),
		TotalTransactions:   len(rows),
		AvgTransactionValue: avgValue(totalRevenue, len(rows)),
	}

	report.DailySales = dailySales(rows)
	report.TopItems = topItems(rows)
	report.SalesByCategory = salesByCategory(rows)
	report.SalesByPaymentMethod = salesByPaymentMethod(rows, totalRevenue)
	report.SalesByDayOfWeek = salesByDayOfWeek(rows)
	report.SalesByHour = salesByHour(rows)
	report.SalesByPurchaseType = salesByPurchaseType(rows, totalRevenue)
	report.SalesByManager = salesByManager(rows, totalRevenue)
	report.SalesByCity = salesByCity(rows, totalRevenue)

	return report
}

func avgValue(total decimal.Decimal, count int) float64 {
	if count == 0 {
		return 0
	}
	return total.Div(decimal.NewFromInt(int64(count))).InexactFloat64()
}

func percentage(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func dailySales(rows []models.Transaction) []DailySale {
	type bucket struct {
		total decimal.Decimal
		count int
	}
	byDay := map[string]*bucket{}
	for _, row := range rows {
		key := row.Date.Format("2006-01-02")
		b, ok := byDay[key]
		if !ok {
			b = &bucket{}
			byDay[key] = b
		}
		b.total = b.total.Add(row.TotalAmount)
		b.count++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]DailySale, 0, len(days))
	for _, day := range days {
		b := byDay[day]
		out = append(out, DailySale{
			Date:         day,
			TotalAmount:  b.total.InexactFloat64(),
			Transactions: b.count,
		})
	}
	return out
}

func topItems(rows []models.Transaction) []TopItem {
	type bucket struct {
		quantity int
		revenue  decimal.Decimal
	}
	byItem := map[string]*bucket{}
	for _, row := range rows {
		b, ok := byItem[row.ItemName]
		if !ok {
			b = &bucket{}
			byItem[row.ItemName] = b
		}
		b.quantity += row.Quantity
		b.revenue = b.revenue.Add(row.TotalAmount)
	}

	items := make([]TopItem, 0, len(byItem))
	for name, b := range byItem {
		items = append(items, TopItem{
			ItemName:      name,
			TotalQuantity: b.quantity,
			TotalRevenue:  b.revenue.InexactFloat64(),
		})
	}

	// Revenue descending, name ascending on ties so output is stable.
	sort.Slice(items, func(i, j int) bool {
		if items[i].TotalRevenue != items[j].TotalRevenue {
			return items[i].TotalRevenue > items[j].TotalRevenue
		}
		return items[i].ItemName < items[j].ItemName
	})

	if len(items) > 10 {
		items = items[:10]
	}
	return items
}

func salesByCategory(rows []models.Transaction) map[string]float64 {
	totals := map[string]decimal.Decimal{}
	for _, row := range rows {
		key := ""
		if row.Category != nil {
			key = *row.Category
		}
		totals[key] = totals[key].Add(row.TotalAmount)
	}

	out := make(map[string]float64, len(totals))
	for k, v := range totals {
		out[k] = v.InexactFloat64()
	}
	return out
}

func salesByPaymentMethod(rows []models.Transaction, totalRevenue decimal.Decimal) map[string]PaymentMethodStats {
	type bucket struct {
		revenue decimal.Decimal
		count   int
	}
	byMethod := map[string]*bucket{}
	for _, row := range rows {
		key := foldUnknown(row.PaymentMethod)
		b, ok := byMethod[key]
		if !ok {
			b = &bucket{}
			byMethod[key] = b
		}
		b.revenue = b.revenue.Add(row.TotalAmount)
		b.count++
	}

	out := make(map[string]PaymentMethodStats, len(byMethod))
	for method, b := range byMethod {
		out[method] = PaymentMethodStats{
			TotalRevenue:     b.revenue.InexactFloat64(),
			TransactionCount: b.count,
			Percentage:       percentage(b.revenue, totalRevenue),
		}
	}
	return out
}

func salesByDayOfWeek(rows []models.Transaction) map[string]float64 {
	totals := map[string]decimal.Decimal{}
	for _, row := range rows {
		key := row.Date.Weekday().String()
		totals[key] = totals[key].Add(row.TotalAmount)
	}

	out := make(map[string]float64, len(totals))
	for k, v := range totals {
		out[k] = v.InexactFloat64()
	}
	return out
}

// salesByHour emits all 24 buckets, zero-filled, keyed "0".."23". The hour
// comes from the time-of-day column when present, otherwise from the date.
func salesByHour(rows []models.Transaction) map[string]HourStats {
	type bucket struct {
		revenue decimal.Decimal
		count   int
	}
	byHour := map[int]*bucket{}
	for _, row := range rows {
		h := transactionHour(row)
		b, ok := byHour[h]
		if !ok {
			b = &bucket{}
			byHour[h] = b
		}
		b.revenue = b.revenue.Add(row.TotalAmount)
		b.count++
	}

	out := make(map[string]HourStats, 24)
	for h := 0; h < 24; h++ {
		stats := HourStats{}
		if b, ok := byHour[h]; ok {
			stats = HourStats{
				TotalRevenue:     b.revenue.InexactFloat64(),
				TransactionCount: b.count,
			}
		}
		out[strconv.Itoa(h)] = stats
	}
	return out
}

func transactionHour(row models.Transaction) int {
	if row.TimeOfDay != nil {
		if t, err := time.Parse("15:04:05", *row.TimeOfDay); err == nil {
			return t.Hour()
		}
	}
	return row.Date.Hour()
}

type channelBucket struct {
	revenue decimal.Decimal
	count   int
	items   int
}

func (b *channelBucket) add(row models.Transaction) {
	b.revenue = b.revenue.Add(row.TotalAmount)
	b.count++
	b.items += row.Quantity
}

func (b *channelBucket) stats(totalRevenue decimal.Decimal) ChannelStats {
	avg := 0.0
	if b.count > 0 {
		avg = b.revenue.Div(decimal.NewFromInt(int64(b.count))).InexactFloat64()
	}
	return ChannelStats{
		TotalRevenue:     b.revenue.InexactFloat64(),
		TransactionCount: b.count,
		TotalItems:       b.items,
		Percentage:       percentage(b.revenue, totalRevenue),
		AvgOrderValue:    avg,
	}
}

func salesByPurchaseType(rows []models.Transaction, totalRevenue decimal.Decimal) map[string]ChannelStats {
	byType := map[string]*channelBucket{}
	for _, row := range rows {
		key := foldUnknown(row.PurchaseType)
		b, ok := byType[key]
		if !ok {
			b = &channelBucket{}
			byType[key] = b
		}
		b.add(row)
	}

	out := make(map[string]ChannelStats, len(byType))
	for k, b := range byType {
		out[k] = b.stats(totalRevenue)
	}
	return out
}

func salesByManager(rows []models.Transaction, totalRevenue decimal.Decimal) map[string]ManagerStats {
	byManager := map[string]*channelBucket{}
	hourRevenue := map[string]map[int]decimal.Decimal{}
	itemQuantity := map[string]map[string]int{}

	for _, row := range rows {
		key := foldEmpty(row.Manager)
		b, ok := byManager[key]
		if !ok {
			b = &channelBucket{}
			byManager[key] = b
			hourRevenue[key] = map[int]decimal.Decimal{}
			itemQuantity[key] = map[string]int{}
		}
		b.add(row)

		h := row.Date.Hour()
		hourRevenue[key][h] = hourRevenue[key][h].Add(row.TotalAmount)
		itemQuantity[key][row.ItemName] += row.Quantity
	}

	out := make(map[string]ManagerStats, len(byManager))
	for manager, b := range byManager {
		base := b.stats(totalRevenue)
		out[manager] = ManagerStats{
			TotalRevenue:     base.TotalRevenue,
			TransactionCount: base.TransactionCount,
			TotalItems:       base.TotalItems,
			Percentage:       base.Percentage,
			AvgOrderValue:    base.AvgOrderValue,
			BusiestHour:      maxHour(hourRevenue[manager]),
			TopItem:          maxItem(itemQuantity[manager]),
		}
	}
	return out
}

func salesByCity(rows []models.Transaction, totalRevenue decimal.Decimal) map[string]CityStats {
	byCity := map[string]*channelBucket{}
	paymentRevenue := map[string]map[string]decimal.Decimal{}
	channelRevenue := map[string]map[string]decimal.Decimal{}

	for _, row := range rows {
		key := foldEmpty(row.City)
		b, ok := byCity[key]
		if !ok {
			b = &channelBucket{}
			byCity[key] = b
			paymentRevenue[key] = map[string]decimal.Decimal{}
			channelRevenue[key] = map[string]decimal.Decimal{}
		}
		b.add(row)

		payment := foldUnknown(row.PaymentMethod)
		paymentRevenue[key][payment] = paymentRevenue[key][payment].Add(row.TotalAmount)

		channel := foldUnknown(row.PurchaseType)
		channelRevenue[key][channel] = channelRevenue[key][channel].Add(row.TotalAmount)
	}

	out := make(map[string]CityStats, len(byCity))
	for city, b := range byCity {
		base := b.stats(totalRevenue)
		out[city] = CityStats{
			TotalRevenue:          base.TotalRevenue,
			TransactionCount:      base.TransactionCount,
			TotalItems:            base.TotalItems,
			Percentage:            base.Percentage,
			AvgOrderValue:         base.AvgOrderValue,
			PreferredPayment:      maxKey(paymentRevenue[city]),
			PreferredPurchaseType: maxKey(channelRevenue[city]),
		}
	}
	return out
}

// maxHour returns the smallest hour holding the maximum revenue.
func maxHour(revenue map[int]decimal.Decimal) int {
	if len(revenue) == 0 {
		return 0
	}
	hours := make([]int, 0, len(revenue))
	for h := range revenue {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	best := hours[0]
	for _, h := range hours[1:] {
		if revenue[h].GreaterThan(revenue[best]) {
			best = h
		}
	}
	return best
}

// maxItem returns the lexically-first item holding the maximum quantity.
func maxItem(quantity map[string]int) string {
	if len(quantity) == 0 {
		return "N/A"
	}
	names := make([]string, 0, len(quantity))
	for name := range quantity {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if quantity[name] > quantity[best] {
			best = name
		}
	}
	return best
}

// maxKey returns the lexically-first key holding the maximum revenue.
func maxKey(revenue map[string]decimal.Decimal) string {
	if len(revenue) == 0 {
		return "N/A"
	}
	keys := make([]string, 0, len(revenue))
	for k := range revenue {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if revenue[k].GreaterThan(revenue[best]) {
			best = k
		}
	}
	return best
}

func foldUnknown(v *string) string {
	if v == nil || *v == "" {
		return "Unknown"
	}
	return *v
}

func foldEmpty(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}
