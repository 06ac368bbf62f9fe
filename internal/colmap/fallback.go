package colmap

import "strings"

// fieldPatterns lists, per field, the header spellings seen across POS
// exports in the wild. Matching runs exact first, then substring in either
// direction.
var fieldPatterns = map[Field][]string{
	FieldDate:          {"date", "order_date", "transaction_date", "sale_date", "order date", "transaction date", "created_at", "created"},
	FieldTime:          {"time", "order_time", "transaction_time", "sale_time", "hour", "timestamp"},
	FieldPrice:         {"price", "unit_price", "item_price", "cost", "unit price", "unit_cost", "rate"},
	FieldQuantity:      {"quantity", "qty", "count", "units", "number", "no_of_items", "items", "amount_sold"},
	FieldTotalAmount:   {"total", "total_amount", "total_price", "grand_total", "subtotal", "net_amount", "total amount", "total_sales", "sales_amount", "revenue"},
	FieldItemName:      {"item", "item_name", "product", "product_name", "menu_item", "item name", "product name", "menu item", "description", "item_description"},
	FieldCategory:      {"category", "item_category", "product_category", "food_category", "menu_category", "item_type"},
	FieldTransactionID: {"transaction_id", "order_id", "invoice", "receipt", "bill_no", "transaction id", "order id", "invoice_no", "trx_id", "txn_id", "id"},
	FieldPaymentMethod: {"payment", "payment_method", "payment_type", "pay_method", "payment method", "pay_type", "mode_of_payment", "payment_mode"},
	FieldCustomerID:    {"customer_id", "customer", "client_id", "customer id", "client", "cust_id", "buyer_id"},
	FieldStaffID:       {"staff_id", "employee_id", "server_id", "staff", "employee", "server", "waiter", "cashier", "emp_id"},
	FieldNotes:         {"notes", "comments", "remarks", "description", "memo", "note"},
	FieldPurchaseType: {
		"purchase_type", "purchase type", "order_type", "order type",
		"channel", "sales_channel", "sales channel", "transaction_type",
		"service_type", "service type", "type_of_order", "ordering_method",
		"order_channel", "delivery_type", "fulfillment_type", "service_mode",
	},
	FieldManager: {
		"manager", "manager_name", "manager name", "shift_manager",
		"shift manager", "supervisor", "store_manager", "team_lead",
		"in_charge", "duty_manager", "floor_manager", "mgr", "mgr_name",
	},
	FieldCity: {
		"city", "city_name", "location", "store_location", "branch",
		"branch_name", "outlet", "store_city", "town", "area",
		"region", "store_name", "restaurant_location", "site", "venue",
	},
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// FallbackMapping maps CSV headers onto schema fields with deterministic
// pattern matching. Each field is claimed at most once, and each column maps
// to at most one field. Columns that match nothing are left out.
func FallbackMapping(columns []string) map[string]Field {
	mapping := make(map[string]Field)
	mappedFields := make(map[Field]bool)

	for _, col := range columns {
		colNorm := normalizeHeader(col)

		for _, field := range fieldOrder {
			if mappedFields[field] {
				continue
			}

			matched := false
			for _, pattern := range fieldPatterns[field] {
				patNorm := normalizeHeader(pattern)

				if colNorm == patNorm {
					matched = true
					break
				}
				if strings.Contains(colNorm, patNorm) {
					matched = true
					break
				}
				if len(colNorm) >= 3 && strings.Contains(patNorm, colNorm) {
					matched = true
					break
				}
			}

			if matched {
				mapping[col] = field
				mappedFields[field] = true
				break
			}
		}
	}

	return mapping
}
