package colmap

// Field is a canonical schema field a CSV column can map onto.
type Field string

const (
	FieldDate          Field = "date"
	FieldTime          Field = "time"
	FieldPrice         Field = "price"
	FieldQuantity      Field = "quantity"
	FieldTotalAmount   Field = "total_amount"
	FieldItemName      Field = "item_name"
	FieldCategory      Field = "category"
	FieldTransactionID Field = "transaction_id"
	FieldPaymentMethod Field = "payment_method"
	FieldCustomerID    Field = "customer_id"
	FieldStaffID       Field = "staff_id"
	FieldNotes         Field = "notes"
	FieldPurchaseType  Field = "purchase_type"
	FieldManager       Field = "manager"
	FieldCity          Field = "city"
)

// fieldOrder is the priority order used when several fields could claim the
// same column. Earlier fields win.
var fieldOrder = []Field{
	FieldDate,
	FieldTime,
	FieldPrice,
	FieldQuantity,
	FieldTotalAmount,
	FieldItemName,
	FieldCategory,
	FieldTransactionID,
	FieldPaymentMethod,
	FieldCustomerID,
	FieldStaffID,
	FieldNotes,
	FieldPurchaseType,
	FieldManager,
	FieldCity,
}

var validFields = func() map[Field]bool {
	m := make(map[Field]bool, len(fieldOrder))
	for _, f := range fieldOrder {
		m[f] = true
	}
	return m
}()

// IsValidField reports whether name is one of the canonical schema fields.
func IsValidField(name string) bool {
	return validFields[Field(name)]
}

// fieldDescriptions feed the model prompt. Keep the wording close to what
// an analyst would write for a schema doc.
var fieldDescriptions = []struct {
	field Field
	desc  string
}{
	{FieldDate, "Date of the transaction (required)"},
	{FieldTime, "Time of the transaction (optional, for hourly analysis)"},
	{FieldPrice, "Price per unit (recommended)"},
	{FieldQuantity, "Number of items sold (recommended)"},
	{FieldTotalAmount, "Total sales amount for the transaction (optional, derived from price x quantity if not provided)"},
	{FieldItemName, "Name of the item sold"},
	{FieldCategory, "Category of the item (e.g., appetizer, main course, beverage)"},
	{FieldTransactionID, "Unique identifier for the transaction"},
	{FieldPaymentMethod, "Method of payment (Cash, Credit Card, Google Pay, Apple Pay, etc.)"},
	{FieldPurchaseType, "Type of purchase channel (Drive-thru, Online, In-store)"},
	{FieldManager, "Name of the manager on duty"},
	{FieldCity, "City or location of the sale"},
	{FieldCustomerID, "Identifier for the customer"},
	{FieldStaffID, "Identifier for the staff member"},
	{FieldNotes, "Additional notes about the transaction"},
}
