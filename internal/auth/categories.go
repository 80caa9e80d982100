package auth

// Resource categories for role-based access control. Each category can be
// covered by one RuleSet per group. Categories not listed here evaluate to
// all-false permissions (fail closed).
const (
	// CategoryAdmin controls meta-administrative actions: managing users,
	// groups and the rule sets themselves.
	CategoryAdmin = "admin"

	// CategoryPart covers parts and their parameters.
	CategoryPart = "part"
	// CategoryPartCategory covers the part category tree.
	CategoryPartCategory = "part_category"

	// CategoryStock covers stock items and stock adjustments.
	CategoryStock = "stock"
	// CategoryStockLocation covers the stock location tree.
	CategoryStockLocation = "stock_location"

	// CategoryBuild covers build orders.
	CategoryBuild = "build"

	// CategoryPurchaseOrder covers purchase orders.
	CategoryPurchaseOrder = "purchase_order"
	// CategorySalesOrder covers sales orders.
	CategorySalesOrder = "sales_order"
	// CategoryReturnOrder covers return orders.
	CategoryReturnOrder = "return_order"
)

// Actions on a resource category, matching the four RuleSet flags.
const (
	ActionView   = "view"
	ActionAdd    = "add"
	ActionChange = "change"
	ActionDelete = "delete"
)

// Categories lists all known resource categories in display order.
var Categories = []string{
	CategoryAdmin,
	CategoryPart,
	CategoryPartCategory,
	CategoryStock,
	CategoryStockLocation,
	CategoryBuild,
	CategoryPurchaseOrder,
	CategorySalesOrder,
	CategoryReturnOrder,
}

// ValidCategory reports whether name is a known resource category.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}

	return false
}
