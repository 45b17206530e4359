package retail

// Tables names the five document tables the engine works against.
type Tables struct {
	// Items holds catalog entries. Default: "items"
	Items string

	// Customers holds registered buyers. Default: "customers"
	Customers string

	// Suppliers holds stock sources. Default: "suppliers"
	Suppliers string

	// Sales holds sale records. Default: "sales"
	Sales string

	// StockEntries holds stock intake records. Default: "stock_entries"
	StockEntries string
}

// DefaultTables returns the standard table names.
func DefaultTables() Tables {
	return Tables{
		Items:        "items",
		Customers:    "customers",
		Suppliers:    "suppliers",
		Sales:        "sales",
		StockEntries: "stock_entries",
	}
}

// validate fills any missing table name with its default.
func (t *Tables) validate() {
	def := DefaultTables()
	if t.Items == "" {
		t.Items = def.Items
	}
	if t.Customers == "" {
		t.Customers = def.Customers
	}
	if t.Suppliers == "" {
		t.Suppliers = def.Suppliers
	}
	if t.Sales == "" {
		t.Sales = def.Sales
	}
	if t.StockEntries == "" {
		t.StockEntries = def.StockEntries
	}
}

// CustomerSales locates a customer's saleIds set.
func (t Tables) CustomerSales(customerID string) Parent {
	return Parent{Table: t.Customers, ID: customerID, Attr: AttrSaleIDs}
}

// ItemSales locates an item's saleIds set.
func (t Tables) ItemSales(itemID string) Parent {
	return Parent{Table: t.Items, ID: itemID, Attr: AttrSaleIDs}
}

// ItemStock locates an item's stockIds set.
func (t Tables) ItemStock(itemID string) Parent {
	return Parent{Table: t.Items, ID: itemID, Attr: AttrStockIDs}
}

// SupplierStock locates a supplier's stockIds set.
func (t Tables) SupplierStock(supplierID string) Parent {
	return Parent{Table: t.Suppliers, ID: supplierID, Attr: AttrStockIDs}
}
