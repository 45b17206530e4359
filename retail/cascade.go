package retail

import (
	"context"
	"log/slog"

	"storefront/store"
)

// Cascade removes dependent sales and stock entries when an item, customer or
// supplier is deleted. Dependents go first, and each dependent's id is pulled
// out of every parent that survives the delete, so no surviving record is
// left holding a dangling child id.
type Cascade struct {
	store  store.Store
	tables Tables
	refs   *Refs
	log    *slog.Logger
}

// NewCascade creates a cascade deleter over the given store and tables.
func NewCascade(s store.Store, tables Tables, refs *Refs, logger *slog.Logger) *Cascade {
	tables.validate()
	if logger == nil {
		logger = slog.Default()
	}
	return &Cascade{store: s, tables: tables, refs: refs, log: logger}
}

// DeleteItem removes an item together with every sale and stock entry that
// references it. Cascaded sales are pulled from their customers' sets and
// cascaded stock entries from their suppliers' sets before deletion.
func (c *Cascade) DeleteItem(ctx context.Context, id string) error {
	sales, err := c.findSales(ctx, store.Eq{AttrItemID: id})
	if err != nil {
		return err
	}
	for _, s := range sales {
		if err := c.refs.ChildRemoved(ctx, s.ID, c.tables.CustomerSales(s.CustomerID)); err != nil {
			return err
		}
	}
	if _, err := c.store.DeleteWhere(ctx, c.tables.Sales, store.Eq{AttrItemID: id}); err != nil {
		return err
	}

	entries, err := c.findStock(ctx, store.Eq{AttrItemID: id})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := c.refs.ChildRemoved(ctx, e.ID, c.tables.SupplierStock(e.SupplierID)); err != nil {
			return err
		}
	}
	if _, err := c.store.DeleteWhere(ctx, c.tables.StockEntries, store.Eq{AttrItemID: id}); err != nil {
		return err
	}

	if err := c.store.DeleteOne(ctx, c.tables.Items, id); err != nil {
		return err
	}
	c.log.Info("item cascade complete", "item", id, "sales", len(sales), "stockEntries", len(entries))
	return nil
}

// DeleteCustomer removes a customer and every sale that references them,
// pulling those sales out of the referenced items' sets.
func (c *Cascade) DeleteCustomer(ctx context.Context, id string) error {
	sales, err := c.findSales(ctx, store.Eq{AttrCustomerID: id})
	if err != nil {
		return err
	}
	for _, s := range sales {
		if err := c.refs.ChildRemoved(ctx, s.ID, c.tables.ItemSales(s.ItemID)); err != nil {
			return err
		}
	}
	if _, err := c.store.DeleteWhere(ctx, c.tables.Sales, store.Eq{AttrCustomerID: id}); err != nil {
		return err
	}

	if err := c.store.DeleteOne(ctx, c.tables.Customers, id); err != nil {
		return err
	}
	c.log.Info("customer cascade complete", "customer", id, "sales", len(sales))
	return nil
}

// DeleteSupplier removes a supplier and every stock entry that references
// them, pulling those entries out of the referenced items' sets.
func (c *Cascade) DeleteSupplier(ctx context.Context, id string) error {
	entries, err := c.findStock(ctx, store.Eq{AttrSupplierID: id})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := c.refs.ChildRemoved(ctx, e.ID, c.tables.ItemStock(e.ItemID)); err != nil {
			return err
		}
	}
	if _, err := c.store.DeleteWhere(ctx, c.tables.StockEntries, store.Eq{AttrSupplierID: id}); err != nil {
		return err
	}

	if err := c.store.DeleteOne(ctx, c.tables.Suppliers, id); err != nil {
		return err
	}
	c.log.Info("supplier cascade complete", "supplier", id, "stockEntries", len(entries))
	return nil
}

func (c *Cascade) findSales(ctx context.Context, eq store.Eq) ([]Sale, error) {
	docs, err := c.store.FindWhere(ctx, c.tables.Sales, eq)
	if err != nil {
		return nil, err
	}
	sales := make([]Sale, 0, len(docs))
	for _, doc := range docs {
		var s Sale
		if err := unmarshalDoc(doc, &s); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, nil
}

func (c *Cascade) findStock(ctx context.Context, eq store.Eq) ([]StockEntry, error) {
	docs, err := c.store.FindWhere(ctx, c.tables.StockEntries, eq)
	if err != nil {
		return nil, err
	}
	entries := make([]StockEntry, 0, len(docs))
	for _, doc := range docs {
		var e StockEntry
		if err := unmarshalDoc(doc, &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
