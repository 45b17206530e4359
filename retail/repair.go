package retail

import (
	"context"
	"sort"
)

// RepairStats summarizes one reconciliation pass.
type RepairStats struct {
	// Parents is the number of parent records whose back-reference set was
	// rewritten.
	Parents int `json:"parents"`
	// Added is the number of child ids pushed into a set they were missing
	// from.
	Added int `json:"added"`
	// Removed is the number of stale ids pulled out of sets.
	Removed int `json:"removed"`
	// Orphans is the number of child records deleted because a parent they
	// referenced no longer exists.
	Orphans int `json:"orphans"`
}

// Repair walks the whole dataset and restores referential integrity: child
// records whose parent is gone are deleted, and every parent's back-reference
// set is rewritten to exactly the ids of the children that reference it. The
// pass is idempotent; running it on a consistent dataset writes nothing.
func (r *Repository) Repair(ctx context.Context) (RepairStats, error) {
	var stats RepairStats

	items, err := r.Items(ctx)
	if err != nil {
		return stats, err
	}
	customers, err := r.Customers(ctx)
	if err != nil {
		return stats, err
	}
	suppliers, err := r.Suppliers(ctx)
	if err != nil {
		return stats, err
	}
	sales, err := r.Sales(ctx)
	if err != nil {
		return stats, err
	}
	entries, err := r.StockEntries(ctx)
	if err != nil {
		return stats, err
	}

	itemIDs := make(map[string]bool, len(items))
	for _, it := range items {
		itemIDs[it.ID] = true
	}
	customerIDs := make(map[string]bool, len(customers))
	for _, c := range customers {
		customerIDs[c.ID] = true
	}
	supplierIDs := make(map[string]bool, len(suppliers))
	for _, s := range suppliers {
		supplierIDs[s.ID] = true
	}

	// Drop orphaned children first so the desired sets below are computed
	// from surviving records only.
	customerSales := map[string][]string{}
	itemSales := map[string][]string{}
	for _, s := range sales {
		if !customerIDs[s.CustomerID] || !itemIDs[s.ItemID] {
			if err := r.store.DeleteOne(ctx, r.tables.Sales, s.ID); err != nil {
				return stats, err
			}
			stats.Orphans++
			r.log.Warn("orphaned sale removed", "id", s.ID)
			continue
		}
		customerSales[s.CustomerID] = append(customerSales[s.CustomerID], s.ID)
		itemSales[s.ItemID] = append(itemSales[s.ItemID], s.ID)
	}

	itemStock := map[string][]string{}
	supplierStock := map[string][]string{}
	for _, e := range entries {
		if !itemIDs[e.ItemID] || !supplierIDs[e.SupplierID] {
			if err := r.store.DeleteOne(ctx, r.tables.StockEntries, e.ID); err != nil {
				return stats, err
			}
			stats.Orphans++
			r.log.Warn("orphaned stock entry removed", "id", e.ID)
			continue
		}
		itemStock[e.ItemID] = append(itemStock[e.ItemID], e.ID)
		supplierStock[e.SupplierID] = append(supplierStock[e.SupplierID], e.ID)
	}

	for _, it := range items {
		if err := r.repairSet(ctx, &stats, r.tables.Items, it.ID, AttrSaleIDs, it.SaleIDs, itemSales[it.ID]); err != nil {
			return stats, err
		}
		if err := r.repairSet(ctx, &stats, r.tables.Items, it.ID, AttrStockIDs, it.StockIDs, itemStock[it.ID]); err != nil {
			return stats, err
		}
	}
	for _, c := range customers {
		if err := r.repairSet(ctx, &stats, r.tables.Customers, c.ID, AttrSaleIDs, c.SaleIDs, customerSales[c.ID]); err != nil {
			return stats, err
		}
	}
	for _, s := range suppliers {
		if err := r.repairSet(ctx, &stats, r.tables.Suppliers, s.ID, AttrStockIDs, s.StockIDs, supplierStock[s.ID]); err != nil {
			return stats, err
		}
	}

	r.log.Info("repair finished",
		"parents", stats.Parents, "added", stats.Added,
		"removed", stats.Removed, "orphans", stats.Orphans)
	return stats, nil
}

// repairSet diffs a stored back-reference set against the desired membership
// and issues only the missing adds and stale removes.
func (r *Repository) repairSet(ctx context.Context, stats *RepairStats, table, parentID, attr string, stored, desired []string) error {
	want := make(map[string]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}
	have := make(map[string]bool, len(stored))
	for _, id := range stored {
		have[id] = true
	}

	var add, remove []string
	for id := range want {
		if !have[id] {
			add = append(add, id)
		}
	}
	for id := range have {
		if !want[id] {
			remove = append(remove, id)
		}
	}
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}
	sort.Strings(add)
	sort.Strings(remove)

	for _, id := range add {
		if err := r.store.AddToSet(ctx, table, parentID, attr, id); err != nil {
			return err
		}
		stats.Added++
	}
	for _, id := range remove {
		if err := r.store.RemoveFromSet(ctx, table, parentID, attr, id); err != nil {
			return err
		}
		stats.Removed++
	}
	stats.Parents++
	return nil
}
