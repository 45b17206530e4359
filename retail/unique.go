package retail

import (
	"context"

	"storefront/store"
)

// Uniqueness answers "does another record already hold this key" for the
// constraints the document store cannot model itself. The probe and the write
// that follows it are not atomic; a race window between them is accepted
// (single logical caller).
type Uniqueness struct {
	store  store.Store
	tables Tables
}

// NewUniqueness creates a checker over the given store and tables.
func NewUniqueness(s store.Store, tables Tables) *Uniqueness {
	tables.validate()
	return &Uniqueness{store: s, tables: tables}
}

// ItemTaken reports whether an item other than excludeID already has this
// (model, brand) pair. On create, pass docid.Zero so nothing is excluded.
func (u *Uniqueness) ItemTaken(ctx context.Context, model, brand, excludeID string) (bool, error) {
	return u.store.ExistsWhere(ctx, u.tables.Items, store.Eq{"model": model, "brand": brand}, excludeID)
}

// CustomerEmailTaken reports whether a customer other than excludeID already
// has this email.
func (u *Uniqueness) CustomerEmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return u.store.ExistsWhere(ctx, u.tables.Customers, store.Eq{"email": email}, excludeID)
}

// SupplierEmailTaken reports whether a supplier other than excludeID already
// has this email.
func (u *Uniqueness) SupplierEmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return u.store.ExistsWhere(ctx, u.tables.Suppliers, store.Eq{"email": email}, excludeID)
}
