package retail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"storefront/internal/docid"
	"storefront/store"
)

// Repository is the operation set consumed by the presentation layer: list,
// add, modify and delete for each record kind, plus the uniqueness probes
// callers use for user-facing duplicate warnings.
//
// Every write operation is synchronous and returns either nil or a specific
// failure; nothing is retried internally.
type Repository struct {
	store    store.Store
	tables   Tables
	uniq     *Uniqueness
	refs     *Refs
	cascade  *Cascade
	validate *validator.Validate
	log      *slog.Logger

	// newID generates document ids; swapped out in tests for determinism.
	newID func() string
}

// NewRepository wires the engine over the given store. A nil logger falls
// back to slog.Default.
func NewRepository(s store.Store, tables Tables, logger *slog.Logger) *Repository {
	tables.validate()
	if logger == nil {
		logger = slog.Default()
	}
	refs := NewRefs(s)
	return &Repository{
		store:    s,
		tables:   tables,
		uniq:     NewUniqueness(s, tables),
		refs:     refs,
		cascade:  NewCascade(s, tables, refs, logger),
		validate: newValidator(),
		log:      logger,
		newID:    docid.New,
	}
}

// Tables returns the table set the repository operates on.
func (r *Repository) Tables() Tables {
	return r.tables
}

// ItemParams carries the caller-supplied fields of an item.
type ItemParams struct {
	Model       string   `json:"model" validate:"required"`
	Brand       string   `json:"brand" validate:"required"`
	Price       Money    `json:"price" validate:"gte=0"`
	ReleaseDate Date     `json:"releaseDate" validate:"required"`
	Type        ItemType `json:"type" validate:"gte=0,lte=4"`
	Smart       bool     `json:"isSmart"`
}

// CustomerParams carries the caller-supplied fields of a customer.
type CustomerParams struct {
	FirstName        string       `json:"firstName" validate:"required"`
	LastName         string       `json:"lastName" validate:"required"`
	Email            string       `json:"email" validate:"required,email"`
	Phone            string       `json:"phone" validate:"required"`
	RegistrationDate Date         `json:"registrationDate" validate:"required"`
	Type             CustomerType `json:"type" validate:"gte=0,lte=3"`
}

// SupplierParams carries the caller-supplied fields of a supplier.
type SupplierParams struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// SaleParams carries the caller-supplied fields of a sale.
type SaleParams struct {
	CustomerID string `json:"customerId" validate:"required"`
	ItemID     string `json:"itemId" validate:"required"`
	SaleDate   Date   `json:"saleDate" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	Total      Money  `json:"total" validate:"gt=0"`
}

// StockEntryParams carries the caller-supplied fields of a stock entry.
type StockEntryParams struct {
	ItemID     string `json:"itemId" validate:"required"`
	SupplierID string `json:"supplierId" validate:"required"`
	EntryDate  Date   `json:"entryDate" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
}

// --- Items ---

// Items returns a snapshot of every item, in store-native order.
func (r *Repository) Items(ctx context.Context) ([]Item, error) {
	docs, err := r.store.Scan(ctx, r.tables.Items)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		var it Item
		if err := unmarshalDoc(doc, &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// AddItem creates an item and returns its id. Fails with ErrDuplicateKey when
// another item already has the same (model, brand).
func (r *Repository) AddItem(ctx context.Context, p ItemParams) (string, error) {
	if err := r.check(p); err != nil {
		return "", err
	}
	taken, err := r.uniq.ItemTaken(ctx, p.Model, p.Brand, docid.Zero)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("item %s/%s: %w", p.Brand, p.Model, ErrDuplicateKey)
	}

	it := Item{
		ID:          r.newID(),
		Model:       p.Model,
		Brand:       p.Brand,
		Price:       p.Price,
		ReleaseDate: p.ReleaseDate,
		Type:        p.Type,
		Smart:       p.Smart,
	}
	doc, err := marshalDoc(it)
	if err != nil {
		return "", err
	}
	if err := r.store.Insert(ctx, r.tables.Items, doc); err != nil {
		return "", err
	}
	r.log.Info("item added", "id", it.ID, "model", it.Model, "brand", it.Brand)
	return it.ID, nil
}

// ModifyItem overwrites an item's fields. Modifying an item back to its own
// current (model, brand) does not trip the uniqueness check; an unknown id is
// a silent no-op. The back-reference sets are never touched here.
func (r *Repository) ModifyItem(ctx context.Context, id string, p ItemParams) error {
	if err := r.check(p); err != nil {
		return err
	}
	taken, err := r.uniq.ItemTaken(ctx, p.Model, p.Brand, id)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("item %s/%s: %w", p.Brand, p.Model, ErrDuplicateKey)
	}

	doc, err := marshalDoc(Item{
		Model:       p.Model,
		Brand:       p.Brand,
		Price:       p.Price,
		ReleaseDate: p.ReleaseDate,
		Type:        p.Type,
		Smart:       p.Smart,
	})
	if err != nil {
		return err
	}
	return r.store.UpdateFields(ctx, r.tables.Items, id, doc)
}

// DeleteItem cascade-deletes an item (see Cascade.DeleteItem).
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	return r.cascade.DeleteItem(ctx, id)
}

// ItemExists reports whether an item other than excludeID holds the given
// (model, brand). Pass an empty excludeID when creating.
func (r *Repository) ItemExists(ctx context.Context, model, brand, excludeID string) (bool, error) {
	return r.uniq.ItemTaken(ctx, model, brand, excludeID)
}

// --- Customers ---

// Customers returns a snapshot of every customer.
func (r *Repository) Customers(ctx context.Context) ([]Customer, error) {
	docs, err := r.store.Scan(ctx, r.tables.Customers)
	if err != nil {
		return nil, err
	}
	customers := make([]Customer, 0, len(docs))
	for _, doc := range docs {
		var c Customer
		if err := unmarshalDoc(doc, &c); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// AddCustomer creates a customer and returns its id. Fails with
// ErrDuplicateKey when the email is already registered.
func (r *Repository) AddCustomer(ctx context.Context, p CustomerParams) (string, error) {
	if err := r.check(p); err != nil {
		return "", err
	}
	taken, err := r.uniq.CustomerEmailTaken(ctx, p.Email, docid.Zero)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("customer %s: %w", p.Email, ErrDuplicateKey)
	}

	c := Customer{
		ID:               r.newID(),
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		Phone:            p.Phone,
		RegistrationDate: p.RegistrationDate,
		Type:             p.Type,
	}
	doc, err := marshalDoc(c)
	if err != nil {
		return "", err
	}
	if err := r.store.Insert(ctx, r.tables.Customers, doc); err != nil {
		return "", err
	}
	r.log.Info("customer added", "id", c.ID)
	return c.ID, nil
}

// ModifyCustomer overwrites a customer's fields with exclude-self uniqueness
// semantics; an unknown id is a silent no-op.
func (r *Repository) ModifyCustomer(ctx context.Context, id string, p CustomerParams) error {
	if err := r.check(p); err != nil {
		return err
	}
	taken, err := r.uniq.CustomerEmailTaken(ctx, p.Email, id)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("customer %s: %w", p.Email, ErrDuplicateKey)
	}

	doc, err := marshalDoc(Customer{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		Phone:            p.Phone,
		RegistrationDate: p.RegistrationDate,
		Type:             p.Type,
	})
	if err != nil {
		return err
	}
	return r.store.UpdateFields(ctx, r.tables.Customers, id, doc)
}

// DeleteCustomer cascade-deletes a customer (see Cascade.DeleteCustomer).
func (r *Repository) DeleteCustomer(ctx context.Context, id string) error {
	return r.cascade.DeleteCustomer(ctx, id)
}

// CustomerExists reports whether a customer other than excludeID holds the
// given email.
func (r *Repository) CustomerExists(ctx context.Context, email, excludeID string) (bool, error) {
	return r.uniq.CustomerEmailTaken(ctx, email, excludeID)
}

// --- Suppliers ---

// Suppliers returns a snapshot of every supplier.
func (r *Repository) Suppliers(ctx context.Context) ([]Supplier, error) {
	docs, err := r.store.Scan(ctx, r.tables.Suppliers)
	if err != nil {
		return nil, err
	}
	suppliers := make([]Supplier, 0, len(docs))
	for _, doc := range docs {
		var s Supplier
		if err := unmarshalDoc(doc, &s); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, nil
}

// AddSupplier creates a supplier and returns its id. Fails with
// ErrDuplicateKey when the email is already registered.
func (r *Repository) AddSupplier(ctx context.Context, p SupplierParams) (string, error) {
	if err := r.check(p); err != nil {
		return "", err
	}
	taken, err := r.uniq.SupplierEmailTaken(ctx, p.Email, docid.Zero)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("supplier %s: %w", p.Email, ErrDuplicateKey)
	}

	s := Supplier{
		ID:      r.newID(),
		Name:    p.Name,
		Phone:   p.Phone,
		Address: p.Address,
		Email:   p.Email,
	}
	doc, err := marshalDoc(s)
	if err != nil {
		return "", err
	}
	if err := r.store.Insert(ctx, r.tables.Suppliers, doc); err != nil {
		return "", err
	}
	r.log.Info("supplier added", "id", s.ID)
	return s.ID, nil
}

// ModifySupplier overwrites a supplier's fields with exclude-self uniqueness
// semantics; an unknown id is a silent no-op.
func (r *Repository) ModifySupplier(ctx context.Context, id string, p SupplierParams) error {
	if err := r.check(p); err != nil {
		return err
	}
	taken, err := r.uniq.SupplierEmailTaken(ctx, p.Email, id)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("supplier %s: %w", p.Email, ErrDuplicateKey)
	}

	doc, err := marshalDoc(Supplier{
		Name:    p.Name,
		Phone:   p.Phone,
		Address: p.Address,
		Email:   p.Email,
	})
	if err != nil {
		return err
	}
	return r.store.UpdateFields(ctx, r.tables.Suppliers, id, doc)
}

// DeleteSupplier cascade-deletes a supplier (see Cascade.DeleteSupplier).
func (r *Repository) DeleteSupplier(ctx context.Context, id string) error {
	return r.cascade.DeleteSupplier(ctx, id)
}

// SupplierExists reports whether a supplier other than excludeID holds the
// given email.
func (r *Repository) SupplierExists(ctx context.Context, email, excludeID string) (bool, error) {
	return r.uniq.SupplierEmailTaken(ctx, email, excludeID)
}

// --- Sales ---

// Sales returns a snapshot of every sale.
func (r *Repository) Sales(ctx context.Context) ([]Sale, error) {
	docs, err := r.store.Scan(ctx, r.tables.Sales)
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

// AddSale creates a sale and pushes its id into the referenced customer's and
// item's back-reference sets.
func (r *Repository) AddSale(ctx context.Context, p SaleParams) (string, error) {
	if err := r.check(p); err != nil {
		return "", err
	}
	s := Sale{
		ID:         r.newID(),
		CustomerID: p.CustomerID,
		ItemID:     p.ItemID,
		SaleDate:   p.SaleDate,
		Quantity:   p.Quantity,
		Total:      p.Total,
	}
	doc, err := marshalDoc(s)
	if err != nil {
		return "", err
	}
	if err := r.store.Insert(ctx, r.tables.Sales, doc); err != nil {
		return "", err
	}
	if err := r.refs.ChildCreated(ctx, s.ID,
		r.tables.CustomerSales(p.CustomerID),
		r.tables.ItemSales(p.ItemID),
	); err != nil {
		return "", err
	}
	r.log.Info("sale added", "id", s.ID, "customer", p.CustomerID, "item", p.ItemID)
	return s.ID, nil
}

// ModifySale overwrites a sale. Back-reference migration runs before the
// canonical fields are overwritten, so the old foreign keys are read while
// they still exist; each of the two keys migrates independently and only when
// it actually changed. Returns ErrNotFound for an unknown id.
func (r *Repository) ModifySale(ctx context.Context, id string, p SaleParams) error {
	if err := r.check(p); err != nil {
		return err
	}
	doc, err := r.store.Get(ctx, r.tables.Sales, id)
	if err != nil {
		return fmt.Errorf("sale %s: %w", id, err)
	}
	var existing Sale
	if err := unmarshalDoc(doc, &existing); err != nil {
		return err
	}

	if err := r.refs.ChildMoved(ctx, id,
		r.tables.CustomerSales(existing.CustomerID),
		r.tables.CustomerSales(p.CustomerID),
	); err != nil {
		return err
	}
	if err := r.refs.ChildMoved(ctx, id,
		r.tables.ItemSales(existing.ItemID),
		r.tables.ItemSales(p.ItemID),
	); err != nil {
		return err
	}

	fields, err := marshalDoc(Sale{
		CustomerID: p.CustomerID,
		ItemID:     p.ItemID,
		SaleDate:   p.SaleDate,
		Quantity:   p.Quantity,
		Total:      p.Total,
	})
	if err != nil {
		return err
	}
	return r.store.UpdateFields(ctx, r.tables.Sales, id, fields)
}

// DeleteSale removes a sale, pulling its id from both parents' sets first.
// Deleting an id that is already gone is a no-op.
func (r *Repository) DeleteSale(ctx context.Context, id string) error {
	doc, err := r.store.Get(ctx, r.tables.Sales, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	}
	var s Sale
	if err := unmarshalDoc(doc, &s); err != nil {
		return err
	}
	if err := r.refs.ChildRemoved(ctx, id,
		r.tables.CustomerSales(s.CustomerID),
		r.tables.ItemSales(s.ItemID),
	); err != nil {
		return err
	}
	return r.store.DeleteOne(ctx, r.tables.Sales, id)
}

// --- Stock entries ---

// StockEntries returns a snapshot of every stock entry.
func (r *Repository) StockEntries(ctx context.Context) ([]StockEntry, error) {
	docs, err := r.store.Scan(ctx, r.tables.StockEntries)
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

// AddStockEntry creates a stock entry and pushes its id into the referenced
// item's and supplier's back-reference sets.
func (r *Repository) AddStockEntry(ctx context.Context, p StockEntryParams) (string, error) {
	if err := r.check(p); err != nil {
		return "", err
	}
	e := StockEntry{
		ID:         r.newID(),
		ItemID:     p.ItemID,
		SupplierID: p.SupplierID,
		EntryDate:  p.EntryDate,
		Quantity:   p.Quantity,
	}
	doc, err := marshalDoc(e)
	if err != nil {
		return "", err
	}
	if err := r.store.Insert(ctx, r.tables.StockEntries, doc); err != nil {
		return "", err
	}
	if err := r.refs.ChildCreated(ctx, e.ID,
		r.tables.ItemStock(p.ItemID),
		r.tables.SupplierStock(p.SupplierID),
	); err != nil {
		return "", err
	}
	r.log.Info("stock entry added", "id", e.ID, "item", p.ItemID, "supplier", p.SupplierID)
	return e.ID, nil
}

// ModifyStockEntry overwrites a stock entry, migrating each changed foreign
// key independently before the field update. Returns ErrNotFound for an
// unknown id.
func (r *Repository) ModifyStockEntry(ctx context.Context, id string, p StockEntryParams) error {
	if err := r.check(p); err != nil {
		return err
	}
	doc, err := r.store.Get(ctx, r.tables.StockEntries, id)
	if err != nil {
		return fmt.Errorf("stock entry %s: %w", id, err)
	}
	var existing StockEntry
	if err := unmarshalDoc(doc, &existing); err != nil {
		return err
	}

	if err := r.refs.ChildMoved(ctx, id,
		r.tables.ItemStock(existing.ItemID),
		r.tables.ItemStock(p.ItemID),
	); err != nil {
		return err
	}
	if err := r.refs.ChildMoved(ctx, id,
		r.tables.SupplierStock(existing.SupplierID),
		r.tables.SupplierStock(p.SupplierID),
	); err != nil {
		return err
	}

	fields, err := marshalDoc(StockEntry{
		ItemID:     p.ItemID,
		SupplierID: p.SupplierID,
		EntryDate:  p.EntryDate,
		Quantity:   p.Quantity,
	})
	if err != nil {
		return err
	}
	return r.store.UpdateFields(ctx, r.tables.StockEntries, id, fields)
}

// DeleteStockEntry removes a stock entry, pulling its id from both parents'
// sets first. Deleting an id that is already gone is a no-op.
func (r *Repository) DeleteStockEntry(ctx context.Context, id string) error {
	doc, err := r.store.Get(ctx, r.tables.StockEntries, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	}
	var e StockEntry
	if err := unmarshalDoc(doc, &e); err != nil {
		return err
	}
	if err := r.refs.ChildRemoved(ctx, id,
		r.tables.ItemStock(e.ItemID),
		r.tables.SupplierStock(e.SupplierID),
	); err != nil {
		return err
	}
	return r.store.DeleteOne(ctx, r.tables.StockEntries, id)
}
