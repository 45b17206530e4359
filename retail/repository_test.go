package retail

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/store"
)

func newTestRepo(t *testing.T) (*Repository, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	repo := NewRepository(m, DefaultTables(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	n := 0
	repo.newID = func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
	return repo, m
}

func money(s string) Money {
	return NewMoney(decimal.RequireFromString(s))
}

func itemParams(model, brand string) ItemParams {
	return ItemParams{
		Model:       model,
		Brand:       brand,
		Price:       money("999.99"),
		ReleaseDate: NewDate(2023, time.May, 15),
		Type:        ItemLED,
		Smart:       true,
	}
}

func customerParams(email string) CustomerParams {
	return CustomerParams{
		FirstName:        "John",
		LastName:         "Doe",
		Email:            email,
		Phone:            "555-0123",
		RegistrationDate: NewDate(2024, time.January, 10),
		Type:             CustomerWorker,
	}
}

func supplierParams(email string) SupplierParams {
	return SupplierParams{
		Name:    "TechDistributors Inc",
		Phone:   "555-1000",
		Address: "123 Tech Street, Tech City",
		Email:   email,
	}
}

func saleParams(customerID, itemID string) SaleParams {
	return SaleParams{
		CustomerID: customerID,
		ItemID:     itemID,
		SaleDate:   NewDate(2025, time.January, 20),
		Quantity:   1,
		Total:      money("999.99"),
	}
}

func stockParams(itemID, supplierID string) StockEntryParams {
	return StockEntryParams{
		ItemID:     itemID,
		SupplierID: supplierID,
		EntryDate:  NewDate(2024, time.December, 1),
		Quantity:   50,
	}
}

func getItem(t *testing.T, repo *Repository, id string) Item {
	t.Helper()
	doc, err := repo.store.Get(context.Background(), repo.tables.Items, id)
	require.NoError(t, err)
	var it Item
	require.NoError(t, unmarshalDoc(doc, &it))
	return it
}

func getCustomer(t *testing.T, repo *Repository, id string) Customer {
	t.Helper()
	doc, err := repo.store.Get(context.Background(), repo.tables.Customers, id)
	require.NoError(t, err)
	var c Customer
	require.NoError(t, unmarshalDoc(doc, &c))
	return c
}

func getSupplier(t *testing.T, repo *Repository, id string) Supplier {
	t.Helper()
	doc, err := repo.store.Get(context.Background(), repo.tables.Suppliers, id)
	require.NoError(t, err)
	var s Supplier
	require.NoError(t, unmarshalDoc(doc, &s))
	return s
}

func TestAddItem_DuplicateModelBrand(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	_, err := repo.AddItem(ctx, itemParams("X900H", "Sony"))
	require.NoError(t, err)

	_, err = repo.AddItem(ctx, itemParams("X900H", "Sony"))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// Same model under a different brand is a different product.
	_, err = repo.AddItem(ctx, itemParams("X900H", "Samsung"))
	assert.NoError(t, err)
}

func TestModifyItem_KeepsOwnKey(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	id, err := repo.AddItem(ctx, itemParams("X900H", "Sony"))
	require.NoError(t, err)

	// Re-submitting the same (model, brand) with a changed price must not
	// trip the uniqueness check.
	p := itemParams("X900H", "Sony")
	p.Price = money("899.99")
	require.NoError(t, repo.ModifyItem(ctx, id, p))

	got := getItem(t, repo, id)
	assert.True(t, got.Price.Equal(money("899.99").Decimal))
}

func TestModifyItem_ConflictsWithOtherItem(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	_, err := repo.AddItem(ctx, itemParams("X900H", "Sony"))
	require.NoError(t, err)
	other, err := repo.AddItem(ctx, itemParams("Q80T", "Samsung"))
	require.NoError(t, err)

	err = repo.ModifyItem(ctx, other, itemParams("X900H", "Sony"))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestModifyItem_UnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.ModifyItem(ctx, "ghost", itemParams("X900H", "Sony")))

	items, err := repo.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "a modify against a missing id must not create a record")
}

func TestModifyItem_PreservesBackReferenceSets(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	itemID, err := repo.AddItem(ctx, itemParams("X900H", "Sony"))
	require.NoError(t, err)
	custID, err := repo.AddCustomer(ctx, customerParams("john@email.com"))
	require.NoError(t, err)
	saleID, err := repo.AddSale(ctx, saleParams(custID, itemID))
	require.NoError(t, err)

	p := itemParams("X900H", "Sony")
	p.Smart = false
	require.NoError(t, repo.ModifyItem(ctx, itemID, p))

	got := getItem(t, repo, itemID)
	assert.Equal(t, []string{saleID}, got.SaleIDs, "field update must not clobber saleIds")
}

func TestAddCustomer_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	_, err := repo.AddCustomer(ctx, customerParams("john@email.com"))
	require.NoError(t, err)

	_, err = repo.AddCustomer(ctx, customerParams("john@email.com"))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestModifyCustomer_ExcludesSelf(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	id, err := repo.AddCustomer(ctx, customerParams("john@email.com"))
	require.NoError(t, err)
	other, err := repo.AddCustomer(ctx, customerParams("jane@email.com"))
	require.NoError(t, err)

	// Keeping your own email is fine; taking someone else's is not.
	require.NoError(t, repo.ModifyCustomer(ctx, id, customerParams("john@email.com")))
	assert.ErrorIs(t, repo.ModifyCustomer(ctx, other, customerParams("john@email.com")), ErrDuplicateKey)
}

func TestAddSupplier_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	_, err := repo.AddSupplier(ctx, supplierParams("contact@techdist.com"))
	require.NoError(t, err)

	_, err = repo.AddSupplier(ctx, supplierParams("contact@techdist.com"))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestExistsProbes(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	itemID, err := repo.AddItem(ctx, itemParams("X900H", "Sony"))
	require.NoError(t, err)
	custID, err := repo.AddCustomer(ctx, customerParams("john@email.com"))
	require.NoError(t, err)

	taken, err := repo.ItemExists(ctx, "X900H", "Sony", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ItemExists(ctx, "X900H", "Sony", itemID)
	require.NoError(t, err)
	assert.False(t, taken, "excluding the holder itself must report free")

	taken, err = repo.CustomerExists(ctx, "john@email.com", custID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.CustomerExists(ctx, "nobody@email.com", "")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	itemID, err := repo.AddItem(ctx, itemParams("X900H", "Sony"))
	require.NoError(t, err)
	custID, err := repo.AddCustomer(ctx, customerParams("john@email.com"))
	require.NoError(t, err)

	t.Run("missing model", func(t *testing.T) {
		p := itemParams("", "Sony")
		_, err := repo.AddItem(ctx, p)
		assert.ErrorIs(t, err, ErrValidation)
	})
	t.Run("negative price", func(t *testing.T) {
		p := itemParams("A80J", "Sony")
		p.Price = money("-1")
		_, err := repo.AddItem(ctx, p)
		assert.ErrorIs(t, err, ErrValidation)
	})
	t.Run("item type out of range", func(t *testing.T) {
		p := itemParams("A80J", "Sony")
		p.Type = 9
		_, err := repo.AddItem(ctx, p)
		assert.ErrorIs(t, err, ErrValidation)
	})
	t.Run("malformed email", func(t *testing.T) {
		_, err := repo.AddCustomer(ctx, customerParams("not-an-email"))
		assert.ErrorIs(t, err, ErrValidation)
	})
	t.Run("zero quantity sale", func(t *testing.T) {
		p := saleParams(custID, itemID)
		p.Quantity = 0
		_, err := repo.AddSale(ctx, p)
		assert.ErrorIs(t, err, ErrValidation)
	})
	t.Run("zero total sale", func(t *testing.T) {
		p := saleParams(custID, itemID)
		p.Total = money("0")
		_, err := repo.AddSale(ctx, p)
		assert.ErrorIs(t, err, ErrValidation)
	})
	t.Run("stock entry without supplier", func(t *testing.T) {
		_, err := repo.AddStockEntry(ctx, stockParams(itemID, ""))
		assert.ErrorIs(t, err, ErrValidation)
	})
	t.Run("invalid modify leaves record untouched", func(t *testing.T) {
		p := itemParams("X900H", "Sony")
		p.Price = money("-5")
		assert.ErrorIs(t, repo.ModifyItem(ctx, itemID, p), ErrValidation)
		got := getItem(t, repo, itemID)
		assert.True(t, got.Price.Equal(money("999.99").Decimal))
	})
}

func TestStoreFailurePropagates(t *testing.T) {
	ctx := context.Background()
	repo, mem := newTestRepo(t)

	mem.FailWith(store.ErrUnavailable)

	_, err := repo.AddItem(ctx, itemParams("X900H", "Sony"))
	assert.ErrorIs(t, err, store.ErrUnavailable)
	_, err = repo.Items(ctx)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.ErrorIs(t, repo.DeleteItem(ctx, "any"), store.ErrUnavailable)
}
