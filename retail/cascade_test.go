package retail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/store"
)

// fixture is a consistent dataset with all the relationship shapes the
// cascades have to handle: one item sold to two customers and stocked by one
// supplier, a second item with its own sale and stock entry.
type fixture struct {
	tv1, tv2     string
	alice, bob   string
	supp1, supp2 string
	sale1        string // alice buys tv1
	sale2        string // bob buys tv1
	sale3        string // bob buys tv2
	entry1       string // supp1 stocks tv1
	entry2       string // supp2 stocks tv2
}

func seedFixture(t *testing.T, repo *Repository) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture
	var err error

	f.tv1, err = repo.AddItem(ctx, itemParams("X900H", "Sony"))
	require.NoError(t, err)
	f.tv2, err = repo.AddItem(ctx, itemParams("Q80T", "Samsung"))
	require.NoError(t, err)
	f.alice, err = repo.AddCustomer(ctx, customerParams("alice@email.com"))
	require.NoError(t, err)
	f.bob, err = repo.AddCustomer(ctx, customerParams("bob@email.com"))
	require.NoError(t, err)
	f.supp1, err = repo.AddSupplier(ctx, supplierParams("contact@techdist.com"))
	require.NoError(t, err)
	f.supp2, err = repo.AddSupplier(ctx, supplierParams("sales@electrosupply.com"))
	require.NoError(t, err)

	f.sale1, err = repo.AddSale(ctx, saleParams(f.alice, f.tv1))
	require.NoError(t, err)
	f.sale2, err = repo.AddSale(ctx, saleParams(f.bob, f.tv1))
	require.NoError(t, err)
	f.sale3, err = repo.AddSale(ctx, saleParams(f.bob, f.tv2))
	require.NoError(t, err)
	f.entry1, err = repo.AddStockEntry(ctx, stockParams(f.tv1, f.supp1))
	require.NoError(t, err)
	f.entry2, err = repo.AddStockEntry(ctx, stockParams(f.tv2, f.supp2))
	require.NoError(t, err)

	return f
}

func TestDeleteItem_Cascades(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	f := seedFixture(t, repo)

	require.NoError(t, repo.DeleteItem(ctx, f.tv1))

	items, err := repo.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.tv2, items[0].ID)

	// The two tv1 sales are gone; bob's tv2 sale survives.
	sales, err := repo.Sales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, f.sale3, sales[0].ID)

	// Surviving customers no longer reference the cascaded sales.
	assert.Empty(t, getCustomer(t, repo, f.alice).SaleIDs)
	assert.Equal(t, []string{f.sale3}, getCustomer(t, repo, f.bob).SaleIDs)

	// tv1's stock entry is gone and pulled from its supplier.
	entries, err := repo.StockEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, f.entry2, entries[0].ID)
	assert.Empty(t, getSupplier(t, repo, f.supp1).StockIDs)
	assert.Equal(t, []string{f.entry2}, getSupplier(t, repo, f.supp2).StockIDs)
}

func TestDeleteCustomer_Cascades(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	f := seedFixture(t, repo)

	require.NoError(t, repo.DeleteCustomer(ctx, f.bob))

	_, err := repo.store.Get(ctx, repo.tables.Customers, f.bob)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Bob's sales on both items are gone; alice's sale survives.
	sales, err := repo.Sales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, f.sale1, sales[0].ID)

	// The items survive and no longer reference bob's sales. Stock is
	// untouched by a customer cascade.
	assert.Equal(t, []string{f.sale1}, getItem(t, repo, f.tv1).SaleIDs)
	assert.Empty(t, getItem(t, repo, f.tv2).SaleIDs)
	assert.Equal(t, []string{f.entry1}, getItem(t, repo, f.tv1).StockIDs)
	assert.Equal(t, []string{f.entry2}, getItem(t, repo, f.tv2).StockIDs)
}

func TestDeleteSupplier_Cascades(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	f := seedFixture(t, repo)

	require.NoError(t, repo.DeleteSupplier(ctx, f.supp1))

	_, err := repo.store.Get(ctx, repo.tables.Suppliers, f.supp1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	entries, err := repo.StockEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, f.entry2, entries[0].ID)

	// tv1 loses its stock reference but keeps its sales.
	tv1 := getItem(t, repo, f.tv1)
	assert.Empty(t, tv1.StockIDs)
	assert.ElementsMatch(t, []string{f.sale1, f.sale2}, tv1.SaleIDs)
}

func TestDeleteItem_UnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	seedFixture(t, repo)

	require.NoError(t, repo.DeleteItem(ctx, "ghost"))

	items, err := repo.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	sales, err := repo.Sales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 3)
}
