package product_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"cartpricing/internal/domain"
	"cartpricing/internal/repository/product"
)

type productRepositorySuite struct {
	suite.Suite

	repo product.Repository
	pool *pgxpool.Pool
}

func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(productRepositorySuite))
}

func (suite *productRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.repo = product.NewPostgres(suite.pool, nil)
}

func (suite *productRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *productRepositorySuite) TestUpsertAndGet() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	want := randomProduct()
	saved, err := suite.repo.Upsert(ctx, want)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	bySKU, err := suite.repo.GetBySKU(ctx, want.SKU)
	require.NoError(t, err)
	assertProduct(t, want, *bySKU)

	byID, err := suite.repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assertProduct(t, want, *byID)
}

func (suite *productRepositorySuite) TestUpsertReplacesPrices() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p := randomProduct()
	p.Prices = []domain.ProductPrice{
		{Currency: "USD", Cents: 1000},
		{Currency: "EUR", Locale: "de", Cents: 900},
	}
	_, err := suite.repo.Upsert(ctx, p)
	require.NoError(t, err)

	// Second upsert with the same sku drops the old price rows.
	p.Name = gofakeit.ProductName()
	p.Prices = []domain.ProductPrice{{Currency: "USD", Cents: 1100}}
	_, err = suite.repo.Upsert(ctx, p)
	require.NoError(t, err)

	got, err := suite.repo.GetBySKU(ctx, p.SKU)
	require.NoError(t, err)
	assertProduct(t, p, *got)
}

func (suite *productRepositorySuite) TestFindManyByIDs() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	first, err := suite.repo.Upsert(ctx, randomProduct())
	require.NoError(t, err)
	second, err := suite.repo.Upsert(ctx, randomProduct())
	require.NoError(t, err)

	missing := gofakeit.UUID()
	found, err := suite.repo.FindManyByIDs(ctx, []string{first.ID, second.ID, missing})
	require.NoError(t, err)

	// Missing ids are simply absent, not an error.
	require.Len(t, found, 2)
	assert.Contains(t, found, first.ID)
	assert.Contains(t, found, second.ID)
	assert.NotContains(t, found, missing)
	assert.NotEmpty(t, found[first.ID].Prices)
}

func (suite *productRepositorySuite) TestFindManyByIDsEmpty() {
	t := suite.T()

	found, err := suite.repo.FindManyByIDs(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func (suite *productRepositorySuite) TestGetNotFound() {
	t := suite.T()
	ctx := t.Context()

	_, err := suite.repo.GetByID(ctx, gofakeit.UUID())
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = suite.repo.GetBySKU(ctx, "SKU-DOES-NOT-EXIST")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *productRepositorySuite) TestListAll() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	for range 3 {
		_, err := suite.repo.Upsert(ctx, randomProduct())
		require.NoError(t, err)
	}

	all, err := suite.repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, p := range all {
		assert.NotEmpty(t, p.Prices)
	}
}

func (suite *productRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE products CASCADE")
	suite.NoError(err)
}

func randomProduct() domain.Product {
	return domain.Product{
		SKU:                "SKU-" + gofakeit.UUID(),
		Name:               gofakeit.ProductName(),
		Currency:           "USD",
		OriginalPriceCents: int64(gofakeit.Number(100, 100_000)),
		Prices: []domain.ProductPrice{
			{Currency: "USD", Cents: int64(gofakeit.Number(100, 100_000))},
			{Currency: "EUR", Locale: "de", Cents: int64(gofakeit.Number(100, 100_000))},
		},
	}
}

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Product{}, "ID", "CreatedAt"),
		cmpopts.SortSlices(func(a, b domain.ProductPrice) bool {
			if a.Currency != b.Currency {
				return a.Currency < b.Currency
			}
			return a.Locale < b.Locale
		}),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
}
