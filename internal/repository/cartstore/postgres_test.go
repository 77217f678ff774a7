package cartstore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"cartpricing/internal/domain"
	"cartpricing/internal/repository/cartstore"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../../migrate/sql/0003_cart_rows.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

type cartStoreSuite struct {
	suite.Suite

	repo cartstore.Repository
	pool *pgxpool.Pool
}

func TestCartStoreSuite(t *testing.T) {
	suite.Run(t, new(cartStoreSuite))
}

func (suite *cartStoreSuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.repo = cartstore.NewPostgres(suite.pool)
}

func (suite *cartStoreSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *cartStoreSuite) TestSaveAndRestoreKeepsOrder() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	instance := gofakeit.Username()

	coll := domain.NewLineItemCollection()
	for _, id := range []string{"p3", "p1", "p2"} {
		coll.Put(newItem(t, "product", id, 1, nil))
	}
	require.NoError(t, suite.repo.Save(ctx, instance, coll))

	restored, err := suite.repo.Restore(ctx, instance)
	require.NoError(t, err)
	require.Equal(t, coll.Len(), restored.Len())
	assert.Equal(t, coll.RowIDs(), restored.RowIDs())

	for _, rowID := range coll.RowIDs() {
		want, _ := coll.Get(rowID)
		got, ok := restored.Get(rowID)
		require.True(t, ok)
		assert.Equal(t, want.BuyableType, got.BuyableType)
		assert.Equal(t, want.BuyableID, got.BuyableID)
		assert.Equal(t, want.Quantity, got.Quantity)
	}
}

func (suite *cartStoreSuite) TestSaveReplacesRowsWholesale() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	instance := gofakeit.Username()

	first := domain.NewLineItemCollection()
	first.Put(newItem(t, "product", "p1", 1, nil))
	first.Put(newItem(t, "product", "p2", 1, nil))
	require.NoError(t, suite.repo.Save(ctx, instance, first))

	second := domain.NewLineItemCollection()
	second.Put(newItem(t, "product", "p3", 4, map[string]string{"size": "xl"}))
	require.NoError(t, suite.repo.Save(ctx, instance, second))

	restored, err := suite.repo.Restore(ctx, instance)
	require.NoError(t, err)
	require.Equal(t, 1, restored.Len())

	got, ok := restored.Get(second.RowIDs()[0])
	require.True(t, ok)
	assert.Equal(t, "p3", got.BuyableID)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, map[string]string{"size": "xl"}, got.Options)
}

func (suite *cartStoreSuite) TestRestoreUnknownInstance() {
	t := suite.T()

	_, err := suite.repo.Restore(t.Context(), gofakeit.Username())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *cartStoreSuite) TestDelete() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	instance := gofakeit.Username()

	coll := domain.NewLineItemCollection()
	coll.Put(newItem(t, "product", "p1", 1, nil))
	require.NoError(t, suite.repo.Save(ctx, instance, coll))

	require.NoError(t, suite.repo.Delete(ctx, instance))

	_, err := suite.repo.Restore(ctx, instance)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *cartStoreSuite) TestInstancesAreIsolated() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	main := domain.NewLineItemCollection()
	main.Put(newItem(t, "product", "p1", 1, nil))
	require.NoError(t, suite.repo.Save(ctx, "main", main))

	wishlist := domain.NewLineItemCollection()
	wishlist.Put(newItem(t, "product", "p2", 2, nil))
	require.NoError(t, suite.repo.Save(ctx, "wishlist", wishlist))

	restored, err := suite.repo.Restore(ctx, "main")
	require.NoError(t, err)
	require.Equal(t, 1, restored.Len())

	got, ok := restored.Get(main.RowIDs()[0])
	require.True(t, ok)
	assert.Equal(t, "p1", got.BuyableID)
}

func (suite *cartStoreSuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE cart_rows")
	suite.NoError(err)
}

func newItem(t *testing.T, buyableType, buyableID string, quantity int, options map[string]string) *domain.LineItem {
	t.Helper()
	item, err := domain.NewLineItem(buyableType, buyableID, quantity, options)
	require.NoError(t, err)
	return item
}
