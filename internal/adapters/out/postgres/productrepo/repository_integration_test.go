package productrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/productrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/product"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// ProductRepositoryIntegrationTestSuite provides integration tests for the
// product repository using a PostgreSQL container.
type ProductRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *productrepo.GormProductRepository
	tracker    *MockAggregateTracker
}

func (suite *ProductRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&productrepo.ProductDTO{},
		&productrepo.ProductVersionDTO{},
		&productrepo.SizeStockDTO{},
	))
}

func (suite *ProductRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE products, product_versions, size_stocks").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = productrepo.NewGormProductRepository(suite.db, suite.tracker)
}

func (suite *ProductRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ProductRepositoryIntegrationTestSuite) sizeStock(code string, quantity int) product.SizeStock {
	s, err := product.NewSizeStock(code, quantity)
	suite.Require().NoError(err)
	return s
}

func (suite *ProductRepositoryIntegrationTestSuite) createVersionedProduct() *product.Product {
	a, err := product.NewVersion("a", "first edition", []product.SizeStock{
		suite.sizeStock("S", 3),
		suite.sizeStock("M", 5),
	})
	suite.Require().NoError(err)
	b, err := product.NewVersion("b", "second edition", []product.SizeStock{
		suite.sizeStock("M", 2),
	})
	suite.Require().NoError(err)

	p, err := product.NewProduct(kernel.NewUUID(), "Trail Jacket", 129_900, []*product.Version{a, b}, nil, 0)
	suite.Require().NoError(err)
	return p
}

func (suite *ProductRepositoryIntegrationTestSuite) createPlainProduct(stock int) *product.Product {
	p, err := product.NewProduct(kernel.NewUUID(), "Water Bottle", 19_900, nil, nil, stock)
	suite.Require().NoError(err)
	return p
}

func (suite *ProductRepositoryIntegrationTestSuite) TestAdd_RoundTrip() {
	ctx := context.Background()
	testProduct := suite.createVersionedProduct()

	err := suite.repository.Add(ctx, testProduct)
	suite.Require().NoError(err)

	retrieved, err := suite.repository.Get(ctx, testProduct.ID())
	suite.Require().NoError(err)
	suite.Equal("Trail Jacket", retrieved.Name())
	suite.Equal(int64(129_900), retrieved.PriceCents())
	suite.Equal(10, retrieved.Stock(), "aggregate stock recomputed from partitions")
	suite.True(retrieved.IsActive())

	partition, err := retrieved.StockFor("a", "M")
	suite.Require().NoError(err)
	suite.Equal(5, partition)

	partition, err = retrieved.StockFor("b", "M")
	suite.Require().NoError(err)
	suite.Equal(2, partition)
}

func (suite *ProductRepositoryIntegrationTestSuite) TestAdd_Duplicate() {
	ctx := context.Background()
	testProduct := suite.createPlainProduct(4)

	suite.Require().NoError(suite.repository.Add(ctx, testProduct))

	err := suite.repository.Add(ctx, testProduct)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectAlreadyExists)
}

func (suite *ProductRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ProductRepositoryIntegrationTestSuite) TestUpdate_RewritesPartitions() {
	ctx := context.Background()
	testProduct := suite.createVersionedProduct()
	suite.Require().NoError(suite.repository.Add(ctx, testProduct))

	loaded, err := suite.repository.Get(ctx, testProduct.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Reserve(2, "a", "M"))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	retrieved, err := suite.repository.Get(ctx, testProduct.ID())
	suite.Require().NoError(err)
	suite.Equal(8, retrieved.Stock())

	partition, err := retrieved.StockFor("a", "M")
	suite.Require().NoError(err)
	suite.Equal(3, partition)

	// Sibling partitions are untouched.
	partition, err = retrieved.StockFor("a", "S")
	suite.Require().NoError(err)
	suite.Equal(3, partition)

	partition, err = retrieved.StockFor("b", "M")
	suite.Require().NoError(err)
	suite.Equal(2, partition)

	suite.Equal(loaded.RecordVersion()+1, retrieved.RecordVersion())
}

func (suite *ProductRepositoryIntegrationTestSuite) TestUpdate_ConcurrencyConflict() {
	ctx := context.Background()
	testProduct := suite.createPlainProduct(5)
	suite.Require().NoError(suite.repository.Add(ctx, testProduct))

	copyA, err := suite.repository.Get(ctx, testProduct.ID())
	suite.Require().NoError(err)
	copyB, err := suite.repository.Get(ctx, testProduct.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(copyA.Reserve(2, "", ""))
	suite.Require().NoError(suite.repository.Update(ctx, copyA))

	suite.Require().NoError(copyB.Reserve(4, "", ""))
	err = suite.repository.Update(ctx, copyB)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConcurrencyConflict)

	// Only the first writer's reservation landed.
	final, err := suite.repository.Get(ctx, testProduct.ID())
	suite.Require().NoError(err)
	suite.Equal(3, final.Stock())
}

func (suite *ProductRepositoryIntegrationTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()
	testProduct := suite.createPlainProduct(4)

	err := suite.repository.Update(ctx, testProduct)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ProductRepositoryIntegrationTestSuite) TestUpdate_DrainDeactivates() {
	ctx := context.Background()
	testProduct := suite.createPlainProduct(2)
	suite.Require().NoError(suite.repository.Add(ctx, testProduct))

	loaded, err := suite.repository.Get(ctx, testProduct.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Reserve(2, "", ""))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	retrieved, err := suite.repository.Get(ctx, testProduct.ID())
	suite.Require().NoError(err)
	suite.Zero(retrieved.Stock())
	suite.False(retrieved.IsActive())
}

func TestProductRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepositoryIntegrationTestSuite))
}
