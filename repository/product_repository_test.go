package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"bakery-service/models"
	"bakery-service/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAllProducts_AvailableOnly(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "price", "category", "available", "created_at"}).
		AddRow(uuid.New(), "Carrot cake", 3200, "cake", true, now).
		AddRow(uuid.New(), "Rye loaf", 650, "bread", true, now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE available = $1 ORDER BY created_at DESC`)).
		WithArgs(true).
		WillReturnRows(rows)

	products, err := repo.FindAll(context.Background(), repository.ProductQuery{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Carrot cake", products[0].Name)
	assert.Equal(t, models.CategoryBread, products[1].Category)
}

func TestFindProductByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateProduct(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	mock.ExpectCommit()

	p := &models.Product{Name: "Eclair", Price: 450, Category: models.CategoryDessert, Available: false}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, id, p.ID)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateProduct(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := &models.Product{ID: uuid.New(), Name: "Eclair", Price: 500, Category: models.CategoryDessert}
	require.NoError(t, repo.Update(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountProducts(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
