package repository_test

import (
	"context"
	"regexp"
	"testing"

	"bakery-service/models"
	"bakery-service/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindActiveOfferings_OrderedByDisplayOrder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOfferingRepository(gormDB)

	rows := sqlmock.NewRows([]string{"id", "title", "icon", "active", "display_order"}).
		AddRow(uuid.New(), "Custom cakes", "heart", true, 0).
		AddRow(uuid.New(), "Event catering", "users", true, 1)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "services" WHERE active = $1 ORDER BY display_order ASC,created_at ASC`)).
		WithArgs(true).
		WillReturnRows(rows)

	offerings, err := repo.FindAll(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, offerings, 2)
	assert.Equal(t, "Custom cakes", offerings[0].Title)
	assert.Equal(t, models.IconUsers, offerings[1].Icon)
	assert.Equal(t, 1, offerings[1].DisplayOrder)
}

func TestFindAllOfferings_IncludesInactive(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOfferingRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "services" ORDER BY display_order ASC,created_at ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "active"}).AddRow(uuid.New(), "Workshops", false))

	offerings, err := repo.FindAll(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, offerings, 1)
	assert.False(t, offerings[0].Active)
}

func TestFindOfferingByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOfferingRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "services"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateOffering(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOfferingRepository(gormDB)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "services"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	mock.ExpectCommit()

	o := &models.ServiceOffering{Title: "Custom cakes", Icon: models.IconHeart, Active: true}
	require.NoError(t, repo.Create(context.Background(), o))
	assert.Equal(t, id, o.ID)
}

func TestUpdateOffering_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOfferingRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "services" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.ServiceOffering{ID: uuid.New(), Title: "Gone"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteOffering(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOfferingRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "services"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
