package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/labstock/backend/internal/domain/consumable"
	"github.com/labstock/backend/internal/domain/shared"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormConsumableRepository_FindByID(t *testing.T) {
	t.Run("finds existing consumable", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormConsumableRepository(db)

		id := uuid.New()
		categoryID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "category_id", "unit", "quantity", "claimed_quantity", "min_quantity"}).
			AddRow(id, "Nitrile Gloves M", categoryID, "box", int64(12), int64(3), int64(5))

		mock.ExpectQuery(`SELECT \* FROM "consumables" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		c, err := repo.FindByID(context.Background(), id)

		assert.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, id, c.ID)
		assert.Equal(t, "Nitrile Gloves M", c.Name)
		assert.Equal(t, int64(9), c.AvailableQuantity())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("translates missing row to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormConsumableRepository(db)

		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "consumables" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		c, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, c)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormConsumableRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("acquires row lock", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormConsumableRepository(db)

		id := uuid.New()
		categoryID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "category_id", "quantity", "claimed_quantity"}).
			AddRow(id, "Pipette Tips 200ul", categoryID, int64(40), int64(0))

		mock.ExpectQuery(`SELECT \* FROM "consumables" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		c, err := repo.FindByIDForUpdate(context.Background(), id)

		assert.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, int64(40), c.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormConsumableRepository_FindByNameAndCategory(t *testing.T) {
	t.Run("finds by name within category", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormConsumableRepository(db)

		id := uuid.New()
		categoryID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "category_id", "quantity", "claimed_quantity"}).
			AddRow(id, "Ethanol 96%", categoryID, int64(6), int64(0))

		mock.ExpectQuery(`SELECT \* FROM "consumables" WHERE name = \$1 AND category_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("Ethanol 96%", categoryID, 1).
			WillReturnRows(rows)

		c, err := repo.FindByNameAndCategory(context.Background(), "Ethanol 96%", categoryID)

		assert.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, categoryID, c.CategoryID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormConsumableRepository_FindBelowMinimum(t *testing.T) {
	t.Run("queries threshold condition", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormConsumableRepository(db)

		id := uuid.New()
		categoryID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "category_id", "quantity", "claimed_quantity", "min_quantity"}).
			AddRow(id, "Syringe Filters", categoryID, int64(2), int64(0), int64(10))

		mock.ExpectQuery(`SELECT \* FROM "consumables" WHERE min_quantity > 0 AND \(quantity - claimed_quantity\) < min_quantity`).
			WillReturnRows(rows)

		items, err := repo.FindBelowMinimum(context.Background(), shared.DefaultFilter())

		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Syringe Filters", items[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormConsumableRepository_Save(t *testing.T) {
	t.Run("maps unique violation to already exists", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormConsumableRepository(db)

		c, err := consumable.NewConsumable("Nitrile Gloves M", uuid.New())
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "consumables" SET`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_consumable_name_category"})

		err = repo.Save(context.Background(), c)

		assert.Equal(t, shared.ErrAlreadyExists, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("passes through other database errors", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormConsumableRepository(db)

		c, err := consumable.NewConsumable("Pipette Tips 200ul", uuid.New())
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "consumables" SET`).
			WillReturnError(&pgconn.PgError{Code: "40001"})

		err = repo.Save(context.Background(), c)

		require.Error(t, err)
		assert.NotEqual(t, shared.ErrAlreadyExists, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormConsumableRepository_Delete(t *testing.T) {
	t.Run("deletes the record without touching ledger rows", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormConsumableRepository(db)

		id := uuid.New()

		// Exactly one statement against consumables; the ledger keeps its
		// history for the deleted record.
		mock.ExpectExec(`DELETE FROM "consumables" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), id)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormConsumableRepository(db)

		id := uuid.New()

		mock.ExpectExec(`DELETE FROM "consumables" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), id)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
