package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productColumns() []string {
	return []string{"id", "name", "producer", "unit", "unit_price", "stock", "status", "created_at", "updated_at"}
}

func TestRepository_GetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs(7, StatusActive).
			WillReturnRows(sqlmock.NewRows(productColumns()).
				AddRow(7, "Tomates anciennes", "Ferme du Vallon", "kg", 1000, 5, "active", time.Now(), time.Now()))

		p, err := repo.GetProduct(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "Tomates anciennes", p.Name)
		assert.Equal(t, int64(1000), p.UnitPrice)
		assert.Equal(t, 5, p.Stock)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs(99, StatusActive).
			WillReturnRows(sqlmock.NewRows(productColumns()))

		_, err = repo.GetProduct(ctx, 99)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM products").
			WillReturnError(errors.New("db error"))

		_, err = repo.GetProduct(ctx, 7)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_ListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsApplied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs(StatusActive, uint16(20), uint16(0)).
			WillReturnRows(sqlmock.NewRows(productColumns()).
				AddRow(8, "Oeufs fermiers", "Ferme du Vallon", "douzaine", 450, 3, "active", time.Now(), time.Now()).
				AddRow(7, "Tomates anciennes", "Ferme du Vallon", "kg", 1000, 5, "active", time.Now(), time.Now()))

		products, err := repo.ListProducts(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Oeufs fermiers", products[0].Name)
	})

	t.Run("SecondPageOffset", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs(StatusActive, uint16(10), uint16(10)).
			WillReturnRows(sqlmock.NewRows(productColumns()))

		products, err := repo.ListProducts(ctx, 10, 2)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("DeepPageOffset", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		// page 4000 at limit 20 sits past the uint16 range; the offset
		// must still come out as 79980.
		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs(StatusActive, uint16(20), 79980).
			WillReturnRows(sqlmock.NewRows(productColumns()))

		products, err := repo.ListProducts(ctx, 20, 4000)
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
