package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/foodscore/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalysis(id, name string, score int, at time.Time) *domain.Analysis {
	return &domain.Analysis{
		ID: id,
		Product: &domain.NormalizedProductRecord{
			ProductName: name,
			Barcode:     "0123",
			Source:      "openfoodfacts",
			Ingredients: []string{"sugar", "cocoa"},
		},
		Score: &domain.ScoreResult{
			TotalScore:  score,
			Band:        domain.BandModerate,
			Baseline:    50,
			ScoreImpact: score - 50,
		},
		AnalyzedAt: at,
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		a := newAnalysis(fmt.Sprintf("id-%d", i), fmt.Sprintf("Product %d", i), 40+i, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Save(ctx, a))
	}

	entries, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "id-2", entries[0].ID)
	assert.Equal(t, "id-0", entries[2].ID)
	assert.Equal(t, domain.HistoryEntry{
		ID:               "id-2",
		ProductName:      "Product 2",
		Barcode:          "0123",
		Source:           "openfoodfacts",
		Score:            42,
		Band:             domain.BandModerate,
		ScoreImpact:      -8,
		IngredientsCount: 2,
		CreatedAt:        base.Add(2 * time.Minute),
	}, entries[0])

	t.Run("respects limit", func(t *testing.T) {
		entries, err := store.List(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("non-positive limit returns nothing", func(t *testing.T) {
		entries, err := store.List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestStore_SaveGeneratesMissingFields(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	fixed := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	require.NoError(t, store.Save(ctx, newAnalysis("", "No ID", 50, time.Time{})))

	entries, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].ID, 36)
	assert.Equal(t, fixed, entries[0].CreatedAt)
}

func TestStore_SaveRejectsDuplicatesAndIncomplete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	a := newAnalysis("dup", "Dup", 50, time.Now())
	require.NoError(t, store.Save(ctx, a))
	assert.Error(t, store.Save(ctx, a))

	assert.Error(t, store.Save(ctx, nil))
	assert.Error(t, store.Save(ctx, &domain.Analysis{ID: "x"}))
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, newAnalysis("persisted", "Oats", 85, time.Now())))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.List(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "persisted", entries[0].ID)
}

func TestStore_DatabaseErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("init failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS analysis_history").WillReturnError(errors.New("read-only"))

		err = NewStore(db).Init(ctx)
		assert.ErrorContains(t, err, "failed to create history schema")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO analysis_history").
			WithArgs("a1", "Oats", "0123", "openfoodfacts", 60, "Moderate", 10, 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(errors.New("disk full"))

		err = NewStore(db).Save(ctx, newAnalysis("a1", "Oats", 60, time.Now()))
		assert.ErrorContains(t, err, "insert analysis a1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM analysis_history").WithArgs(5).WillReturnError(errors.New("locked"))

		_, err = NewStore(db).List(ctx, 5)
		assert.ErrorContains(t, err, "history: query")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scan failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "product_name", "barcode", "source", "score", "band", "score_impact", "ingredients_count", "created_at"}).
			AddRow("a1", "Oats", "", "usda", "not-a-number", "Good", 10, 3, int64(0))
		mock.ExpectQuery("SELECT (.+) FROM analysis_history").WithArgs(5).WillReturnRows(rows)

		_, err = NewStore(db).List(ctx, 5)
		assert.ErrorContains(t, err, "history: scan")
	})

	t.Run("rows from mock", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{"id", "product_name", "barcode", "source", "score", "band", "score_impact", "ingredients_count", "created_at"}).
			AddRow("a1", "Oats", "", "usda", 70, "Good", 20, 3, at.UnixNano())
		mock.ExpectQuery("SELECT (.+) FROM analysis_history").WithArgs(5).WillReturnRows(rows)

		entries, err := NewStore(db).List(ctx, 5)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.BandGood, entries[0].Band)
		assert.Equal(t, at, entries[0].CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
