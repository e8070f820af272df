package orm_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kashvishop/storefront/pkg/database"
	"github.com/kashvishop/storefront/pkg/orm"
)

type widget struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Colour    string
	ShelfCode string
	Stock     int
}

func (widget) TableName() string { return "widget" }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Options{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "orm.db"),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, db.AutoMigrate(&widget{}))
	return db
}

func TestCreateThenRead(t *testing.T) {
	ctx := context.Background()
	repo := orm.NewRepository[widget](openDB(t))
	assert.Equal(t, "widget", repo.Table())

	w := &widget{Name: "bolt", Colour: "grey", Stock: 4}
	require.NoError(t, repo.Create(ctx, w))
	require.NotZero(t, w.ID)

	got, err := repo.Read(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, *w, *got)
}

func TestReadMissing(t *testing.T) {
	repo := orm.NewRepository[widget](openDB(t))

	_, err := repo.Read(context.Background(), 42)
	assert.ErrorIs(t, err, orm.ErrNotFound)
}

func TestReadAllOrderedAndFiltered(t *testing.T) {
	ctx := context.Background()
	repo := orm.NewRepository[widget](openDB(t))

	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(ctx, &widget{Name: name, ShelfCode: "A1"}))
	}
	require.NoError(t, repo.Create(ctx, &widget{Name: "d", ShelfCode: "B2"}))

	all, err := repo.ReadAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "c", all[0].Name)
	assert.Equal(t, "d", all[3].Name)

	// camelCase keys are accepted as column names.
	onA1, err := repo.ReadAll(ctx, map[string]any{"shelfCode": "A1"})
	require.NoError(t, err)
	assert.Len(t, onA1, 3)

	none, err := repo.ReadAll(ctx, map[string]any{"shelf_code": "Z9"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdateChangesOnlyGivenColumns(t *testing.T) {
	ctx := context.Background()
	repo := orm.NewRepository[widget](openDB(t))

	w := &widget{Name: "nut", Colour: "brass", Stock: 9}
	require.NoError(t, repo.Create(ctx, w))

	// A stale in-memory value must not leak into the row.
	w.Colour = "stale"
	require.NoError(t, repo.Update(ctx, w, map[string]any{"stock": 2}))

	assert.Equal(t, 2, w.Stock)
	assert.Equal(t, "brass", w.Colour, "update re-syncs the value from the stored row")

	got, err := repo.Read(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "nut", got.Name)
	assert.Equal(t, "brass", got.Colour)
	assert.Equal(t, 2, got.Stock)
}

func TestUpdateMissingRow(t *testing.T) {
	repo := orm.NewRepository[widget](openDB(t))

	err := repo.Update(context.Background(), &widget{ID: 77}, map[string]any{"stock": 1})
	assert.ErrorIs(t, err, orm.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := orm.NewRepository[widget](openDB(t))

	w := &widget{Name: "washer"}
	require.NoError(t, repo.Create(ctx, w))

	ok, err := repo.Delete(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Read(ctx, w.ID)
	assert.ErrorIs(t, err, orm.ErrNotFound)

	ok, err = repo.Delete(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := orm.NewRepository[widget](openDB(t))

	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Create(ctx, &widget{Name: "temp"}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	all, err := repo.ReadAll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}
