package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "file:shop.db?_foreign_keys=on", withForeignKeys("shop.db"))
	assert.Equal(t, "file::memory:?cache=shared&_foreign_keys=on", withForeignKeys("file::memory:?cache=shared"))
	assert.Equal(t, "file:x.db?_foreign_keys=off", withForeignKeys("file:x.db?_foreign_keys=off"))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle", DSN: "x"})
	assert.ErrorContains(t, err, `unsupported database driver "oracle"`)
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: "file:migrate_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, Migrate(db, zap.NewNop()))
	for _, table := range []string{"users", "tokens", "products", "orders", "cart_items", "categories", "reviews"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}
