package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/commlog/internal/entities"
)

func TestNewDatabase_MigratesTables(t *testing.T) {
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, model := range []any{&entities.User{}, &entities.Entry{}, &entities.AuditEvent{}} {
		assert.True(t, db.DB.Migrator().HasTable(model))
	}
	assert.NoError(t, db.Ping(context.Background()))
}

func TestNewDatabase_File(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "commlog.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.DB.Create(&entities.User{Username: "anna", Token: "t"}).Error)
	require.NoError(t, db.Close())

	reopened, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	var count int64
	require.NoError(t, reopened.DB.Model(&entities.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDatabase_PingAfterClose(t *testing.T) {
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Error(t, db.Ping(context.Background()))
}
