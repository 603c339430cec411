package audit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/commlog/internal/database/audit"
	"github.com/mrlokans/commlog/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		UserID:      1,
		EventType:   entities.AuditEventImport,
		Action:      "test_import",
		Description: "Test import event",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "test_import", saved.Action)
}

func TestService_LogImport(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful import", func(t *testing.T) {
		svc.LogImport(1, "log.xlsx", 5, 0, nil)
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "xlsx_import").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "Imported 5 of 5 entries from log.xlsx", event.Description)
		assert.Contains(t, event.Metadata, `"success":5`)
		assert.Empty(t, event.ErrorMsg)
	})

	t.Run("partial import", func(t *testing.T) {
		svc.LogImport(1, "log.csv", 2, 1, []string{`failed to import "B": disk full`})
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "csv_import").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusPartial, event.Status)
		assert.Contains(t, event.ErrorMsg, "disk full")
	})

	t.Run("failed import caps recorded errors", func(t *testing.T) {
		errs := make([]string, 0, 25)
		for i := 0; i < 25; i++ {
			errs = append(errs, fmt.Sprintf("failed to import %q: boom", fmt.Sprint(i)))
		}
		svc.LogImport(1, "old.xls", 0, 25, errs)
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "xls_import").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Contains(t, event.Metadata, `\"9\"`)
		assert.NotContains(t, event.Metadata, `\"10\"`)
	})
}

func TestService_LogBulkDelete(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogBulkDelete(1, []uint{4, 5, 6}, 2)
	svc.LogBulkDelete(1, []uint{42}, 1)
	svc.Wait()

	var events []entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "entry_bulk_delete").Order("id").Find(&events).Error)
	require.Len(t, events, 2)

	assert.Equal(t, entities.AuditEventDelete, events[0].EventType)
	assert.Equal(t, "Deleted 2 of 3 requested entries", events[0].Description)
	assert.Nil(t, events[0].EntityID)

	require.NotNil(t, events[1].EntityID)
	assert.Equal(t, uint(42), *events[1].EntityID)
}

func TestService_GetEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	for i := 0; i < 5; i++ {
		err := svc.Log(&entities.AuditEvent{
			UserID:    1,
			EventType: entities.AuditEventImport,
			Action:    "test",
			Status:    entities.AuditStatusSuccess,
		})
		require.NoError(t, err)
	}

	events, total, err := svc.GetEvents(auditRepo.EventFilter{UserID: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, events, 5)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	require.NoError(t, db.Create(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventImport,
		Action:    "old",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventDelete,
		Action:    "new",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now(),
	}).Error)

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	db.Find(&remaining)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestImportStatus(t *testing.T) {
	assert.Equal(t, entities.AuditStatusSuccess, importStatus(3, 0))
	assert.Equal(t, entities.AuditStatusSuccess, importStatus(0, 0))
	assert.Equal(t, entities.AuditStatusPartial, importStatus(2, 1))
	assert.Equal(t, entities.AuditStatusFailed, importStatus(0, 4))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tc := range tests {
		result := truncate(tc.input, tc.maxLen)
		assert.Equal(t, tc.expected, result)
	}
}
