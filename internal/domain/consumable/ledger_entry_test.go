package consumable

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labstock/backend/internal/domain/shared"
)

func TestNewAddEntry(t *testing.T) {
	consumableID := uuid.New()
	addedBy := uuid.New()

	t.Run("creates ADD entry successfully", func(t *testing.T) {
		entry, err := NewAddEntry(consumableID, 10, addedBy, "PO-2026-001")

		require.NoError(t, err)
		assert.Equal(t, EntryTypeAdd, entry.EntryType)
		assert.Equal(t, int64(10), entry.Quantity)
		assert.Equal(t, "PO-2026-001", entry.ReferenceNumber)
		require.NotNil(t, entry.AddedByID)
		assert.Equal(t, addedBy, *entry.AddedByID)
		assert.False(t, entry.IsDeleted)
	})

	t.Run("fails with zero quantity", func(t *testing.T) {
		entry, err := NewAddEntry(consumableID, 0, addedBy, "PO-2026-001")

		require.Error(t, err)
		assert.Nil(t, entry)
	})

	t.Run("fails with negative quantity", func(t *testing.T) {
		entry, err := NewAddEntry(consumableID, -3, addedBy, "PO-2026-001")

		require.Error(t, err)
		assert.Nil(t, entry)
	})

	t.Run("fails without the adding person", func(t *testing.T) {
		entry, err := NewAddEntry(consumableID, 10, uuid.Nil, "PO-2026-001")

		require.Error(t, err)
		assert.Nil(t, entry)
	})
}

func TestNewIssueEntry(t *testing.T) {
	consumableID := uuid.New()
	issuedBy := uuid.New()
	issuedTo := uuid.New()

	t.Run("creates ISSUE entry with both people", func(t *testing.T) {
		entry, err := NewIssueEntry(consumableID, 5, &issuedBy, &issuedTo, "ISS-2026-001")

		require.NoError(t, err)
		assert.Equal(t, EntryTypeIssue, entry.EntryType)
		assert.Equal(t, int64(-5), entry.SignedQuantity())
		assert.True(t, entry.PersonRefs())
	})

	t.Run("accepts a single person reference", func(t *testing.T) {
		entry, err := NewIssueEntry(consumableID, 5, nil, &issuedTo, "ISS-2026-001")

		require.NoError(t, err)
		assert.Nil(t, entry.IssuedByID)
		require.NotNil(t, entry.IssuedToID)
	})

	t.Run("fails without any person reference", func(t *testing.T) {
		entry, err := NewIssueEntry(consumableID, 5, nil, nil, "ISS-2026-001")

		require.Error(t, err)
		assert.Nil(t, entry)
	})
}

func TestLedgerEntry_IsBatchIssue(t *testing.T) {
	issuedTo := uuid.New()

	single, err := NewIssueEntry(uuid.New(), 2, nil, &issuedTo, "ISS-1")
	require.NoError(t, err)
	assert.False(t, single.IsBatchIssue())

	batch, err := NewIssueEntry(uuid.New(), 2, nil, &issuedTo, "ISS-2")
	require.NoError(t, err)
	batch.WithIssueGroupID("SLIP-2026-014")
	assert.True(t, batch.IsBatchIssue())
}

func TestLedgerEntry_SoftDelete(t *testing.T) {
	entry := createTestAddEntry(t, 10)

	t.Run("marks entry deleted", func(t *testing.T) {
		require.NoError(t, entry.SoftDelete())
		assert.True(t, entry.IsDeleted)
	})

	t.Run("rejects a second delete", func(t *testing.T) {
		err := entry.SoftDelete()

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_DELETED", domainErr.Code)
	})
}

func TestLedgerEntry_ChangeQuantity(t *testing.T) {
	t.Run("returns signed delta", func(t *testing.T) {
		entry := createTestAddEntry(t, 10)

		delta, err := entry.ChangeQuantity(6)

		require.NoError(t, err)
		assert.Equal(t, int64(-4), delta)
		assert.Equal(t, int64(6), entry.Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		entry := createTestAddEntry(t, 10)

		_, err := entry.ChangeQuantity(0)

		require.Error(t, err)
		assert.Equal(t, int64(10), entry.Quantity)
	})

	t.Run("rejects edit on deleted entry", func(t *testing.T) {
		entry := createTestAddEntry(t, 10)
		require.NoError(t, entry.SoftDelete())

		_, err := entry.ChangeQuantity(6)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_DELETED", domainErr.Code)
	})
}

func TestLedgerEntry_SetPersonRefs(t *testing.T) {
	entry := createTestAddEntry(t, 10)
	newPerson := uuid.New()

	t.Run("replaces references", func(t *testing.T) {
		require.NoError(t, entry.SetPersonRefs(&newPerson, nil, nil))
		assert.Equal(t, newPerson, *entry.AddedByID)
	})

	t.Run("rejects clearing all references", func(t *testing.T) {
		err := entry.SetPersonRefs(nil, nil, nil)
		require.Error(t, err)
		assert.Equal(t, newPerson, *entry.AddedByID)
	})
}

func TestLedgerEntry_WithTransactionDate(t *testing.T) {
	entry := createTestAddEntry(t, 10)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	entry.WithTransactionDate(date)

	assert.Equal(t, date, entry.TransactionDate)
}

func createTestAddEntry(t *testing.T, quantity int64) *LedgerEntry {
	t.Helper()
	entry, err := NewAddEntry(uuid.New(), quantity, uuid.New(), "")
	require.NoError(t, err)
	return entry
}
