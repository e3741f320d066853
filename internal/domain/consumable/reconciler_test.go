package consumable

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labstock/backend/internal/domain/shared"
)

func TestReconciler_Replay(t *testing.T) {
	reconciler := NewReconciler()

	t.Run("computes running balances in date order", func(t *testing.T) {
		consumableID := uuid.New()
		entryA := ledgerEntryAt(t, consumableID, EntryTypeAdd, 10, day(1))
		entryB := ledgerEntryAt(t, consumableID, EntryTypeAdd, 5, day(2))
		entryC := ledgerEntryAt(t, consumableID, EntryTypeIssue, 8, day(3))

		// Deliberately out of order
		result := reconciler.Replay([]*LedgerEntry{entryC, entryA, entryB})

		assert.Equal(t, int64(15), result.AddTotal)
		assert.Equal(t, int64(8), result.IssueTotal)
		assert.Equal(t, int64(10), entryA.RemainingQuantity)
		assert.Equal(t, int64(15), entryB.RemainingQuantity)
		assert.Equal(t, int64(7), entryC.RemainingQuantity)
		assert.Len(t, result.Changed, 3)
	})

	t.Run("rewrites downstream balances after an edit", func(t *testing.T) {
		consumableID := uuid.New()
		entryA := ledgerEntryAt(t, consumableID, EntryTypeAdd, 10, day(1))
		entryB := ledgerEntryAt(t, consumableID, EntryTypeAdd, 5, day(2))
		entryC := ledgerEntryAt(t, consumableID, EntryTypeIssue, 8, day(3))
		entries := []*LedgerEntry{entryA, entryB, entryC}
		reconciler.Replay(entries)

		// Edit the first receipt from 10 down to 6
		_, err := entryA.ChangeQuantity(6)
		require.NoError(t, err)
		result := reconciler.Replay(entries)

		assert.Equal(t, int64(11), result.AddTotal)
		assert.Equal(t, int64(8), result.IssueTotal)
		assert.Equal(t, int64(6), entryA.RemainingQuantity)
		assert.Equal(t, int64(11), entryB.RemainingQuantity)
		assert.Equal(t, int64(3), entryC.RemainingQuantity)
	})

	t.Run("skips deleted entries", func(t *testing.T) {
		consumableID := uuid.New()
		entryA := ledgerEntryAt(t, consumableID, EntryTypeAdd, 10, day(1))
		entryC := ledgerEntryAt(t, consumableID, EntryTypeIssue, 8, day(2))
		require.NoError(t, entryC.SoftDelete())

		result := reconciler.Replay([]*LedgerEntry{entryA, entryC})

		assert.Equal(t, int64(10), result.AddTotal)
		assert.Equal(t, int64(0), result.IssueTotal)
		assert.Equal(t, int64(10), entryA.RemainingQuantity)
	})

	t.Run("is idempotent on a consistent ledger", func(t *testing.T) {
		consumableID := uuid.New()
		entries := []*LedgerEntry{
			ledgerEntryAt(t, consumableID, EntryTypeAdd, 10, day(1)),
			ledgerEntryAt(t, consumableID, EntryTypeIssue, 4, day(2)),
		}
		first := reconciler.Replay(entries)
		require.Len(t, first.Changed, 2)

		second := reconciler.Replay(entries)

		assert.Empty(t, second.Changed)
		assert.Equal(t, first.AddTotal, second.AddTotal)
		assert.Equal(t, first.IssueTotal, second.IssueTotal)
	})

	t.Run("breaks same-date ties by creation time", func(t *testing.T) {
		consumableID := uuid.New()
		entryA := ledgerEntryAt(t, consumableID, EntryTypeAdd, 10, day(1))
		entryB := ledgerEntryAt(t, consumableID, EntryTypeIssue, 4, day(1))
		entryA.CreatedAt = day(1).Add(1 * time.Hour)
		entryB.CreatedAt = day(1).Add(2 * time.Hour)

		reconciler.Replay([]*LedgerEntry{entryB, entryA})

		assert.Equal(t, int64(10), entryA.RemainingQuantity)
		assert.Equal(t, int64(6), entryB.RemainingQuantity)
	})
}

func TestReconciler_Verify(t *testing.T) {
	reconciler := NewReconciler()

	t.Run("passes when totals match", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 11
		c.ClaimedQuantity = 8

		err := reconciler.Verify(c, ReplayResult{AddTotal: 11, IssueTotal: 8})

		require.NoError(t, err)
	})

	t.Run("fails when add total diverges from quantity", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 11

		err := reconciler.Verify(c, ReplayResult{AddTotal: 15, IssueTotal: 0})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "RECONCILIATION_FAILED", domainErr.Code)
	})

	t.Run("fails when issue total diverges from claimed", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 11
		c.ClaimedQuantity = 8

		err := reconciler.Verify(c, ReplayResult{AddTotal: 11, IssueTotal: 5})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "RECONCILIATION_FAILED", domainErr.Code)
	})
}

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func ledgerEntryAt(t *testing.T, consumableID uuid.UUID, entryType EntryType, quantity int64, date time.Time) *LedgerEntry {
	t.Helper()
	person := uuid.New()
	var entry *LedgerEntry
	var err error
	if entryType == EntryTypeAdd {
		entry, err = NewAddEntry(consumableID, quantity, person, "")
	} else {
		entry, err = NewIssueEntry(consumableID, quantity, &person, nil, "")
	}
	require.NoError(t, err)
	entry.WithTransactionDate(date)
	entry.CreatedAt = date
	return entry
}
