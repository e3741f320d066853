package consumable

import (
	"fmt"
	"sort"

	"github.com/labstock/backend/internal/domain/shared"
)

// Reconciler replays a consumable's ledger and checks it against the stock
// record. It is a pure domain service: callers load the entries, the
// reconciler recomputes running balances in memory and reports which entries
// need to be rewritten.
type Reconciler struct{}

// NewReconciler creates a new Reconciler
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// ReplayResult contains the outcome of a full ledger replay
type ReplayResult struct {
	AddTotal   int64          // Sum of active ADD quantities
	IssueTotal int64          // Sum of active ISSUE quantities
	Changed    []*LedgerEntry // Entries whose RemainingQuantity was rewritten
}

// SortForReplay orders entries by transaction date, with creation time as the
// tiebreaker so same-day entries replay in insertion order.
func SortForReplay(entries []*LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].TransactionDate.Equal(entries[j].TransactionDate) {
			return entries[i].TransactionDate.Before(entries[j].TransactionDate)
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

// Replay walks the entries in replay order, recomputes each active entry's
// RemainingQuantity as the running add total minus the running issue total,
// and returns the totals plus every entry whose snapshot changed. Deleted
// entries keep their last snapshot and do not contribute to the totals.
// Replaying an already consistent ledger changes nothing.
func (r *Reconciler) Replay(entries []*LedgerEntry) ReplayResult {
	SortForReplay(entries)

	var result ReplayResult
	for _, entry := range entries {
		if entry.IsDeleted {
			continue
		}
		switch entry.EntryType {
		case EntryTypeAdd:
			result.AddTotal += entry.Quantity
		case EntryTypeIssue:
			result.IssueTotal += entry.Quantity
		}
		remaining := result.AddTotal - result.IssueTotal
		if entry.RemainingQuantity != remaining {
			entry.RemainingQuantity = remaining
			result.Changed = append(result.Changed, entry)
		}
	}
	return result
}

// Verify checks the replayed totals against the stock record. A mismatch
// means an earlier write went wrong and the enclosing transaction must abort.
func (r *Reconciler) Verify(c *Consumable, result ReplayResult) error {
	if result.AddTotal != c.Quantity {
		return shared.NewDomainError("RECONCILIATION_FAILED",
			fmt.Sprintf("Ledger ADD total %d does not match quantity %d", result.AddTotal, c.Quantity))
	}
	if result.IssueTotal != c.ClaimedQuantity {
		return shared.NewDomainError("RECONCILIATION_FAILED",
			fmt.Sprintf("Ledger ISSUE total %d does not match claimed quantity %d", result.IssueTotal, c.ClaimedQuantity))
	}
	if c.ClaimedQuantity > c.Quantity {
		return shared.NewDomainError("RECONCILIATION_FAILED", "Claimed quantity exceeds total quantity")
	}
	return nil
}
