package consumable

import (
	"context"

	"github.com/labstock/backend/internal/domain/consumable"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories involved in a
// reconciliation unit of work. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// ConsumableRepo returns the consumable repository scoped to the current transaction
	ConsumableRepo() consumable.ConsumableRepository
	// LedgerRepo returns the ledger entry repository scoped to the current transaction
	LedgerRepo() consumable.LedgerEntryRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	consumableRepo consumable.ConsumableRepository
	ledgerRepo     consumable.LedgerEntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	consumableRepo consumable.ConsumableRepository,
	ledgerRepo consumable.LedgerEntryRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		consumableRepo: consumableRepo,
		ledgerRepo:     ledgerRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ConsumableRepo returns the consumable repository.
func (s *NoOpTransactionScope) ConsumableRepo() consumable.ConsumableRepository {
	return s.consumableRepo
}

// LedgerRepo returns the ledger entry repository.
func (s *NoOpTransactionScope) LedgerRepo() consumable.LedgerEntryRepository {
	return s.ledgerRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
