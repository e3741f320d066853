package persistence

import (
	"context"

	"gorm.io/gorm"

	appconsumable "github.com/labstock/backend/internal/application/consumable"
	"github.com/labstock/backend/internal/domain/consumable"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appconsumable.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to repositories scoped to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ConsumableRepo returns the consumable repository scoped to the current transaction
func (r *gormTransactionalRepositories) ConsumableRepo() consumable.ConsumableRepository {
	return NewGormConsumableRepository(r.tx)
}

// LedgerRepo returns the ledger entry repository scoped to the current transaction
func (r *gormTransactionalRepositories) LedgerRepo() consumable.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appconsumable.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appconsumable.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
