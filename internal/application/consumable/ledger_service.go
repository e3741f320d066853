package consumable

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/labstock/backend/internal/domain/consumable"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/telemetry"
)

// LedgerService handles all ledger mutations for consumables: receiving
// stock, issuing it, and correcting past entries. Every mutation runs inside
// a single database transaction and ends with a full replay of the ledger,
// so a request either leaves the ledger and the stock record consistent or
// changes nothing at all.
//
// Operations on the same consumable are additionally serialized in-process:
// the replay reads and rewrites many rows and two concurrent reconciliations
// for one consumable would abort each other.
type LedgerService struct {
	consumableRepo consumable.ConsumableRepository
	ledgerRepo     consumable.LedgerEntryRepository
	txScope        TransactionScope
	reconciler     *consumable.Reconciler
	eventPublisher shared.EventPublisher
	locks          *keyedMutex
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	consumableRepo consumable.ConsumableRepository,
	ledgerRepo consumable.LedgerEntryRepository,
	txScope TransactionScope,
) *LedgerService {
	return &LedgerService{
		consumableRepo: consumableRepo,
		ledgerRepo:     ledgerRepo,
		txScope:        txScope,
		reconciler:     consumable.NewReconciler(),
		locks:          newKeyedMutex(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AddStock records received stock. The target consumable is resolved by ID
// or by name within a category; when neither matches an existing record a
// new consumable is created in the same transaction.
func (s *LedgerService) AddStock(ctx context.Context, req AddStockRequest) (*LedgerEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "add_stock")
	defer span.End()

	target, created, err := s.resolveTarget(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		"consumable.id", target.ID.String(),
		"consumable.created", created,
		"quantity", req.Quantity,
	)

	s.locks.Lock(target.ID)
	defer s.locks.Unlock(target.ID)

	var (
		entry  *consumable.LedgerEntry
		events []shared.DomainEvent
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		c := target
		if created {
			if err := repos.ConsumableRepo().Save(ctx, c); err != nil {
				return err
			}
		} else {
			var err error
			c, err = repos.ConsumableRepo().FindByIDForUpdate(ctx, target.ID)
			if err != nil {
				return err
			}
		}

		if req.ReferenceNumber != "" {
			inUse, err := repos.LedgerRepo().ExistsActiveReference(ctx, consumable.EntryTypeAdd, req.ReferenceNumber, uuid.Nil)
			if err != nil {
				return err
			}
			if inUse {
				return shared.ErrDuplicateReference
			}
		}

		entry, err = consumable.NewAddEntry(c.ID, req.Quantity, req.AddedByID, req.ReferenceNumber)
		if err != nil {
			return err
		}
		if req.UnitPrice != nil {
			entry.WithUnitPrice(*req.UnitPrice)
			if err := c.SetUnitPrice(*req.UnitPrice); err != nil {
				return err
			}
		}
		if req.VendorID != nil {
			entry.WithVendorID(*req.VendorID)
		}
		if req.Note != "" {
			entry.WithNote(req.Note)
		}
		if req.TransactionDate != nil {
			entry.WithTransactionDate(*req.TransactionDate)
		}

		if err := c.ApplyQuantityDelta(req.Quantity); err != nil {
			return err
		}
		entry.RemainingQuantity = c.AvailableQuantity()

		if err := repos.LedgerRepo().Save(ctx, entry); err != nil {
			return err
		}
		if err := repos.ConsumableRepo().Save(ctx, c); err != nil {
			return err
		}

		c.AddDomainEvent(consumable.NewStockAddedEvent(c, entry))
		events = s.collectEvents(c)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, "entry.id", entry.ID.String())

	s.publish(ctx, events)
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// IssueStock hands stock out to a lab member. A request with multiple lines
// is treated as one issue slip: all its entries share a generated issue
// group ID and the whole slip succeeds or fails together.
func (s *LedgerService) IssueStock(ctx context.Context, req IssueStockRequest) ([]LedgerEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "issue_stock")
	defer span.End()
	telemetry.SetAttributes(span, "lines", len(req.Lines))

	if (req.IssuedByID == nil || *req.IssuedByID == uuid.Nil) && (req.IssuedToID == nil || *req.IssuedToID == uuid.Nil) {
		err := shared.NewDomainError("INVALID_INPUT", "An issue requires at least one person reference")
		telemetry.RecordError(span, err)
		return nil, err
	}

	groupID := ""
	if len(req.Lines) > 1 {
		groupID = "GRP-" + uuid.NewString()
	}

	ids := make([]uuid.UUID, 0, len(req.Lines))
	for _, line := range req.Lines {
		ids = append(ids, line.ConsumableID)
	}
	unlock := s.lockAll(ids)
	defer unlock()

	var (
		entries []*consumable.LedgerEntry
		events  []shared.DomainEvent
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if req.ReferenceNumber != "" {
			inUse, err := repos.LedgerRepo().ExistsActiveReference(ctx, consumable.EntryTypeIssue, req.ReferenceNumber, uuid.Nil)
			if err != nil {
				return err
			}
			if inUse {
				return shared.ErrDuplicateReference
			}
		}

		for _, line := range req.Lines {
			c, err := repos.ConsumableRepo().FindByIDForUpdate(ctx, line.ConsumableID)
			if err != nil {
				return err
			}

			if err := c.ApplyClaimedDelta(line.Quantity); err != nil {
				return err
			}

			entry, err := consumable.NewIssueEntry(c.ID, line.Quantity, req.IssuedByID, req.IssuedToID, req.ReferenceNumber)
			if err != nil {
				return err
			}
			if groupID != "" {
				entry.WithIssueGroupID(groupID)
			}
			if req.Note != "" {
				entry.WithNote(req.Note)
			}
			if req.TransactionDate != nil {
				entry.WithTransactionDate(*req.TransactionDate)
			}
			entry.RemainingQuantity = c.AvailableQuantity()

			if err := repos.LedgerRepo().Save(ctx, entry); err != nil {
				return err
			}
			if err := repos.ConsumableRepo().Save(ctx, c); err != nil {
				return err
			}

			c.AddDomainEvent(consumable.NewStockIssuedEvent(c, entry))
			events = append(events, s.collectEvents(c)...)
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, events)
	responses := make([]LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToLedgerEntryResponse(entry))
	}
	return responses, nil
}

// DeleteEntry soft-deletes a ledger entry and rolls its effect out of the
// stock totals. Deleting one entry of a multi-line issue slip deletes every
// entry of that slip. The whole operation is atomic: if any affected
// consumable would end up with negative totals, nothing is deleted.
func (s *LedgerService) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "delete_entry")
	defer span.End()
	telemetry.SetAttributes(span, "entry.id", entryID.String())

	entry, err := s.ledgerRepo.FindByID(ctx, entryID)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if entry.IsDeleted {
		telemetry.RecordError(span, shared.ErrAlreadyDeleted)
		return shared.ErrAlreadyDeleted
	}

	consumableIDs := []uuid.UUID{entry.ConsumableID}
	if entry.IsBatchIssue() {
		group, err := s.ledgerRepo.FindActiveByIssueGroup(ctx, entry.IssueGroupID)
		if err != nil {
			return err
		}
		seen := map[uuid.UUID]bool{}
		consumableIDs = consumableIDs[:0]
		for _, e := range group {
			if !seen[e.ConsumableID] {
				seen[e.ConsumableID] = true
				consumableIDs = append(consumableIDs, e.ConsumableID)
			}
		}
	}
	unlock := s.lockAll(consumableIDs)
	defer unlock()

	var events []shared.DomainEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		target, err := repos.LedgerRepo().FindByID(ctx, entryID)
		if err != nil {
			return err
		}
		if target.IsDeleted {
			return shared.ErrAlreadyDeleted
		}

		victims := []*consumable.LedgerEntry{target}
		if target.IsBatchIssue() {
			victims, err = repos.LedgerRepo().FindActiveByIssueGroup(ctx, target.IssueGroupID)
			if err != nil {
				return err
			}
		}

		// Group the doomed entries per consumable so each stock record is
		// locked, adjusted and replayed exactly once.
		byConsumable := map[uuid.UUID][]*consumable.LedgerEntry{}
		for _, v := range victims {
			byConsumable[v.ConsumableID] = append(byConsumable[v.ConsumableID], v)
		}

		for consumableID, group := range byConsumable {
			c, err := repos.ConsumableRepo().FindByIDForUpdate(ctx, consumableID)
			if err != nil {
				return err
			}

			entryIDs := make([]uuid.UUID, 0, len(group))
			for _, v := range group {
				if err := v.SoftDelete(); err != nil {
					return err
				}
				switch v.EntryType {
				case consumable.EntryTypeAdd:
					if err := c.ApplyQuantityDelta(-v.Quantity); err != nil {
						return err
					}
				case consumable.EntryTypeIssue:
					if err := c.ApplyClaimedDelta(-v.Quantity); err != nil {
						return err
					}
				}
				if err := repos.LedgerRepo().Save(ctx, v); err != nil {
					return err
				}
				entryIDs = append(entryIDs, v.ID)
			}

			if err := s.replayAndVerify(ctx, repos, c); err != nil {
				return err
			}
			if err := repos.ConsumableRepo().Save(ctx, c); err != nil {
				return err
			}

			c.AddDomainEvent(consumable.NewLedgerEntryDeletedEvent(c, target.EntryType, entryIDs))
			events = append(events, s.collectEvents(c)...)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.publish(ctx, events)
	return nil
}

// EditEntry corrects a ledger entry in place. The quantity delta is applied
// to the stock totals, the full ledger is replayed so every later entry's
// running balance is rewritten, and the replayed totals are verified against
// the stock record. Any violation aborts the transaction.
func (s *LedgerService) EditEntry(ctx context.Context, entryID uuid.UUID, req EditEntryRequest) (*LedgerEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "edit_entry")
	defer span.End()
	telemetry.SetAttributes(span, "entry.id", entryID.String())

	existing, err := s.ledgerRepo.FindByID(ctx, entryID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if existing.IsDeleted {
		telemetry.RecordError(span, shared.ErrAlreadyDeleted)
		return nil, shared.ErrAlreadyDeleted
	}

	s.locks.Lock(existing.ConsumableID)
	defer s.locks.Unlock(existing.ConsumableID)

	var (
		entry  *consumable.LedgerEntry
		events []shared.DomainEvent
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err = repos.LedgerRepo().FindByID(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.IsDeleted {
			return shared.ErrAlreadyDeleted
		}

		c, err := repos.ConsumableRepo().FindByIDForUpdate(ctx, entry.ConsumableID)
		if err != nil {
			return err
		}

		if req.ReferenceNumber != nil && *req.ReferenceNumber != entry.ReferenceNumber {
			if *req.ReferenceNumber != "" {
				inUse, err := repos.LedgerRepo().ExistsActiveReference(ctx, entry.EntryType, *req.ReferenceNumber, entry.ID)
				if err != nil {
					return err
				}
				if inUse {
					return shared.ErrDuplicateReference
				}
			}
			if err := entry.ChangeReference(*req.ReferenceNumber); err != nil {
				return err
			}
		}

		var delta int64
		if req.Quantity != nil {
			delta, err = entry.ChangeQuantity(*req.Quantity)
			if err != nil {
				return err
			}
			switch entry.EntryType {
			case consumable.EntryTypeAdd:
				if err := c.ApplyQuantityDelta(delta); err != nil {
					return err
				}
			case consumable.EntryTypeIssue:
				if err := c.ApplyClaimedDelta(delta); err != nil {
					return err
				}
			}
		}

		if req.AddedByID != nil || req.IssuedByID != nil || req.IssuedToID != nil {
			addedBy := entry.AddedByID
			issuedBy := entry.IssuedByID
			issuedTo := entry.IssuedToID
			if req.AddedByID != nil {
				addedBy = req.AddedByID
			}
			if req.IssuedByID != nil {
				issuedBy = req.IssuedByID
			}
			if req.IssuedToID != nil {
				issuedTo = req.IssuedToID
			}
			if err := entry.SetPersonRefs(addedBy, issuedBy, issuedTo); err != nil {
				return err
			}
		}
		if req.Note != nil {
			entry.WithNote(*req.Note)
		}

		if err := repos.LedgerRepo().Save(ctx, entry); err != nil {
			return err
		}

		if err := s.replayAndVerify(ctx, repos, c); err != nil {
			return err
		}
		if err := repos.ConsumableRepo().Save(ctx, c); err != nil {
			return err
		}

		c.AddDomainEvent(consumable.NewLedgerEntryEditedEvent(c, entry, delta))
		events = s.collectEvents(c)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, events)
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// GetEntry returns a single ledger entry
func (s *LedgerService) GetEntry(ctx context.Context, entryID uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// ListLedger returns the ledger of a consumable, newest first by default
func (s *LedgerService) ListLedger(ctx context.Context, consumableID uuid.UUID, filter LedgerListFilter) (*shared.Paginated[LedgerEntryResponse], error) {
	if _, err := s.consumableRepo.FindByID(ctx, consumableID); err != nil {
		return nil, err
	}

	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	} else {
		f.OrderBy = "transaction_date"
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.EntryType != "" {
		f.Filters["entry_type"] = filter.EntryType
	}
	if !filter.IncludeDeleted {
		f.Filters["is_deleted"] = false
	}

	entries, err := s.ledgerRepo.FindByConsumable(ctx, consumableID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.ledgerRepo.CountByConsumable(ctx, consumableID, f)
	if err != nil {
		return nil, err
	}

	items := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, ToLedgerEntryResponse(&entries[i]))
	}
	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}

// replayAndVerify re-fetches the surviving ledger, recomputes every running
// balance, persists the rewritten snapshots and checks the totals against
// the stock record. Called as the last step of every correcting mutation.
func (s *LedgerService) replayAndVerify(ctx context.Context, repos TransactionalRepositories, c *consumable.Consumable) error {
	entries, err := repos.LedgerRepo().FindActiveByConsumable(ctx, c.ID)
	if err != nil {
		return err
	}
	result := s.reconciler.Replay(entries)
	if len(result.Changed) > 0 {
		if err := repos.LedgerRepo().SaveAll(ctx, result.Changed); err != nil {
			return err
		}
	}
	return s.reconciler.Verify(c, result)
}

// resolveTarget finds or builds the consumable an ADD request refers to.
// The returned bool reports whether the record is new and still unsaved.
func (s *LedgerService) resolveTarget(ctx context.Context, req AddStockRequest) (*consumable.Consumable, bool, error) {
	if req.ConsumableID != nil && *req.ConsumableID != uuid.Nil {
		c, err := s.consumableRepo.FindByID(ctx, *req.ConsumableID)
		if err != nil {
			return nil, false, err
		}
		return c, false, nil
	}
	if req.Name == "" || req.CategoryID == nil || *req.CategoryID == uuid.Nil {
		return nil, false, shared.NewDomainError("INVALID_INPUT", "Either consumable_id or name and category_id are required")
	}

	c, err := s.consumableRepo.FindByNameAndCategory(ctx, req.Name, *req.CategoryID)
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	created, err := consumable.NewConsumable(req.Name, *req.CategoryID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// lockAll acquires the per-consumable locks in a stable order so two slips
// touching the same consumables cannot deadlock against each other.
func (s *LedgerService) lockAll(ids []uuid.UUID) func() {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})
	for _, id := range unique {
		s.locks.Lock(id)
	}
	return func() {
		for i := len(unique) - 1; i >= 0; i-- {
			s.locks.Unlock(unique[i])
		}
	}
}

func (s *LedgerService) collectEvents(c *consumable.Consumable) []shared.DomainEvent {
	events := c.GetDomainEvents()
	c.ClearDomainEvents()
	return events
}

func (s *LedgerService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Event delivery is best effort, the transaction has already committed
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_ = s.eventPublisher.Publish(publishCtx, events...)
}
