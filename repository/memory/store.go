// Package memory keeps the ledger in process memory. It backs unit tests and
// throwaway deployments; a restart forgets every balance.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"casinobot/events"
	"casinobot/models"
	"casinobot/service"

	"github.com/shopspring/decimal"
)

// Store holds committed rows. One unit of work runs at a time: Begin takes
// the store lock and Commit or Rollback releases it.
type Store struct {
	txLock sync.Mutex

	mu        sync.RWMutex
	nextID    int64
	ledger    map[models.AccountID][]*models.LedgerEntry
	positions []*models.StockPosition
	results   []*models.GameResult
	seen      map[string]bool
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		ledger: make(map[models.AccountID][]*models.LedgerEntry),
		seen:   make(map[string]bool),
	}
}

// NewUnitOfWorkFactory creates units of work over the store
func NewUnitOfWorkFactory(store *Store, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{store: store, eventBus: eventBus}
}

type unitOfWorkFactory struct {
	store    *Store
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		store:            f.store,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

type unitOfWork struct {
	store            *Store
	active           bool
	ctx              context.Context
	transactionalBus *events.TransactionalBus

	entries   []*models.LedgerEntry
	positions []*models.StockPosition
	results   []*models.GameResult
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.txLock.Lock()
	u.active = true
	u.ctx = ctx
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}

	s := u.store
	s.mu.Lock()
	for _, e := range u.entries {
		s.ledger[e.AccountID] = append(s.ledger[e.AccountID], e)
	}
	s.positions = append(s.positions, u.positions...)
	for _, r := range u.results {
		if !s.seen[r.SessionID.String()] {
			s.seen[r.SessionID.String()] = true
			s.results = append(s.results, r)
		}
	}
	s.mu.Unlock()

	u.reset()
	return u.transactionalBus.Flush(u.ctx)
}

func (u *unitOfWork) Rollback() error {
	if !u.active {
		return nil
	}
	u.reset()
	u.transactionalBus.Discard()
	return nil
}

func (u *unitOfWork) reset() {
	u.entries, u.positions, u.results = nil, nil, nil
	u.active = false
	u.store.txLock.Unlock()
}

func (u *unitOfWork) mustBegin() {
	if !u.active {
		panic("unit of work not started - call Begin() first")
	}
}

func (u *unitOfWork) LedgerRepository() service.LedgerRepository {
	u.mustBegin()
	return ledgerRepository{u}
}

func (u *unitOfWork) StockRepository() service.StockRepository {
	u.mustBegin()
	return stockRepository{u}
}

func (u *unitOfWork) GameResultRepository() service.GameResultRepository {
	u.mustBegin()
	return gameResultRepository{u}
}

func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}

// ledgerRepository reads committed rows followed by this transaction's staged rows
type ledgerRepository struct{ u *unitOfWork }

// Lock is a no-op; the store lock already serializes transactions
func (r ledgerRepository) Lock(ctx context.Context, account models.AccountID) error {
	return nil
}

func (r ledgerRepository) entries(account models.AccountID) []*models.LedgerEntry {
	r.u.store.mu.RLock()
	all := append([]*models.LedgerEntry(nil), r.u.store.ledger[account]...)
	r.u.store.mu.RUnlock()
	for _, e := range r.u.entries {
		if e.AccountID == account {
			all = append(all, e)
		}
	}
	return all
}

func (r ledgerRepository) Latest(ctx context.Context, account models.AccountID) (*models.LedgerEntry, error) {
	all := r.entries(account)
	if len(all) == 0 {
		return nil, nil
	}
	latest := *all[len(all)-1]
	return &latest, nil
}

func (r ledgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	s := r.u.store
	s.mu.Lock()
	s.nextID++
	entry.ID = s.nextID
	s.mu.Unlock()
	entry.CreatedAt = time.Now().UTC()

	stored := *entry
	r.u.entries = append(r.u.entries, &stored)
	return nil
}

func (r ledgerRepository) History(ctx context.Context, account models.AccountID, limit int) ([]*models.LedgerEntry, error) {
	all := r.entries(account)
	var out []*models.LedgerEntry
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		e := *all[i]
		out = append(out, &e)
	}
	return out, nil
}

type stockRepository struct{ u *unitOfWork }

func (r stockRepository) all() []*models.StockPosition {
	r.u.store.mu.RLock()
	all := append([]*models.StockPosition(nil), r.u.store.positions...)
	r.u.store.mu.RUnlock()
	return append(all, r.u.positions...)
}

func (r stockRepository) Insert(ctx context.Context, position *models.StockPosition) error {
	s := r.u.store
	s.mu.Lock()
	s.nextID++
	position.ID = s.nextID
	s.mu.Unlock()
	position.CreatedAt = time.Now().UTC()

	stored := *position
	r.u.positions = append(r.u.positions, &stored)
	return nil
}

func (r stockRepository) Holding(ctx context.Context, account models.AccountID, symbol string) (*models.Holding, error) {
	h := &models.Holding{Symbol: symbol}
	for _, p := range r.all() {
		if p.AccountID == account && p.Symbol == symbol {
			h.Shares = h.Shares.Add(p.Shares)
			h.Cost = h.Cost.Add(p.Cost)
		}
	}
	return h, nil
}

func (r stockRepository) Holdings(ctx context.Context, account models.AccountID) ([]*models.Holding, error) {
	return sumHoldings(r.all(), func(p *models.StockPosition) bool { return p.AccountID == account }), nil
}

func (r stockRepository) History(ctx context.Context, account models.AccountID, limit int) ([]*models.StockPosition, error) {
	all := r.all()
	var out []*models.StockPosition
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		if all[i].AccountID == account {
			p := *all[i]
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r stockRepository) MarketHoldings(ctx context.Context) ([]*models.Holding, error) {
	holdings := sumHoldings(r.all(), func(*models.StockPosition) bool { return true })
	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].Shares.GreaterThan(holdings[j].Shares)
	})
	return holdings, nil
}

// sumHoldings groups positions by symbol, drops flat symbols and orders by symbol
func sumHoldings(positions []*models.StockPosition, include func(*models.StockPosition) bool) []*models.Holding {
	bySymbol := make(map[string]*models.Holding)
	for _, p := range positions {
		if !include(p) {
			continue
		}
		h, ok := bySymbol[p.Symbol]
		if !ok {
			h = &models.Holding{Symbol: p.Symbol, Shares: decimal.Zero, Cost: decimal.Zero}
			bySymbol[p.Symbol] = h
		}
		h.Shares = h.Shares.Add(p.Shares)
		h.Cost = h.Cost.Add(p.Cost)
	}

	out := make([]*models.Holding, 0, len(bySymbol))
	for _, h := range bySymbol {
		if !h.Shares.IsZero() {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

type gameResultRepository struct{ u *unitOfWork }

func (r gameResultRepository) Save(ctx context.Context, result *models.GameResult) error {
	stored := *result
	r.u.results = append(r.u.results, &stored)
	return nil
}

func (r gameResultRepository) Recent(ctx context.Context, kind models.GameKind, limit int) ([]*models.GameResult, error) {
	r.u.store.mu.RLock()
	defer r.u.store.mu.RUnlock()

	var out []*models.GameResult
	for i := len(r.u.store.results) - 1; i >= 0 && len(out) < limit; i-- {
		if r.u.store.results[i].Kind == kind {
			res := *r.u.store.results[i]
			out = append(out, &res)
		}
	}
	return out, nil
}
