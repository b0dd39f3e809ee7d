package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"casinobot/events"
	"casinobot/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,15}$`)

type portfolioService struct {
	uowFactory      UnitOfWorkFactory
	startingBalance decimal.Decimal
	multiplier      decimal.Decimal
	sellFee         decimal.Decimal
}

// PortfolioOption customizes the portfolio service
type PortfolioOption func(*portfolioService)

// WithSellFee charges a brokerage fee on sales as a fraction of the sale
// value, rounded up to a whole coin
func WithSellFee(rate decimal.Decimal) PortfolioOption {
	return func(s *portfolioService) {
		if rate.IsPositive() && rate.LessThan(decimal.NewFromInt(1)) {
			s.sellFee = rate
		}
	}
}

// NewPortfolioService creates the stock trading service.
// Trade value is shares * unit price * multiplier, converting quote
// currency into the bot's currency.
func NewPortfolioService(uowFactory UnitOfWorkFactory, startingBalance, multiplier decimal.Decimal, opts ...PortfolioOption) PortfolioService {
	if !multiplier.IsPositive() {
		multiplier = decimal.NewFromInt(1)
	}
	s := &portfolioService{
		uowFactory:      uowFactory,
		startingBalance: startingBalance,
		multiplier:      multiplier,
		sellFee:         decimal.Zero,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeSymbol upper-cases a ticker and validates its shape
func NormalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(symbol) {
		return "", ErrInvalidSymbol
	}
	return symbol, nil
}

func (s *portfolioService) Buy(ctx context.Context, account models.AccountID, symbol string, shares, unitPrice decimal.Decimal) (*models.TradeResult, error) {
	return s.trade(ctx, account, symbol, shares, unitPrice, true)
}

func (s *portfolioService) Sell(ctx context.Context, account models.AccountID, symbol string, shares, unitPrice decimal.Decimal) (*models.TradeResult, error) {
	return s.trade(ctx, account, symbol, shares, unitPrice, false)
}

func (s *portfolioService) trade(ctx context.Context, account models.AccountID, symbol string, shares, unitPrice decimal.Decimal, buying bool) (*models.TradeResult, error) {
	if !account.Valid() {
		return nil, ErrInvalidAccount
	}
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if !shares.IsPositive() || !shares.IsInteger() || !unitPrice.IsPositive() {
		return nil, ErrInvalidAmount
	}

	total := shares.Mul(unitPrice).Mul(s.multiplier).Round(2)
	fee := decimal.Zero
	if !buying {
		fee = total.Mul(s.sellFee).Ceil()
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, infraError("begin transaction", err)
	}
	defer uow.Rollback()

	// The ledger lock on the account also serializes share movements
	if err := uow.LedgerRepository().Lock(ctx, account); err != nil {
		return nil, infraError("lock account", err)
	}

	holding, err := uow.StockRepository().Holding(ctx, account, symbol)
	if err != nil {
		return nil, infraError("read holding", err)
	}

	p := posting{account: account, metadata: map[string]any{
		"symbol":     symbol,
		"shares":     shares.String(),
		"unit_price": unitPrice.String(),
	}}
	position := &models.StockPosition{AccountID: account, Symbol: symbol}

	if buying {
		p.delta = total.Neg()
		p.reason = fmt.Sprintf("Buying %s shares of %s", shares, symbol)
		p.kind = models.EntryKindStockBuy
		p.requireFunds = true
		position.Shares = shares
		position.Cost = total
	} else {
		if holding.Shares.LessThan(shares) {
			return nil, fmt.Errorf("%w: hold %s %s, selling %s", ErrInsufficientShares, holding.Shares, symbol, shares)
		}
		p.delta = total.Sub(fee)
		if fee.IsPositive() {
			p.metadata["fee"] = fee.String()
		}
		p.reason = fmt.Sprintf("Selling %s shares of %s", shares, symbol)
		p.kind = models.EntryKindStockSell
		position.Shares = shares.Neg()
		position.Cost = total.Neg()
	}

	balances, err := applyPostings(ctx, uow, s.startingBalance, []posting{p})
	if err != nil {
		return nil, err
	}

	if err := uow.StockRepository().Insert(ctx, position); err != nil {
		return nil, infraError("record stock position", err)
	}

	uow.EventBus().Publish(events.StockTradeEvent{
		AccountID: account,
		Symbol:    symbol,
		Shares:    position.Shares,
		Total:     total,
	})

	if err := uow.Commit(); err != nil {
		return nil, infraError("commit transaction", err)
	}

	log.WithFields(log.Fields{
		"account": account,
		"symbol":  symbol,
		"shares":  position.Shares.String(),
		"total":   total.String(),
		"fee":     fee.String(),
	}).Info("Stock trade completed")

	return &models.TradeResult{
		Symbol:     symbol,
		Shares:     shares,
		UnitPrice:  unitPrice,
		Total:      total,
		Fee:        fee,
		NewBalance: balances[account],
		Holding:    holding.Shares.Add(position.Shares),
	}, nil
}

func (s *portfolioService) Portfolio(ctx context.Context, account models.AccountID) ([]*models.Holding, error) {
	if !account.Valid() {
		return nil, ErrInvalidAccount
	}
	var holdings []*models.Holding
	err := s.read(ctx, func(uow UnitOfWork) (err error) {
		holdings, err = uow.StockRepository().Holdings(ctx, account)
		return err
	})
	return holdings, err
}

func (s *portfolioService) History(ctx context.Context, account models.AccountID, limit int) ([]*models.StockPosition, error) {
	if !account.Valid() {
		return nil, ErrInvalidAccount
	}
	if limit <= 0 {
		limit = 10
	}
	var positions []*models.StockPosition
	err := s.read(ctx, func(uow UnitOfWork) (err error) {
		positions, err = uow.StockRepository().History(ctx, account, limit)
		return err
	})
	return positions, err
}

func (s *portfolioService) MarketHoldings(ctx context.Context) ([]*models.Holding, error) {
	var holdings []*models.Holding
	err := s.read(ctx, func(uow UnitOfWork) (err error) {
		holdings, err = uow.StockRepository().MarketHoldings(ctx)
		return err
	})
	return holdings, err
}

func (s *portfolioService) read(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return infraError("begin transaction", err)
	}
	defer uow.Rollback()

	return infraError("read stock positions", fn(uow))
}
