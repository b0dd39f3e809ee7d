package wager

import (
	"context"
	"fmt"
	"sync"

	"casinobot/admission"
	"casinobot/events"
	"casinobot/models"

	log "github.com/sirupsen/logrus"
)

// Table admits new sessions and runs them in the background until they
// close or the table shuts down
type Table struct {
	limiter admission.Limiter
	inputs  Awaiter
	bus     *events.Bus

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTable(limiter admission.Limiter, inputs Awaiter, bus *events.Bus) *Table {
	ctx, cancel := context.WithCancel(context.Background())
	return &Table{
		limiter: limiter,
		inputs:  inputs,
		bus:     bus,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Open admits the session for owner and starts it. It returns
// admission.ErrUserBusy or admission.ErrGameFull without starting anything.
// done, if not nil, receives the result once the session closes.
func (t *Table) Open(ctx context.Context, owner models.AccountID, s *Session, ledger Ledger, surface Surface, done func(models.GameResult)) error {
	if t.ctx.Err() != nil {
		return fmt.Errorf("table is closed")
	}
	release, err := t.limiter.Acquire(ctx, owner, s.Rules().Kind())
	if err != nil {
		return err
	}

	runner := NewRunner(ledger, surface, t.inputs, t.bus)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer release()
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"session": s.ID,
					"panic":   r,
				}).Error("Wager session panicked")
			}
		}()

		result := runner.Run(t.ctx, s)
		if done != nil {
			done(result)
		}
	}()
	return nil
}

// Close cancels every running session, which refunds their stakes, and
// waits for them to finish
func (t *Table) Close() {
	t.cancel()
	t.wg.Wait()
}
