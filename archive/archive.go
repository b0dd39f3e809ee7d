// Package archive stores the results of finished wager sessions.
package archive

import (
	"context"
	"fmt"

	"casinobot/events"
	"casinobot/models"
	"casinobot/service"

	log "github.com/sirupsen/logrus"
)

// Sink persists a finished game. Saving the same session twice is a no-op.
type Sink interface {
	Save(ctx context.Context, result *models.GameResult) error
}

// RepositorySink saves results in the ledger's own backend
type RepositorySink struct {
	uowFactory service.UnitOfWorkFactory
}

func NewRepositorySink(uowFactory service.UnitOfWorkFactory) *RepositorySink {
	return &RepositorySink{uowFactory: uowFactory}
}

func (s *RepositorySink) Save(ctx context.Context, result *models.GameResult) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GameResultRepository().Save(ctx, result); err != nil {
		return fmt.Errorf("failed to save game result: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit game result: %w", err)
	}
	return nil
}

// Recent returns the newest results of one game kind
func (s *RepositorySink) Recent(ctx context.Context, kind models.GameKind, limit int) ([]*models.GameResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	results, err := uow.GameResultRepository().Recent(ctx, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent results: %w", err)
	}
	return results, nil
}

// Subscribe archives every GameFinishedEvent emitted on bus
func Subscribe(bus *events.Bus, sink Sink) {
	bus.Subscribe(events.EventTypeGameFinished, func(ctx context.Context, event events.Event) {
		finished, ok := event.(events.GameFinishedEvent)
		if !ok {
			return
		}
		result := finished.Result
		if err := sink.Save(ctx, &result); err != nil {
			log.WithFields(log.Fields{
				"session": result.SessionID,
				"kind":    result.Kind,
				"error":   err,
			}).Error("Failed to archive game result")
		}
	})
}
