// Package interaction routes button presses to the session waiting for them.
package interaction

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"casinobot/models"

	log "github.com/sirupsen/logrus"
)

// ErrTimeout is returned by Await when the deadline passes first
var ErrTimeout = errors.New("timed out waiting for input")

// Interaction is one user input on a message
type Interaction struct {
	MessageID string
	User      models.AccountID
	Token     string
}

// Filter selects the interactions a waiter accepts. Empty Users or Tokens
// accept anything.
type Filter struct {
	MessageID string
	Users     []models.AccountID
	Tokens    []string
}

// Matches reports whether the filter accepts in
func (f Filter) Matches(in Interaction) bool {
	if in.MessageID != f.MessageID {
		return false
	}
	if len(f.Users) > 0 && !slices.Contains(f.Users, in.User) {
		return false
	}
	if len(f.Tokens) > 0 && !slices.Contains(f.Tokens, in.Token) {
		return false
	}
	return true
}

type waiter struct {
	filter Filter
	ch     chan Interaction
}

// Dispatcher hands each delivered interaction to at most one waiter
type Dispatcher struct {
	mu      sync.Mutex
	waiters map[uint64]*waiter
	next    uint64
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{waiters: make(map[uint64]*waiter)}
}

// Await blocks until an interaction matching f is delivered, the timeout
// passes, or ctx is cancelled.
func (d *Dispatcher) Await(ctx context.Context, f Filter, timeout time.Duration) (Interaction, error) {
	w := &waiter{filter: f, ch: make(chan Interaction, 1)}

	d.mu.Lock()
	d.next++
	id := d.next
	d.waiters[id] = w
	d.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var cause error
	select {
	case in := <-w.ch:
		return in, nil
	case <-timer.C:
		cause = ErrTimeout
	case <-ctx.Done():
		cause = ctx.Err()
	}

	d.mu.Lock()
	_, pending := d.waiters[id]
	delete(d.waiters, id)
	d.mu.Unlock()

	// Deliver won the race and already removed the waiter
	if !pending {
		return <-w.ch, nil
	}
	return Interaction{}, cause
}

// Deliver passes in to the oldest matching waiter. It returns false when
// nobody is waiting for it, and the interaction is dropped.
func (d *Dispatcher) Deliver(in Interaction) bool {
	d.mu.Lock()
	var (
		match   *waiter
		matchID uint64
	)
	for id, w := range d.waiters {
		if w.filter.Matches(in) && (match == nil || id < matchID) {
			match, matchID = w, id
		}
	}
	if match != nil {
		delete(d.waiters, matchID)
	}
	d.mu.Unlock()

	if match == nil {
		log.WithFields(log.Fields{
			"messageID": in.MessageID,
			"user":      in.User,
			"token":     in.Token,
		}).Debug("Ignoring interaction with no waiter")
		return false
	}
	match.ch <- in
	return true
}

// Waiting returns the number of registered waiters
func (d *Dispatcher) Waiting() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.waiters)
}
