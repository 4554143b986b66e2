package query

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// MutationState is the lifecycle of an optimistic update.
type MutationState int

const (
	MutationPending MutationState = iota
	MutationApplied
	MutationCommitted
	MutationRolledBack
)

func (s MutationState) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationApplied:
		return "applied"
	case MutationCommitted:
		return "committed"
	case MutationRolledBack:
		return "rolledBack"
	default:
		return fmt.Sprintf("MutationState(%d)", int(s))
	}
}

// ErrInvalidTransition is returned when a mutation step is called out of order.
var ErrInvalidTransition = errors.New("invalid optimistic mutation transition")

type snapshot struct {
	key         Key
	value       any
	hasValue    bool
	err         error
	updatedAt   time.Time
	invalidated bool
}

// Optimistic rewrites every cached T under a key prefix before a mutation
// is confirmed, and puts the previous values back if it fails.
//
//	pending -> applied -> committed | rolledBack
type Optimistic[T any] struct {
	c         *Client
	prefix    Key
	snapshots []snapshot
	state     MutationState
}

// NewOptimistic prepares a mutation over entries under prefix.
func NewOptimistic[T any](c *Client, prefix Key) *Optimistic[T] {
	return &Optimistic[T]{c: c, prefix: append(Key(nil), prefix...)}
}

func (o *Optimistic[T]) State() MutationState {
	return o.state
}

// Begin snapshots each entry under the prefix that holds a T and replaces
// it with update(value). In-flight fetches for those entries are discarded.
// It returns the number of entries rewritten.
func (o *Optimistic[T]) Begin(update func(T) T) (int, error) {
	if o.state != MutationPending {
		return 0, fmt.Errorf("begin from %s: %w", o.state, ErrInvalidTransition)
	}
	c := o.c
	c.mu.Lock()
	var touched []*entry
	for _, e := range c.entries {
		if !e.hasValue || !e.key.HasPrefix(o.prefix) {
			continue
		}
		if _, ok := e.value.(T); ok {
			touched = append(touched, e)
		}
	}
	sort.Slice(touched, func(i, j int) bool { return touched[i].key.String() < touched[j].key.String() })
	for _, e := range touched {
		o.snapshots = append(o.snapshots, snapshot{
			key:         e.key,
			value:       e.value,
			hasValue:    e.hasValue,
			err:         e.err,
			updatedAt:   e.updatedAt,
			invalidated: e.invalidated,
		})
		e.value = update(e.value.(T))
		e.gen++
	}
	c.mu.Unlock()

	o.state = MutationApplied
	return len(touched), nil
}

// Commit keeps the optimistic values.
func (o *Optimistic[T]) Commit() error {
	if o.state != MutationApplied {
		return fmt.Errorf("commit from %s: %w", o.state, ErrInvalidTransition)
	}
	o.state = MutationCommitted
	o.snapshots = nil
	return nil
}

// Rollback restores every snapshot exactly as it was taken.
func (o *Optimistic[T]) Rollback() error {
	if o.state != MutationApplied {
		return fmt.Errorf("rollback from %s: %w", o.state, ErrInvalidTransition)
	}
	c := o.c
	c.mu.Lock()
	for _, s := range o.snapshots {
		e := c.entryLocked(s.key)
		e.value = s.value
		e.hasValue = s.hasValue
		e.err = s.err
		e.updatedAt = s.updatedAt
		e.invalidated = s.invalidated
		e.gen++
	}
	c.mu.Unlock()
	o.state = MutationRolledBack
	o.snapshots = nil
	return nil
}

// Settle invalidates the given prefixes once the mutation has finished,
// whichever way it went.
func (o *Optimistic[T]) Settle(prefixes ...Key) error {
	if o.state != MutationCommitted && o.state != MutationRolledBack {
		return fmt.Errorf("settle from %s: %w", o.state, ErrInvalidTransition)
	}
	o.c.Invalidate(prefixes...)
	return nil
}
