package inventory

import (
	"context"
	"sync"
)

// Service puts the allocator behind the same call boundary a remote
// inventory service would have. If the catalog ever moves out of process,
// this is the seam a network client slots into.
type Service struct {
	alloc *Allocator

	mu       sync.RWMutex
	failWith error
	calls    int
}

func NewService(alloc *Allocator) *Service {
	return &Service{alloc: alloc}
}

// FailWith makes every subsequent Reserve call fail with err until cleared
// with nil. Used to exercise retry and breaker behavior.
func (s *Service) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Calls returns how many Reserve calls reached the service.
func (s *Service) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

func (s *Service) Reserve(ctx context.Context, orderID string, lines []LineRequest) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.calls++
	failWith := s.failWith
	s.mu.Unlock()

	if failWith != nil {
		return nil, failWith
	}

	return s.alloc.Reserve(orderID, lines), nil
}
