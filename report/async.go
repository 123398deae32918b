package report

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

var _ Sink = (*AsyncSink)(nil)

// AsyncSink queues reports and forwards them to another sink from a single
// goroutine, in order. Emit only blocks while the queue is full.
//
// Close stops intake, waits until every queued report has been forwarded and
// returns the errors the downstream sink produced.
type AsyncSink struct {
	SinkId string

	ctx    context.Context
	next   Sink
	queue  chan Report
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	errs   error
}

func NewAsyncSink(ctx context.Context, bufferSize int, next Sink) *AsyncSink {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	s := &AsyncSink{
		SinkId: uuid.New().String(),
		ctx:    ctx,
		next:   next,
		queue:  make(chan Report, bufferSize),
		done:   make(chan struct{}),
	}
	go s.drain()
	return s
}

func (s *AsyncSink) drain() {
	defer close(s.done)
	for r := range s.queue {
		if err := s.next.Emit(s.ctx, r); err != nil {
			s.errs = multierr.Append(s.errs, err)
		}
	}
}

func (s *AsyncSink) Emit(ctx context.Context, r Report) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	select {
	case s.queue <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AsyncSink) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	<-s.done
	return s.errs
}
