package service

import (
	"context"
	"sync"
	"time"

	"github.com/nikolayk812/storefront-core/internal/port"
	"github.com/sirupsen/logrus"
)

type write struct {
	value  []byte
	delete bool
}

// persister writes cart snapshots in the background. Only the latest pending
// snapshot is kept; an older one still waiting is replaced, never written after a newer one.
type persister struct {
	store   port.KeyValueStore
	key     string
	timeout time.Duration
	logger  *logrus.Logger
	baseCtx context.Context

	mu      sync.Mutex
	pending *write
	closed  bool

	wake      chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func newPersister(ctx context.Context, store port.KeyValueStore, key string, timeout time.Duration, logger *logrus.Logger) *persister {
	p := &persister{
		store:   store,
		key:     key,
		timeout: timeout,
		logger:  logger,
		baseCtx: context.WithoutCancel(ctx),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *persister) schedule(w write) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.WithField("key", p.key).Warn("cart persistence is closed, write dropped")
		return
	}
	p.pending = &w
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.stopped)

	for {
		select {
		case <-p.wake:
			p.flush()
		case <-p.done:
			p.flush()
			return
		}
	}
}

func (p *persister) flush() {
	p.mu.Lock()
	w := p.pending
	p.pending = nil
	p.mu.Unlock()

	if w == nil {
		return
	}

	ctx, cancel := context.WithTimeout(p.baseCtx, p.timeout)
	defer cancel()

	var err error
	if w.delete {
		err = p.store.Delete(ctx, p.key)
	} else {
		err = p.store.Set(ctx, p.key, w.value)
	}
	if err != nil {
		p.logger.WithError(err).WithField("key", p.key).Warn("cart persistence failed")
		return
	}

	p.logger.WithFields(logrus.Fields{
		"key":    p.key,
		"delete": w.delete,
		"bytes":  len(w.value),
	}).Debug("cart persisted")
}

// close writes the pending snapshot and stops the writer goroutine.
func (p *persister) close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		close(p.done)
	})

	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
