package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/erazemk/lostmate/internal/storage"
)

// persister writes collection snapshots on a single goroutine, in the order
// they were scheduled. When writes fall behind only the newest pending
// snapshot is kept, so the last write always carries the latest state.
type persister struct {
	adapter storage.Adapter
	key     string
	timeout time.Duration
	log     zerolog.Logger

	mu        sync.Mutex
	pending   []byte
	pendSeq   uint64
	scheduled uint64
	written   uint64
	progress  chan struct{} // closed and replaced whenever written advances
	closed    bool

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
}

func newPersister(adapter storage.Adapter, key string, timeout time.Duration, log zerolog.Logger) *persister {
	p := &persister{
		adapter:  adapter,
		key:      key,
		timeout:  timeout,
		log:      log,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// schedule queues blob for writing and returns immediately.
func (p *persister) schedule(blob []byte) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		persistFailuresTotal.Inc()
		p.log.Warn().Int("bytes", len(blob)).Msg("store closed, snapshot not persisted")
		return
	}
	p.scheduled++
	p.pending = blob
	p.pendSeq = p.scheduled
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// flush waits until every snapshot scheduled before the call has been handled.
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.scheduled
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if p.written >= target {
			p.mu.Unlock()
			return nil
		}
		ch := p.progress
		p.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close drains pending work and stops the goroutine. It is idempotent.
func (p *persister) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.stop)
	p.wg.Wait()
}

func (p *persister) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.stop:
			p.drain()
			return
		}
	}
}

func (p *persister) drain() {
	for {
		p.mu.Lock()
		if p.pending == nil {
			p.mu.Unlock()
			return
		}
		blob, seq := p.pending, p.pendSeq
		p.pending = nil
		p.mu.Unlock()

		p.write(blob)

		p.mu.Lock()
		p.written = seq
		close(p.progress)
		p.progress = make(chan struct{})
		p.mu.Unlock()
	}
}

func (p *persister) write(blob []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.adapter.Write(ctx, p.key, blob); err != nil {
		persistFailuresTotal.Inc()
		p.log.Error().Stack().Err(err).Str("key", p.key).Int("bytes", len(blob)).Msg("persisting items failed")
		return
	}
	persistWritesTotal.Inc()
	p.log.Debug().Str("key", p.key).Int("bytes", len(blob)).Msg("items persisted")
}
