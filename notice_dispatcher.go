package campusdesk

import (
	"context"
	"sync"
	"sync/atomic"
)

type noticeDispatcher struct {
	cfg       NoticesConfig
	sink      NoticeSink
	ch        chan Notice
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newNoticeDispatcher(cfg NoticesConfig, sink NoticeSink) *noticeDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &noticeDispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan Notice, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *noticeDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case n := <-d.ch:
			d.sink.Emit(context.Background(), n)
		case <-d.done:
			for {
				select {
				case n := <-d.ch:
					d.sink.Emit(context.Background(), n)
				default:
					return
				}
			}
		}
	}
}

// Emit queues n. With DropIfFull a full queue drops the notice and counts it; otherwise
// Emit waits for room, ctx or Close.
func (d *noticeDispatcher) Emit(ctx context.Context, n Notice) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- n:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- n:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close drains queued notices into the sink and stops the dispatcher. It is idempotent.
func (d *noticeDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

func (d *noticeDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
