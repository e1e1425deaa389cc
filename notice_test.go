package campusdesk

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, Notice) {
	s.count.Add(1)
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, Notice) {
	<-s.gate
}

func TestNoticeDisabledReturnsNilDispatcher(t *testing.T) {
	d := newNoticeDispatcher(NoticesConfig{Enabled: false}, &countingSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when notices are disabled")
	}
	d.Emit(context.Background(), Notice{Message: "ignored"})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reports no drops")
	}
}

func TestNoticeIDsAreULIDs(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	n := newNotice(NoticeSuccess, "login", "Login successful", at)

	id, err := ulid.ParseStrict(n.ID)
	if err != nil {
		t.Fatalf("notice id %q is not a ULID: %v", n.ID, err)
	}
	if got := ulid.Time(id.Time()); !got.Equal(at) {
		t.Fatalf("ulid time %v, want %v", got, at)
	}
	if other := newNotice(NoticeSuccess, "login", "again", at); other.ID == n.ID {
		t.Fatal("notice ids must be unique")
	}
}

func TestNoticeBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	dispatcher := newNoticeDispatcher(NoticesConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), Notice{Message: "n1"})
	dispatcher.Emit(context.Background(), Notice{Message: "n2"})

	start := time.Now()
	dispatcher.Emit(context.Background(), Notice{Message: "n3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if dispatcher.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
}

func TestNoticeBufferFullDropIfFullFalseBlocksUntilSpace(t *testing.T) {
	sink := newGateSink()
	dispatcher := newNoticeDispatcher(NoticesConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: false,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), Notice{Message: "n1"})
	dispatcher.Emit(context.Background(), Notice{Message: "n2"})

	done := make(chan struct{})
	go func() {
		dispatcher.Emit(context.Background(), Notice{Message: "n3"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while buffer is full")
	case <-time.After(150 * time.Millisecond):
	}

	sink.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected blocked emit to proceed after space is available")
	}
}

func TestNoticeCloseDrainsQueue(t *testing.T) {
	sink := &countingSink{}
	dispatcher := newNoticeDispatcher(NoticesConfig{Enabled: true, BufferSize: 8, DropIfFull: true}, sink)

	for i := 0; i < 5; i++ {
		dispatcher.Emit(context.Background(), Notice{Message: "n"})
	}
	dispatcher.Close()

	if got := sink.count.Load(); got != 5 {
		t.Fatalf("expected 5 delivered notices after close, got %d", got)
	}
}

func TestNoticeDispatcherCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	dispatcher := newNoticeDispatcher(NoticesConfig{
		Enabled:    true,
		BufferSize: 4,
		DropIfFull: true,
	}, &countingSink{})

	dispatcher.Emit(context.Background(), Notice{Message: "n1"})
	dispatcher.Close()
	dispatcher.Close()
	dispatcher.Emit(context.Background(), Notice{Message: "n2"})
}

func TestJSONWriterSinkWritesJSONLines(t *testing.T) {
	var buf syncBuffer
	sink := NewJSONWriterSink(&buf)
	sink.Emit(context.Background(), Notice{
		ID:      "01HZZZZZZZZZZZZZZZZZZZZZZZ",
		Level:   NoticeError,
		Message: "Please provide a remark",
		At:      time.Now().UTC(),
		Op:      "complaint.status",
	})

	if !buf.Contains(`"level":"error"`) {
		t.Fatal("expected JSON line to contain the level")
	}
	if !buf.Contains(`"op":"complaint.status"`) {
		t.Fatal("expected JSON line to contain the op")
	}
	if !buf.Contains("\n") {
		t.Fatal("expected newline-terminated output")
	}
}

func TestLogSinkLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := LogSink{Logger: zap.New(core)}

	sink.Emit(context.Background(), Notice{Level: NoticeSuccess, Message: "ok", Op: "login"})
	sink.Emit(context.Background(), Notice{Level: NoticeError, Message: "bad", Op: "login"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[1].Level != zap.WarnLevel {
		t.Fatalf("unexpected levels %v %v", entries[0].Level, entries[1].Level)
	}
	if entries[1].ContextMap()["op"] != "login" {
		t.Fatalf("expected op field, got %v", entries[1].ContextMap())
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	MultiSink{a, nil, b}.Emit(context.Background(), Notice{Message: "x"})
	if a.count.Load() != 1 || b.count.Load() != 1 {
		t.Fatal("expected every sink to receive the notice")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) Contains(v string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Contains(string(b.buf), v)
}
