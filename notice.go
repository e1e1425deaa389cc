package campusdesk

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// NoticeLevel classifies a user-visible outcome.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a transient user-visible message, the toast of the portals.
type Notice struct {
	ID      string      `json:"id"`
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
	// Op names the operation that produced the notice, e.g. "complaint.status".
	Op string `json:"op,omitempty"`
	// Origin is the surface the operation came from, see [WithRequestOrigin].
	Origin string `json:"origin,omitempty"`
}

func newNotice(level NoticeLevel, op, message string, at time.Time) Notice {
	return Notice{
		ID:      ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String(),
		Level:   level,
		Message: message,
		At:      at,
		Op:      op,
	}
}

// NoticeSink receives notices from the dispatcher goroutine.
type NoticeSink interface {
	Emit(ctx context.Context, n Notice)
}

// NoOpSink discards notices.
type NoOpSink struct{}

// Emit does nothing.
func (NoOpSink) Emit(context.Context, Notice) {}

// ChannelSink forwards notices to a buffered channel.
type ChannelSink struct {
	notices chan Notice
}

// NewChannelSink returns a ChannelSink with the given buffer, at least 1.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		notices: make(chan Notice, buffer),
	}
}

// Emit blocks until the notice is buffered or ctx is done.
func (s *ChannelSink) Emit(ctx context.Context, n Notice) {
	select {
	case s.notices <- n:
	case <-ctx.Done():
	}
}

// Notices returns the receive side.
func (s *ChannelSink) Notices() <-chan Notice {
	return s.notices
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink returns a sink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit writes n. Encoding and write failures are dropped.
func (s *JSONWriterSink) Emit(ctx context.Context, n Notice) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// LogSink logs notices, errors at warn level and the rest at info.
type LogSink struct {
	Logger *zap.Logger
}

// Emit logs n.
func (s LogSink) Emit(_ context.Context, n Notice) {
	if s.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("notice_id", n.ID),
		zap.String("op", n.Op),
		zap.String("origin", n.Origin),
		zap.String("level", string(n.Level)),
	}
	if n.Level == NoticeError {
		s.Logger.Warn(n.Message, fields...)
		return
	}
	s.Logger.Info(n.Message, fields...)
}

// MultiSink fans a notice out to every sink in order.
type MultiSink []NoticeSink

// Emit calls each sink.
func (m MultiSink) Emit(ctx context.Context, n Notice) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, n)
		}
	}
}
