// Package audit keeps the append-only log of authentication events. The
// whole log is one serialized blob, so every append is a read-modify-write
// of the full collection.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/ingeniuz/internal/client/repositories/blobs"
	"github.com/dmitrijs2005/ingeniuz/internal/logging"
	"github.com/google/uuid"
)

// StorageKey is the blob holding the serialized log.
const StorageKey = "app_logs"

// ErrWriteFailure matches every AuditError raised by Append.
var ErrWriteFailure = errors.New("audit write failure")

type AuditError struct {
	Op  string
	Err error
}

func (e *AuditError) Error() string {
	return fmt.Sprintf("audit %s: %v", e.Op, e.Err)
}

func (e *AuditError) Unwrap() error { return e.Err }

func (e *AuditError) Is(target error) bool {
	return target == ErrWriteFailure && e.Op == "append"
}

// Log is the sink as seen by its callers.
type Log interface {
	Append(ctx context.Context, e Entry) error
	ReadAll(ctx context.Context) ([]Entry, error)
}

type Sink struct {
	mu    sync.Mutex
	repo  blobs.Repository
	log   logging.Logger
	now   func() time.Time
	newID func(time.Time) string
}

func NewSink(repo blobs.Repository, logger logging.Logger) *Sink {
	return &Sink{
		repo:  repo,
		log:   logger,
		now:   time.Now,
		newID: newID,
	}
}

// newID is the millisecond timestamp plus a random suffix.
func newID(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(t.UnixMilli(), 10) + "-" + suffix
}

// Append adds e at the end of the log. Missing ID and Timestamp are filled in.
// Concurrent appends are serialized so none is lost.
func (s *Sink) Append(ctx context.Context, e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	e.Timestamp = e.Timestamp.UTC()
	if e.ID == "" {
		e.ID = s.newID(e.Timestamp)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return &AuditError{Op: "append", Err: err}
	}

	raw, err := json.Marshal(append(entries, e))
	if err != nil {
		return &AuditError{Op: "append", Err: err}
	}
	if err := s.repo.Store(ctx, StorageKey, raw); err != nil {
		return &AuditError{Op: "append", Err: err}
	}

	s.echo(ctx, e)
	return nil
}

// ReadAll returns every entry in append order. An empty log is an empty,
// non-nil slice.
func (s *Sink) ReadAll(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, &AuditError{Op: "read", Err: err}
	}
	return entries, nil
}

func (s *Sink) load(ctx context.Context) ([]Entry, error) {
	raw, err := s.repo.Load(ctx, StorageKey)
	if errors.Is(err, blobs.ErrNotFound) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0)
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", StorageKey, err)
	}
	return entries, nil
}

func (s *Sink) echo(ctx context.Context, e Entry) {
	if s.log == nil {
		return
	}
	args := []any{"audit_id", e.ID}
	if e.UserID != "" {
		args = append(args, "user_id", e.UserID)
	}
	switch c := e.Context.(type) {
	case ActionContext:
		args = append(args, "action", c.Action)
	case FailureContext:
		if c.Action != "" {
			args = append(args, "action", c.Action)
		}
		args = append(args, "error", c.Error)
	}

	msg := "[" + string(e.Level) + "] " + e.Message
	switch e.Level {
	case LevelDebug:
		s.log.Debug(ctx, msg, args...)
	case LevelWarn:
		s.log.Warn(ctx, msg, args...)
	case LevelError:
		s.log.Error(ctx, msg, args...)
	default:
		s.log.Info(ctx, msg, args...)
	}
}
