package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Context is the structured payload of an entry. The set of shapes is closed:
// only the types in this package implement it.
type Context interface {
	Kind() string
	isContext()
}

// ActionContext names the operation an attempt entry is about.
type ActionContext struct {
	Action string `json:"action"`
}

func (ActionContext) Kind() string { return "action" }
func (ActionContext) isContext()   {}

// FailureContext carries the failing error's message verbatim.
type FailureContext struct {
	Action string `json:"action,omitempty"`
	Error  string `json:"error"`
}

func (FailureContext) Kind() string { return "failure" }
func (FailureContext) isContext()   {}

// Entry is immutable once appended. UserID and Context are optional: the
// zero value means absent.
type Entry struct {
	ID        string
	Timestamp time.Time
	Level     Level
	Message   string
	UserID    string
	Context   Context
}

type wireEntry struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Level     Level           `json:"level"`
	Message   string          `json:"message"`
	UserID    string          `json:"userId,omitempty"`
	Context   json.RawMessage `json:"context,omitempty"`
}

type wireContext struct {
	Kind   string `json:"kind"`
	Action string `json:"action,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	w := wireEntry{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Level:     e.Level,
		Message:   e.Message,
		UserID:    e.UserID,
	}
	if e.Context != nil {
		wc := wireContext{Kind: e.Context.Kind()}
		switch c := e.Context.(type) {
		case ActionContext:
			wc.Action = c.Action
		case FailureContext:
			wc.Action = c.Action
			wc.Error = c.Error
		}
		raw, err := json.Marshal(wc)
		if err != nil {
			return nil, err
		}
		w.Context = raw
	}
	return json.Marshal(w)
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var w wireEntry
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = Entry{
		ID:        w.ID,
		Timestamp: w.Timestamp,
		Level:     w.Level,
		Message:   w.Message,
		UserID:    w.UserID,
	}
	if len(w.Context) == 0 || string(w.Context) == "null" {
		return nil
	}

	var wc wireContext
	if err := json.Unmarshal(w.Context, &wc); err != nil {
		return err
	}
	switch wc.Kind {
	case "action":
		e.Context = ActionContext{Action: wc.Action}
	case "failure":
		e.Context = FailureContext{Action: wc.Action, Error: wc.Error}
	default:
		return fmt.Errorf("unknown audit context kind %q", wc.Kind)
	}
	return nil
}
