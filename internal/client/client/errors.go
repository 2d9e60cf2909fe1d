package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnreachable  = errors.New("server unreachable")
	ErrRejected     = errors.New("request rejected")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidPath  = errors.New("path must be relative to the base URL")
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorKind classifies gateway failures.
type ErrorKind int

const (
	KindUnreachable ErrorKind = iota + 1
	KindRejected
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindRejected:
		return "rejected"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is returned by the Gateway for every failed request.
type Error struct {
	Kind   ErrorKind
	Method string
	Path   string
	Status int
	Body   []byte
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnreachable:
		return fmt.Sprintf("%s %s: server unreachable: %v", e.Method, e.Path, e.Err)
	default:
		msg := e.Message()
		if msg == "" {
			return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Path, e.Kind, e.Status)
		}
		return fmt.Sprintf("%s %s: %s (status %d): %s", e.Method, e.Path, e.Kind, e.Status, msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match kinds with the package sentinels. A Forbidden error
// is also a rejection.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnreachable:
		return e.Kind == KindUnreachable
	case ErrRejected:
		return e.Kind == KindRejected || e.Kind == KindForbidden
	case ErrForbidden:
		return e.Kind == KindForbidden
	}
	return false
}

// Message extracts a human readable message from the response body. It
// understands the {"detail"}, {"error"}, {"message"}, {"msg"} shapes and
// field-error maps such as {"email": ["already exists"]}; anything else is
// returned as trimmed text.
func (e *Error) Message() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return ""
	}

	var obj map[string]any
	if err := json.Unmarshal(e.Body, &obj); err != nil {
		return body
	}
	for _, k := range []string{"detail", "error", "message", "msg"} {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return body
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
