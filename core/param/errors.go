package param

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies the fatal request errors.
type Kind uint8

const (
	KindContentLength    Kind = iota + 1 // missing or unreadable Content-Length
	KindShortRead                        // body shorter than its declared length
	KindTooLarge                         // body larger than the maximum file size
	KindBoundaryNotFound                 // multipart delimiter missing before the end of the body
	KindMalformed                        // unexpected byte in a multipart header sequence
	KindBufferTooSmall                   // value longer than the caller allows
)

var kindNames = map[Kind]string{
	KindContentLength:    "content_length",
	KindShortRead:        "short_read",
	KindTooLarge:         "too_large",
	KindBoundaryNotFound: "boundary_not_found",
	KindMalformed:        "malformed_multipart",
	KindBufferTooSmall:   "buffer_too_small",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Status is the HTTP status a request failing with k is answered with.
func (k Kind) Status() int {
	switch k {
	case KindContentLength:
		return http.StatusLengthRequired
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

var (
	ErrNoFile      = errors.New("no file uploaded for parameter")
	ErrNotLinkable = errors.New("parameter cannot be passed in a link")
	ErrClosed      = errors.New("request context closed")
)

// Error is a fatal request error. The request cannot be served once one is returned.
type Error struct {
	Kind   Kind
	Param  string // parameter name, for lookup errors
	Offset int64  // byte offset in the body, for multipart errors
	Msg    string
}

func (e *Error) Error() string {
	switch {
	case e.Param != "":
		return fmt.Sprintf("param %q: %s", e.Param, e.Msg)
	case e.Kind == KindMalformed || e.Kind == KindBoundaryNotFound:
		return fmt.Sprintf("%s (at byte %d)", e.Msg, e.Offset)
	default:
		return e.Msg
	}
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func malformed(offset int64, format string, args ...interface{}) *Error {
	e := newError(KindMalformed, "malformed multipart body: "+format, args...)
	e.Offset = offset
	return e
}

// KindOf returns the Kind of a (possibly wrapped) *Error, or 0.
func KindOf(err error) Kind {
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Kind
	}
	return 0
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
